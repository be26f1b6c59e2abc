package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newExportCommand(open OpenFunc) *cobra.Command {
	var filters filterFlags
	var format, out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export access requests",
		Long:  "Export the filtered access requests as CSV or JSON, the same file the API download produces.",
		RunE: func(cmd *cobra.Command, args []string) error {
			svcs, closeFn, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			file, err := svcs.Listing.Export(cmd.Context(), format, filters.raw())
			if err != nil {
				return err
			}

			if out == "" || out == "-" {
				_, err = cmd.OutOrStdout().Write(file.Body)
				return err
			}
			if err := os.WriteFile(out, file.Body, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %d requests to %s\n", file.Rows, out)
			return nil
		},
	}
	filters.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", "csv", "csv or json")
	cmd.Flags().StringVar(&out, "out", "", "output file (default stdout)")
	return cmd
}
