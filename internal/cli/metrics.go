package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"accessdash/internal/models"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newMetricsCommand(open OpenFunc) *cobra.Command {
	var filters filterFlags
	var output string

	cmd := &cobra.Command{
		Use:   "metrics",
		Short: "Print dashboard summary metrics",
		Long:  "Print the dashboard summary metrics for the filtered requests as a table, JSON or YAML.",
		RunE: func(cmd *cobra.Command, args []string) error {
			format := strings.ToLower(strings.TrimSpace(output))
			if format != "table" && format != "json" && format != "yaml" {
				return fmt.Errorf("unsupported output %q: use table, json or yaml", output)
			}

			svcs, closeFn, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			metrics, err := svcs.Reports.Metrics(cmd.Context(), filters.raw())
			if err != nil {
				return err
			}
			return writeMetrics(cmd.OutOrStdout(), format, metrics)
		},
	}
	filters.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "table", "output format: table, json or yaml")
	return cmd
}

func writeMetrics(w io.Writer, format string, m *models.DashboardMetrics) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(m)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(m); err != nil {
			return err
		}
		return enc.Close()
	}

	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintf(tw, "Total:\t%d\n", m.TotalRequests)
	fmt.Fprintf(tw, "Pending:\t%d\n", m.PendingRequests)
	fmt.Fprintf(tw, "Approved:\t%d\n", m.ApprovedRequests)
	fmt.Fprintf(tw, "Rejected:\t%d\n", m.RejectedRequests)
	fmt.Fprintf(tw, "Cancelled:\t%d\n", m.CancelledRequests)
	fmt.Fprintf(tw, "Avg processing (h):\t%s\n", optional(m.AvgProcessingTime))
	fmt.Fprintf(tw, "Approval rate (%%):\t%s\n", optional(m.ApprovalRate))
	fmt.Fprintf(tw, "SLA met rate (%%):\t%s\n", optional(m.SLAMetRate))
	return tw.Flush()
}

func optional(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f", *v)
}
