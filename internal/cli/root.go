// Package cli implements accessctl, the operator command line for the
// dashboard database.
package cli

import (
	"context"
	"fmt"

	"accessdash/internal/bootstrap"
	"accessdash/internal/config"
	"accessdash/internal/filter"
	"accessdash/internal/query"
	"accessdash/internal/repository"
	"accessdash/internal/service"

	"github.com/spf13/cobra"
)

// Services is what the commands need from the runtime.
type Services struct {
	Reports *service.ReportService
	Listing *service.ListingService
}

// OpenFunc builds the services and returns a function releasing them.
type OpenFunc func(ctx context.Context) (*Services, func(), error)

// OpenFromConfig loads configuration and connects to the configured stores.
func OpenFromConfig(ctx context.Context) (*Services, func(), error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	rt, err := bootstrap.InitRuntime(ctx, cfg, bootstrap.Options{SkipRedis: true})
	if err != nil {
		return nil, nil, err
	}
	composer := query.NewComposer()
	repo := repository.NewReportRepository(rt.DB, rt.ReadDB)
	return &Services{
		Reports: service.NewReportService(repo, composer),
		Listing: service.NewListingService(repo, composer),
	}, rt.Close, nil
}

type filterFlags struct {
	startDate  string
	endDate    string
	department string
	system     string
	status     string
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.startDate, "start", "", "inclusive start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.endDate, "end", "", "inclusive end date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.department, "department", "", "department name")
	cmd.Flags().StringVar(&f.system, "system", "", "system name")
	cmd.Flags().StringVar(&f.status, "status", "", "request status")
}

func (f *filterFlags) raw() filter.Raw {
	return filter.Raw{
		StartDate:  f.startDate,
		EndDate:    f.endDate,
		Department: f.department,
		System:     f.system,
		Status:     f.status,
	}
}

// NewRootCommand assembles accessctl. open is called once per command run.
func NewRootCommand(open OpenFunc) *cobra.Command {
	root := &cobra.Command{
		Use:           "accessctl",
		Short:         "Access request dashboard operator tool",
		Long:          "Query dashboard metrics and export access requests straight from the database.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newMetricsCommand(open), newExportCommand(open))
	return root
}
