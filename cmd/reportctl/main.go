// Command reportctl prints the bookstore summary reports as JSON.
//
// It reads the same configuration as the server (config.toml and BOOKSTORE_*
// environment variables) and queries the database directly.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	reportapp "github.com/bookstore/backend/internal/application/report"
	"github.com/bookstore/backend/internal/domain/report"
	"github.com/bookstore/backend/internal/infrastructure/config"
	"github.com/bookstore/backend/internal/infrastructure/logger"
	"github.com/bookstore/backend/internal/infrastructure/persistence"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// openFunc builds the report service and returns a function releasing its resources
type openFunc func() (*reportapp.ReportService, func() error, error)

func main() {
	if err := newRootCmd(openFromConfig).Execute(); err != nil {
		os.Exit(1)
	}
}

func openFromConfig() (*reportapp.ReportService, func() error, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	// Reports go to stdout, so logs stay on stderr
	log, err := logger.New(&logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: "stderr"})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	dbCfg := cfg.Database
	dbCfg.AutoMigrate = false
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level), dbCfg.SlowThreshold)
	db, err := persistence.NewDatabaseWithLogger(&dbCfg, gormLog)
	if err != nil {
		return nil, nil, err
	}
	log.Debug("Database connected", zap.String("driver", db.Driver))

	svc := reportapp.NewReportService(persistence.NewGormBookstoreReportRepository(db.DB), log)
	return svc, func() error {
		_ = log.Sync()
		return db.Close()
	}, nil
}

func newRootCmd(open openFunc) *cobra.Command {
	var (
		svc     *reportapp.ReportService
		closeFn func() error
		pretty  bool
	)

	root := &cobra.Command{
		Use:           "reportctl",
		Short:         "Print bookstore reports as JSON",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			svc, closeFn, err = open()
			return err
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if closeFn == nil {
				return nil
			}
			return closeFn()
		},
	}
	root.PersistentFlags().BoolVar(&pretty, "pretty", false, "indent the JSON output")

	emit := func(cmd *cobra.Command, rows any, err error) error {
		if err != nil {
			return err
		}
		return writeJSON(cmd.OutOrStdout(), rows, pretty)
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "authors",
			Short: "Number of books per author",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				rows, err := svc.AuthorBookCounts(cmd.Context())
				return emit(cmd, rows, err)
			},
		},
		&cobra.Command{
			Use:   "customers",
			Short: "Invoice count and billed total per customer",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				rows, err := svc.CustomerInvoiceTotals(cmd.Context())
				return emit(cmd, rows, err)
			},
		},
		newDailyCmd(func(cmd *cobra.Command, r report.DateRange) error {
			rows, err := svc.DailyRevenue(cmd.Context(), r)
			return emit(cmd, rows, err)
		}),
		&cobra.Command{
			Use:   "invoices",
			Short: "Every invoice with its customer, newest first",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				rows, err := svc.InvoiceSummaries(cmd.Context())
				return emit(cmd, rows, err)
			},
		},
		&cobra.Command{
			Use:   "lines",
			Short: "Every invoice line with its book title",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				rows, err := svc.InvoiceLineSummaries(cmd.Context())
				return emit(cmd, rows, err)
			},
		},
	)
	return root
}

func newDailyCmd(run func(*cobra.Command, report.DateRange) error) *cobra.Command {
	var from, to string
	cmd := &cobra.Command{
		Use:   "daily",
		Short: "Revenue per issue date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var r report.DateRange
			var err error
			if r.From, err = parseDay("from", from); err != nil {
				return err
			}
			if r.To, err = parseDay("to", to); err != nil {
				return err
			}
			return run(cmd, r)
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "first issue date, "+time.DateOnly)
	cmd.Flags().StringVar(&to, "to", "", "last issue date, "+time.DateOnly)
	return cmd
}

func parseDay(flag, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	day, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return nil, fmt.Errorf("--%s must be a date (%s): %w", flag, time.DateOnly, err)
	}
	return &day, nil
}

func writeJSON(w io.Writer, v any, pretty bool) error {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}
