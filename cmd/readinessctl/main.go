// Command readinessctl runs assessment operations against the configured
// store without going through the HTTP API.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bryanwahyu/ai-readiness/internal/application/assessments"
	"github.com/bryanwahyu/ai-readiness/internal/bootstrap"
	"github.com/bryanwahyu/ai-readiness/internal/config"
	"github.com/bryanwahyu/ai-readiness/internal/domain/assessment"
	"github.com/bryanwahyu/ai-readiness/internal/infra/db/migrations"
	"github.com/bryanwahyu/ai-readiness/internal/middleware"
	"github.com/bryanwahyu/ai-readiness/internal/report"
)

var (
	configPath  string
	logLevel    string
	confirm     bool
	skipScoring bool
	format      string
	outPath     string
)

var rootCmd = &cobra.Command{
	Use:           "readinessctl",
	Short:         "Operate the AI readiness assessment store",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations and print the schema version",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(app *bootstrap.App) error {
			version, dirty, err := migrations.Version(app.DB, app.Store.Dialect().Name())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "schema version %d (dirty=%t)\n", version, dirty)
			return nil
		})
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a CSV or XLSX questionnaire",
	Long: `Import a questionnaire file and score sections 1-5.

An existing company with the same name is only replaced when --confirm
is given. Use --skip-scoring to store the answers without calling the
AI provider.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		return withApp(cmd.Context(), func(app *bootstrap.App) error {
			res, err := app.Service.Import(cmd.Context(), assessments.ImportCommand{
				Filename:    filepath.Base(args[0]),
				Data:        data,
				Confirmed:   confirm,
				SkipScoring: skipScoring,
			})
			if errors.Is(err, assessment.ErrCompanyExists) {
				return fmt.Errorf("%q already exists as company %d; rerun with --confirm to replace it", res.CompanyName, res.CompanyID)
			}
			if err != nil {
				return err
			}
			return printJSON(cmd, res)
		})
	},
}

var scoreCmd = &cobra.Command{
	Use:   "score <company-id> [section]",
	Short: "Score one section, or all of sections 1-5",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := middleware.ParseCompanyID(args[0])
		if err != nil {
			return err
		}
		var section assessment.Section
		if len(args) == 2 {
			if section, err = middleware.ParseSectionParam(args[1]); err != nil {
				return err
			}
		}
		return withApp(cmd.Context(), func(app *bootstrap.App) error {
			if section == 0 {
				res, err := app.Service.CalculateAll(cmd.Context(), id)
				if err != nil {
					return err
				}
				return printJSON(cmd, res)
			}
			sc, err := app.Service.Score(cmd.Context(), id, section)
			if err != nil {
				return err
			}
			return printJSON(cmd, sc)
		})
	},
}

var reportCmd = &cobra.Command{
	Use:   "report <company-id>",
	Short: "Write a PDF or XLSX report for a company",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := middleware.ParseCompanyID(args[0])
		if err != nil {
			return err
		}
		return withApp(cmd.Context(), func(app *bootstrap.App) error {
			doc, err := app.Service.Report(cmd.Context(), id, format)
			if err != nil {
				return err
			}
			out := outPath
			if out == "" {
				out = doc.Filename
			}
			if err := os.WriteFile(out, doc.Data, 0o644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d bytes)\n", out, len(doc.Data))
			return nil
		})
	},
}

var templateCmd = &cobra.Command{
	Use:   "template",
	Short: "Write the blank questionnaire CSV",
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := report.TemplateCSV()
		if err != nil {
			return err
		}
		if outPath == "" {
			_, err = cmd.OutOrStdout().Write(data)
			return err
		}
		return os.WriteFile(outPath, data, 0o644)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "Path to config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override the configured log level")

	importCmd.Flags().BoolVar(&confirm, "confirm", false, "Replace an existing company with the same name")
	importCmd.Flags().BoolVar(&skipScoring, "skip-scoring", false, "Store answers without scoring")
	reportCmd.Flags().StringVarP(&format, "format", "f", assessments.FormatPDF, "Report format (pdf or xlsx)")
	reportCmd.Flags().StringVarP(&outPath, "out", "o", "", "Output file (defaults to the generated report name)")
	templateCmd.Flags().StringVarP(&outPath, "out", "o", "", "Output file (defaults to stdout)")

	rootCmd.AddCommand(migrateCmd, importCmd, scoreCmd, reportCmd, templateCmd)
}

// withApp loads configuration, opens the store and runs fn.
func withApp(ctx context.Context, fn func(*bootstrap.App) error) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	log, err := bootstrap.Logger(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		return err
	}
	defer log.Sync()

	app, err := bootstrap.Open(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.Warn("close store", zap.Error(err))
		}
	}()
	return fn(app)
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
