// Command climatewatch-admin provides operational helpers for the
// climatewatch database: migrations, job inspection, and manual cleanup.
package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"

	jmespath "github.com/jmespath-community/go-jmespath"

	"github.com/clearskies/climatewatch/config"
	"github.com/clearskies/climatewatch/internal/bootstrap"
	"github.com/clearskies/climatewatch/internal/data"
	"github.com/clearskies/climatewatch/internal/service"
	"github.com/clearskies/climatewatch/internal/util"
)

type commandFn func(ctx *commandContext, args []string) error

type command struct {
	name        string
	description string
	run         commandFn
}

type commandContext struct {
	Ctx    context.Context
	Logger *slog.Logger
	Config config.AppConfig
}

const defaultMigrationTimeout = 5 * time.Minute

func main() {
	logger := bootstrap.InitLogger()

	if len(os.Args) < 2 {
		if err := printUsage(); err != nil {
			logger.Error("print usage failed", "error", err)
		}
		os.Exit(2) //nolint:forbidigo // CLI must exit with failure status when no command is provided
	}

	cmdName := os.Args[1]
	cmd, ok := commands()[cmdName]
	if !ok {
		if err := writef(os.Stderr, "unknown command %q\n\n", cmdName); err != nil {
			logger.Error("print unknown command message failed", "error", err)
		}
		if err := printUsage(); err != nil {
			logger.Error("print usage failed", "error", err)
		}
		os.Exit(2) //nolint:forbidigo // CLI must exit with failure status when command is unknown
	}

	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		logger.ErrorContext(context.Background(), "load config", "error", err)
		os.Exit(1) //nolint:forbidigo // CLI must signal configuration load failure to shell scripts
	}

	cmdCtx := &commandContext{
		Ctx:    context.Background(),
		Logger: logger,
		Config: cfg,
	}
	if runErr := cmd.run(cmdCtx, os.Args[2:]); runErr != nil {
		logger.ErrorContext(cmdCtx.Ctx, "command failed", "command", cmdName, "error", runErr)
		os.Exit(1) //nolint:forbidigo // CLI must propagate command execution failure to callers
	}
}

func commands() map[string]command {
	return map[string]command{
		"migrate": {
			name:        "migrate",
			description: "Run database migrations",
			run:         runMigrateCommand,
		},
		"list-jobs": {
			name:        "list-jobs",
			description: "List recently created monitoring jobs",
			run:         runListJobs,
		},
		"inspect-job": {
			name:        "inspect-job",
			description: "Print one job as JSON, optionally filtered with a JMESPath query",
			run:         runInspectJob,
		},
		"reap": {
			name:        "reap",
			description: "Run one cleanup pass (expire unpaid, delete old records)",
			run:         runReapOnce,
		},
	}
}

func printUsage() error {
	if err := writef(os.Stdout, "Usage: climatewatch-admin <command> [flags]\n\n"); err != nil {
		return err
	}
	if err := writef(os.Stdout, "Available commands:\n"); err != nil {
		return err
	}
	for _, c := range commands() {
		if err := writef(os.Stdout, "  %-14s %s\n", c.name, c.description); err != nil {
			return err
		}
	}
	return nil
}

func writef(w io.Writer, format string, args ...any) error {
	_, err := fmt.Fprintf(w, format, args...)
	return err
}

func connectDB(ctx *commandContext) (*sql.DB, error) {
	db, err := bootstrap.ConnectDB(bootstrap.DatabaseConfig{
		DBConfig: ctx.Config.Postgres,
		Logger:   ctx.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}
	return db, nil
}

func closeDB(ctx *commandContext, db *sql.DB) {
	if err := db.Close(); err != nil {
		ctx.Logger.Error("close db failed", "error", err)
	}
}

func runMigrateCommand(ctx *commandContext, _ []string) error {
	db, err := connectDB(ctx)
	if err != nil {
		return err
	}
	defer closeDB(ctx, db)

	migrateCtx, cancel := context.WithTimeout(ctx.Ctx, defaultMigrationTimeout)
	defer cancel()

	return bootstrap.RunMigrations(migrateCtx, db, ctx.Logger)
}

func runListJobs(ctx *commandContext, args []string) error {
	fs := flag.NewFlagSet("list-jobs", flag.ContinueOnError)
	limit := fs.Int("limit", 20, "maximum number of jobs to list")
	if err := fs.Parse(args); err != nil {
		return err
	}

	db, err := connectDB(ctx)
	if err != nil {
		return err
	}
	defer closeDB(ctx, db)

	repo := data.NewMonitoringJobRepo(db)
	jobs, err := repo.ListRecent(ctx.Ctx, *limit)
	if err != nil {
		return fmt.Errorf("list jobs: %w", err)
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	if err := writef(tw, "JOB ID\tIDENTIFIER\tLOCATION\tSTATUS\tPAID\tAMOUNT\tCREATED\n"); err != nil {
		return err
	}
	for _, job := range jobs {
		amount := "-"
		if len(job.Amounts) > 0 {
			amount = util.FormatAmount(job.Amounts[0].Amount, job.Amounts[0].Unit)
		}
		if err := writef(tw, "%s\t%s\t%s\t%s\t%t\t%s\t%s\n",
			util.Truncate(job.JobID, 24),
			job.PurchaserIdentifier,
			util.Truncate(job.Location, 20),
			job.Status,
			job.AmountPaid,
			amount,
			job.CreatedAt.Format(time.RFC3339),
		); err != nil {
			return err
		}
	}
	return tw.Flush()
}

func runInspectJob(ctx *commandContext, args []string) error {
	fs := flag.NewFlagSet("inspect-job", flag.ContinueOnError)
	query := fs.String("query", "", "JMESPath expression applied to the job document")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("usage: inspect-job [-query <jmespath>] <job-id>")
	}
	jobID := fs.Arg(0)

	db, err := connectDB(ctx)
	if err != nil {
		return err
	}
	defer closeDB(ctx, db)

	repo := data.NewMonitoringJobRepo(db)
	job, err := repo.GetByJobID(ctx.Ctx, jobID)
	if err != nil {
		return fmt.Errorf("get job %s: %w", jobID, err)
	}

	doc, err := toDocument(job)
	if err != nil {
		return err
	}
	if *query != "" {
		doc, err = jmespath.Search(*query, doc)
		if err != nil {
			return fmt.Errorf("evaluate query %q: %w", *query, err)
		}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// toDocument round-trips a value through JSON so JMESPath sees plain maps
// and slices instead of struct types.
func toDocument(v any) (any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal document: %w", err)
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal document: %w", err)
	}
	return doc, nil
}

func runReapOnce(ctx *commandContext, _ []string) error {
	db, err := connectDB(ctx)
	if err != nil {
		return err
	}
	defer closeDB(ctx, db)

	reaper, err := service.NewReaperService(service.ReaperServiceOptions{
		Repo:   data.NewMonitoringJobRepo(db),
		Config: ctx.Config.Reaper,
		Logger: ctx.Logger,
	})
	if err != nil {
		return err
	}

	if err := reaper.RunCleanup(ctx.Ctx); err != nil {
		return err
	}
	return writef(os.Stdout, "cleanup pass finished\n")
}
