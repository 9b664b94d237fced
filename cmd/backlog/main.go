// backlog runs the scoring and scheduling pipeline against CSV exports
// without a database.
//
//	backlog score --cases cases.csv --out prioritized.csv
//	backlog schedule --cases cases.csv --judges judges.csv --config engine.yaml --start 2026-11-02 --out-dir out/
//	backlog token --subject ops --ttl 24h
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/linesmerrill/hearing-scheduler/api"
	"github.com/linesmerrill/hearing-scheduler/config"
	"github.com/linesmerrill/hearing-scheduler/engine"
	"github.com/linesmerrill/hearing-scheduler/logging"
	"github.com/linesmerrill/hearing-scheduler/models"
	"github.com/linesmerrill/hearing-scheduler/tables"
)

// exitConfig is returned for bad input or configuration, exitFailure for everything else
const (
	exitFailure = 1
	exitConfig  = 2
)

type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }
func (e *exitError) ExitCode() int { return e.code }

func usageError(format string, args ...interface{}) error {
	return &exitError{code: exitConfig, err: fmt.Errorf(format, args...)}
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		var coder interface{ ExitCode() int }
		if errors.As(err, &coder) {
			os.Exit(coder.ExitCode())
		}
		if errors.Is(err, models.ErrConfiguration) {
			os.Exit(exitConfig)
		}
		os.Exit(exitFailure)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		printUsage(stderr)
		return usageError("missing command")
	}

	switch args[0] {
	case "score":
		return runScore(args[1:], stdout, stderr)
	case "schedule":
		return runSchedule(args[1:], stdout, stderr)
	case "token":
		return runToken(args[1:], stdout, stderr)
	case "help", "-h", "--help":
		printUsage(stdout)
		return nil
	default:
		printUsage(stderr)
		return usageError("unknown command %q", args[0])
	}
}

func printUsage(w io.Writer) {
	fmt.Fprint(w, `Usage: backlog <command> [flags]

Commands:
  score      rank pending cases and write the prioritized table
  schedule   build a hearing schedule with metrics and a markdown report
  token      issue an API token for the scheduler endpoints
`)
}

// setupLogger installs a CLI logger as the zap global so library packages log through it
func setupLogger(debug bool) func() {
	logger := logging.New(debug)
	undo := zap.ReplaceGlobals(logger.Desugar())
	return func() {
		_ = logger.Sync()
		undo()
	}
}

func runScore(args []string, stdout, stderr io.Writer) error {
	var casesPath, outPath, configPath string
	var debug bool

	flagSet := pflag.NewFlagSet("backlog score", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.StringVar(&casesPath, "cases", "", "pending cases CSV (required)")
	flagSet.StringVar(&outPath, "out", "", "prioritized CSV output, stdout when empty")
	flagSet.StringVar(&configPath, "config", "", "engine YAML config")
	flagSet.BoolVar(&debug, "debug", false, "development logging")
	if err := flagSet.Parse(args); err != nil {
		return err
	}
	if casesPath == "" {
		return usageError("--cases is required")
	}
	defer setupLogger(debug)()

	settings, err := config.LoadEngine(configPath)
	if err != nil {
		return err
	}
	eng, err := engine.New(settings)
	if err != nil {
		return err
	}

	cases, err := readCases(casesPath)
	if err != nil {
		return err
	}
	scores, summary := eng.Score(cases)

	out, closeOut, err := create(outPath, stdout)
	if err != nil {
		return err
	}
	defer closeOut()
	if err := tables.WritePriorities(out, scores); err != nil {
		return err
	}

	zap.S().Infow("scored cases",
		"scored", summary.Scored,
		"duplicates", summary.Duplicates,
		"imputed", summary.Imputed,
	)
	return nil
}

func runSchedule(args []string, stdout, stderr io.Writer) error {
	var casesPath, judgesPath, configPath, outDir, startText, strategy string
	var windowDays int
	var budget time.Duration
	var debug bool

	flagSet := pflag.NewFlagSet("backlog schedule", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.StringVar(&casesPath, "cases", "", "pending cases CSV (required)")
	flagSet.StringVar(&judgesPath, "judges", "", "judge roster CSV (required)")
	flagSet.StringVar(&configPath, "config", "", "engine YAML config")
	flagSet.StringVar(&outDir, "out-dir", ".", "directory for schedule.csv, metrics.json and report.md")
	flagSet.StringVar(&startText, "start", "", "first day of the window as YYYY-MM-DD, tomorrow when empty")
	flagSet.StringVar(&strategy, "strategy", "", "exact or heuristic, overrides the config")
	flagSet.IntVar(&windowDays, "days", 0, "window length in days, overrides the config")
	flagSet.DurationVar(&budget, "budget", 0, "exact solver time budget, overrides the config")
	flagSet.BoolVar(&debug, "debug", false, "development logging")
	if err := flagSet.Parse(args); err != nil {
		return err
	}
	if casesPath == "" || judgesPath == "" {
		return usageError("--cases and --judges are required")
	}
	defer setupLogger(debug)()

	settings, err := config.LoadEngine(configPath)
	if err != nil {
		return err
	}
	if strategy != "" {
		settings.Strategy = models.Strategy(strategy)
	}
	if windowDays > 0 {
		settings.WindowDays = windowDays
	}
	if budget > 0 {
		settings.SolverBudget = budget
	}

	start := models.Day(time.Now()).AddDate(0, 0, 1)
	if startText != "" {
		d, ok := models.ParseDate(startText)
		if !ok {
			return usageError("invalid --start %q, expected YYYY-MM-DD", startText)
		}
		start = d
	}

	eng, err := engine.New(settings)
	if err != nil {
		return err
	}
	cases, err := readCases(casesPath)
	if err != nil {
		return err
	}
	judges, err := readJudges(judgesPath)
	if err != nil {
		return err
	}

	res, err := eng.Run(context.Background(), cases, judges, start)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}
	if err := writeFile(filepath.Join(outDir, "schedule.csv"), func(w io.Writer) error {
		return tables.WriteSchedule(w, res.Schedule)
	}); err != nil {
		return err
	}
	if err := writeFile(filepath.Join(outDir, "metrics.json"), func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res.Record(models.TriggerCLI, eng.Constraints.Describe()))
	}); err != nil {
		return err
	}
	if err := writeFile(filepath.Join(outDir, "report.md"), func(w io.Writer) error {
		return tables.WriteReport(w, tables.Report{
			Schedule:     res.Schedule,
			Metrics:      res.Metrics,
			Validation:   &res.Validation,
			Distribution: &res.Distribution,
			Workload:     res.Workload,
			Gaps:         res.Gaps,
			Constraints:  eng.Constraints.Describe(),
		})
	}); err != nil {
		return err
	}

	fmt.Fprintf(stdout, "%s: %s, %d hearings, coverage %.1f%%\n",
		res.Schedule.RunID, tables.Status(res.Schedule), len(res.Schedule.Entries), res.Metrics.CoverageRate*100)
	if !res.Validation.Valid {
		for _, m := range res.Validation.Messages() {
			fmt.Fprintf(stderr, "violation: %s\n", m)
		}
		return &exitError{code: exitFailure, err: errors.New("schedule violates hard constraints")}
	}
	return nil
}

func runToken(args []string, stdout, stderr io.Writer) error {
	var subject string
	var ttl time.Duration

	flagSet := pflag.NewFlagSet("backlog token", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.StringVar(&subject, "subject", "", "token subject (required)")
	flagSet.DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	if err := flagSet.Parse(args); err != nil {
		return err
	}
	if subject == "" {
		return usageError("--subject is required")
	}

	// a missing .env is fine, JWT_SECRET may come from the environment
	_ = godotenv.Load()
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return usageError("JWT_SECRET is not set")
	}

	token, err := api.IssueToken([]byte(secret), subject, api.ScopeScheduler, ttl)
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, token)
	return nil
}

func readCases(path string) ([]models.CaseRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	cases, err := tables.ReadCases(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cases, nil
}

func readJudges(path string) ([]models.JudgeRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	judges, err := tables.ReadJudges(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return judges, nil
}

// create opens path for writing, falling back to def when path is empty
func create(path string, def io.Writer) (io.Writer, func(), error) {
	if path == "" {
		return def, func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { f.Close() }, nil
}

func writeFile(path string, fill func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fill(f); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	return f.Close()
}
