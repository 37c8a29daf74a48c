package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/mmrzaf/coursegen/internal/app"
	"github.com/mmrzaf/coursegen/internal/config"
	"github.com/mmrzaf/coursegen/internal/domain"
	"github.com/mmrzaf/coursegen/internal/infra/repos/runs"
	"github.com/mmrzaf/coursegen/internal/infra/repos/scenarios"
	"github.com/mmrzaf/coursegen/internal/infra/repos/targets"
	"github.com/mmrzaf/coursegen/internal/registry"
	"github.com/mmrzaf/coursegen/internal/validation"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	scenariosDir string
	targetsDir   string
	runsDBPath   string
	logLevel     string
	batchSize    int
)

// Status lines go to stderr; stdout may carry the generated script.
var (
	okColor   = color.New(color.FgGreen)
	failColor = color.New(color.FgRed)
	infoColor = color.New(color.FgCyan)
)

func main() {
	cfg := config.Load()

	rootCmd := &cobra.Command{
		Use:           "coursegen",
		Short:         "Synthetic course database generator",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&scenariosDir, "scenarios-dir", cfg.ScenariosDir, "Scenarios directory")
	rootCmd.PersistentFlags().StringVar(&targetsDir, "targets-dir", cfg.TargetsDir, "Targets directory")
	rootCmd.PersistentFlags().StringVar(&runsDBPath, "runs-db", cfg.RunsDBPath, "Runs database path")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", cfg.LogLevel, "Log level")
	rootCmd.PersistentFlags().IntVar(&batchSize, "batch-size", cfg.BatchSize, "Rows per INSERT when loading targets")

	rootCmd.AddCommand(generateCmd(cfg))
	rootCmd.AddCommand(scenarioCmd())
	rootCmd.AddCommand(targetCmd())
	rootCmd.AddCommand(runCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		failColor.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// looksLikePath tells file arguments apart from ids.
func looksLikePath(arg string) bool {
	if strings.ContainsRune(arg, filepath.Separator) || strings.Contains(arg, "/") {
		return true
	}
	switch filepath.Ext(arg) {
	case ".yaml", ".yml", ".json", ".toml":
		return true
	}
	return false
}

func scenarioCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scenario",
		Short: "Manage scenarios",
	}

	var format string

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List scenarios",
		RunE: func(cmd *cobra.Command, args []string) error {
			repo := scenarios.NewFileRepository(scenariosDir)
			list, err := repo.List()
			if err != nil {
				return err
			}

			if format == "json" {
				data, _ := json.MarshalIndent(list, "", "  ")
				fmt.Println(string(data))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tVERSION\tKIND\tTABLES")
			for _, s := range list {
				kind, tables := "declarative", len(s.Tables)
				if s.Builtin != "" {
					kind = "builtin:" + s.Builtin
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n", s.ID, s.Name, s.Version, kind, tables)
			}
			w.Flush()
			return nil
		},
	}
	listCmd.Flags().StringVar(&format, "format", "table", "Output format (table|json)")

	showCmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show scenario details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo := scenarios.NewFileRepository(scenariosDir)
			scenario, err := repo.Get(args[0])
			if err != nil {
				return err
			}

			data, _ := yaml.Marshal(scenario)
			fmt.Println(string(data))
			return nil
		},
	}

	var strict bool
	validateCmd := &cobra.Command{
		Use:   "validate <id|path>",
		Short: "Validate a scenario",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var scenario *domain.Scenario
			var err error

			if looksLikePath(args[0]) {
				scenario, err = scenarios.LoadFile(args[0])
			} else {
				scenario, err = scenarios.NewFileRepository(scenariosDir).Get(args[0])
			}
			if err != nil {
				return err
			}

			validator := validation.NewValidator(registry.DefaultGeneratorRegistry())
			if err := validator.ValidateScenario(scenario); err != nil {
				return fmt.Errorf("validation failed: %w", err)
			}
			if strict {
				if err := validation.CheckScenarioColumns(scenario); err != nil {
					return fmt.Errorf("validation failed: %w", err)
				}
			}

			okColor.Fprintf(os.Stderr, "Scenario '%s' is valid\n", scenario.Name)
			return nil
		},
	}
	validateCmd.Flags().BoolVar(&strict, "strict", false, "Also check field columns against each schema")

	cmd.AddCommand(listCmd, showCmd, validateCmd)
	return cmd
}

func targetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "target",
		Short: "Manage targets",
	}

	var format string

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List targets",
		RunE: func(cmd *cobra.Command, args []string) error {
			repo := targets.NewFileRepository(targetsDir)
			list, err := repo.List()
			if err != nil {
				return err
			}
			list = targets.RedactTargets(list)

			if format == "json" {
				data, _ := json.MarshalIndent(list, "", "  ")
				fmt.Println(string(data))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tKIND\tDSN")
			for _, t := range list {
				dsn := t.DSN
				if len(dsn) > 50 {
					dsn = dsn[:47] + "..."
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", t.ID, t.Name, t.Kind, dsn)
			}
			w.Flush()
			return nil
		},
	}
	listCmd.Flags().StringVar(&format, "format", "table", "Output format (table|json)")

	showCmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show target details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo := targets.NewFileRepository(targetsDir)
			target, err := repo.Get(args[0])
			if err != nil {
				return err
			}

			data, _ := yaml.Marshal(targets.RedactTarget(target))
			fmt.Println(string(data))
			return nil
		},
	}

	var connect bool
	validateCmd := &cobra.Command{
		Use:   "validate <id|path>",
		Short: "Validate a target",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo := targets.NewFileRepository(targetsDir)
			var target *domain.TargetConfig
			var err error

			if looksLikePath(args[0]) {
				target, err = targets.LoadFile(args[0])
			} else {
				target, err = repo.Get(args[0])
			}
			if err != nil {
				return err
			}

			validator := validation.NewValidator(registry.DefaultGeneratorRegistry())
			if err := validator.ValidateTarget(target); err != nil {
				return fmt.Errorf("validation failed: %w", err)
			}

			if connect {
				check, err := app.CheckTarget(cmd.Context(), target, "")
				if err != nil {
					return fmt.Errorf("connection failed: %w", err)
				}
				infoColor.Fprintf(os.Stderr, "Connected in %dms, server %s\n", check.LatencyMS, check.ServerVersion)
				caps := check.Capabilities
				fmt.Fprintf(os.Stderr, "create=%t insert=%t truncate=%t drop=%t\n",
					caps.CanCreate, caps.CanInsert, caps.CanTruncate, caps.CanDrop)
			}

			okColor.Fprintf(os.Stderr, "Target '%s' is valid\n", target.Name)
			return nil
		},
	}
	validateCmd.Flags().BoolVar(&connect, "connect", false, "Connect and probe the statements a load needs")

	cmd.AddCommand(listCmd, showCmd, validateCmd)
	return cmd
}

func runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Inspect recorded runs",
	}

	var limit int
	var status string
	var format string

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			runRepo := runs.NewSQLiteRepository(runsDBPath)
			if err := runRepo.Init(); err != nil {
				return err
			}
			defer runRepo.Close()

			list, err := runRepo.List(limit, status)
			if err != nil {
				return err
			}

			if format == "json" {
				data, _ := json.MarshalIndent(list, "", "  ")
				fmt.Println(string(data))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tSCENARIO\tSEED\tSTATUS\tROWS\tTARGETS\tSTARTED")
			for _, r := range list {
				rows := "-"
				if len(r.Stats) > 0 {
					var stats domain.RunStats
					if json.Unmarshal(r.Stats, &stats) == nil {
						rows = humanize.Comma(stats.TotalRows)
					}
				}
				fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\t%s\t%s\n",
					shortID(r.ID), r.ScenarioName, r.Seed, r.Status, rows, r.Targets, humanize.Time(r.StartedAt))
			}
			w.Flush()
			return nil
		},
	}
	listCmd.Flags().IntVar(&limit, "limit", 20, "Limit results")
	listCmd.Flags().StringVar(&status, "status", "", "Filter by status")
	listCmd.Flags().StringVar(&format, "format", "table", "Output format (table|json)")

	showCmd := &cobra.Command{
		Use:   "show <run_id>",
		Short: "Show run details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runRepo := runs.NewSQLiteRepository(runsDBPath)
			if err := runRepo.Init(); err != nil {
				return err
			}
			defer runRepo.Close()

			run, err := runRepo.Get(args[0])
			if err != nil {
				return err
			}

			view := map[string]any{
				"id":               run.ID,
				"scenario_id":      run.ScenarioID,
				"scenario_name":    run.ScenarioName,
				"scenario_version": run.ScenarioVersion,
				"output":           run.Output,
				"targets":          run.Targets,
				"seed":             run.Seed,
				"config_hash":      run.ConfigHash,
				"status":           string(run.Status),
				"started_at":       run.StartedAt.Format(time.RFC3339),
			}
			if run.CompletedAt != nil {
				view["completed_at"] = run.CompletedAt.Format(time.RFC3339)
			}
			if run.Error != "" {
				view["error"] = run.Error
			}
			if len(run.Stats) > 0 {
				var stats map[string]any
				if json.Unmarshal(run.Stats, &stats) == nil {
					view["stats"] = stats
				}
			}
			data, _ := yaml.Marshal(view)
			fmt.Println(string(data))
			return nil
		},
	}

	cmd.AddCommand(listCmd, showCmd)
	return cmd
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
