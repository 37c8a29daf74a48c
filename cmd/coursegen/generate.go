package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/mmrzaf/coursegen/internal/app"
	"github.com/mmrzaf/coursegen/internal/config"
	"github.com/mmrzaf/coursegen/internal/domain"
	"github.com/mmrzaf/coursegen/internal/infra/repos/runs"
	"github.com/mmrzaf/coursegen/internal/infra/repos/scenarios"
	"github.com/mmrzaf/coursegen/internal/infra/repos/targets"
	"github.com/mmrzaf/coursegen/internal/logging"
	"github.com/mmrzaf/coursegen/internal/registry"
	"github.com/spf13/cobra"
)

func generateCmd(cfg *config.Config) *cobra.Command {
	var (
		scenarioID     string
		scenarioPath   string
		seed           int64
		rowsOverride   []string
		outPath        string
		database       string
		continuation   bool
		targetIDs      []string
		targetDSN      string
		targetKind     string
		targetDatabase string
		mode           string
		noRecord       bool
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a SQL script and optionally load it into targets",
		Example: `  coursegen generate --scenario school > cs348.sql
  coursegen generate --scenario school-small --seed 7 --rows student=100
  coursegen generate --scenario library --out - --target-id local-sqlite`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.NewLogger(logLevel)

			scenarioRepo := scenarios.NewFileRepository(scenariosDir)
			targetRepo := targets.NewFileRepository(targetsDir)

			var runRepo runs.Repository
			if !noRecord {
				repo := runs.NewSQLiteRepository(runsDBPath)
				if err := repo.Init(); err != nil {
					return err
				}
				defer repo.Close()
				runRepo = repo
			}

			runService := app.NewRunService(scenarioRepo, targetRepo, runRepo, registry.DefaultGeneratorRegistry(), logger, batchSize)

			req := &domain.RunRequest{Mode: mode, Output: outPath}

			// Script overrides need a private copy of the scenario.
			overrides := cmd.Flags().Changed("database") || cmd.Flags().Changed("continuation")
			switch {
			case scenarioPath != "":
				scenario, err := scenarios.LoadFile(scenarioPath)
				if err != nil {
					return err
				}
				req.Scenario = scenario
			case scenarioID != "" && overrides:
				scenario, err := scenarioRepo.Get(scenarioID)
				if err != nil {
					return err
				}
				req.Scenario = scenario
			case scenarioID != "":
				req.ScenarioID = scenarioID
			default:
				return fmt.Errorf("either --scenario or --scenario-path required")
			}
			if req.Scenario != nil {
				if cmd.Flags().Changed("database") {
					req.Scenario.Database = database
				}
				if cmd.Flags().Changed("continuation") {
					req.Scenario.Continuation = continuation
				}
			}

			if cmd.Flags().Changed("seed") {
				req.Seed = &seed
			}

			rows, err := parseRowOverrides(rowsOverride)
			if err != nil {
				return err
			}
			req.RowOverrides = rows

			if targetDSN != "" {
				if targetKind == "" {
					return fmt.Errorf("--target-kind required when using --target DSN")
				}
				req.Targets = append(req.Targets, &domain.TargetConfig{
					ID:   "inline",
					Name: "inline-target",
					Kind: targetKind,
					DSN:  targetDSN,
				})
			}
			for _, id := range targetIDs {
				t, err := runService.ResolveTarget(id)
				if err != nil {
					return err
				}
				req.Targets = append(req.Targets, t)
			}
			if targetDatabase != "" {
				for _, t := range req.Targets {
					t.Database = targetDatabase
				}
			}

			var out io.Writer
			switch outPath {
			case "":
			case "-":
				out = os.Stdout
			default:
				f, err := os.Create(outPath)
				if err != nil {
					return err
				}
				defer f.Close()
				out = f
			}

			res, err := runService.Generate(cmd.Context(), req, out)
			if err != nil {
				return err
			}
			printSummary(res)
			return nil
		},
	}

	cmd.Flags().StringVar(&scenarioID, "scenario", "", "Scenario ID")
	cmd.Flags().StringVar(&scenarioPath, "scenario-path", "", "Scenario file path")
	cmd.Flags().Int64VarP(&seed, "seed", "s", 0, "Seed for RNG")
	cmd.Flags().StringSliceVar(&rowsOverride, "rows", nil, "Row overrides (table=rows)")
	cmd.Flags().StringVarP(&outPath, "out", "o", "-", "Script output file, - for stdout, empty for none")
	cmd.Flags().StringVar(&database, "database", "", "Open the script with 'connect to <database>'")
	cmd.Flags().BoolVar(&continuation, "continuation", false, "Break create statements with a line continuation")
	cmd.Flags().StringSliceVar(&targetIDs, "target-id", nil, "Target ID to load (repeatable)")
	cmd.Flags().StringVar(&targetDSN, "target", "", "Target DSN")
	cmd.Flags().StringVar(&targetKind, "target-kind", "", "Target kind (required with --target)")
	cmd.Flags().StringVar(&targetDatabase, "target-database", "", "Database to load into, replacing the one in each DSN")
	cmd.Flags().StringVar(&mode, "mode", cfg.DefaultMode, "Load mode (recreate|truncate|append)")
	cmd.Flags().BoolVar(&noRecord, "no-record", false, "Do not record the run in the runs database")

	return cmd
}

func parseRowOverrides(list []string) (map[string]int, error) {
	if len(list) == 0 {
		return nil, nil
	}
	out := make(map[string]int, len(list))
	for _, override := range list {
		parts := strings.SplitN(override, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid rows override format: %s", override)
		}
		rows, err := strconv.Atoi(parts[1])
		if err != nil {
			return nil, fmt.Errorf("invalid rows value: %s", parts[1])
		}
		out[strings.TrimSpace(parts[0])] = rows
	}
	return out, nil
}

func printSummary(res *app.GenerateResult) {
	stats := res.Stats
	if res.Run.ID != "" {
		infoColor.Fprintf(os.Stderr, "Run %s\n", res.Run.ID)
	}

	w := tabwriter.NewWriter(os.Stderr, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TABLE\tROWS\tDUPLICATES")
	for _, ts := range stats.TableStats {
		fmt.Fprintf(w, "%s\t%s\t%s\n", ts.TableName, humanize.Comma(ts.Rows), humanize.Comma(ts.DuplicatesDropped))
	}
	w.Flush()

	okColor.Fprintf(os.Stderr, "Generated %s rows in %d tables (seed %d, %.2fs)\n",
		humanize.Comma(stats.TotalRows), stats.TablesGenerated, res.Run.Seed, stats.DurationSeconds)
	if stats.BytesWritten > 0 {
		fmt.Fprintf(os.Stderr, "Script: %s\n", humanize.Bytes(uint64(stats.BytesWritten)))
	}
	for name, n := range res.Loaded {
		fmt.Fprintf(os.Stderr, "Loaded %s rows into %s\n", humanize.Comma(n), name)
	}
}
