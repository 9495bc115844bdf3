package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"eduviz/adapters/tabular"
	"eduviz/domain/analytics"
	"eduviz/domain/gradebook"
	"eduviz/internal"
	apperrors "eduviz/internal/errors"
	"eduviz/internal/analysis"
	"eduviz/internal/cleaning"
	"eduviz/internal/config"
	"eduviz/internal/report"
	"eduviz/internal/samplekit"
	"eduviz/ui"
)

func main() {
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "eduviz",
		Short: "Educational analytics: clean grade tables, analyze performance, serve dashboards",
	}

	rootCmd.AddCommand(
		newGenerateDataCmd(),
		newReportCmd(),
		newAnalyzeCmd(),
		newServeCmd(),
		newConfigCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newGenerateDataCmd() *cobra.Command {
	var (
		output   string
		students int
		weeks    int
		subjects []string
		groups   int
		seed     int64
	)

	cmd := &cobra.Command{
		Use:   "generate-data",
		Short: "Generate a deterministic sample grade dataset",
		Long: `Generate sample grade data for demos and testing.

The output format follows the file extension: .csv, .xlsx or .json.

Example: eduviz generate-data --output grades.csv --students 200 --weeks 12`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := samplekit.DefaultConfig()
			cfg.Students = students
			cfg.Weeks = weeks
			cfg.Groups = groups
			cfg.Seed = seed
			if len(subjects) > 0 {
				cfg.Subjects = subjects
			}

			table := samplekit.Generate(cfg)
			if err := tabular.Export(table, output); err != nil {
				return err
			}
			fmt.Printf("wrote %d records to %s\n", table.Len(), output)
			return nil
		},
	}

	defaults := samplekit.DefaultConfig()
	cmd.Flags().StringVar(&output, "output", "grades.csv", "Output file (csv/xlsx/json)")
	cmd.Flags().IntVar(&students, "students", defaults.Students, "Number of students")
	cmd.Flags().IntVar(&weeks, "weeks", defaults.Weeks, "Number of weeks")
	cmd.Flags().StringSliceVar(&subjects, "subjects", nil, "Subject names (default built-in list)")
	cmd.Flags().IntVar(&groups, "groups", defaults.Groups, "Number of groups")
	cmd.Flags().Int64Var(&seed, "seed", defaults.Seed, "Random seed")

	return cmd
}

func newReportCmd() *cobra.Command {
	var (
		dataPath   string
		reportType string
		outputDir  string
		charts     bool
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Generate a performance report from a grade table",
		Long: `Load a grade table, clean it, and write a JSON and HTML report.

Example: eduviz report --data grades.csv --type full --output-dir reports`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !analytics.ValidReportType(reportType) {
				return apperrors.InvalidInput(fmt.Sprintf("report type %q (want weekly, monthly, detailed or full)", reportType))
			}

			table, _, err := loadAndClean(dataPath)
			if err != nil {
				return err
			}

			opts := optionsFromEnv()
			gen := report.NewGenerator(opts, internal.DefaultLogger)
			rep, err := gen.Generate(table, analytics.ReportType(reportType), dataPath)
			if err != nil {
				return err
			}

			analyzer := analysis.NewAnalyzer(opts, internal.DefaultLogger)
			result, err := analyzer.AnalyzePerformance(table)
			if err != nil {
				return err
			}

			bundle := report.Bundle{Report: rep, Analysis: result, Charts: charts}
			if err := report.WriteBundle(outputDir, bundle); err != nil {
				return err
			}
			fmt.Printf("report written to %s\n", outputDir)
			return nil
		},
	}

	cmd.Flags().StringVar(&dataPath, "data", "", "Input grade table (csv/xlsx/json)")
	cmd.Flags().StringVar(&reportType, "type", "full", "Report type: weekly, monthly, detailed, full")
	cmd.Flags().StringVar(&outputDir, "output-dir", "reports", "Output directory")
	cmd.Flags().BoolVar(&charts, "visualizations", false, "Also write chart pages")
	_ = cmd.MarkFlagRequired("data")

	return cmd
}

func newAnalyzeCmd() *cobra.Command {
	var (
		dataPath string
		output   string
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Run the full analysis and write the raw result JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			table, _, err := loadAndClean(dataPath)
			if err != nil {
				return err
			}

			analyzer := analysis.NewAnalyzer(optionsFromEnv(), internal.DefaultLogger)
			result, err := analyzer.AnalyzePerformance(table)
			if err != nil {
				return err
			}
			if err := report.ExportJSON(output, result); err != nil {
				return err
			}
			fmt.Printf("analysis written to %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVar(&dataPath, "data", "", "Input grade table (csv/xlsx/json)")
	cmd.Flags().StringVar(&output, "output", "analysis.json", "Output JSON file")
	_ = cmd.MarkFlagRequired("data")

	return cmd
}

func newServeCmd() *cobra.Command {
	var (
		dataPath string
		port     int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the analytics dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			table, quality, err := loadAndClean(dataPath)
			if err != nil {
				return err
			}

			app, err := ui.NewApp(ui.Config{
				Table:   table,
				Quality: quality,
				Options: optionsFromEnv(),
				Port:    port,
				Logger:  internal.DefaultLogger,
			})
			if err != nil {
				return err
			}
			return app.Start()
		},
	}

	cmd.Flags().StringVar(&dataPath, "data", "", "Input grade table (csv/xlsx/json)")
	cmd.Flags().IntVar(&port, "port", 8080, "HTTP port")
	_ = cmd.MarkFlagRequired("data")

	return cmd
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage config files",
	}

	var initPath string
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.SampleConfig().SaveFile(initPath); err != nil {
				return err
			}
			fmt.Printf("config written to %s\n", initPath)
			return nil
		},
	}
	initCmd.Flags().StringVar(&initPath, "output", "eduviz.yaml", "Config file to write (yaml/json)")

	var showPath string
	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Load, validate and print a config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadFile(showPath)
			if err != nil {
				return err
			}
			data, err := json.MarshalIndent(cfg, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			return nil
		},
	}
	showCmd.Flags().StringVar(&showPath, "file", "eduviz.yaml", "Config file to show")

	cmd.AddCommand(initCmd, showCmd)
	return cmd
}

// loadAndClean loads a grade table from path and runs the cleaning stage,
// returning the cleaned table and a data-quality report of the raw input.
func loadAndClean(path string) (*gradebook.Table, *cleaning.QualityReport, error) {
	if strings.TrimSpace(path) == "" {
		return nil, nil, fmt.Errorf("no input file given")
	}
	if _, err := os.Stat(path); err != nil {
		return nil, nil, fmt.Errorf("input file %s not found", path)
	}

	loader := tabular.NewLoader(internal.DefaultLogger)
	raw, err := loader.Load(path)
	if err != nil {
		return nil, nil, err
	}

	quality := cleaning.Validate(raw)
	cleaner := cleaning.NewCleaner(internal.DefaultLogger)
	table, stats := cleaner.Clean(raw)
	internal.DefaultLogger.Info("cleaning: %s", stats.String())
	return table, &quality, nil
}

// optionsFromEnv maps the environment config onto analysis options.
func optionsFromEnv() analysis.Options {
	cfg := config.Load()
	opts := analysis.DefaultOptions()
	opts.RiskThreshold = cfg.RiskThreshold
	opts.MinRecords = cfg.MinRecords
	return opts
}
