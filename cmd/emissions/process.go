package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/szting/sgtravel-co2-calculator/internal/config"
	"github.com/szting/sgtravel-co2-calculator/internal/observability"
	"github.com/szting/sgtravel-co2-calculator/internal/table"
)

var processOutput string

func init() {
	processCmd.Flags().StringVarP(&processOutput, "output", "o", "", "output CSV path (default: <input>_emissions.csv)")
}

var processCmd = &cobra.Command{
	Use:   "process <trips.csv>",
	Short: "Annotate a local CSV of trips with distances and emissions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		logger := observability.NewLogger(cfg)
		metrics := observability.NewMetrics()

		inPath := args[0]
		outPath := processOutput
		if outPath == "" {
			outPath = defaultOutputPath(inPath)
		}

		in, err := os.Open(inPath)
		if err != nil {
			return fmt.Errorf("opening input: %w", err)
		}
		defer in.Close()

		tbl, err := table.Read(in)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", inPath, err)
		}

		p := newPipeline(cfg, logger, metrics)

		bar := progressbar.NewOptions(len(tbl.Rows),
			progressbar.OptionSetDescription("Calculating emissions"),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
		p.SetProgress(func(done, _ int) {
			_ = bar.Set(done)
		})

		result, err := p.Process(cmd.Context(), tbl)
		if err != nil {
			return err
		}
		_ = bar.Finish()

		out, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("creating output: %w", err)
		}
		if err := result.Table.Write(out); err != nil {
			out.Close()
			return fmt.Errorf("writing %s: %w", outPath, err)
		}
		if err := out.Close(); err != nil {
			return fmt.Errorf("closing %s: %w", outPath, err)
		}

		fmt.Printf("%s\nOutput written to %s\n", result.Summary(), outPath)
		return nil
	},
}

// defaultOutputPath turns "trips.csv" into "trips_emissions.csv".
func defaultOutputPath(in string) string {
	return strings.TrimSuffix(in, filepath.Ext(in)) + "_emissions.csv"
}
