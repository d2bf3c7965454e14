// Command lungsurv runs the lung cancer survival analysis end to end
// and renders the report.
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tgosselin/lungsurv/clinical"
	"github.com/tgosselin/lungsurv/coxph"
	"github.com/tgosselin/lungsurv/report"
	"github.com/tgosselin/lungsurv/survival"
)

var (
	cfgFile string
	dataCSV string
	outDir  string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "lungsurv",
	Short: "Survival analysis of the lung cancer cohort",
	Long: `lungsurv runs the full analysis pipeline over the embedded lung
cancer cohort (or an external CSV with the same columns): cleaning,
Kaplan-Meier estimation overall and by sex and ECOG score, hazard
derivation, a Cox proportional hazards regression on age, sex and ECOG
score, and a rendered report with plots.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run()
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.Flags().StringVar(&cfgFile, "config", "", "config file (YAML)")
	rootCmd.Flags().StringVar(&dataCSV, "data", "", "external cohort CSV (default: embedded dataset)")
	rootCmd.Flags().StringVar(&outDir, "out", "", "output directory (default ./report)")
	rootCmd.Flags().BoolVar(&verbose, "verbose", false, "debug logging")
}

func loadConfig() error {

	viper.SetDefault("out", "report")
	viper.SetDefault("plot_width", 5.0)
	viper.SetDefault("plot_height", 4.0)
	viper.SetDefault("hazard_threshold", 1.0)

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("read config: %w", err)
		}
	}

	if dataCSV != "" {
		viper.Set("data", dataCSV)
	}
	if outDir != "" {
		viper.Set("out", outDir)
	}

	return nil
}

func newLogger() zerolog.Logger {

	lvl := zerolog.InfoLevel
	if verbose {
		lvl = zerolog.DebugLevel
	}

	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(lvl).With().Timestamp().Logger()
}

func run() error {

	if err := loadConfig(); err != nil {
		return err
	}
	lg := newLogger()

	// Load
	var cohort clinical.Cohort
	var err error
	if path := viper.GetString("data"); path != "" {
		cohort, err = clinical.LoadFile(path)
	} else {
		cohort, err = clinical.LoadEmbedded()
	}
	if err != nil {
		return fmt.Errorf("load cohort: %w", err)
	}
	lg.Info().Int("records", len(cohort)).Msg("loaded cohort")

	// Clean
	cleaned, stats := clinical.Clean(cohort, lg)
	if len(cleaned) == 0 {
		return fmt.Errorf("no records remain after cleaning")
	}

	time := cleaned.Times()
	status := cleaned.Events()

	// Estimate
	overall := survival.Fit(time, status)
	bySex := survival.FitGroups(time, status, cleaned.Column("sex"))
	for _, c := range bySex {
		c.Name = sexLabel(c.Name)
	}
	byECOG := survival.FitGroups(time, status, cleaned.Column("ph.ecog"))
	for _, c := range byECOG {
		c.Name = "ECOG " + c.Name
	}

	// Derive
	hazard := survival.NewHazard(overall)

	// Fit
	names := []string{"time", "event", "age", "sex", "ph.ecog"}
	data := coxph.NewDataset(cleaned.Columns(names...), names)
	model, err := coxph.NewModel(data, "time", "event", []string{"age", "sex", "ph.ecog"}, nil)
	if err != nil {
		return err
	}
	rslt, err := model.Fit()
	if err != nil {
		return err
	}
	lg.Info().Float64("concordance", rslt.Concordance()).Msg("regression converged")

	// Report
	w := report.NewWriter(viper.GetString("out"), lg)
	return w.Write(&report.Analysis{
		Cohort:          cleaned,
		Stats:           stats,
		Overall:         overall,
		BySex:           bySex,
		ByECOG:          byECOG,
		Hazard:          hazard,
		HazardThreshold: viper.GetFloat64("hazard_threshold"),
		Fit:             rslt,
		PlotWidth:       viper.GetFloat64("plot_width"),
		PlotHeight:      viper.GetFloat64("plot_height"),
	})
}

func sexLabel(key string) string {
	switch key {
	case "1":
		return "male"
	case "2":
		return "female"
	}
	return key
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
