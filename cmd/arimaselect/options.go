package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"

	"github.com/sartorproj/arimaselect/internal/config"
	"github.com/sartorproj/arimaselect/internal/metrics"
	"github.com/sartorproj/arimaselect/internal/pipeline"
	"github.com/sartorproj/arimaselect/timeseries"
)

// globalOptions are the persistent flags shared by every command.
type globalOptions struct {
	configPath  string
	logLevel    string
	metricsFile string
	jsonOutput  bool

	dataPath     string
	periodColumn string
	valueColumn  string
	logValues    bool
	workers      int
	tolerance    float64

	flags *pflag.FlagSet
}

func (o *globalOptions) register(fs *pflag.FlagSet) {
	fs.StringVar(&o.configPath, "config", "", "YAML configuration file")
	fs.StringVar(&o.logLevel, "log-level", "info", "Log level (debug|info|warn|error)")
	fs.StringVar(&o.metricsFile, "metrics-file", "", "Write Prometheus textfile metrics to this path")
	fs.BoolVar(&o.jsonOutput, "json", false, "Print JSON instead of tables")

	fs.StringVar(&o.dataPath, "data", "", "CSV file with the series (overrides data.path)")
	fs.StringVar(&o.periodColumn, "period-column", "", "Period column (default: auto-detect)")
	fs.StringVar(&o.valueColumn, "value-column", "", "Value column (overrides data.value_column)")
	fs.BoolVar(&o.logValues, "log", false, "Analyse the natural log of the values")
	fs.IntVar(&o.workers, "workers", 0, "Concurrent grid fits (0: one per CPU)")
	fs.Float64Var(&o.tolerance, "tolerance", 0, "Common-root tolerance (overrides roots.tolerance)")
	o.flags = fs
}

func (o *globalOptions) setupLogging() error {
	level, err := zerolog.ParseLevel(o.logLevel)
	if err != nil {
		return fmt.Errorf("invalid --log-level %q: %w", o.logLevel, err)
	}
	zerolog.SetGlobalLevel(level)
	return nil
}

// loadConfig reads --config (or the defaults), applies flag overrides and
// validates the given sections.
func (o *globalOptions) loadConfig(sections ...string) (*config.Config, error) {
	cfg := config.Default()
	if o.configPath != "" {
		var err error
		if cfg, err = config.Read(o.configPath); err != nil {
			return nil, err
		}
	}

	if o.dataPath != "" {
		cfg.Data.Path = o.dataPath
	}
	if o.periodColumn != "" {
		cfg.Data.PeriodColumn = o.periodColumn
	}
	if o.valueColumn != "" {
		cfg.Data.ValueColumn = o.valueColumn
	}
	if o.flags.Changed("log") {
		cfg.Data.Log = o.logValues
	}
	if o.flags.Changed("workers") {
		cfg.Grid.Workers = o.workers
	}
	if o.flags.Changed("tolerance") {
		cfg.Roots.Tolerance = o.tolerance
	}

	if err := cfg.ValidateSections(sections...); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (o *globalOptions) loadSeries(cfg *config.Config) (*timeseries.Series, error) {
	series, err := pipeline.LoadSeries(cfg.Data)
	if err != nil {
		return nil, err
	}
	log.Info().
		Str("series", series.Name).
		Int("observations", series.Len()).
		Str("first", series.Period(0)).
		Str("last", series.Period(series.Len()-1)).
		Msg("series loaded")
	return series, nil
}

// newMetrics returns a registry when --metrics-file is set.
func (o *globalOptions) newMetrics() *metrics.Registry {
	if o.metricsFile == "" {
		return nil
	}
	return metrics.NewRegistry()
}

func (o *globalOptions) flushMetrics(reg *metrics.Registry) {
	if reg == nil {
		return
	}
	if err := reg.WriteTextfile(o.metricsFile); err != nil {
		log.Warn().Err(err).Msg("metrics not written")
		return
	}
	log.Debug().Str("path", o.metricsFile).Msg("metrics written")
}

// emit prints v as indented JSON when --json is set, otherwise calls text.
func (o *globalOptions) emit(w io.Writer, v any, text func(io.Writer) error) error {
	if !o.jsonOutput {
		return text(w)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func stdout() io.Writer {
	return os.Stdout
}
