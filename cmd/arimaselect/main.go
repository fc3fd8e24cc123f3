// Command arimaselect runs unit-root tests and ARMA order selection on a
// quarterly series and prints the statistics a reviewer needs to choose a model.
package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const version = "v0.3.0"

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	if err := newRootCmd().Execute(); err != nil {
		log.Error().Err(err).Msg("arimaselect failed")
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:     "arimaselect",
		Short:   "Unit-root testing and ARMA order selection for one quarterly series",
		Version: version,
		Long: `arimaselect runs augmented Dickey-Fuller regressions on a series and its first
differences, fits a grid of ARIMA(p,d,q) candidates, and reports AIC and BIC
rankings, coefficient z-tests, common AR/MA roots, nested restrictions and
Ljung-Box residual checks. It never picks the final model.

Examples:
  arimaselect run --config configs/ukincome.yaml
  arimaselect adf --data ukinc.csv --value-column income --log --max-lag 4
  arimaselect grid --data ukinc.csv --value-column income --log --max-p 5 --max-q 5 --json
  arimaselect roots --ar 1.2,-0.35 --ma 0.9 --tolerance 0.1`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setupLogging()
		},
	}

	opts.register(rootCmd.PersistentFlags())

	rootCmd.AddCommand(
		newRunCmd(opts),
		newADFCmd(opts),
		newGridCmd(opts),
		newNestedCmd(opts),
		newRootsCmd(opts),
		newDiagnoseCmd(opts),
	)
	return rootCmd
}
