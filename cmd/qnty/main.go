// Command qnty converts units, solves equation-system documents and answers
// JSON tool requests.
//
// Usage:
//
//	qnty convert 1 in mm
//	qnty units --like psi
//	qnty solve system.yaml
//	echo '{"tool":"convert","params":{...}}' | qnty tool
//
// Settings come from QNTY_* environment variables; -v raises log verbosity.
package main

import (
	"log"
	"os"

	"github.com/go-logr/logr"
	"github.com/go-logr/stdr"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/tn3wman/qnty-sub000"
)

type app struct {
	cfg     qnty.Config
	reg     *qnty.Registry
	log     logr.Logger
	printer *message.Printer
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	a := &app{log: logr.Discard()}
	var verbosity int
	var locale string

	cmd := &cobra.Command{
		Use:          "qnty",
		Short:        "Dimension-checked unit conversion and equation solving",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := qnty.LoadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("verbosity") {
				cfg.LogVerbosity = verbosity
			}
			if cmd.Flags().Changed("locale") {
				cfg.Locale = locale
			}
			a.cfg = cfg
			a.log = newLogger(cfg.LogVerbosity)
			a.printer = newPrinter(cfg.Locale)
			a.reg = qnty.Default()
			a.log.V(1).Info("config loaded", "maxIterations", cfg.MaxIterations, "tolerance", cfg.ResidualTolerance, "locale", cfg.Locale)
			return nil
		},
	}
	cmd.PersistentFlags().IntVarP(&verbosity, "verbosity", "v", 0, "log verbosity (overrides QNTY_LOG_VERBOSITY)")
	cmd.PersistentFlags().StringVar(&locale, "locale", "", "number formatting locale (overrides QNTY_LOCALE)")

	cmd.AddCommand(
		newConvertCommand(a),
		newUnitsCommand(a),
		newSolveCommand(a),
		newToolCommand(a),
	)
	return cmd
}

func newLogger(verbosity int) logr.Logger {
	stdr.SetVerbosity(verbosity)
	return stdr.New(log.New(os.Stderr, "[qnty] ", log.LstdFlags))
}

func newPrinter(locale string) *message.Printer {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	return message.NewPrinter(tag)
}

func (a *app) systemOptions() []qnty.SystemOption {
	return []qnty.SystemOption{qnty.WithConfig(a.cfg), qnty.WithLogger(a.log)}
}
