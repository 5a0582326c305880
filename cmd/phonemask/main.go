// Command phonemask formats phone numbers against the country mask table,
// replays input scripts through a phone field and serves an HTTP playground.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/vortex-fintech/go-phonemask/country"
	"github.com/vortex-fintech/go-phonemask/engine"
	"github.com/vortex-fintech/go-phonemask/foundation/logger"
)

// app is what PersistentPreRunE prepares for every subcommand.
type app struct {
	cfg    Config
	log    *logger.Logger
	engine *engine.Engine
}

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "phonemask",
		Short: "Phone number masking engine and field harness",
		Long: `phonemask formats phone numbers with per-country digit masks.

It can format numbers, list the country table, replay scripted keystrokes
through a phone field and run an HTTP playground.

Configuration comes from PHONEMASK_* environment variables (or a .env file)
and can be overridden with flags.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.log != nil {
				a.log.SafeSync()
			}
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	pf := root.PersistentFlags()
	pf.String("env", "", "logging profile: development, debug or production")
	pf.String("countries-file", "", "YAML country table to use instead of the embedded one")
	pf.String("default-country", "", "ISO code used when none is given")

	root.AddCommand(
		newFormatCmd(a),
		newCountriesCmd(a),
		newReplayCmd(a),
		newServeCmd(a),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}
	cfg.ApplyFlags(cmd.Flags())
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	log, err := logger.New(cfg.ServiceName, cfg.Env)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	table, err := loadTable(cfg.CountriesFile)
	if err != nil {
		return err
	}

	eng := engine.New(table)
	if _, err := eng.SelectCountry(cfg.DefaultCountry); err != nil {
		return fmt.Errorf("invalid configuration: default country %q: %w", cfg.DefaultCountry, err)
	}

	a.cfg, a.log, a.engine = cfg, log, eng
	log.Debugw("phonemask ready", "countries", table.Len(), "default_country", cfg.DefaultCountry, "command", cmd.Name())
	return nil
}

func loadTable(path string) (*country.Table, error) {
	if path == "" {
		return country.Default()
	}
	return country.LoadFile(path)
}
