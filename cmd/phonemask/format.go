package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vortex-fintech/go-phonemask/country"
	"github.com/vortex-fintech/go-phonemask/engine"
)

// formatResult is the JSON shape shared by `format --json` and POST /v1/format.
type formatResult struct {
	Raw         string `json:"raw"`
	Formatted   string `json:"formatted"`
	CountryCode string `json:"country_code"`
	CallingCode string `json:"calling_code"`
	E164        string `json:"e164,omitempty"`
	Complete    bool   `json:"complete"`
}

func newFormatResult(e *engine.Engine, v engine.Value, c country.Entry) formatResult {
	e164, _ := e.E164(v, c)
	return formatResult{
		Raw:         v.Raw,
		Formatted:   v.Formatted,
		CountryCode: c.ISOCode,
		CallingCode: c.CallingCode,
		E164:        e164,
		Complete:    e.Complete(v, c),
	}
}

func newFormatCmd(a *app) *cobra.Command {
	var (
		iso         string
		callingCode string
		asJSON      bool
		fromE164    bool
	)

	cmd := &cobra.Command{
		Use:   "format <number>...",
		Short: "Format numbers with a country's mask",
		Long: `Strips every non-digit from each argument, truncates to the mask's
capacity and prints the masked value, one per line. With --e164 each
argument is an international number and picks its own country.

Example:
  phonemask format --country br 48999216078
  phonemask format --e164 --json +5548999216078`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var c country.Entry
			if !fromE164 {
				var err error
				if c, err = a.resolveCountry(iso, callingCode); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			enc := json.NewEncoder(out)
			for _, arg := range args {
				var v engine.Value
				if fromE164 {
					var err error
					if v, c, err = a.engine.ParseE164(arg); err != nil {
						return err
					}
				} else {
					v = a.engine.NewValue(arg, c)
				}
				if asJSON {
					if err := enc.Encode(newFormatResult(a.engine, v, c)); err != nil {
						return err
					}
					continue
				}
				fmt.Fprintln(out, v.Formatted)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&iso, "country", "c", "", "ISO country code (default: configured default country)")
	cmd.Flags().StringVar(&callingCode, "calling-code", "", "calling code; countries sharing it resolve to the first table entry")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print raw, formatted, e164 and completeness as JSON lines")
	cmd.Flags().BoolVar(&fromE164, "e164", false, "arguments are international numbers (+<calling code><number>)")
	return cmd
}

// resolveCountry picks the country from an ISO code, else from a calling
// code, else the configured default.
func (a *app) resolveCountry(iso, callingCode string) (country.Entry, error) {
	switch {
	case iso != "":
		return a.engine.SelectCountry(iso)
	case callingCode != "":
		return a.engine.ResolveCountryFromCallingCode(callingCode, a.cfg.DefaultCountry)
	default:
		return a.engine.SelectCountry(a.cfg.DefaultCountry)
	}
}
