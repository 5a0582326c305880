package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vortex-fintech/go-phonemask/country"
	"github.com/vortex-fintech/go-phonemask/foundation/errors"
)

func newCountriesCmd(a *app) *cobra.Command {
	var (
		callingCode string
		verify      bool
		asJSON      bool
	)

	cmd := &cobra.Command{
		Use:   "countries",
		Short: "List the country table or verify it against libphonenumber",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			table := a.engine.Table()

			if verify {
				mismatches := country.Verify(table)
				for _, m := range mismatches {
					fmt.Fprintf(out, "%s\t+%s\texpected +%s\n", m.ISOCode, m.CallingCode, m.Expected)
				}
				if len(mismatches) > 0 {
					return errors.FailedPrecondition().
						WithReason("country_table_mismatch").
						WithMessage(fmt.Sprintf("%d of %d entries disagree with libphonenumber", len(mismatches), table.Len()))
				}
				fmt.Fprintf(out, "%d entries ok\n", table.Len())
				return nil
			}

			entries := table.Entries()
			if callingCode != "" {
				entries = table.ByCallingCode(callingCode)
				if len(entries) == 0 {
					return &country.NotFoundError{CallingCode: callingCode}
				}
			}

			if asJSON {
				return json.NewEncoder(out).Encode(entries)
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ISO\tCODE\tMASK\tNAME")
			for _, e := range entries {
				fmt.Fprintf(tw, "%s\t+%s\t%s\t%s\n", e.ISOCode, e.CallingCode, e.Mask, e.Name)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&callingCode, "calling-code", "", "only countries using this calling code")
	cmd.Flags().BoolVar(&verify, "verify", false, "cross-check calling codes against libphonenumber metadata")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print entries as a JSON array")
	return cmd
}
