package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/vortex-fintech/go-phonemask/field"
	"github.com/vortex-fintech/go-phonemask/foundation/errors"
)

// script drives one field. A non-nil Value makes the field controlled; with
// Echo set, every input_change is fed back as the controlled value the way
// a parent component would.
//
//	country: us
//	value: "5551234567"
//	echo: true
//	steps:
//	  - focus: true
//	  - clear: true
//	  - type: "4152881234"
//	  - external: "2125550100"
//	  - blur: true
type script struct {
	Country      string  `yaml:"country"`
	Value        *string `yaml:"value"`
	DefaultValue string  `yaml:"default_value"`
	Disabled     bool    `yaml:"disabled"`
	Readonly     bool    `yaml:"readonly"`
	Echo         bool    `yaml:"echo"`
	Steps        []step  `yaml:"steps"`
}

// step holds exactly one action.
type step struct {
	Focus             bool         `yaml:"focus"`
	Blur              bool         `yaml:"blur"`
	Type              string       `yaml:"type"`
	Paste             string       `yaml:"paste"`
	Backspace         int          `yaml:"backspace"`
	Replace           *replaceStep `yaml:"replace"`
	Clear             bool         `yaml:"clear"`
	External          *string      `yaml:"external"`
	Release           bool         `yaml:"release"`
	SelectCountry     string       `yaml:"select_country"`
	SelectCallingCode string       `yaml:"select_calling_code"`
	SetCountry        string       `yaml:"set_country"`
	KeyDown           string       `yaml:"key_down"`
	KeyUp             string       `yaml:"key_up"`
	Flags             *flagsStep   `yaml:"flags"`
}

type replaceStep struct {
	From int    `yaml:"from"`
	To   int    `yaml:"to"`
	Text string `yaml:"text"`
}

type flagsStep struct {
	Disabled bool `yaml:"disabled"`
	Readonly bool `yaml:"readonly"`
	Invalid  bool `yaml:"invalid"`
}

// stateView is the final field state as printed after a replay.
type stateView struct {
	Mode        string `json:"mode"`
	Value       string `json:"value"`
	RawValue    string `json:"rawValue"`
	CountryCode string `json:"countryCode"`
	CallingCode string `json:"callingCode"`
	Focused     bool   `json:"focused"`
	Cursor      int    `json:"cursor"`
}

func newStateView(s field.State) stateView {
	return stateView{
		Mode:        s.Mode.String(),
		Value:       s.Display(),
		RawValue:    s.Value.Raw,
		CountryCode: s.Country.ISOCode,
		CallingCode: s.Country.CallingCode,
		Focused:     s.Focused,
		Cursor:      s.Cursor(),
	}
}

func decodeScript(r io.Reader) (script, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var sc script
	if err := dec.Decode(&sc); err != nil {
		if err == io.EOF {
			return script{}, errors.InvalidArgument().WithReason("invalid_script").WithMessage("empty script")
		}
		return script{}, errors.InvalidArgument().WithReason("invalid_script").WithMessage(err.Error())
	}
	for i, st := range sc.Steps {
		if n := st.actions(); n != 1 {
			return script{}, errors.InvalidArgument().
				WithReason("invalid_script").
				WithDetail("step", strconv.Itoa(i)).
				WithMessage(fmt.Sprintf("step %d has %d actions, want exactly one", i, n))
		}
	}
	return sc, nil
}

func (st step) actions() int {
	n := 0
	for _, set := range []bool{
		st.Focus, st.Blur, st.Type != "", st.Paste != "", st.Backspace > 0,
		st.Replace != nil, st.Clear, st.External != nil, st.Release,
		st.SelectCountry != "", st.SelectCallingCode != "", st.SetCountry != "",
		st.KeyDown != "", st.KeyUp != "", st.Flags != nil,
	} {
		if set {
			n++
		}
	}
	return n
}

// run replays sc against a new field and hands every notification to emit.
func (sc script) run(r *field.Reconciler, emit func(field.Notification)) (field.State, error) {
	f, err := field.New(r, field.Props{
		CountryCode:  sc.Country,
		Value:        sc.Value,
		DefaultValue: sc.DefaultValue,
		Disabled:     sc.Disabled,
		Readonly:     sc.Readonly,
	})
	if err != nil {
		return field.State{}, err
	}

	f.Subscribe(emit)
	if sc.Echo {
		f.Subscribe(func(n field.Notification) {
			if n.Kind == field.KindInputChange {
				f.Defer(field.Controlled(n.Payload.RawValue))
			}
		})
	}

	for i, st := range sc.Steps {
		if err := st.apply(f); err != nil {
			return f.State(), fmt.Errorf("step %d: %w", i, err)
		}
	}
	return f.State(), nil
}

func (st step) apply(f *field.Field) error {
	switch {
	case st.Focus:
		return f.Dispatch(field.Focus{})
	case st.Blur:
		return f.Dispatch(field.Blur{})
	case st.Type != "":
		for i := 0; i < len(st.Type); i++ {
			if err := f.Dispatch(field.TypeText(f.State(), st.Type[i:i+1])); err != nil {
				return err
			}
		}
		return nil
	case st.Paste != "":
		return f.Dispatch(field.TypeText(f.State(), st.Paste))
	case st.Backspace > 0:
		for i := 0; i < st.Backspace; i++ {
			if err := f.Dispatch(field.Backspace(f.State())); err != nil {
				return err
			}
		}
		return nil
	case st.Replace != nil:
		return f.Dispatch(field.ReplaceRange(f.State(), st.Replace.From, st.Replace.To, st.Replace.Text))
	case st.Clear:
		return f.Dispatch(field.Clear())
	case st.External != nil:
		return f.Dispatch(field.Controlled(*st.External))
	case st.Release:
		return f.Dispatch(field.Release())
	case st.SelectCountry != "":
		return f.Dispatch(field.SelectCountry{ISO: st.SelectCountry})
	case st.SelectCallingCode != "":
		return f.Dispatch(field.SelectCallingCode{CallingCode: st.SelectCallingCode})
	case st.SetCountry != "":
		return f.Dispatch(field.SetCountry{ISO: st.SetCountry})
	case st.KeyDown != "":
		return f.Dispatch(field.KeyDown{Key: st.KeyDown})
	case st.KeyUp != "":
		return f.Dispatch(field.KeyUp{Key: st.KeyUp})
	case st.Flags != nil:
		return f.Dispatch(field.SetFlags{Disabled: st.Flags.Disabled, Readonly: st.Flags.Readonly, Invalid: st.Flags.Invalid})
	}
	return nil
}

func newReplayCmd(a *app) *cobra.Command {
	var printState bool

	cmd := &cobra.Command{
		Use:   "replay <script.yaml|->",
		Short: "Replay a scripted edit session and print notifications as JSON lines",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := cmd.InOrStdin()
			if args[0] != "-" {
				fh, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer fh.Close()
				in = fh
			}

			sc, err := decodeScript(in)
			if err != nil {
				return err
			}

			r := field.NewReconciler(a.engine,
				field.WithLogger(a.log),
				field.WithDefaultCountry(a.cfg.DefaultCountry),
			)

			enc := json.NewEncoder(cmd.OutOrStdout())
			var encErr error
			final, err := sc.run(r, func(n field.Notification) {
				if encErr == nil {
					encErr = enc.Encode(n)
				}
			})
			if err != nil {
				return err
			}
			if encErr != nil {
				return encErr
			}
			if printState {
				return enc.Encode(newStateView(final))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&printState, "state", false, "print the final field state after the notifications")
	return cmd
}
