package field

import (
	"fmt"

	"github.com/vortex-fintech/go-phonemask/country"
	"github.com/vortex-fintech/go-phonemask/engine"
	"github.com/vortex-fintech/go-phonemask/foundation/logger"
	"github.com/vortex-fintech/go-phonemask/foundation/piiutil"
	"github.com/vortex-fintech/go-phonemask/mask"
)

const DefaultCountry = "US"

const (
	rejectDisabled = "disabled"
	rejectReadonly = "readonly"
	rejectNotFound = "country_not_found"
)

type Reconciler struct {
	engine     *engine.Engine
	defaultISO string
	log        logger.LoggerInterface
	obs        Observer
}

type Option func(*Reconciler)

func WithLogger(l logger.LoggerInterface) Option {
	return func(r *Reconciler) {
		if l != nil {
			r.log = l
		}
	}
}

func WithObserver(o Observer) Option {
	return func(r *Reconciler) {
		if o != nil {
			r.obs = o
		}
	}
}

// WithDefaultCountry sets the country used when Props.CountryCode is empty.
func WithDefaultCountry(iso string) Option {
	return func(r *Reconciler) {
		if iso != "" {
			r.defaultISO = iso
		}
	}
}

func NewReconciler(e *engine.Engine, opts ...Option) *Reconciler {
	r := &Reconciler{
		engine:     e,
		defaultISO: DefaultCountry,
		log:        logger.Nop(),
		obs:        nopObserver{},
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

func (r *Reconciler) Engine() *engine.Engine { return r.engine }

// Init builds the first State from props. An unknown country code is an
// error, not a silent fallback.
func (r *Reconciler) Init(p Props) (State, error) {
	iso := p.CountryCode
	if iso == "" {
		iso = r.defaultISO
	}
	c, err := r.engine.SelectCountry(iso)
	if err != nil {
		return State{}, err
	}

	s := State{
		Mode:     Uncontrolled,
		Country:  c,
		Disabled: p.Disabled,
		Readonly: p.Readonly,
		Invalid:  p.Invalid,
	}
	initial := p.DefaultValue
	if p.Value != nil {
		s.Mode = ControlledIdle
		initial = *p.Value
	}
	s.Value = r.engine.NewValue(initial, c)
	return s, nil
}

// Apply runs one event. On error the returned State is s, unchanged, and no
// notifications are produced.
func (r *Reconciler) Apply(s State, ev Event) (State, []Notification, error) {
	if ev == nil {
		return s, nil, nil
	}
	r.obs.ObserveEvent(ev.Name(), s.Mode)

	next, out, err := r.apply(s, ev)
	if err != nil {
		r.log.Debugw("field event rejected", "event", ev.Name(), "mode", s.Mode.String(), "err", err)
		return s, nil, err
	}

	for _, n := range out {
		r.obs.ObserveNotification(n.Kind)
	}
	r.log.Debugw("field transition",
		"event", ev.Name(),
		"from", s.Mode.String(),
		"to", next.Mode.String(),
		"country", next.Country.ISOCode,
		"value", piiutil.MaskPhone(next.Value.Formatted),
		"cursor", next.Cursor(),
		"notifications", len(out),
	)
	return next, out, nil
}

func (r *Reconciler) apply(s State, ev Event) (State, []Notification, error) {
	switch e := ev.(type) {
	case Focus:
		return r.focus(s)
	case Blur:
		return r.blur(s)
	case Input:
		return r.input(s, e)
	case KeyDown:
		return s, []Notification{r.notify(s, KindKeyDown, e.Key)}, nil
	case KeyUp:
		return s, []Notification{r.notify(s, KindKeyUp, e.Key)}, nil
	case ExternalValue:
		return r.external(s, e), nil, nil
	case SetCountry:
		c, err := r.engine.SelectCountry(e.ISO)
		if err != nil {
			r.obs.ObserveRejected(ev.Name(), rejectNotFound)
			return s, nil, err
		}
		return r.switchCountry(s, c), nil, nil
	case SelectCountry:
		if !r.allowed(s, ev) {
			return s, nil, nil
		}
		c, err := r.engine.SelectCountry(e.ISO)
		if err != nil {
			r.obs.ObserveRejected(ev.Name(), rejectNotFound)
			return s, nil, err
		}
		return r.selectCountry(s, c)
	case SelectCallingCode:
		if !r.allowed(s, ev) {
			return s, nil, nil
		}
		c, err := r.engine.ResolveCountryFromCallingCode(e.CallingCode, s.Country.ISOCode)
		if err != nil {
			r.obs.ObserveRejected(ev.Name(), rejectNotFound)
			return s, nil, err
		}
		return r.selectCountry(s, c)
	case SetFlags:
		s.Disabled, s.Readonly, s.Invalid = e.Disabled, e.Readonly, e.Invalid
		return s, nil, nil
	default:
		return s, nil, fmt.Errorf("field: unsupported event %T", ev)
	}
}

func (r *Reconciler) focus(s State) (State, []Notification, error) {
	if s.Focused {
		return s, nil, nil
	}
	// A disabled input cannot take focus. Readonly ones can.
	if s.Disabled {
		r.obs.ObserveRejected(Focus{}.Name(), rejectDisabled)
		return s, nil, nil
	}
	s = r.beginEdit(s)
	return s, []Notification{r.notify(s, KindFocus, "")}, nil
}

// beginEdit opens the edit buffer with the caret at the end of the value.
func (r *Reconciler) beginEdit(s State) State {
	s.Focused = true
	s.Buffer = &EditBuffer{Raw: s.Value.Raw, Cursor: len(s.Value.Formatted)}
	if s.Mode == ControlledIdle {
		s.Mode = ControlledEditing
	}
	return s
}

func (r *Reconciler) blur(s State) (State, []Notification, error) {
	if !s.Focused {
		return s, nil, nil
	}

	if s.Queued != nil {
		if queued := r.engine.NewValue(*s.Queued, s.Country); queued.Raw != s.LastEmittedRaw {
			s.Value = queued
		}
	}

	s.Focused = false
	s.Buffer = nil
	s.Queued = nil
	if s.Mode == ControlledEditing {
		s.Mode = ControlledIdle
	}
	s.LastEmittedRaw = s.Value.Raw

	return s, []Notification{
		r.notify(s, KindChange, ""),
		r.notify(s, KindBlur, ""),
	}, nil
}

func (r *Reconciler) input(s State, e Input) (State, []Notification, error) {
	if !r.allowed(s, e) {
		return s, nil, nil
	}
	if !s.Focused {
		s = r.beginEdit(s)
	}

	cursor := e.Cursor
	if cursor < 0 {
		cursor = len(e.Value)
	}

	raw := r.engine.ExtractRaw(e.Value)
	edit := r.engine.ReformatOnEdit(e.Value, cursor, raw, s.Country)

	s.Value = engine.Value{Raw: mask.ExtractRaw(edit.Formatted), Formatted: edit.Formatted}
	s.Buffer = &EditBuffer{Raw: s.Value.Raw, Cursor: edit.Cursor}
	s.LastEmittedRaw = s.Value.Raw

	return s, []Notification{r.notify(s, KindInputChange, "")}, nil
}

func (r *Reconciler) external(s State, e ExternalValue) State {
	if e.Value == nil {
		s.Mode = Uncontrolled
		s.Queued = nil
		return s
	}

	if s.Focused {
		v := *e.Value
		s.Mode = ControlledEditing
		s.Queued = &v
		r.obs.ObserveQueued()
		return s
	}

	s.Mode = ControlledIdle
	s.Value = r.engine.NewValue(*e.Value, s.Country)
	return s
}

// switchCountry re-masks the current value. While focused the caret keeps
// its position relative to the digits.
func (r *Reconciler) switchCountry(s State, c country.Entry) State {
	prev := s.Value
	s.Country = c
	s.Value = r.engine.Remask(prev, c)

	if s.Buffer != nil {
		n := mask.DigitsBefore(prev.Formatted, s.Buffer.Cursor)
		if n > len(s.Value.Raw) {
			n = len(s.Value.Raw)
		}
		s.Buffer = &EditBuffer{Raw: s.Value.Raw, Cursor: mask.CursorAfterDigits(s.Value.Formatted, n)}
	}
	return s
}

func (r *Reconciler) selectCountry(s State, c country.Entry) (State, []Notification, error) {
	if c.ISOCode == s.Country.ISOCode {
		return s, nil, nil
	}
	s = r.switchCountry(s, c)
	s.LastEmittedRaw = s.Value.Raw
	return s, []Notification{r.notify(s, KindChange, "")}, nil
}

func (r *Reconciler) allowed(s State, ev Event) bool {
	if s.editable() {
		return true
	}
	reason := rejectReadonly
	if s.Disabled {
		reason = rejectDisabled
	}
	r.obs.ObserveRejected(ev.Name(), reason)
	return false
}

func (r *Reconciler) notify(s State, kind Kind, key string) Notification {
	return Notification{Kind: kind, Key: key, Payload: r.payload(s)}
}

func (r *Reconciler) payload(s State) Payload {
	p := Payload{
		Value:       s.Value.Formatted,
		RawValue:    s.Value.Raw,
		CallingCode: s.Country.CallingCode,
		CountryCode: s.Country.ISOCode,
	}
	if e164, ok := r.engine.E164(s.Value, s.Country); ok {
		p.E164 = e164
	}
	return p
}
