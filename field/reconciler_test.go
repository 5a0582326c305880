package field_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vortex-fintech/go-phonemask/country"
	"github.com/vortex-fintech/go-phonemask/engine"
	"github.com/vortex-fintech/go-phonemask/field"
)

func newReconciler(opts ...field.Option) *field.Reconciler {
	return field.NewReconciler(engine.Default(), opts...)
}

func initState(t *testing.T, r *field.Reconciler, p field.Props) field.State {
	t.Helper()
	s, err := r.Init(p)
	require.NoError(t, err)
	return s
}

func apply(t *testing.T, r *field.Reconciler, s field.State, ev field.Event) (field.State, []field.Notification) {
	t.Helper()
	next, out, err := r.Apply(s, ev)
	require.NoError(t, err)
	return next, out
}

// typeString types text one byte at a time at the caret.
func typeString(t *testing.T, r *field.Reconciler, s field.State, text string) (field.State, []field.Notification) {
	t.Helper()
	var all []field.Notification
	for i := 0; i < len(text); i++ {
		var out []field.Notification
		s, out = apply(t, r, s, field.TypeText(s, text[i:i+1]))
		all = append(all, out...)
	}
	return s, all
}

func kinds(ns []field.Notification) []field.Kind {
	out := make([]field.Kind, 0, len(ns))
	for _, n := range ns {
		out = append(out, n.Kind)
	}
	return out
}

func last(t *testing.T, ns []field.Notification) field.Notification {
	t.Helper()
	require.NotEmpty(t, ns)
	return ns[len(ns)-1]
}

func ptr(s string) *string { return &s }

func TestInit(t *testing.T) {
	r := newReconciler()

	s := initState(t, r, field.Props{CountryCode: "us", DefaultValue: "5551234567"})
	assert.Equal(t, field.Uncontrolled, s.Mode)
	assert.Equal(t, "(555) 123-4567", s.Display())
	assert.Equal(t, -1, s.Cursor())

	s = initState(t, r, field.Props{CountryCode: "gb", Value: ptr("")})
	assert.Equal(t, field.ControlledIdle, s.Mode)
	assert.Equal(t, "+ 44", s.Country.Prefix())
	assert.Equal(t, "", s.Display())

	s = initState(t, r, field.Props{})
	assert.Equal(t, "US", s.Country.ISOCode)

	s = initState(t, newReconciler(field.WithDefaultCountry("br")), field.Props{})
	assert.Equal(t, "BR", s.Country.ISOCode)
}

func TestInit_UnknownCountry(t *testing.T) {
	_, err := newReconciler().Init(field.Props{CountryCode: "zz"})
	assert.ErrorIs(t, err, country.ErrNotFound)
}

func TestTypingEmitsInputChangePerKeystroke(t *testing.T) {
	r := newReconciler()
	s := initState(t, r, field.Props{CountryCode: "us"})

	s, out := typeString(t, r, s, "5551234567")
	require.Len(t, out, 10)
	for _, n := range out {
		assert.Equal(t, field.KindInputChange, n.Kind)
	}

	got := last(t, out).Payload
	assert.Equal(t, "(555) 123-4567", got.Value)
	assert.Equal(t, "5551234567", got.RawValue)
	assert.Equal(t, "1", got.CallingCode)
	assert.Equal(t, "US", got.CountryCode)
	assert.True(t, s.Focused, "first keystroke opens the edit buffer")
}

func TestCursorAfterInsertedSeparator(t *testing.T) {
	r := newReconciler()
	s := initState(t, r, field.Props{CountryCode: "us"})
	s, _ = apply(t, r, s, field.Focus{})

	s, _ = typeString(t, r, s, "555")
	require.Equal(t, "(555", s.Display())
	require.Equal(t, 4, s.Cursor())

	s, _ = typeString(t, r, s, "1")
	assert.Equal(t, "(555) 1", s.Display())
	assert.Equal(t, "5551", s.Value.Raw)
	assert.Equal(t, 7, s.Cursor())
	assert.Equal(t, "5551", s.Buffer.Raw)
}

func TestBackspaceAcrossSeparator(t *testing.T) {
	r := newReconciler()
	s := initState(t, r, field.Props{CountryCode: "us"})
	s, _ = typeString(t, r, s, "5551")
	require.Equal(t, 7, s.Cursor())

	s, _ = apply(t, r, s, field.Backspace(s))
	assert.Equal(t, "(555", s.Display())
	assert.Equal(t, 4, s.Cursor())
}

func TestEditMiddleDigit(t *testing.T) {
	r := newReconciler()
	s := initState(t, r, field.Props{CountryCode: "us", DefaultValue: "5551234567"})
	s, _ = apply(t, r, s, field.Focus{})
	require.Equal(t, len("(555) 123-4567"), s.Cursor())

	s, _ = apply(t, r, s, field.ReplaceRange(s, 8, 9, "9"))
	assert.Equal(t, "(555) 129-4567", s.Display())
	assert.Equal(t, 9, s.Cursor())

	s, out := apply(t, r, s, field.Blur{})
	assert.Equal(t, []field.Kind{field.KindChange, field.KindBlur}, kinds(out))
	assert.Equal(t, "(555) 129-4567", out[0].Payload.Value)
	assert.Nil(t, s.Buffer)
}

func TestInsertInMiddleKeepsCaretWithDigits(t *testing.T) {
	r := newReconciler()
	s := initState(t, r, field.Props{CountryCode: "us"})
	s, _ = typeString(t, r, s, "55512")
	require.Equal(t, "(555) 12", s.Display())

	s.Buffer.Cursor = 2 // "(5|55) 12"
	s, _ = typeString(t, r, s, "9")
	assert.Equal(t, "(595) 512", s.Display())
	assert.Equal(t, 3, s.Cursor())
}

func TestPasteReplacesValue(t *testing.T) {
	r := newReconciler()
	s := initState(t, r, field.Props{CountryCode: "us", DefaultValue: "5551234567"})

	s, _ = apply(t, r, s, field.Clear())
	require.Equal(t, "", s.Display())

	s, out := apply(t, r, s, field.TypeText(s, "4152881234"))
	assert.Equal(t, "(415) 288-1234", last(t, out).Payload.Value)

	s, _ = apply(t, r, s, field.Clear())
	s, out = apply(t, r, s, field.TypeText(s, "(415) 288-1234"))
	assert.Equal(t, "(415) 288-1234", last(t, out).Payload.Value)
	assert.Equal(t, len("(415) 288-1234"), s.Cursor())
}

func TestOverLengthInputIsTruncated(t *testing.T) {
	r := newReconciler()
	s := initState(t, r, field.Props{CountryCode: "us"})

	s, _ = typeString(t, r, s, "555123456789")
	assert.Equal(t, "5551234567", s.Value.Raw)
	assert.Equal(t, "(555) 123-4567", s.Display())
	assert.Equal(t, len("(555) 123-4567"), s.Cursor())
}

func TestCountrySwitchMidEdit(t *testing.T) {
	r := newReconciler()
	s := initState(t, r, field.Props{CountryCode: "us"})
	s, _ = apply(t, r, s, field.Focus{})
	s, _ = typeString(t, r, s, "55")

	s, out := apply(t, r, s, field.SelectCountry{ISO: "br"})
	require.Equal(t, []field.Kind{field.KindChange}, kinds(out))
	assert.Equal(t, "BR", out[0].Payload.CountryCode)
	assert.Equal(t, "55", out[0].Payload.CallingCode)
	assert.Equal(t, 3, s.Cursor())

	s, out = typeString(t, r, s, "51234567")
	assert.Equal(t, "(55) 51234-567", s.Display())
	assert.Equal(t, "5551234567", last(t, out).Payload.RawValue)
	assert.Equal(t, "BR", last(t, out).Payload.CountryCode)
}

func TestTypingAfterSelectingBrazil(t *testing.T) {
	r := newReconciler()
	s := initState(t, r, field.Props{CountryCode: "us"})
	s, _ = apply(t, r, s, field.SelectCountry{ISO: "BR"})

	_, out := typeString(t, r, s, "48999216078")
	got := last(t, out).Payload
	want := field.Payload{
		Value:       "(48) 99921-6078",
		RawValue:    "48999216078",
		CallingCode: "55",
		CountryCode: "BR",
		E164:        got.E164,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("payload mismatch (-want +got):\n%s", diff)
	}
}

func TestSelectCallingCodeKeepsSharingCountry(t *testing.T) {
	r := newReconciler()

	s := initState(t, r, field.Props{CountryCode: "ca", DefaultValue: "4165550199"})
	next, out := apply(t, r, s, field.SelectCallingCode{CallingCode: "+1"})
	assert.Equal(t, "CA", next.Country.ISOCode)
	assert.Empty(t, out)

	s = initState(t, r, field.Props{CountryCode: "br"})
	next, out = apply(t, r, s, field.SelectCallingCode{CallingCode: "1"})
	assert.Equal(t, "US", next.Country.ISOCode)
	assert.Equal(t, []field.Kind{field.KindChange}, kinds(out))
}

func TestSelectUnknownCountryLeavesStateUntouched(t *testing.T) {
	r := newReconciler()
	s := initState(t, r, field.Props{CountryCode: "us", DefaultValue: "555"})

	for _, ev := range []field.Event{
		field.SelectCountry{ISO: "zz"},
		field.SetCountry{ISO: "zz"},
		field.SelectCallingCode{CallingCode: "999"},
	} {
		next, out, err := r.Apply(s, ev)
		assert.ErrorIs(t, err, country.ErrNotFound, ev.Name())
		assert.Nil(t, out)
		assert.Equal(t, s, next)
	}
}

func TestControlledIdleFollowsExternalValue(t *testing.T) {
	r := newReconciler()
	s := initState(t, r, field.Props{CountryCode: "us", Value: ptr("5551234567")})
	require.Equal(t, "(555) 123-4567", s.Display())

	steps := []struct {
		value string
		want  string
	}{
		{value: "4152881234", want: "(415) 288-1234"},
		{value: "", want: ""},
		{value: "555", want: "(555"},
		{value: "55512", want: "(555) 12"},
		{value: "5551234", want: "(555) 123-4"},
		{value: "not a number", want: ""},
	}
	for _, st := range steps {
		var out []field.Notification
		s, out = apply(t, r, s, field.Controlled(st.value))
		assert.Empty(t, out)
		assert.Equal(t, field.ControlledIdle, s.Mode)
		assert.Equal(t, st.want, s.Display(), st.value)
	}
}

func TestControlledCountryProp(t *testing.T) {
	r := newReconciler()
	s := initState(t, r, field.Props{CountryCode: "us", Value: ptr("5551234567")})

	s, out := apply(t, r, s, field.SetCountry{ISO: "br"})
	assert.Empty(t, out)
	s, _ = apply(t, r, s, field.Controlled("48999216078"))
	assert.Equal(t, "(48) 99921-6078", s.Display())
}

func TestQueuedExternalValueAppliedOnceOnBlur(t *testing.T) {
	r := newReconciler()
	s := initState(t, r, field.Props{CountryCode: "us", Value: ptr("5551234567")})

	s, out := apply(t, r, s, field.Focus{})
	require.Equal(t, []field.Kind{field.KindFocus}, kinds(out))
	require.Equal(t, field.ControlledEditing, s.Mode)

	s, _ = apply(t, r, s, field.Clear())
	s, _ = typeString(t, r, s, "5551294567")
	require.Equal(t, "(555) 129-4567", s.Display())

	s, out = apply(t, r, s, field.Controlled("4152881234"))
	assert.Empty(t, out)
	assert.Equal(t, "(555) 129-4567", s.Display(), "buffer stays authoritative while editing")
	require.NotNil(t, s.Queued)

	s, out = apply(t, r, s, field.Controlled("2125550100"))
	assert.Empty(t, out)

	s, out = apply(t, r, s, field.Blur{})
	require.Equal(t, []field.Kind{field.KindChange, field.KindBlur}, kinds(out))
	assert.Equal(t, "(212) 555-0100", out[0].Payload.Value)
	assert.Equal(t, "(212) 555-0100", s.Display())
	assert.Equal(t, field.ControlledIdle, s.Mode)
	assert.Nil(t, s.Queued)
	assert.Nil(t, s.Buffer)
}

func TestEchoedValueDoesNotOverrideEdit(t *testing.T) {
	r := newReconciler()
	s := initState(t, r, field.Props{CountryCode: "us", Value: ptr("5551234567")})

	s, _ = apply(t, r, s, field.Focus{})
	s, _ = apply(t, r, s, field.Clear())
	for i, c := range "5551294567" {
		var out []field.Notification
		s, out = apply(t, r, s, field.TypeText(s, string(c)))
		echo := last(t, out).Payload.RawValue
		require.Len(t, echo, i+1)
		s, _ = apply(t, r, s, field.Controlled(echo))
	}

	s, out := apply(t, r, s, field.Blur{})
	require.Equal(t, []field.Kind{field.KindChange, field.KindBlur}, kinds(out))
	assert.Equal(t, "(555) 129-4567", out[0].Payload.Value)

	s, out = apply(t, r, s, field.Controlled("4152881234"))
	assert.Empty(t, out)
	assert.Equal(t, "(415) 288-1234", s.Display())
}

func TestReleaseControl(t *testing.T) {
	r := newReconciler()
	s := initState(t, r, field.Props{CountryCode: "us", Value: ptr("555")})

	s, _ = apply(t, r, s, field.Focus{})
	s, _ = apply(t, r, s, field.Controlled("4152881234"))
	s, _ = apply(t, r, s, field.Release())
	assert.Equal(t, field.Uncontrolled, s.Mode)
	assert.Nil(t, s.Queued)

	s, out := apply(t, r, s, field.Blur{})
	assert.Equal(t, "(555", out[0].Payload.Value)
	assert.Equal(t, field.Uncontrolled, s.Mode)
}

func TestUncontrolledFocusedTakingControlQueues(t *testing.T) {
	r := newReconciler()
	s := initState(t, r, field.Props{CountryCode: "us"})
	s, _ = typeString(t, r, s, "555")

	s, _ = apply(t, r, s, field.Controlled("4152881234"))
	assert.Equal(t, field.ControlledEditing, s.Mode)
	assert.Equal(t, "(555", s.Display())

	s, _ = apply(t, r, s, field.Blur{})
	assert.Equal(t, "(415) 288-1234", s.Display())
	assert.Equal(t, field.ControlledIdle, s.Mode)
}

func TestFocusBlurIdempotent(t *testing.T) {
	r := newReconciler()
	s := initState(t, r, field.Props{CountryCode: "us"})

	s, out := apply(t, r, s, field.Blur{})
	assert.Empty(t, out)

	s, out = apply(t, r, s, field.Focus{})
	assert.Len(t, out, 1)
	_, out = apply(t, r, s, field.Focus{})
	assert.Empty(t, out)
}

func TestKeyEventsPassThrough(t *testing.T) {
	r := newReconciler()
	s := initState(t, r, field.Props{CountryCode: "us", DefaultValue: "555"})

	next, out := apply(t, r, s, field.KeyDown{Key: "1"})
	assert.Equal(t, s, next)
	require.Len(t, out, 1)
	assert.Equal(t, field.KindKeyDown, out[0].Kind)
	assert.Equal(t, "1", out[0].Key)
	assert.Equal(t, "(555", out[0].Payload.Value)

	_, out = apply(t, r, s, field.KeyUp{Key: "1"})
	assert.Equal(t, field.KindKeyUp, out[0].Kind)
}

func TestDisabledAndReadonlyIgnoreEdits(t *testing.T) {
	r := newReconciler()

	for _, flags := range []field.SetFlags{{Disabled: true}, {Readonly: true}} {
		s := initState(t, r, field.Props{CountryCode: "us", Value: ptr("555")})
		s, _ = apply(t, r, s, flags)

		for _, ev := range []field.Event{
			field.TypeText(s, "1"),
			field.SelectCountry{ISO: "br"},
			field.SelectCallingCode{CallingCode: "55"},
		} {
			next, out := apply(t, r, s, ev)
			assert.Empty(t, out, ev.Name())
			assert.Equal(t, s, next, ev.Name())
		}

		s, _ = apply(t, r, s, field.Controlled("4152881234"))
		assert.Equal(t, "(415) 288-1234", s.Display())
	}

	s := initState(t, r, field.Props{CountryCode: "us", Disabled: true})
	s, _ = apply(t, r, s, field.SetFlags{})
	s, out := apply(t, r, s, field.TypeText(s, "5"))
	assert.Len(t, out, 1)
	assert.Equal(t, "(5", s.Display())
}

func TestDisabledFieldRejectsFocus(t *testing.T) {
	obs := newCountingObserver()
	r := newReconciler(field.WithObserver(obs))
	s := initState(t, r, field.Props{CountryCode: "us", Value: ptr("555"), Disabled: true})

	next, out := apply(t, r, s, field.Focus{})
	assert.Empty(t, out)
	assert.Equal(t, s, next)
	assert.Equal(t, field.ControlledIdle, next.Mode)
	assert.False(t, next.Focused)
	assert.Equal(t, 1, obs.rejected["focus:disabled"])

	s = initState(t, r, field.Props{CountryCode: "us", Value: ptr("555"), Readonly: true})
	next, out = apply(t, r, s, field.Focus{})
	assert.Equal(t, []field.Kind{field.KindFocus}, kinds(out))
	assert.Equal(t, field.ControlledEditing, next.Mode)
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	r := newReconciler()
	s := initState(t, r, field.Props{CountryCode: "us", Value: ptr("555")})
	s, _ = apply(t, r, s, field.Focus{})
	s, _ = apply(t, r, s, field.Controlled("4152881234"))

	bufCursor := s.Buffer.Cursor
	queued := *s.Queued

	_, _ = apply(t, r, s, field.TypeText(s, "1"))
	_, _ = apply(t, r, s, field.Controlled("2125550100"))
	_, _ = apply(t, r, s, field.Blur{})

	assert.Equal(t, bufCursor, s.Buffer.Cursor)
	assert.Equal(t, queued, *s.Queued)
}

type bogusEvent struct{}

func (bogusEvent) Name() string { return "bogus" }

func TestUnsupportedEvent(t *testing.T) {
	r := newReconciler()
	s := initState(t, r, field.Props{})

	_, _, err := r.Apply(s, bogusEvent{})
	assert.Error(t, err)

	next, out, err := r.Apply(s, nil)
	assert.NoError(t, err)
	assert.Nil(t, out)
	assert.Equal(t, s, next)
}

type countingObserver struct {
	events   map[string]int
	notes    map[field.Kind]int
	queued   int
	rejected map[string]int
}

func newCountingObserver() *countingObserver {
	return &countingObserver{events: map[string]int{}, notes: map[field.Kind]int{}, rejected: map[string]int{}}
}

func (o *countingObserver) ObserveEvent(event string, _ field.Mode) { o.events[event]++ }
func (o *countingObserver) ObserveNotification(k field.Kind)        { o.notes[k]++ }
func (o *countingObserver) ObserveQueued()                          { o.queued++ }
func (o *countingObserver) ObserveRejected(event, reason string)    { o.rejected[event+":"+reason]++ }

func TestObserver(t *testing.T) {
	obs := newCountingObserver()
	r := newReconciler(field.WithObserver(obs))
	s := initState(t, r, field.Props{CountryCode: "us", Value: ptr("")})

	s, _ = apply(t, r, s, field.Focus{})
	s, _ = typeString(t, r, s, "555")
	s, _ = apply(t, r, s, field.Controlled("555"))
	s, _ = apply(t, r, s, field.Blur{})
	_, _, _ = r.Apply(s, field.SelectCountry{ISO: "zz"})
	s, _ = apply(t, r, s, field.SetFlags{Readonly: true})
	_, _ = apply(t, r, s, field.TypeText(s, "1"))

	assert.Equal(t, 4, obs.events["input"])
	assert.Equal(t, 3, obs.notes[field.KindInputChange])
	assert.Equal(t, 1, obs.notes[field.KindChange])
	assert.Equal(t, 1, obs.queued)
	assert.Equal(t, 1, obs.rejected["select_country:country_not_found"])
	assert.Equal(t, 1, obs.rejected["input:readonly"])
}
