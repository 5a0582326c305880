package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vortex-fintech/go-phonemask/country"
	"github.com/vortex-fintech/go-phonemask/field"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := newRootCmd(&stdout, &stderr)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), err
}

func TestFormatCmd(t *testing.T) {
	out, err := execute(t, "", "format", "5551234567", "555", "")
	require.NoError(t, err)
	assert.Equal(t, "(555) 123-4567\n(555\n\n", out)

	out, err = execute(t, "", "format", "--country", "br", "48999216078")
	require.NoError(t, err)
	assert.Equal(t, "(48) 99921-6078\n", out)

	out, err = execute(t, "", "--default-country", "gb", "format", "2079460958")
	require.NoError(t, err)
	assert.NotEmpty(t, strings.TrimSpace(out))
}

func TestFormatCmdJSON(t *testing.T) {
	out, err := execute(t, "", "format", "--json", "--calling-code", "1", "+1 (201) 555-0123")
	require.NoError(t, err)

	var got formatResult
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "1201555012", got.Raw, "input beyond the mask capacity is dropped")
	assert.Equal(t, "US", got.CountryCode)
	assert.True(t, got.Complete)

	out, err = execute(t, "", "format", "--json", "2015550123")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "(201) 555-0123", got.Formatted)
	assert.Equal(t, "+12015550123", got.E164)
}

func TestFormatCmdE164(t *testing.T) {
	out, err := execute(t, "", "format", "--e164", "+5548999216078", "+1 201 555 0123")
	require.NoError(t, err)
	assert.Equal(t, "(48) 99921-6078\n(201) 555-0123\n", out)
}

func TestFormatCmdUnknownCountry(t *testing.T) {
	_, err := execute(t, "", "format", "--country", "zz", "555")
	assert.ErrorIs(t, err, country.ErrNotFound)
}

func TestCountriesCmd(t *testing.T) {
	out, err := execute(t, "", "countries", "--calling-code", "+44")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 5)
	assert.True(t, strings.HasPrefix(lines[0], "ISO"))
	for i, iso := range []string{"GB", "GG", "JE", "IM"} {
		assert.True(t, strings.HasPrefix(lines[i+1], iso), lines[i+1])
	}

	out, err = execute(t, "", "countries", "--json")
	require.NoError(t, err)
	var entries []country.Entry
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	assert.Equal(t, "US", entries[0].ISOCode)

	_, err = execute(t, "", "countries", "--calling-code", "999")
	assert.ErrorIs(t, err, country.ErrNotFound)
}

func TestCountriesCmdVerify(t *testing.T) {
	out, err := execute(t, "", "countries", "--verify")
	require.NoError(t, err)
	assert.Equal(t, "22 entries ok\n", out)
}

func TestCountriesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "countries.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`countries:
  - iso: DE
    calling_code: "49"
    mask: "#### #######"
    name: Germany
  - iso: ZZ
    calling_code: "999"
    mask: "### ###"
    name: Nowhere
`), 0o600))

	out, err := execute(t, "", "--countries-file", path, "--default-country", "de", "format", "301234567")
	require.NoError(t, err)
	assert.Equal(t, "3012 34567\n", out)

	out, err = execute(t, "", "--countries-file", path, "--default-country", "de", "countries", "--verify")
	assert.Error(t, err)
	assert.Contains(t, out, "ZZ")
}

func TestInvalidConfig(t *testing.T) {
	t.Setenv("PHONEMASK_ENV", "staging")
	_, err := execute(t, "", "format", "1")
	assert.ErrorContains(t, err, "invalid configuration")
}

func TestUnknownDefaultCountry(t *testing.T) {
	t.Setenv("PHONEMASK_DEFAULT_COUNTRY", "ZZ")
	_, err := execute(t, "", "format", "5551234567")
	assert.ErrorIs(t, err, country.ErrNotFound)
	assert.ErrorContains(t, err, "default country")

	_, err = execute(t, "", "--default-country", "xk", "serve")
	assert.ErrorIs(t, err, country.ErrNotFound)
}

func TestReplayCmd(t *testing.T) {
	script := `
country: us
value: "5551234567"
echo: true
steps:
  - focus: true
  - clear: true
  - type: "5551294567"
  - blur: true
  - external: "4152881234"
`
	out, err := execute(t, script, "replay", "--state", "-")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	var kinds []field.Kind
	for _, l := range lines[:len(lines)-1] {
		var n field.Notification
		require.NoError(t, json.Unmarshal([]byte(l), &n))
		kinds = append(kinds, n.Kind)
	}
	assert.Equal(t, field.KindFocus, kinds[0])
	assert.Equal(t, []field.Kind{field.KindChange, field.KindBlur}, kinds[len(kinds)-2:])

	var change field.Notification
	require.NoError(t, json.Unmarshal([]byte(lines[len(lines)-3]), &change))
	assert.Equal(t, "(555) 129-4567", change.Payload.Value)

	var st stateView
	require.NoError(t, json.Unmarshal([]byte(lines[len(lines)-1]), &st))
	assert.Equal(t, stateView{
		Mode:        "controlled_idle",
		Value:       "(415) 288-1234",
		RawValue:    "4152881234",
		CountryCode: "US",
		CallingCode: "1",
		Cursor:      -1,
	}, st)
}

func TestReplayCmdFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "script.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
country: us
steps:
  - type: "55"
  - select_country: br
  - type: "51234567"
`), 0o600))

	out, err := execute(t, "", "replay", "--state", path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")

	var st stateView
	require.NoError(t, json.Unmarshal([]byte(lines[len(lines)-1]), &st))
	assert.Equal(t, "(55) 51234-567", st.Value)
	assert.Equal(t, "BR", st.CountryCode)
	assert.True(t, st.Focused)
}

func TestReplayCmdInvalidScript(t *testing.T) {
	_, err := execute(t, "steps:\n  - focus: true\n    blur: true\n", "replay", "-")
	assert.ErrorContains(t, err, "invalid_script")

	_, err = execute(t, "steps:\n  - wiggle: true\n", "replay", "-")
	assert.ErrorContains(t, err, "invalid_script")

	_, err = execute(t, "country: us\nsteps:\n  - select_country: zz\n", "replay", "-")
	assert.ErrorIs(t, err, country.ErrNotFound)
}
