package field

type Kind string

const (
	KindInputChange Kind = "input_change"
	KindChange      Kind = "change"
	KindFocus       Kind = "focus"
	KindBlur        Kind = "blur"
	KindKeyDown     Kind = "key_down"
	KindKeyUp       Kind = "key_up"
)

// Payload is the value tuple handed to listeners. CountryCode is the
// upper-case ISO code. E164 is set only for numbers libphonenumber accepts.
type Payload struct {
	Value       string `json:"value"`
	RawValue    string `json:"rawValue"`
	CallingCode string `json:"callingCode"`
	CountryCode string `json:"countryCode"`
	E164        string `json:"e164,omitempty"`
}

type Notification struct {
	Kind    Kind    `json:"kind"`
	Key     string  `json:"key,omitempty"`
	Payload Payload `json:"payload"`
}
