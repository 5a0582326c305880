package validator

var tagMap = map[string]string{
	"required":      "required",
	"omitempty":     "optional",
	"len":           "invalid_length",
	"min":           "too_short",
	"max":           "too_long",
	"alpha":         "only_letters_allowed",
	"uppercase":     "only_uppercase_allowed",
	"numeric":       "only_numbers_allowed",
	"oneof":         "invalid_choice",
	"gt":            "too_small",
	"file":          "file_not_found",
	"hostname_port": "invalid_address",
	"iso2":          "invalid_country_code",
	"calling_code":  "invalid_calling_code",
	"phonemask":     "invalid_mask",
}

func mapTagToCode(tag string) string {
	if code, ok := tagMap[tag]; ok {
		return code
	}
	return "invalid"
}

// TagReasons returns a copy of the tag -> reason table.
func TagReasons() map[string]string {
	out := make(map[string]string, len(tagMap))
	for k, v := range tagMap {
		out[k] = v
	}
	return out
}
