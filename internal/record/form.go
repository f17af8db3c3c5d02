package record

import "net/url"

// FromForm builds an input mapping from submitted form values, taking the
// first value of each field. Empty strings are kept: they clear columns.
func FromForm(form url.Values) Values {
	input := make(Values, len(form))
	for key, vals := range form {
		if len(vals) == 0 {
			continue
		}
		input[key] = vals[0]
	}
	return input
}
