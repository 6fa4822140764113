package forms

import "sort"

// FieldErrors maps a JSON field name to its messages. Client-side validation
// and server validationErrors both land here.
type FieldErrors map[string][]string

func (fe FieldErrors) Add(field, msg string) {
	fe[field] = append(fe[field], msg)
}

// Merge appends other's messages, skipping duplicates. It returns fe, or a
// new map when fe is nil and other is not empty.
func (fe FieldErrors) Merge(other map[string][]string) FieldErrors {
	if len(other) == 0 {
		return fe
	}
	if fe == nil {
		fe = FieldErrors{}
	}
	for field, msgs := range other {
		for _, m := range msgs {
			if !contains(fe[field], m) {
				fe.Add(field, m)
			}
		}
	}
	return fe
}

func (fe FieldErrors) Has(field string) bool { return len(fe[field]) > 0 }

// First returns the first message for field, or "".
func (fe FieldErrors) First(field string) string {
	if msgs := fe[field]; len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}

func (fe FieldErrors) Empty() bool { return len(fe) == 0 }

func (fe FieldErrors) Fields() []string {
	out := make([]string, 0, len(fe))
	for f := range fe {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
