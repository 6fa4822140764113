package ident

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// TempPrefix marks IDs minted locally for rows whose create call has not resolved yet.
const TempPrefix = "temp-"

// ID is a server identifier. The backend sends numbers; temp IDs are strings.
type ID string

func NewTemp() ID { return ID(TempPrefix + uuid.NewString()) }

func Parse(raw string) (ID, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", fmt.Errorf("empty id")
	}
	if strings.ContainsAny(s, "/?#") {
		return "", fmt.Errorf("invalid id %q", raw)
	}
	return ID(s), nil
}

func (id ID) String() string { return string(id) }
func (id ID) IsZero() bool   { return strings.TrimSpace(string(id)) == "" }
func (id ID) IsTemp() bool   { return strings.HasPrefix(string(id), TempPrefix) }

func (id ID) MarshalJSON() ([]byte, error) {
	if id == "" {
		return []byte("null"), nil
	}
	if _, err := strconv.ParseInt(string(id), 10, 64); err == nil {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id must be a string or number: %w", err)
	}
	*id = ID(n.String())
	return nil
}
