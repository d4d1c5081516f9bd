// Package models defines the client-side shapes of the storefront API:
// the authenticated identity, catalog, cart, orders, reviews and users.
package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

var ErrInvalidFlag = errors.New("flag must be a boolean or 0/1")

// Flag is a boolean that the server encodes as the integers 0 and 1.
// It decodes from either form and encodes as an integer.
type Flag bool

func (f Flag) MarshalJSON() ([]byte, error) {
	if f {
		return []byte("1"), nil
	}
	return []byte("0"), nil
}

func (f *Flag) UnmarshalJSON(b []byte) error {
	switch string(bytes.TrimSpace(b)) {
	case "1", "true":
		*f = true
	case "0", "false", "null":
		*f = false
	default:
		return fmt.Errorf("%w: %s", ErrInvalidFlag, string(b))
	}
	return nil
}

// Money is a decimal amount kept in its textual form. The server may send
// it as a JSON string ("19.99") or a number (19.99); both decode to the same
// text. It encodes as a JSON string.
type Money string

func (m *Money) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if string(b) == "null" {
		*m = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*m = Money(s)
		return nil
	}
	if _, err := strconv.ParseFloat(string(b), 64); err != nil {
		return fmt.Errorf("invalid money amount %s: %w", string(b), err)
	}
	*m = Money(b)
	return nil
}

func (m Money) String() string { return string(m) }
