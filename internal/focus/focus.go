// Package focus holds the dashboard's panel focus and persists it to local
// storage under a fixed key.
package focus

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
)

// ErrInvalid is returned when a stored focus value cannot be parsed.
var ErrInvalid = errors.New("invalid focus value")

// Focus is the optional id of the single panel shown in isolation.
// The zero value means no panel is focused.
type Focus struct {
	id  int
	set bool
}

// None is the unfocused value.
var None = Focus{}

// On returns a focus on panel id.
func On(id int) Focus {
	return Focus{id: id, set: true}
}

// ID returns the focused panel id and whether any panel is focused.
func (f Focus) ID() (int, bool) {
	return f.id, f.set
}

// IsSet reports whether a panel is focused.
func (f Focus) IsSet() bool {
	return f.set
}

// Is reports whether f focuses exactly panel id.
func (f Focus) Is(id int) bool {
	return f.set && f.id == id
}

// Toggle is the panel selection rule: with nothing focused, selecting id
// focuses it; with any panel focused, selecting anything clears the focus.
func (f Focus) Toggle(id int) Focus {
	if f.set {
		return None
	}
	return On(id)
}

func (f Focus) String() string {
	if !f.set {
		return "none"
	}
	return strconv.Itoa(f.id)
}

// MarshalJSON encodes the focus as a number, or null when unset.
func (f Focus) MarshalJSON() ([]byte, error) {
	if !f.set {
		return []byte("null"), nil
	}
	return []byte(strconv.Itoa(f.id)), nil
}

// UnmarshalJSON accepts null or any integral JSON number, so 2, 2.0 and 2e0
// all focus panel 2. A stored 0 is treated as unfocused, matching the falsy
// check the stored value always had. Strings, booleans and fractions are
// rejected.
func (f *Focus) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = None
		return nil
	}
	var n float64
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalid, data)
	}
	if n != math.Trunc(n) || n > math.MaxInt32 || n < math.MinInt32 {
		return fmt.Errorf("%w: %q", ErrInvalid, data)
	}
	id := int(n)
	if id == 0 {
		*f = None
		return nil
	}
	*f = On(id)
	return nil
}

// Parse decodes a stored focus value. Empty input means nothing was stored.
func Parse(data []byte) (Focus, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return None, nil
	}
	var f Focus
	if err := f.UnmarshalJSON(data); err != nil {
		return None, err
	}
	return f, nil
}
