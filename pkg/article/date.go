package article

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
)

// dateLayouts are tried in order when decoding a publish date. Layouts
// without a zone parse as UTC.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02",
	time.RFC1123Z,
	time.RFC1123,
}

// Date is a publish date as the extractor reported it. Values matching a
// known layout are normalized to RFC 3339; anything else is kept verbatim.
type Date struct {
	Time time.Time
	Raw  string
}

// NewDate returns a Date for t.
func NewDate(t time.Time) *Date {
	return &Date{Time: t}
}

// ParseDate never fails: an unrecognized value is kept as Raw.
func ParseDate(s string) Date {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Date{Time: t}
		}
	}
	return Date{Raw: s}
}

// String renders the date the way it is stored in metadata.
func (d Date) String() string {
	if !d.Time.IsZero() {
		return d.Time.UTC().Format(time.RFC3339)
	}
	return d.Raw
}

// IsZero reports whether no date was given.
func (d Date) IsZero() bool {
	return d.Time.IsZero() && d.Raw == ""
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON accepts null, a string in any of dateLayouts, or any other
// scalar, which is kept as its JSON text.
func (d *Date) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*d = Date{}
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		*d = Date{Raw: string(data)}
		return nil
	}
	*d = ParseDate(s)
	return nil
}
