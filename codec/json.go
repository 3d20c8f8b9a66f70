package codec

import (
	"encoding/json"
	"regexp"
)

// ISOLayout formats a UTC time in the form ISODatePattern matches.
const ISOLayout = "2006-01-02T15:04:05.000Z"

// ISODatePattern matches timestamps in millisecond UTC form, e.g.
// 2024-03-01T09:30:00.000Z.
var ISODatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}\.\d{3}Z$`)

// JSON is the default codec. The zero value is ready to use and revives
// ISODatePattern strings found in dynamically typed slots (any, map[string]any,
// []any) into time.Time. Statically typed fields are left to encoding/json:
// a time.Time field decodes natively and a string field stays a string.
//
// Marshal leaves time.Time to encoding/json, which writes RFC 3339 with
// nanoseconds and trailing zeros trimmed, which ISODatePattern rarely
// matches: a time.Time put in an untyped slot usually reads back as a
// string. Format it with t.UTC().Format(ISOLayout) first.
type JSON struct {
	// DisableRevival turns the date rule off.
	DisableRevival bool
	// Pattern overrides ISODatePattern when set.
	Pattern *regexp.Regexp
}

var _ Codec = JSON{}

func (JSON) Name() string { return "json" }

func (JSON) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

func (c JSON) Unmarshal(b []byte, dst any) error {
	if err := json.Unmarshal(b, dst); err != nil {
		return err
	}
	if c.DisableRevival {
		return nil
	}
	p := c.Pattern
	if p == nil {
		p = ISODatePattern
	}
	reviveDates(dst, p)
	return nil
}
