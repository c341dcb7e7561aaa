package content

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Front matter formats recognised by Split.
const (
	FormatNone = ""
	FormatYAML = "yaml"
	FormatTOML = "toml"
)

// ErrMissingClosingDelimiter indicates a document opened a front matter block
// but never closed it.
var ErrMissingClosingDelimiter = errors.New("front matter start delimiter found but closing delimiter is missing")

// Split separates front matter from the body. YAML is delimited by "---" and
// TOML by "+++". Documents without an opening delimiter return FormatNone and
// the full input as body.
func Split(src []byte) (fm []byte, body []byte, format string, err error) {
	nl := "\n"
	if i := bytes.IndexByte(src, '\n'); i > 0 && src[i-1] == '\r' {
		nl = "\r\n"
	}

	for _, f := range []struct {
		delim  string
		format string
	}{{"---", FormatYAML}, {"+++", FormatTOML}} {
		open := []byte(f.delim + nl)
		if !bytes.HasPrefix(src, open) {
			continue
		}
		rest := src[len(open):]
		if bytes.HasPrefix(rest, open) {
			return []byte{}, rest[len(open):], f.format, nil
		}
		closeSeq := []byte(nl + f.delim + nl)
		idx := bytes.Index(rest, closeSeq)
		if idx < 0 {
			// closing delimiter at EOF without trailing newline
			if bytes.HasSuffix(rest, []byte(nl+f.delim)) {
				return rest[:len(rest)-len(nl+f.delim)], []byte{}, f.format, nil
			}
			return nil, nil, f.format, ErrMissingClosingDelimiter
		}
		return rest[:idx+len(nl)], rest[idx+len(closeSeq):], f.format, nil
	}
	return nil, src, FormatNone, nil
}

// ParseFields decodes raw front matter of the given format into a map.
func ParseFields(fm []byte, format string) (map[string]any, error) {
	fields := map[string]any{}
	if len(bytes.TrimSpace(fm)) == 0 {
		return fields, nil
	}
	var err error
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(fm, &fields)
	case FormatTOML:
		err = toml.Unmarshal(fm, &fields)
	default:
		return nil, fmt.Errorf("unsupported front matter format %q", format)
	}
	if err != nil {
		return nil, err
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return fields, nil
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// parseDate accepts native YAML/TOML timestamps and common string layouts.
func parseDate(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t.UTC(), true
	case toml.LocalDate:
		return t.AsTime(time.UTC), true
	case toml.LocalDateTime:
		return t.AsTime(time.UTC), true
	case string:
		s := strings.TrimSpace(t)
		for _, layout := range dateLayouts {
			if parsed, err := time.Parse(layout, s); err == nil {
				return parsed.UTC(), true
			}
		}
	}
	return time.Time{}, false
}

// stringList converts a decoded list into strings. Any non-string element
// makes the whole value invalid.
func stringList(v any) ([]string, bool) {
	switch list := v.(type) {
	case []string:
		return append([]string(nil), list...), true
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	}
	return nil, false
}
