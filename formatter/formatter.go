// Package formatter renders log records into the line-oriented on-disk format
//
//	[<ISO timestamp>] [<LEVEL>] <message>[ | Args: <JSON>][ | Stack: <frames>]\n
//
// RenderMessage and RenderArgs are pure and safe for concurrent use, they run
// at the call site so values are captured when the event happens. Formatter
// assembles the final line and is owned by a single writer.
package formatter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/davecgh/go-spew/spew"

	"github.com/lixenwraith/filelog/sanitizer"
)

// TimestampLayout is ISO-8601 with millisecond precision, UTC renders as 'Z'
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

const (
	argsSeparator  = " | Args: "
	stackSeparator = " | Stack: "
)

// prettyDumper renders values JSON cannot, used for message text
var prettyDumper = &spew.ConfigState{
	Indent:                  "  ",
	MaxDepth:                10,
	DisableMethods:          true,
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

// compactDumper renders values JSON cannot, used inside the Args array
var compactDumper = &spew.ConfigState{
	MaxDepth:                10,
	DisableMethods:          true,
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

// Formatter assembles complete lines reusing an internal buffer
type Formatter struct {
	sanitizer       *sanitizer.Sanitizer
	timestampLayout string
	buf             []byte
}

// New creates a formatter, the optional sanitizer is applied to messages
func New(s ...*sanitizer.Sanitizer) *Formatter {
	var san *sanitizer.Sanitizer
	if len(s) > 0 && s[0] != nil {
		san = s[0]
	} else {
		san = sanitizer.New()
	}
	return &Formatter{
		sanitizer:       san,
		timestampLayout: TimestampLayout,
		buf:             make([]byte, 0, 512),
	}
}

// TimestampFormat overrides the timestamp layout
func (f *Formatter) TimestampFormat(layout string) *Formatter {
	if layout != "" {
		f.timestampLayout = layout
	}
	return f
}

// Format builds one newline-terminated line. The returned slice aliases the
// formatter buffer and is valid until the next call.
func (f *Formatter) Format(ts time.Time, level, message, args, stack string) []byte {
	f.buf = f.buf[:0]

	f.buf = append(f.buf, '[')
	f.buf = ts.UTC().AppendFormat(f.buf, f.timestampLayout)
	f.buf = append(f.buf, "] ["...)
	f.buf = append(f.buf, strings.ToUpper(level)...)
	f.buf = append(f.buf, "] "...)
	f.buf = append(f.buf, f.sanitizer.Sanitize(message)...)

	if args != "" {
		f.buf = append(f.buf, argsSeparator...)
		f.buf = append(f.buf, args...)
	}
	if stack != "" {
		f.buf = append(f.buf, stackSeparator...)
		f.buf = append(f.buf, stack...)
	}

	f.buf = append(f.buf, '\n')
	return f.buf
}

// RenderMessage joins every argument with a single space. Primitives render
// as text, everything else as indented JSON with a dump fallback.
func RenderMessage(args []any) string {
	var buf []byte
	for i, arg := range args {
		if i > 0 {
			buf = append(buf, ' ')
		}
		buf = appendValue(buf, arg)
	}
	return string(buf)
}

// RenderArgs encodes values as a compact JSON array. Values that cannot be
// encoded are replaced by a JSON string holding their dump.
func RenderArgs(args []any) string {
	if len(args) == 0 {
		return ""
	}

	normalized := make([]any, len(args))
	for i, arg := range args {
		normalized[i] = normalizeJSON(arg)
	}
	if data, err := marshalJSON(normalized, ""); err == nil {
		return string(data)
	}

	// Per-element fallback so one bad value does not hide the others
	parts := make([]string, len(normalized))
	for i, v := range normalized {
		data, err := marshalJSON(v, "")
		if err != nil {
			data, _ = marshalJSON(compactString(v), "")
		}
		parts[i] = string(data)
	}
	return "[" + strings.Join(parts, ",") + "]"
}

// appendValue renders one message argument. A panicking String or Error
// method degrades to the dump of the value.
func appendValue(buf []byte, v any) (out []byte) {
	orig := buf
	defer func() {
		if r := recover(); r != nil {
			out = append(orig, prettyString(v)...)
		}
	}()

	switch val := v.(type) {
	case string:
		return append(buf, val...)
	case []byte:
		return append(buf, val...)
	case int:
		return strconv.AppendInt(buf, int64(val), 10)
	case int8:
		return strconv.AppendInt(buf, int64(val), 10)
	case int16:
		return strconv.AppendInt(buf, int64(val), 10)
	case int32:
		return strconv.AppendInt(buf, int64(val), 10)
	case int64:
		return strconv.AppendInt(buf, val, 10)
	case uint:
		return strconv.AppendUint(buf, uint64(val), 10)
	case uint8:
		return strconv.AppendUint(buf, uint64(val), 10)
	case uint16:
		return strconv.AppendUint(buf, uint64(val), 10)
	case uint32:
		return strconv.AppendUint(buf, uint64(val), 10)
	case uint64:
		return strconv.AppendUint(buf, val, 10)
	case float32:
		return strconv.AppendFloat(buf, float64(val), 'f', -1, 32)
	case float64:
		return strconv.AppendFloat(buf, val, 'f', -1, 64)
	case bool:
		return strconv.AppendBool(buf, val)
	case nil:
		return append(buf, "null"...)
	case time.Time:
		return val.UTC().AppendFormat(buf, TimestampLayout)
	case error:
		return append(buf, val.Error()...)
	case fmt.Stringer:
		return append(buf, val.String()...)
	default:
		data, err := marshalJSON(val, "  ")
		if err != nil {
			return append(buf, prettyString(val)...)
		}
		return append(buf, data...)
	}
}

// normalizeJSON maps values whose JSON form loses information
func normalizeJSON(v any) any {
	switch val := v.(type) {
	case error:
		if val == nil {
			return nil
		}
		return safeString(val.Error)
	case time.Time:
		return val.UTC().Format(TimestampLayout)
	}
	return v
}

// marshalJSON encodes without HTML escaping and never panics
func marshalJSON(v any, indent string) (data []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("formatter: marshal panicked: %v", r)
		}
	}()

	var b bytes.Buffer
	enc := json.NewEncoder(&b)
	enc.SetEscapeHTML(false)
	if indent != "" {
		enc.SetIndent("", indent)
	}
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(b.Bytes(), "\n"), nil
}

func safeString(fn func() string) (s string) {
	defer func() {
		if r := recover(); r != nil {
			s = fmt.Sprintf("<panic: %v>", r)
		}
	}()
	return fn()
}

func prettyString(v any) string {
	return strings.TrimSpace(prettyDumper.Sdump(v))
}

func compactString(v any) string {
	return compactDumper.Sprintf("%+v", v)
}
