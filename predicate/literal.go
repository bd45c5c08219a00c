package predicate

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"math/big"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cast"
)

// Literal layouts of the predicate language.
const (
	dayLayout         = "2006-01-02"
	instantLayout     = "2006-01-02T15:04:05.000Z07:00"
	timeOfDayLayout   = "15:04:05"
	timeOfDayMsLayout = "15:04:05.000"
)

var numberPattern = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// RenderLiteral renders one raw value as a literal of the column's type.
// Collection columns render value as an array literal of their element type.
// It never decides which operator applies.
func RenderLiteral(col FilterColumn, value any) (string, error) {
	return renderValue(col, col.DeclaredType, value)
}

func renderValue(col FilterColumn, t DeclaredType, value any) (string, error) {
	value = deref(value)

	switch t {
	case TypeString:
		return renderString(col, value)
	case TypeInteger:
		return renderInteger(col, t, value)
	case TypeNumber:
		return renderNumber(col, value)
	case TypeBoolean:
		return renderBoolean(col, value)
	case TypeDate:
		return renderDate(col, value)
	case TypeTime:
		return renderDuration(col, value)
	case TypeUUID:
		return renderUUID(col, value)
	case TypeEnum:
		return renderEnum(col, value)
	case TypeCollection:
		return renderArray(col, value)
	default:
		return "", &CompileError{
			Kind:   ErrInvalidDescriptor,
			Column: col.PropertyPath,
			Type:   t,
			Err:    fmt.Errorf("unknown declared type %q", t),
		}
	}
}

var literalEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// quoteString returns a string literal with backslashes and double quotes
// escaped.
func quoteString(s string) string {
	return `"` + literalEscaper.Replace(s) + `"`
}

// renderString formats a string literal. Non-string values use their
// textual form.
func renderString(col FilterColumn, value any) (string, error) {
	s, err := cast.ToStringE(value)
	if err != nil {
		return "", unparseable(col, TypeString, value, err)
	}
	return quoteString(s), nil
}

// renderInteger formats an integral value. Numeric text is passed through
// unchanged after validation.
func renderInteger(col FilterColumn, t DeclaredType, value any) (string, error) {
	switch v := value.(type) {
	case string:
		s := strings.TrimSpace(v)
		if _, ok := new(big.Int).SetString(s, 10); !ok {
			return "", unparseable(col, t, v, nil)
		}
		return s, nil
	case json.Number:
		return renderInteger(col, t, string(v))
	case float32:
		return renderInteger(col, t, float64(v))
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) {
			return "", unparseable(col, t, v, errors.New("not an integral number"))
		}
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	}
	if text, ok := formatNumeric(value); ok {
		return text, nil
	}
	return "", unparseable(col, t, value, nil)
}

// renderNumber formats a decimal or floating point value.
func renderNumber(col FilterColumn, value any) (string, error) {
	switch v := value.(type) {
	case string:
		s := strings.TrimSpace(v)
		if !numberPattern.MatchString(s) {
			return "", unparseable(col, TypeNumber, v, nil)
		}
		return s, nil
	case json.Number:
		return renderNumber(col, string(v))
	case float32:
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			return "", unparseable(col, TypeNumber, v, nil)
		}
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return "", unparseable(col, TypeNumber, v, nil)
		}
	}
	if text, ok := formatNumeric(value); ok {
		return text, nil
	}
	return "", unparseable(col, TypeNumber, value, nil)
}

// formatNumeric formats Go numeric values without exponent notation.
func formatNumeric(value any) (string, bool) {
	switch v := value.(type) {
	case int:
		return strconv.Itoa(v), true
	case int8:
		return strconv.FormatInt(int64(v), 10), true
	case int16:
		return strconv.FormatInt(int64(v), 10), true
	case int32:
		return strconv.FormatInt(int64(v), 10), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case uint:
		return strconv.FormatUint(uint64(v), 10), true
	case uint8:
		return strconv.FormatUint(uint64(v), 10), true
	case uint16:
		return strconv.FormatUint(uint64(v), 10), true
	case uint32:
		return strconv.FormatUint(uint64(v), 10), true
	case uint64:
		return strconv.FormatUint(v, 10), true
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case *big.Int:
		return v.String(), true
	}

	// named numeric types
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10), true
	}
	return "", false
}

// renderBoolean emits the lower-case boolean tokens.
func renderBoolean(col FilterColumn, value any) (string, error) {
	b, err := cast.ToBoolE(value)
	if err != nil {
		return "", unparseable(col, TypeBoolean, value, err)
	}
	if b {
		return "true", nil
	}
	return "false", nil
}

// renderDate formats a date value. Midnight values keep day precision,
// everything else is normalized to UTC with millisecond precision.
func renderDate(col FilterColumn, value any) (string, error) {
	if col.Format == FormatTime {
		return renderTimeOfDay(col, value)
	}
	t, err := parseInstant(value)
	if err != nil {
		return "", unparseable(col, TypeDate, value, err)
	}

	if col.Format == FormatDate || isMidnight(t) {
		return dateConstructor(col) + `("` + t.Format(dayLayout) + `")`, nil
	}
	return dateConstructor(col) + `("` + t.UTC().Format(instantLayout) + `")`, nil
}

// timeOfDayInputs are the accepted layouts for time-of-day text.
var timeOfDayInputs = []string{timeOfDayLayout, timeOfDayMsLayout, "15:04:05.999999999", "15:04"}

// renderTimeOfDay formats a TimeOnly literal. Text values are read as a time
// of day first and as a full date second.
func renderTimeOfDay(col FilterColumn, value any) (string, error) {
	var (
		t      time.Time
		parsed bool
	)
	if s, ok := value.(string); ok {
		s = strings.TrimSpace(s)
		for _, layout := range timeOfDayInputs {
			if v, err := time.Parse(layout, s); err == nil {
				t, parsed = v, true
				break
			}
		}
	}
	if !parsed {
		v, err := parseInstant(value)
		if err != nil {
			return "", unparseable(col, TypeDate, value, err)
		}
		t = v
	}

	layout := timeOfDayLayout
	if t.Nanosecond() != 0 {
		layout = timeOfDayMsLayout
	}
	return `TimeOnly("` + t.Format(layout) + `")`, nil
}

func dateConstructor(col FilterColumn) string {
	if col.Property.OffsetAware {
		return "DateTimeOffset"
	}
	return "DateTime"
}

// parseInstant parses a date value with invariant layouts. Values without
// a zone are taken as UTC.
func parseInstant(value any) (time.Time, error) {
	if s, ok := value.(string); ok {
		value = strings.TrimSpace(s)
	}
	return cast.ToTimeInDefaultLocationE(value, time.UTC)
}

func isMidnight(t time.Time) bool {
	return t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0
}

// renderDuration wraps duration text in a TimeSpan literal.
func renderDuration(col FilterColumn, value any) (string, error) {
	switch v := value.(type) {
	case string:
		return `TimeSpan(` + quoteString(v) + `)`, nil
	case json.Number:
		return `TimeSpan(` + quoteString(v.String()) + `)`, nil
	case time.Duration:
		return `TimeSpan("` + formatDuration(v) + `")`, nil
	case fmt.Stringer:
		return `TimeSpan(` + quoteString(v.String()) + `)`, nil
	default:
		if text, ok := formatNumeric(value); ok {
			return `TimeSpan(` + quoteString(text) + `)`, nil
		}
		return "", unparseable(col, TypeTime, value, fmt.Errorf("unsupported duration value %T", value))
	}
}

// formatDuration renders d as [-][d.]hh:mm:ss[.fffffff].
func formatDuration(d time.Duration) string {
	var sb strings.Builder
	if d < 0 {
		sb.WriteByte('-')
		d = -d
	}
	days := d / (24 * time.Hour)
	d -= days * 24 * time.Hour
	hours := d / time.Hour
	d -= hours * time.Hour
	mins := d / time.Minute
	d -= mins * time.Minute
	secs := d / time.Second
	d -= secs * time.Second

	if days > 0 {
		fmt.Fprintf(&sb, "%d.", days)
	}
	fmt.Fprintf(&sb, "%02d:%02d:%02d", hours, mins, secs)
	if d > 0 {
		// .NET ticks are 100ns
		fmt.Fprintf(&sb, ".%07d", d/100)
	}
	return sb.String()
}

// renderUUID validates a uuid value and wraps its canonical form.
func renderUUID(col FilterColumn, value any) (string, error) {
	var (
		id  uuid.UUID
		err error
	)
	switch v := value.(type) {
	case uuid.UUID:
		id = v
	case [16]byte:
		id = uuid.UUID(v)
	case []byte:
		id, err = uuid.FromBytes(v)
	case string:
		id, err = uuid.Parse(strings.TrimSpace(v))
	default:
		err = fmt.Errorf("unsupported uuid value %T", value)
	}
	if err != nil {
		return "", unparseable(col, TypeUUID, value, err)
	}
	return `Guid("` + id.String() + `")`, nil
}

// renderEnum converts a member name or ordinal to the underlying ordinal.
func renderEnum(col FilterColumn, value any) (string, error) {
	s, ok := value.(string)
	if !ok {
		if st, isStringer := value.(fmt.Stringer); isStringer {
			if _, numeric := formatNumeric(value); !numeric {
				s, ok = st.String(), true
			}
		}
	}
	if !ok {
		return renderInteger(col, TypeEnum, value)
	}

	s = strings.TrimSpace(s)
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return strconv.FormatInt(n, 10), nil
	}
	members := col.Property.Enum
	for _, m := range members {
		if m.Name == s {
			return strconv.FormatInt(m.Value, 10), nil
		}
	}
	for _, m := range members {
		if strings.EqualFold(m.Name, s) {
			return strconv.FormatInt(m.Value, 10), nil
		}
	}
	return "", unparseable(col, TypeEnum, value, fmt.Errorf("no member named %q", s))
}

// renderArray renders the selected values of a collection column.
func renderArray(col FilterColumn, value any) (string, error) {
	elemType := elementType(col)
	if elemType == TypeCollection {
		return "", &CompileError{
			Kind:   ErrInvalidDescriptor,
			Column: col.PropertyPath,
			Type:   TypeCollection,
			Err:    errors.New("nested collections are not supported"),
		}
	}

	values := listValues(value)
	parts := make([]string, 0, len(values))
	for _, v := range values {
		lit, err := renderValue(col, elemType, v)
		if err != nil {
			return "", err
		}
		parts = append(parts, lit)
	}
	return arrayLiteral(parts), nil
}

// elementType returns the element type of a collection column.
func elementType(col FilterColumn) DeclaredType {
	if col.ElementType != "" {
		return col.ElementType
	}
	if col.Property.Type != "" && col.Property.Type != TypeCollection {
		return col.Property.Type
	}
	return TypeString
}
