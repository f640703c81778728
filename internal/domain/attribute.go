package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Attribute is one flat (name, value) pair produced by mapping a document.
// Value is the matched document scalar, passed through as is.
type Attribute struct {
	Name  string
	Value any
}

// String renders the attribute value.
func (a Attribute) String() string { return FormatValue(a.Value) }

// FormatValue renders a scalar document value as text.
// Strings and json.Number keep their original text, nil renders as "".
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case json.Number:
		return x.String()
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'g', -1, 32)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}
