package rules

import (
	"encoding/json"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Kind discriminates the runtime type of a Value.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindNumber
	KindText
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindText:
		return "text"
	case KindBool:
		return "boolean"
	}
	return "invalid"
}

// Value is a tagged union over the three field kinds: number, text, boolean.
// The zero Value is invalid; every comparison against it fails closed.
type Value struct {
	kind Kind
	num  float64
	text string
	b    bool
}

// Number wraps a float64 as a Value.
func Number(f float64) Value { return Value{kind: KindNumber, num: f} }

// Text wraps a string as a Value.
func Text(s string) Value { return Value{kind: KindText, text: s} }

// Bool wraps a bool as a Value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Kind returns the value's runtime kind.
func (v Value) Kind() Kind { return v.kind }

// IsValid reports whether the value carries one of the three field kinds.
func (v Value) IsValid() bool { return v.kind != KindInvalid }

// Number returns the numeric payload; ok is false for non-number kinds.
func (v Value) Number() (float64, bool) { return v.num, v.kind == KindNumber }

// Text returns the text payload; ok is false for non-text kinds.
func (v Value) Text() (string, bool) { return v.text, v.kind == KindText }

// Bool returns the boolean payload; ok is false for non-boolean kinds.
func (v Value) Bool() (bool, bool) { return v.b, v.kind == KindBool }

// Equal reports exact kind-and-payload equality. Values of different kinds
// are never equal; invalid values equal nothing, including each other.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind || v.kind == KindInvalid {
		return false
	}
	switch v.kind {
	case KindNumber:
		return v.num == o.num
	case KindText:
		return v.text == o.text
	case KindBool:
		return v.b == o.b
	}
	return false
}

// Compare orders two values: numeric for number/number, lexicographic for
// text/text. ok is false for any other pairing; booleans have no order.
func (v Value) Compare(o Value) (int, bool) {
	switch {
	case v.kind == KindNumber && o.kind == KindNumber:
		switch {
		case v.num < o.num:
			return -1, true
		case v.num > o.num:
			return 1, true
		}
		return 0, true
	case v.kind == KindText && o.kind == KindText:
		switch {
		case v.text < o.text:
			return -1, true
		case v.text > o.text:
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

// String renders the payload the way the original literal would print.
func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindText:
		return v.text
	case KindBool:
		return strconv.FormatBool(v.b)
	}
	return ""
}

// MarshalJSON writes the bare scalar.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNumber:
		return json.Marshal(v.num)
	case KindText:
		return json.Marshal(v.text)
	case KindBool:
		return json.Marshal(v.b)
	}
	return []byte("null"), nil
}

// UnmarshalJSON accepts a bare JSON scalar. Anything that is not a number,
// string, or boolean decodes to the invalid Value rather than failing, so a
// malformed record slot degrades to "no comparison ever satisfied".
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("invalid value literal: %w", err)
	}
	*v = fromAny(raw)
	return nil
}

// MarshalYAML writes the bare scalar.
func (v Value) MarshalYAML() (any, error) {
	switch v.kind {
	case KindNumber:
		return v.num, nil
	case KindText:
		return v.text, nil
	case KindBool:
		return v.b, nil
	}
	return nil, nil
}

// UnmarshalYAML mirrors UnmarshalJSON for YAML scalar nodes.
func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	var raw any
	if err := node.Decode(&raw); err != nil {
		return fmt.Errorf("invalid value literal: %w", err)
	}
	*v = fromAny(raw)
	return nil
}

func fromAny(raw any) Value {
	switch t := raw.(type) {
	case float64:
		return Number(t)
	case int:
		return Number(float64(t))
	case int64:
		return Number(float64(t))
	case uint64:
		return Number(float64(t))
	case string:
		return Text(t)
	case bool:
		return Bool(t)
	}
	return Value{}
}
