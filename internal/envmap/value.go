// Package envmap turns request parameters into HOOKHAND_* environment variables.
//
// Parameters arrive as arbitrarily nested JSON or as flat form values and are
// modelled as a Value: Null, Scalar, Sequence or Mapping. Mappings keep the
// order in which their entries were decoded so that key collisions resolve the
// same way on every run.
package envmap

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"sort"
)

// Kind tags the variant held by a Value.
type Kind int

const (
	KindNull Kind = iota
	KindScalar
	KindSequence
	KindMapping
)

// Value is a parameter tree node.
type Value struct {
	Kind    Kind
	Scalar  string
	Items   []Value
	Entries []Entry
}

// Entry is one key/value pair of a Mapping.
type Entry struct {
	Key   string
	Value Value
}

// Null returns the null value.
func Null() Value { return Value{Kind: KindNull} }

// Scalar wraps a string.
func Scalar(s string) Value { return Value{Kind: KindScalar, Scalar: s} }

// Sequence wraps a list of values.
func Sequence(items ...Value) Value { return Value{Kind: KindSequence, Items: items} }

// Mapping wraps an ordered list of entries.
func Mapping(entries ...Entry) Value { return Value{Kind: KindMapping, Entries: entries} }

// Complex reports whether v is a Sequence or a Mapping.
func (v Value) Complex() bool {
	return v.Kind == KindSequence || v.Kind == KindMapping
}

// String is the scalar text of v. Null renders as the empty string.
func (v Value) String() string {
	if v.Kind == KindScalar {
		return v.Scalar
	}
	return ""
}

// ParseJSON decodes a JSON document into a Value, preserving object key order
// and the literal text of numbers.
func ParseJSON(r io.Reader) (Value, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	v, err := decodeValue(dec)
	if err != nil {
		return Value{}, fmt.Errorf("parse json: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return Value{}, fmt.Errorf("parse json: unexpected data after top-level value")
	}
	return v, nil
}

// ParseJSONBytes is ParseJSON over a byte slice.
func ParseJSONBytes(body []byte) (Value, error) {
	return ParseJSON(bytes.NewReader(body))
}

func decodeValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Value{}, io.ErrUnexpectedEOF
		}
		return Value{}, err
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			var entries []Entry
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return Value{}, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return Value{}, fmt.Errorf("object key is %T, want string", keyTok)
				}
				val, err := decodeValue(dec)
				if err != nil {
					return Value{}, err
				}
				entries = append(entries, Entry{Key: key, Value: val})
			}
			if _, err := dec.Token(); err != nil { // '}'
				return Value{}, err
			}
			return Mapping(entries...), nil
		case '[':
			var items []Value
			for dec.More() {
				val, err := decodeValue(dec)
				if err != nil {
					return Value{}, err
				}
				items = append(items, val)
			}
			if _, err := dec.Token(); err != nil { // ']'
				return Value{}, err
			}
			return Sequence(items...), nil
		default:
			return Value{}, fmt.Errorf("unexpected delimiter %q", t)
		}
	case nil:
		return Null(), nil
	case string:
		return Scalar(t), nil
	case json.Number:
		return Scalar(t.String()), nil
	case bool:
		if t {
			return Scalar("true"), nil
		}
		return Scalar("false"), nil
	default:
		return Value{}, fmt.Errorf("unexpected token %T", tok)
	}
}

// FromForm converts flat form values into a Mapping sorted by key. The last
// value of a repeated key wins.
func FromForm(values url.Values) Value {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	entries := make([]Entry, 0, len(keys))
	for _, k := range keys {
		vs := values[k]
		val := Null()
		if len(vs) > 0 {
			val = Scalar(vs[len(vs)-1])
		}
		entries = append(entries, Entry{Key: k, Value: val})
	}
	return Mapping(entries...)
}
