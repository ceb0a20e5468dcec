// Package encoding provides centralized serialization/deserialization for the
// module. ALL JSON operations on protocol messages MUST go through this
// package to ensure consistent behavior.
//
// Thread Safety: Marshal and Unmarshal are safe for concurrent use.
//
// Number Preservation: When decoding into interface{}, JSON numbers decode as
// json.Number (not float64). This is critical for replay ids, which are
// server-assigned int64 sequence values: a float64 round-trip silently loses
// precision above 2^53.
package encoding

import (
	"bytes"
	"encoding/json"
	"math"
)

// Marshal encodes a value to JSON.
func Marshal(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	// Channel names and payloads are protocol data, not HTML.
	enc.SetEscapeHTML(false)

	if err := enc.Encode(v); err != nil {
		return nil, err
	}

	// Encoder appends a newline after each value; callers expect the bare
	// document.
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Unmarshal decodes JSON data using number-preserving decoding.
// When decoding into interface{}, numbers are kept as json.Number so that
// 64-bit replay ids survive intact.
func Unmarshal(data []byte, v interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	return dec.Decode(v)
}

// Int64 coerces a loosely-typed value to int64. It accepts the types a
// decoded ext or payload entry can legitimately hold: json.Number, the Go
// integer kinds, and whole-valued floats (hosts that decode with plain
// encoding/json hand us float64). Fractional floats, strings, bools and nil
// all report false; absence of a marker is a normal outcome, not an error.
func Int64(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return i, true
	case int64:
		return n, true
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case uint64:
		if n > math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	case uint:
		if uint64(n) > math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	case uint32:
		return int64(n), true
	case float64:
		if n != math.Trunc(n) || n < math.MinInt64 || n >= math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	case float32:
		return Int64(float64(n))
	default:
		return 0, false
	}
}
