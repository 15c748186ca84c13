package jsonedit

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
)

// Indent is the indentation used by Encode.
const Indent = "  "

// Unmarshalers returns the unmarshalers that decode into:
//   - any/interface{} -> objects as D, arrays as A
//   - *D              -> direct ordered object decoding
//   - *A              -> direct array decoding
//
// Numbers are decoded by decodeNumber so integers keep their exact value.
// Strings, booleans and null keep their default representation.
func Unmarshalers() *json.Unmarshalers {
	return json.JoinUnmarshalers(
		unmarshalValue(),
		unmarshalDocument(),
		unmarshalCollection(),
	)
}

// Marshalers returns the marshalers encoding D as a JSON object in entry order
// and A as a JSON array.
func Marshalers() *json.Marshalers {
	return json.JoinMarshalers(
		marshalDocument(),
		marshalCollection(),
	)
}

// Decode parses data into the document value model. The root may be any JSON
// value; objects are returned as D.
func Decode(data []byte) (any, error) {
	var v any
	if err := json.Unmarshal(data, &v, json.WithUnmarshalers(Unmarshalers())); err != nil {
		return nil, err
	}
	return v, nil
}

// Encode serializes v as indented JSON terminated by a newline. Plain Go maps
// nested in v are written with sorted keys so the output is stable.
func Encode(v any) ([]byte, error) {
	b, err := json.Marshal(v,
		json.WithMarshalers(Marshalers()),
		json.Deterministic(true),
		jsontext.WithIndent(Indent),
	)
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}

func unmarshalValue() *json.Unmarshalers {
	return json.UnmarshalFromFunc(func(dec *jsontext.Decoder, v *any) error {
		switch dec.PeekKind() {
		case '{':
			d, err := decodeObject(dec)
			if err != nil {
				return err
			}
			*v = d
			return nil
		case '[':
			arr, err := decodeArray(dec)
			if err != nil {
				return err
			}
			*v = arr
			return nil
		case '0':
			n, err := decodeNumber(dec)
			if err != nil {
				return err
			}
			*v = n
			return nil
		default:
			return json.SkipFunc
		}
	})
}

func unmarshalDocument() *json.Unmarshalers {
	return json.UnmarshalFromFunc(func(dec *jsontext.Decoder, v *D) error {
		switch k := dec.PeekKind(); k {
		case '{':
		case 'n':
			return json.SkipFunc
		default:
			return fmt.Errorf("expected object, found %v", k)
		}
		d, err := decodeObject(dec)
		if err != nil {
			return err
		}
		*v = d
		return nil
	})
}

func unmarshalCollection() *json.Unmarshalers {
	return json.UnmarshalFromFunc(func(dec *jsontext.Decoder, v *A) error {
		switch k := dec.PeekKind(); k {
		case '[':
		case 'n':
			return json.SkipFunc
		default:
			return fmt.Errorf("expected array, found %v", k)
		}
		arr, err := decodeArray(dec)
		if err != nil {
			return err
		}
		*v = arr
		return nil
	})
}

// decodeObject decodes a JSON object into D. Duplicate names are rejected by
// the decoder.
func decodeObject(dec *jsontext.Decoder) (D, error) {
	if _, err := dec.ReadToken(); err != nil { // '{'
		return nil, fmt.Errorf("read object open: %w", err)
	}
	res := D{}
	for dec.PeekKind() != '}' {
		var k string
		if err := json.UnmarshalDecode(dec, &k); err != nil {
			return nil, fmt.Errorf("read object key: %w", err)
		}
		var vv any
		if err := json.UnmarshalDecode(dec, &vv); err != nil {
			return nil, fmt.Errorf("read object value for key %q: %w", k, err)
		}
		res = res.Set(k, vv)
	}
	if _, err := dec.ReadToken(); err != nil { // '}'
		return nil, fmt.Errorf("read object close: %w", err)
	}
	return res, nil
}

// decodeArray decodes a JSON array into A.
func decodeArray(dec *jsontext.Decoder) (A, error) {
	if _, err := dec.ReadToken(); err != nil { // '['
		return nil, fmt.Errorf("read array open: %w", err)
	}
	arr := A{}
	for dec.PeekKind() != ']' {
		var elem any
		if err := json.UnmarshalDecode(dec, &elem); err != nil {
			return nil, fmt.Errorf("read array element: %w", err)
		}
		arr = append(arr, elem)
	}
	if _, err := dec.ReadToken(); err != nil { // ']'
		return nil, fmt.Errorf("read array close: %w", err)
	}
	return arr, nil
}

// decodeNumber decodes a JSON number as int64 when it is an integer literal
// in range, as uint64 when it only fits unsigned, and as float64 otherwise.
func decodeNumber(dec *jsontext.Decoder) (any, error) {
	val, err := dec.ReadValue()
	if err != nil {
		return nil, fmt.Errorf("read number: %w", err)
	}
	s := string(val)
	if !bytes.ContainsAny(val, ".eE") {
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return i, nil
		}
		if u, err := strconv.ParseUint(s, 10, 64); err == nil {
			return u, nil
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("parse number %s: %w", s, err)
	}
	return f, nil
}

func marshalDocument() *json.Marshalers {
	return json.MarshalToFunc(func(enc *jsontext.Encoder, d D) error {
		if err := enc.WriteToken(jsontext.BeginObject); err != nil {
			return err
		}
		for _, e := range d {
			if err := enc.WriteToken(jsontext.String(e.Key)); err != nil {
				return fmt.Errorf("write object key: %w", err)
			}
			if err := json.MarshalEncode(enc, e.Value); err != nil {
				return fmt.Errorf("write object value for key %q: %w", e.Key, err)
			}
		}
		return enc.WriteToken(jsontext.EndObject)
	})
}

func marshalCollection() *json.Marshalers {
	return json.MarshalToFunc(func(enc *jsontext.Encoder, a A) error {
		if err := enc.WriteToken(jsontext.BeginArray); err != nil {
			return err
		}
		for _, elem := range a {
			if err := json.MarshalEncode(enc, elem); err != nil {
				return fmt.Errorf("write array element: %w", err)
			}
		}
		return enc.WriteToken(jsontext.EndArray)
	})
}
