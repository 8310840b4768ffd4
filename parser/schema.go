package parser

import (
	"bytes"
	"encoding"
	"encoding/json"
	"errors"
	"net/http"
	"net/textproto"
	"net/url"
	"reflect"
	"strconv"
	"strings"
)

// Schema decodes a raw host input into T, reporting every failure it finds.
type Schema[T any] interface {
	Decode(raw any) (T, Errors)
}

// SchemaFunc adapts a plain function to Schema.
type SchemaFunc[T any] func(raw any) (T, Errors)

// Decode calls f.
func (f SchemaFunc[T]) Decode(raw any) (T, Errors) { return f(raw) }

// bindTags are looked up in order to find the input key of a struct field.
var bindTags = []string{"query", "header", "cookie", "param", "json"}

type structSchema[T any] struct{}

// Struct returns the default schema for T.
//
// JSON input ([]byte, string, json.RawMessage) is unmarshaled; key/value input
// (url.Values, http.Header, HeaderMap, map[string][]string, map[string]string)
// is bound field by field using the first of the query, header, cookie, param
// or json tags, converting scalars with strconv or encoding.TextUnmarshaler.
// Any other input is re-encoded as JSON first. The result is then checked
// with the shared validator, honoring `validate` tags.
func Struct[T any]() Schema[T] {
	return structSchema[T]{}
}

func (structSchema[T]) Decode(raw any) (T, Errors) {
	var target T
	var errs Errors

	switch in := raw.(type) {
	case nil:
	case []byte:
		errs = decodeJSON(in, &target)
	case json.RawMessage:
		errs = decodeJSON(in, &target)
	case string:
		errs = decodeJSON([]byte(in), &target)
	case HeaderMap:
		errs = bindValues(&target, in, true)
	case http.Header:
		errs = bindValues(&target, NewHeaders(in), true)
	case url.Values:
		errs = bindValues(&target, in, false)
	case map[string][]string:
		errs = bindValues(&target, in, false)
	case map[string]string:
		multi := make(map[string][]string, len(in))
		for k, v := range in {
			multi[k] = []string{v}
		}
		errs = bindValues(&target, multi, false)
	default:
		data, err := json.Marshal(in)
		if err != nil {
			return target, Errors{{Message: err.Error()}}
		}
		errs = decodeJSON(data, &target)
	}

	if len(errs) > 0 {
		return target, errs
	}
	if errs := validate(&target); len(errs) > 0 {
		return target, errs
	}
	return target, nil
}

func decodeJSON(data []byte, target any) Errors {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	err := json.Unmarshal(data, target)
	if err == nil {
		return nil
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return Errors{{
			Path:     typeErr.Field,
			Expected: typeErr.Type.String(),
			Message:  "got JSON " + typeErr.Value,
		}}
	}
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return Errors{{Message: "malformed JSON: " + syntaxErr.Error()}}
	}
	return Errors{{Message: err.Error()}}
}

// bindValues copies src into target. Targets that are not structs receive a
// JSON object built from src instead.
func bindValues(target any, src map[string][]string, caseInsensitive bool) Errors {
	v := reflect.ValueOf(target).Elem()
	if v.Kind() != reflect.Struct {
		flat := make(map[string]any, len(src))
		for k, vals := range src {
			if len(vals) == 1 {
				flat[k] = vals[0]
			} else {
				flat[k] = vals
			}
		}
		data, err := json.Marshal(flat)
		if err != nil {
			return Errors{{Message: err.Error()}}
		}
		return decodeJSON(data, target)
	}

	lookup := func(key string, fold bool) ([]string, bool) {
		if caseInsensitive {
			key = textproto.CanonicalMIMEHeaderKey(key)
		}
		if vals, ok := src[key]; ok && len(vals) > 0 {
			return vals, true
		}
		if !fold {
			return nil, false
		}
		for k, vals := range src {
			if strings.EqualFold(k, key) && len(vals) > 0 {
				return vals, true
			}
		}
		return nil, false
	}
	return bindStruct(v, lookup, "")
}

// bindStruct fills v's fields from lookup. Tagged fields match their key
// exactly; untagged fields match their Go name ignoring case, as
// encoding/json does.
func bindStruct(v reflect.Value, lookup func(key string, fold bool) ([]string, bool), prefix string) Errors {
	var errs Errors
	t := v.Type()
	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		fv := v.Field(i)

		name := fieldName(f)
		if name == "-" {
			continue
		}
		if f.Anonymous && name == "" && fv.Kind() == reflect.Struct {
			errs = append(errs, bindStruct(fv, lookup, prefix)...)
			continue
		}
		fold := name == ""
		if fold {
			name = f.Name
		}

		vals, ok := lookup(name, fold)
		if !ok {
			continue
		}
		if err := setField(fv, vals); err != nil {
			errs = append(errs, FieldError{
				Path:     prefix + name,
				Expected: f.Type.String(),
				Value:    strings.Join(vals, ","),
			})
		}
	}
	return errs
}

// fieldName returns the input key declared by the first binding tag present.
func fieldName(f reflect.StructField) string {
	for _, tag := range bindTags {
		if v, ok := f.Tag.Lookup(tag); ok {
			name, _, _ := strings.Cut(v, ",")
			if name != "" {
				return name
			}
		}
	}
	return ""
}

var textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()

func setField(fv reflect.Value, vals []string) error {
	if reflect.PointerTo(fv.Type()).Implements(textUnmarshalerType) {
		return fv.Addr().Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(vals[0]))
	}

	switch fv.Kind() {
	case reflect.Pointer:
		elem := reflect.New(fv.Type().Elem())
		if err := setField(elem.Elem(), vals); err != nil {
			return err
		}
		fv.Set(elem)
		return nil
	case reflect.Slice:
		if fv.Type().Elem().Kind() == reflect.Uint8 {
			fv.SetBytes([]byte(vals[0]))
			return nil
		}
		out := reflect.MakeSlice(fv.Type(), len(vals), len(vals))
		for i, s := range vals {
			if err := setField(out.Index(i), []string{s}); err != nil {
				return err
			}
		}
		fv.Set(out)
		return nil
	}
	return setScalar(fv, vals[0])
}

func setScalar(fv reflect.Value, s string) error {
	switch fv.Kind() {
	case reflect.String:
		fv.SetString(s)
	case reflect.Bool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return err
		}
		fv.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(s, 10, fv.Type().Bits())
		if err != nil {
			return err
		}
		fv.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(s, 10, fv.Type().Bits())
		if err != nil {
			return err
		}
		fv.SetUint(n)
	case reflect.Float32, reflect.Float64:
		n, err := strconv.ParseFloat(s, fv.Type().Bits())
		if err != nil {
			return err
		}
		fv.SetFloat(n)
	case reflect.Interface:
		fv.Set(reflect.ValueOf(s))
	default:
		return errors.New("unsupported field kind " + fv.Kind().String())
	}
	return nil
}
