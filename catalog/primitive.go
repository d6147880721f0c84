package catalog

import (
	"encoding/json"
	"net/url"
	"reflect"
	"time"

	j "github.com/goccy/go-json"
	"github.com/google/uuid"

	ck "github.com/reoring/contractkit"
	js "github.com/reoring/contractkit/jsonschema"
)

// Primitive is the built-in contract of a scalar Go type. Values are encoded
// with goccy/go-json unless the primitive carries its own codec.
type Primitive struct {
	name      string
	typ       reflect.Type
	schema    js.Schema
	marshal   func(v any) ([]byte, error)
	unmarshal func(data []byte) (any, error)
}

var _ ck.PrimitiveContract = (*Primitive)(nil)

// NewPrimitive declares a primitive contract for typ, described by schema.
// Encoding goes through goccy/go-json.
func NewPrimitive(name string, typ reflect.Type, schema js.Schema) *Primitive {
	return &Primitive{name: name, typ: typ, schema: schema}
}

func (p *Primitive) Name() string       { return p.name }
func (p *Primitive) Type() reflect.Type { return p.typ }

func (p *Primitive) JSONSchema() (*js.Schema, error) {
	s := p.schema
	return &s, nil
}

func (p *Primitive) Marshal(v any) ([]byte, error) {
	if v == nil || reflect.TypeOf(v) != p.typ {
		return nil, valueIssue(p.typ, v)
	}
	if p.marshal != nil {
		return p.marshal(v)
	}
	return j.Marshal(v)
}

func (p *Primitive) Unmarshal(data []byte) (any, error) {
	if p.unmarshal != nil {
		return p.unmarshal(data)
	}
	rv := reflect.New(p.typ)
	if err := j.Unmarshal(data, rv.Interface()); err != nil {
		return nil, ck.NewIssue("/", ck.CodeInvalidValue, err, map[string]any{"type": p.typ.String(), "got": string(data)})
	}
	return rv.Elem().Interface(), nil
}

// derive returns a contract for a named type t whose underlying kind matches
// p.typ (for example `type Status string`).
func (p *Primitive) derive(t reflect.Type) *Primitive {
	base := p
	name := t.Name()
	if name == "" {
		name = t.String()
	}
	return &Primitive{
		name:   name,
		typ:    t,
		schema: base.schema,
		marshal: func(v any) ([]byte, error) {
			return base.Marshal(reflect.ValueOf(v).Convert(base.typ).Interface())
		},
		unmarshal: func(data []byte) (any, error) {
			v, err := base.Unmarshal(data)
			if err != nil {
				return nil, err
			}
			return reflect.ValueOf(v).Convert(t).Interface(), nil
		},
	}
}

func typeOf[T any]() reflect.Type { return reflect.TypeOf((*T)(nil)).Elem() }

func builtinPrimitives() []*Primitive {
	integer := js.Schema{Type: "integer"}
	number := js.Schema{Type: "number"}
	str := js.Schema{Type: "string"}
	uri := NewPrimitive("anyURI", typeOf[*url.URL](), js.Schema{Type: "string", Format: "uri"})
	uri.marshal = func(v any) ([]byte, error) {
		u := v.(*url.URL)
		if u == nil {
			return []byte("null"), nil
		}
		return j.Marshal(u.String())
	}
	uri.unmarshal = func(data []byte) (any, error) {
		var s *string
		if err := j.Unmarshal(data, &s); err != nil {
			return nil, ck.NewIssue("/", ck.CodeInvalidValue, err, map[string]any{"type": "*url.URL", "got": string(data)})
		}
		if s == nil {
			return (*url.URL)(nil), nil
		}
		u, err := url.Parse(*s)
		if err != nil {
			return nil, ck.NewIssue("/", ck.CodeInvalidValue, err, map[string]any{"type": "*url.URL", "got": *s})
		}
		return u, nil
	}
	return []*Primitive{
		NewPrimitive("boolean", typeOf[bool](), js.Schema{Type: "boolean"}),
		NewPrimitive("int", typeOf[int](), integer),
		NewPrimitive("byte", typeOf[int8](), integer),
		NewPrimitive("short", typeOf[int16](), integer),
		NewPrimitive("int32", typeOf[int32](), integer),
		NewPrimitive("long", typeOf[int64](), integer),
		NewPrimitive("uint", typeOf[uint](), integer),
		NewPrimitive("unsignedByte", typeOf[uint8](), integer),
		NewPrimitive("unsignedShort", typeOf[uint16](), integer),
		NewPrimitive("unsignedInt", typeOf[uint32](), integer),
		NewPrimitive("unsignedLong", typeOf[uint64](), integer),
		NewPrimitive("uintptr", typeOf[uintptr](), integer),
		NewPrimitive("float", typeOf[float32](), number),
		NewPrimitive("double", typeOf[float64](), number),
		NewPrimitive("string", typeOf[string](), str),
		NewPrimitive("base64Binary", typeOf[[]byte](), js.Schema{Type: "string", Format: "byte"}),
		NewPrimitive("dateTime", typeOf[time.Time](), js.Schema{Type: "string", Format: "date-time"}),
		NewPrimitive("duration", typeOf[time.Duration](), integer),
		NewPrimitive("decimal", typeOf[json.Number](), number),
		NewPrimitive("guid", typeOf[uuid.UUID](), js.Schema{Type: "string", Format: "uuid"}),
		uri,
	}
}

// kindBase maps a basic kind to the primitive type derived contracts convert through.
var kindBase = map[reflect.Kind]reflect.Type{
	reflect.Bool:    typeOf[bool](),
	reflect.Int:     typeOf[int](),
	reflect.Int8:    typeOf[int8](),
	reflect.Int16:   typeOf[int16](),
	reflect.Int32:   typeOf[int32](),
	reflect.Int64:   typeOf[int64](),
	reflect.Uint:    typeOf[uint](),
	reflect.Uint8:   typeOf[uint8](),
	reflect.Uint16:  typeOf[uint16](),
	reflect.Uint32:  typeOf[uint32](),
	reflect.Uint64:  typeOf[uint64](),
	reflect.Uintptr: typeOf[uintptr](),
	reflect.Float32: typeOf[float32](),
	reflect.Float64: typeOf[float64](),
	reflect.String:  typeOf[string](),
}

func valueIssue(t reflect.Type, v any) ck.Issues {
	return ck.NewIssue("/", ck.CodeInvalidValue, nil, map[string]any{"type": t.String(), "got": reflect.TypeOf(v)})
}
