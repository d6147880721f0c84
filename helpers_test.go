package contractkit_test

import (
	"reflect"
	"strconv"
	"sync"

	ck "github.com/reoring/contractkit"
	js "github.com/reoring/contractkit/jsonschema"
)

type stubContract struct {
	name string
	typ  reflect.Type
}

func (s *stubContract) Name() string                    { return s.name }
func (s *stubContract) Type() reflect.Type              { return s.typ }
func (s *stubContract) JSONSchema() (*js.Schema, error) { return &js.Schema{Type: "object"}, nil }

type stubPrimitive struct{ stubContract }

func (p *stubPrimitive) Marshal(v any) ([]byte, error)      { return []byte(strconv.Quote(v.(string))), nil }
func (p *stubPrimitive) Unmarshal(data []byte) (any, error) { return strconv.Unquote(string(data)) }

// countingCatalog records how often each lookup runs.
type countingCatalog struct {
	mu             sync.Mutex
	contractCalls  int
	sharedCalls    int
	primitiveCalls int
	sharedModes    []ck.ResolutionMode
	contractErr    error
	primitives     map[reflect.Type]ck.PrimitiveContract
	ids            map[reflect.Type]ck.TypeID
}

func newCountingCatalog() *countingCatalog {
	return &countingCatalog{
		primitives: map[reflect.Type]ck.PrimitiveContract{
			reflect.TypeOf(""): &stubPrimitive{stubContract{name: "string", typ: reflect.TypeOf("")}},
		},
		ids: map[reflect.Type]ck.TypeID{},
	}
}

func (c *countingCatalog) TypeID(t reflect.Type) ck.TypeID {
	c.mu.Lock()
	defer c.mu.Unlock()
	id, ok := c.ids[t]
	if !ok {
		id = ck.TypeID(len(c.ids) + 1)
		c.ids[t] = id
	}
	return id
}

func (c *countingCatalog) Contract(t reflect.Type) (ck.Contract, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.contractCalls++
	if c.contractErr != nil {
		return nil, c.contractErr
	}
	return &stubContract{name: t.String(), typ: t}, nil
}

func (c *countingCatalog) GetOnlyCollectionContract(id ck.TypeID, t reflect.Type, mode ck.ResolutionMode) (ck.Contract, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sharedCalls++
	c.sharedModes = append(c.sharedModes, mode)
	return &stubContract{name: "shared:" + t.String(), typ: t}, nil
}

func (c *countingCatalog) PrimitiveContract(t reflect.Type) (ck.PrimitiveContract, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.primitiveCalls++
	p, ok := c.primitives[t]
	return p, ok, nil
}

func (c *countingCatalog) counts() (contract, shared, primitive int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.contractCalls, c.sharedCalls, c.primitiveCalls
}

// Host types used across the tests.

type Order struct {
	ID     int
	Note   *string
	Tags   []string
	Owner  string `json:"owner,omitempty"`
	secret string
	items  []string
	label  string
}

func (o *Order) Items() []string      { return o.items }
func (o *Order) Label() string        { return o.label }
func (o *Order) SetLabel(v string)    { o.label = v }
func (o Order) Total() float64        { return float64(o.ID) * 1.5 }
func (o *Order) Hidden() hiddenDetail { return hiddenDetail{n: o.ID} }

type hiddenDetail struct{ n int }

type privateHost struct {
	A int
}

func mustField(t reflect.Type, name string) *ck.FieldInfo {
	fi, ok := ck.LookupField(t, name)
	if !ok {
		panic("no field " + name)
	}
	return fi
}

func mustProperty(t reflect.Type, name string) *ck.PropertyInfo {
	pi, ok := ck.LookupProperty(t, name)
	if !ok {
		panic("no property " + name)
	}
	return pi
}

var orderType = reflect.TypeOf(Order{})
