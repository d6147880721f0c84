package catalog

import (
	"reflect"
	"strconv"

	ck "github.com/reoring/contractkit"
	js "github.com/reoring/contractkit/jsonschema"
)

// schemaProjector is implemented by the catalog's own contracts so nested
// class contracts are emitted once under $defs and referenced elsewhere.
type schemaProjector interface {
	projectSchema(defs *schemaDefs) (*js.Schema, error)
}

func projectSchema(c ck.Contract, defs *schemaDefs) (*js.Schema, error) {
	if p, ok := c.(schemaProjector); ok {
		return p.projectSchema(defs)
	}
	return c.JSONSchema()
}

func (p *Primitive) projectSchema(*schemaDefs) (*js.Schema, error) { return p.JSONSchema() }

// schemaDefs collects class definitions during one projection. Each Go type
// gets its own definition name; types sharing a short name (anonymous
// structs, same-named types from different packages) are numbered.
type schemaDefs struct {
	schemas map[string]*js.Schema
	names   map[reflect.Type]string
}

func newSchemaDefs() *schemaDefs {
	return &schemaDefs{schemas: map[string]*js.Schema{}, names: map[reflect.Type]string{}}
}

// reserve assigns a free definition name to t.
func (d *schemaDefs) reserve(t reflect.Type, base string) string {
	name := base
	for i := 2; ; i++ {
		if _, taken := d.schemas[name]; !taken {
			break
		}
		name = base + strconv.Itoa(i)
	}
	d.names[t] = name
	d.schemas[name] = nil
	return name
}

func (d *schemaDefs) release(t reflect.Type) {
	delete(d.schemas, d.names[t])
	delete(d.names, t)
}

// attach sets the collected definitions on the root schema.
func (d *schemaDefs) attach(s *js.Schema) *js.Schema {
	if len(d.schemas) > 0 {
		s.Defs = d.schemas
	}
	return s
}

// Collection is the contract of a slice, array or map. The item contract is
// resolved through the catalog on first use.
type Collection struct {
	cat  *Catalog
	typ  reflect.Type
	name string
}

var _ ck.Contract = (*Collection)(nil)

func (c *Collection) Name() string       { return c.name }
func (c *Collection) Type() reflect.Type { return c.typ }

// IsMap reports whether the collection is keyed.
func (c *Collection) IsMap() bool { return c.typ.Kind() == reflect.Map }

// ItemType is the element (or map value) type.
func (c *Collection) ItemType() reflect.Type { return c.typ.Elem() }

// ItemContract resolves the contract of ItemType.
func (c *Collection) ItemContract() (ck.Contract, error) { return c.cat.Contract(c.typ.Elem()) }

func (c *Collection) JSONSchema() (*js.Schema, error) {
	defs := newSchemaDefs()
	s, err := c.projectSchema(defs)
	if err != nil {
		return nil, err
	}
	return defs.attach(s), nil
}

func (c *Collection) projectSchema(defs *schemaDefs) (*js.Schema, error) {
	item, err := c.ItemContract()
	if err != nil {
		return nil, err
	}
	is, err := projectSchema(item, defs)
	if err != nil {
		return nil, err
	}
	if c.IsMap() {
		return &js.Schema{Type: "object", AdditionalProperties: is}, nil
	}
	s := &js.Schema{Type: "array", Items: is}
	if c.typ.Kind() == reflect.Array {
		n := c.typ.Len()
		s.MinItems, s.MaxItems = &n, &n
	}
	return s, nil
}

// Nullable wraps the contract of a pointer's element type.
type Nullable struct {
	typ  reflect.Type
	elem ck.Contract
}

var _ ck.Contract = (*Nullable)(nil)

func (n *Nullable) Name() string       { return n.elem.Name() }
func (n *Nullable) Type() reflect.Type { return n.typ }
func (n *Nullable) Elem() ck.Contract  { return n.elem }

func (n *Nullable) JSONSchema() (*js.Schema, error) {
	defs := newSchemaDefs()
	s, err := n.projectSchema(defs)
	if err != nil {
		return nil, err
	}
	return defs.attach(s), nil
}

func (n *Nullable) projectSchema(defs *schemaDefs) (*js.Schema, error) {
	es, err := projectSchema(n.elem, defs)
	if err != nil {
		return nil, err
	}
	return &js.Schema{OneOf: []*js.Schema{es, {Type: "null"}}}, nil
}

// Class is the contract of a struct type. Its members are built with
// contractkit.BuildMembers against the owning catalog.
type Class struct {
	typ     reflect.Type
	name    string
	members []*ck.DataMember
}

var _ ck.Contract = (*Class)(nil)

func (c *Class) Name() string       { return c.name }
func (c *Class) Type() reflect.Type { return c.typ }

// Members returns the data members in serialization order.
func (c *Class) Members() []*ck.DataMember { return c.members }

// Member finds a member by wire name.
func (c *Class) Member(name string) (*ck.DataMember, bool) {
	for _, m := range c.members {
		if m.Name() == name {
			return m, true
		}
	}
	return nil, false
}

// JSONSchema emits a reference to the class with every reachable class,
// this one included, under $defs.
func (c *Class) JSONSchema() (*js.Schema, error) {
	defs := newSchemaDefs()
	s, err := c.projectSchema(defs)
	if err != nil {
		return nil, err
	}
	return defs.attach(s), nil
}

func (c *Class) projectSchema(defs *schemaDefs) (*js.Schema, error) {
	if name, seen := defs.names[c.typ]; seen {
		return &js.Schema{Ref: js.DefRef(name)}, nil
	}
	// reserve the slot before descending so self references terminate
	name := defs.reserve(c.typ, c.name)
	s, err := c.objectSchema(defs)
	if err != nil {
		defs.release(c.typ)
		return nil, err
	}
	defs.schemas[name] = s
	return &js.Schema{Ref: js.DefRef(name)}, nil
}

func (c *Class) objectSchema(defs *schemaDefs) (*js.Schema, error) {
	s := &js.Schema{Type: "object", Title: c.name, Properties: map[string]*js.Schema{}}
	for _, m := range c.members {
		mc, err := m.TypeContract()
		if err != nil {
			return nil, ck.WrapMemberError(m, err)
		}
		ms, err := projectSchema(mc, defs)
		if err != nil {
			return nil, ck.WrapMemberError(m, err)
		}
		s.Properties[m.Name()] = ms
		if m.IsRequired() {
			s.Required = append(s.Required, m.Name())
		}
	}
	return s, nil
}
