package catalog

import (
	"reflect"
	"sort"
	"sync"

	"go.uber.org/zap"

	ck "github.com/reoring/contractkit"
)

// Catalog is the contract catalog DataMembers resolve against. It caches
// every contract it constructs for the life of the process and is safe for
// concurrent use.
type Catalog struct {
	log        *zap.Logger
	cfg        Config
	primitives map[reflect.Type]*Primitive
	properties map[reflect.Type][]string

	mu     sync.RWMutex
	ids    map[reflect.Type]ck.TypeID
	byType map[reflect.Type]ck.Contract
	shared map[ck.TypeID]ck.Contract
}

var _ ck.Catalog = (*Catalog)(nil)

// Option configures a Catalog.
type Option func(*Catalog)

// WithLogger sets the logger used for construction and lookup diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(c *Catalog) {
		if l != nil {
			c.log = l
		}
	}
}

// WithConfig replaces the default Config.
func WithConfig(cfg Config) Option {
	return func(c *Catalog) { c.cfg = cfg }
}

// WithPrimitive registers an additional primitive contract, replacing any
// built-in one for the same type.
func WithPrimitive(p *Primitive) Option {
	return func(c *Catalog) { c.primitives[p.Type()] = p }
}

// WithTypeProperties declares getter/setter pairs of struct type t that class
// contracts include as members.
func WithTypeProperties(t reflect.Type, names ...string) Option {
	return func(c *Catalog) {
		for t != nil && t.Kind() == reflect.Pointer {
			t = t.Elem()
		}
		c.properties[t] = append(c.properties[t], names...)
	}
}

// New creates a Catalog. It fails when the configuration is invalid.
func New(opts ...Option) (*Catalog, error) {
	c := &Catalog{
		log:        zap.NewNop(),
		cfg:        DefaultConfig(),
		primitives: map[reflect.Type]*Primitive{},
		properties: map[reflect.Type][]string{},
		ids:        map[reflect.Type]ck.TypeID{},
		byType:     map[reflect.Type]ck.Contract{},
		shared:     map[ck.TypeID]ck.Contract{},
	}
	for _, p := range builtinPrimitives() {
		c.primitives[p.Type()] = p
	}
	for _, opt := range opts {
		opt(c)
	}
	if err := c.cfg.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the process-wide Catalog, created on first use with the
// default configuration.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := New()
		if err != nil {
			panic(err)
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

// Config returns the configuration in effect.
func (c *Catalog) Config() Config { return c.cfg }

// TypeID returns the identity of t, assigning the next one on first use.
func (c *Catalog) TypeID(t reflect.Type) ck.TypeID {
	c.mu.RLock()
	id, ok := c.ids[t]
	c.mu.RUnlock()
	if ok {
		return id
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if id, ok := c.ids[t]; ok {
		return id
	}
	id = ck.TypeID(len(c.ids) + 1)
	c.ids[t] = id
	return id
}

// Contract returns the contract of t, constructing and caching it on first
// use. Constructed contracts are also registered for shared lookups.
// Concurrent first calls may construct twice; the first stored result wins.
func (c *Catalog) Contract(t reflect.Type) (ck.Contract, error) {
	return c.resolve(t, nil)
}

func (c *Catalog) resolve(t reflect.Type, visiting map[reflect.Type]bool) (ck.Contract, error) {
	if t == nil {
		return nil, ck.NewIssue("/", ck.CodeUnsupportedType, nil, map[string]any{"type": "<nil>"})
	}
	c.mu.RLock()
	ct, ok := c.byType[t]
	c.mu.RUnlock()
	if ok {
		return ct, nil
	}
	if visiting[t] {
		return nil, ck.NewIssue("/", ck.CodeContractCycle, nil, map[string]any{"type": t.String()})
	}

	ct, err := c.construct(t, visiting)
	if err != nil {
		c.log.Debug("contract construction failed", zap.Stringer("type", t), zap.Error(err))
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if prev, ok := c.byType[t]; ok {
		return prev, nil
	}
	c.byType[t] = ct
	id, ok := c.ids[t]
	if !ok {
		id = ck.TypeID(len(c.ids) + 1)
		c.ids[t] = id
	}
	c.shared[id] = ct
	c.log.Debug("contract constructed",
		zap.Stringer("type", t),
		zap.String("contract", ct.Name()),
		zap.Int("id", int(id)))
	return ct, nil
}

func (c *Catalog) construct(t reflect.Type, visiting map[reflect.Type]bool) (ck.Contract, error) {
	if p, ok := c.primitives[t]; ok {
		return p, nil
	}
	switch t.Kind() {
	case reflect.Pointer:
		next := make(map[reflect.Type]bool, len(visiting)+1)
		for k := range visiting {
			next[k] = true
		}
		next[t] = true
		elem, err := c.resolve(t.Elem(), next)
		if err != nil {
			return nil, err
		}
		return &Nullable{typ: t, elem: elem}, nil
	case reflect.Slice, reflect.Array, reflect.Map:
		if t.Kind() == reflect.Map {
			if base, ok := kindBase[t.Key().Kind()]; !ok || base.Kind() != reflect.String && !isInteger(base.Kind()) {
				return nil, ck.NewIssue("/", ck.CodeUnsupportedType, nil, map[string]any{"type": t.String()})
			}
		}
		return &Collection{cat: c, typ: t, name: collectionName(t)}, nil
	case reflect.Struct:
		opts := []ck.BuildOption{
			ck.WithNamePolicy(ck.NamePolicy(c.cfg.NamePolicy)),
			ck.WithEmitDefaultValue(c.cfg.EmitDefaultValue),
			ck.WithCompiler(ck.ReflectCompiler{AllowMemberAccess: c.cfg.AllowMemberAccess}),
		}
		if props := c.properties[t]; len(props) > 0 {
			opts = append(opts, ck.WithProperties(props...))
		}
		members, err := ck.BuildMembers(t, c, opts...)
		if err != nil {
			return nil, err
		}
		name := t.Name()
		if name == "" {
			name = "anonymous"
		}
		return &Class{typ: t, name: name, members: members}, nil
	}
	if base, ok := kindBase[t.Kind()]; ok {
		return c.primitives[base].derive(t), nil
	}
	return nil, ck.NewIssue("/", ck.CodeUnsupportedType, nil, map[string]any{"type": t.String()})
}

// GetOnlyCollectionContract looks up the collection contract registered under
// id. In ModeSharedContract nothing is constructed and a missing registration
// is an error; ModeStandard falls back to Contract.
func (c *Catalog) GetOnlyCollectionContract(id ck.TypeID, t reflect.Type, mode ck.ResolutionMode) (ck.Contract, error) {
	c.mu.RLock()
	ct, ok := c.shared[id]
	c.mu.RUnlock()
	if !ok {
		if mode == ck.ModeSharedContract {
			c.log.Debug("shared contract missing", zap.Stringer("type", t), zap.Int("id", int(id)))
			return nil, ck.NewIssue("/", ck.CodeContractNotRegistered, nil, map[string]any{"type": typeName(t)})
		}
		var err error
		if ct, err = c.Contract(t); err != nil {
			return nil, err
		}
	}
	if _, isCollection := ct.(*Collection); !isCollection {
		return nil, ck.NewIssue("/", ck.CodeInvalidMember, nil, map[string]any{"type": typeName(t)})
	}
	return ct, nil
}

// RegisterShared makes ct available to shared lookups under its type's id.
func (c *Catalog) RegisterShared(ct ck.Contract) ck.TypeID {
	id := c.TypeID(ct.Type())
	c.mu.Lock()
	c.shared[id] = ct
	c.mu.Unlock()
	return id
}

// PrimitiveContract returns the primitive contract registered for exactly t.
func (c *Catalog) PrimitiveContract(t reflect.Type) (ck.PrimitiveContract, bool, error) {
	if t == nil {
		return nil, false, ck.NewIssue("/", ck.CodeUnsupportedType, nil, map[string]any{"type": "<nil>"})
	}
	p, ok := c.primitives[t]
	if !ok {
		return nil, false, nil
	}
	return p, true, nil
}

// Primitives lists the primitive contracts ordered by name.
func (c *Catalog) Primitives() []*Primitive {
	out := make([]*Primitive, 0, len(c.primitives))
	for _, p := range c.primitives {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

func collectionName(t reflect.Type) string {
	if t.Name() != "" {
		return t.Name()
	}
	if t.Kind() == reflect.Map {
		return "MapOf" + shortName(t.Key()) + "To" + shortName(t.Elem())
	}
	return "ArrayOf" + shortName(t.Elem())
}

// shortName names t without pointer indirection or package qualifier.
func shortName(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch {
	case t.Name() != "":
		return t.Name()
	case t.Kind() == reflect.Slice || t.Kind() == reflect.Array || t.Kind() == reflect.Map:
		return collectionName(t)
	}
	return t.String()
}

func isInteger(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return true
	default:
		return false
	}
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}
