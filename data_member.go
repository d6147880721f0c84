package contractkit

import (
	"fmt"
	"reflect"
	"sync/atomic"
)

// DefaultEmitDefaultValue is the EmitDefaultValue a new DataMember starts with.
const DefaultEmitDefaultValue = true

// DataMember is the serialization descriptor of one data-carrying member of a
// host type. Declared metadata is assigned by the contract builder; the member
// type, contracts and accessors are resolved on first use and cached.
//
// Metadata setters are meant for the single-threaded initialization phase.
// Once published, a DataMember may be read from any number of goroutines.
type DataMember struct {
	info     MemberInfo
	catalog  Catalog
	compiler AccessorCompiler

	name                string
	order               int
	isRequired          bool
	emitDefaultValue    bool
	isNullable          bool
	isGetOnlyCollection bool

	hasConflictingNameAndType bool
	conflictingMember         *DataMember

	memberType        lazy[reflect.Type]
	typeContract      lazy[Contract]
	primitiveContract lazy[primitiveLookup]
	getter            lazy[Getter]
	setter            lazy[Setter]
}

// MemberOption configures a DataMember at construction.
type MemberOption func(*DataMember)

// WithAccessorCompiler replaces the default ReflectCompiler.
func WithAccessorCompiler(c AccessorCompiler) MemberOption {
	return func(m *DataMember) {
		if c != nil {
			m.compiler = c
		}
	}
}

// NewDataMember returns a descriptor for info that resolves contracts against
// cat. It panics when info is nil or of an unknown kind, which is a bug in the
// calling builder.
func NewDataMember(info MemberInfo, cat Catalog, opts ...MemberOption) *DataMember {
	if info == nil {
		panic("contractkit.NewDataMember: member info must not be nil")
	}
	if k := info.Kind(); k != KindField && k != KindProperty {
		panic(fmt.Sprintf("contractkit.NewDataMember: member %s is neither a field nor a property", info.Name()))
	}
	m := &DataMember{
		info:             info,
		catalog:          cat,
		compiler:         ReflectCompiler{},
		name:             info.Name(),
		emitDefaultValue: DefaultEmitDefaultValue,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// MemberInfo returns the host-member handle.
func (m *DataMember) MemberInfo() MemberInfo { return m.info }

// Name returns the wire-format name.
func (m *DataMember) Name() string { return m.name }

// SetName sets the wire-format name.
func (m *DataMember) SetName(n string) { m.name = n }

// Order positions the member among its siblings; lower sorts first.
func (m *DataMember) Order() int { return m.order }

// SetOrder sets the serialization order.
func (m *DataMember) SetOrder(o int) { m.order = o }

// IsRequired reports whether the member must be present on the wire.
func (m *DataMember) IsRequired() bool { return m.isRequired }

// SetRequired marks the member as required.
func (m *DataMember) SetRequired(v bool) { m.isRequired = v }

// EmitDefaultValue reports whether a zero value is still written.
func (m *DataMember) EmitDefaultValue() bool { return m.emitDefaultValue }

// SetEmitDefaultValue controls whether zero values are written.
func (m *DataMember) SetEmitDefaultValue(v bool) { m.emitDefaultValue = v }

// IsNullable reports whether the wire value may be null.
func (m *DataMember) IsNullable() bool { return m.isNullable }

// SetNullable marks the member as nullable.
func (m *DataMember) SetNullable(v bool) { m.isNullable = v }

// IsGetOnlyCollection marks a collection member without a setter; decoding
// fills the existing collection in place.
func (m *DataMember) IsGetOnlyCollection() bool { return m.isGetOnlyCollection }

// SetGetOnlyCollection marks the member as a get-only collection. Set it
// before the first TypeContract call.
func (m *DataMember) SetGetOnlyCollection(v bool) { m.isGetOnlyCollection = v }

// HasConflictingNameAndType reports whether another member of the same host
// shares this wire name with a different type. The builder marks both sides.
func (m *DataMember) HasConflictingNameAndType() bool { return m.hasConflictingNameAndType }

// SetConflictingNameAndType sets the conflict flag.
func (m *DataMember) SetConflictingNameAndType(v bool) { m.hasConflictingNameAndType = v }

// ConflictingMember returns the member this one conflicts with, or nil.
func (m *DataMember) ConflictingMember() *DataMember { return m.conflictingMember }

// SetConflictingMember links the conflicting member.
func (m *DataMember) SetConflictingMember(o *DataMember) { m.conflictingMember = o }

// MemberType returns the declared value type of the member.
func (m *DataMember) MemberType() reflect.Type {
	t, _ := m.memberType.get(func() (reflect.Type, error) {
		return m.info.Type(), nil
	})
	return t
}

// TypeContract returns the contract of MemberType. Get-only collections are
// looked up by type identity in shared mode so an existing registration is
// reused and no new contract is constructed. Catalog errors are returned
// unchanged and not cached.
func (m *DataMember) TypeContract() (Contract, error) {
	return m.typeContract.get(func() (Contract, error) {
		if m.catalog == nil {
			return nil, ErrNoCatalog
		}
		t := m.MemberType()
		if m.isGetOnlyCollection {
			return m.catalog.GetOnlyCollectionContract(m.catalog.TypeID(t), t, ModeSharedContract)
		}
		return m.catalog.Contract(t)
	})
}

// SetTypeContract installs a contract resolved out of band, for example to
// break a cycle between mutually referencing contracts.
func (m *DataMember) SetTypeContract(c Contract) { m.typeContract.set(c) }

type primitiveLookup struct {
	contract PrimitiveContract
	ok       bool
}

// PrimitiveContract returns the fast-path contract for MemberType. Both
// outcomes of a successful lookup are cached, so a type without a primitive
// contract is looked up only once.
func (m *DataMember) PrimitiveContract() (PrimitiveContract, bool, error) {
	r, err := m.primitiveContract.get(func() (primitiveLookup, error) {
		if m.catalog == nil {
			return primitiveLookup{}, ErrNoCatalog
		}
		pc, ok, err := m.catalog.PrimitiveContract(m.MemberType())
		if err != nil {
			return primitiveLookup{}, err
		}
		return primitiveLookup{contract: pc, ok: ok && pc != nil}, nil
	})
	if err != nil {
		return nil, false, err
	}
	return r.contract, r.ok, nil
}

// Getter returns the compiled read accessor.
func (m *DataMember) Getter() (Getter, error) {
	return m.getter.get(func() (Getter, error) {
		if _, ok := m.info.GetAccessor(); !ok {
			return nil, memberIssue(m.info, CodeNoAccessor, ErrNoGetter)
		}
		return m.compiler.CompileGetter(m.info)
	})
}

// Setter returns the compiled write accessor.
func (m *DataMember) Setter() (Setter, error) {
	return m.setter.get(func() (Setter, error) {
		if _, ok := m.info.SetAccessor(); !ok {
			return nil, memberIssue(m.info, CodeNoAccessor, ErrNoSetter)
		}
		return m.compiler.CompileSetter(m.info)
	})
}

func (m *DataMember) String() string {
	return fmt.Sprintf("%s.%s (%s %q order=%d)", m.info.DeclaringType(), m.info.Name(), m.info.Kind(), m.name, m.order)
}

// lazy is a compute-once cell. The first successful result is published with
// compare-and-swap; concurrent first calls may both compute, one result wins.
// Failures are not stored and the next call computes again.
type lazy[T any] struct {
	p atomic.Pointer[T]
}

func (c *lazy[T]) get(compute func() (T, error)) (T, error) {
	if v := c.p.Load(); v != nil {
		return *v, nil
	}
	v, err := compute()
	if err != nil {
		var zero T
		return zero, err
	}
	if c.p.CompareAndSwap(nil, &v) {
		return v, nil
	}
	return *c.p.Load(), nil
}

func (c *lazy[T]) set(v T) { c.p.Store(&v) }
