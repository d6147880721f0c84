package contractkit

import (
	"reflect"

	"github.com/reoring/contractkit/internal/access"
)

// MemberKind distinguishes the two host-member variants.
type MemberKind int

const (
	KindField    MemberKind = iota // Struct field, possibly promoted through embedding.
	KindProperty                   // Getter method X() T with optional setter SetX(T).
)

func (k MemberKind) String() string {
	switch k {
	case KindField:
		return "field"
	case KindProperty:
		return "property"
	default:
		return "unknown"
	}
}

// Visibility is the declared visibility of a member or accessor.
type Visibility int

const (
	Exported   Visibility = iota // Reachable by any package.
	Unexported                   // Reachable only inside the declaring package.
)

func visibilityOf(name string) Visibility {
	if access.IsExportedName(name) {
		return Exported
	}
	return Unexported
}

// Accessor describes one direction (read or write) of a member.
type Accessor struct {
	Name       string       // Field name, or getter/setter method name.
	Visibility Visibility   // Declared visibility of the accessor itself.
	Receiver   reflect.Type // T or *T, the method set carrying a property accessor; nil for fields.
}

// MemberInfo is the host-member handle a DataMember is built around. It is
// implemented by *FieldInfo and *PropertyInfo.
type MemberInfo interface {
	// Name returns the Go identifier of the member.
	Name() string
	Kind() MemberKind
	// DeclaringType returns the struct type declaring the member (never a pointer).
	DeclaringType() reflect.Type
	// Type returns the declared value type.
	Type() reflect.Type
	Visibility() Visibility
	GetAccessor() (Accessor, bool)
	SetAccessor() (Accessor, bool)
}

// FieldInfo is a field-backed MemberInfo.
type FieldInfo struct {
	declaring reflect.Type
	field     reflect.StructField
}

// NewFieldInfo wraps sf, a field of declaring (as returned by
// declaring.Field or declaring.FieldByName).
func NewFieldInfo(declaring reflect.Type, sf reflect.StructField) *FieldInfo {
	if declaring == nil || declaring.Kind() != reflect.Struct {
		panic("contractkit.NewFieldInfo: declaring type must be a struct")
	}
	if len(sf.Index) == 0 {
		panic("contractkit.NewFieldInfo: struct field has no index")
	}
	return &FieldInfo{declaring: declaring, field: sf}
}

// LookupField finds the field called name on struct type t (or *t).
func LookupField(t reflect.Type, name string) (*FieldInfo, bool) {
	t = indirectType(t)
	if t == nil || t.Kind() != reflect.Struct {
		return nil, false
	}
	sf, ok := t.FieldByName(name)
	if !ok {
		return nil, false
	}
	return NewFieldInfo(t, sf), true
}

func (f *FieldInfo) Name() string                { return f.field.Name }
func (f *FieldInfo) Kind() MemberKind            { return KindField }
func (f *FieldInfo) DeclaringType() reflect.Type { return f.declaring }
func (f *FieldInfo) Type() reflect.Type          { return f.field.Type }
func (f *FieldInfo) Visibility() Visibility      { return visibilityOf(f.field.Name) }

// StructField returns the underlying reflect.StructField.
func (f *FieldInfo) StructField() reflect.StructField { return f.field }

// GetAccessor always succeeds for fields.
func (f *FieldInfo) GetAccessor() (Accessor, bool) {
	return Accessor{Name: f.field.Name, Visibility: f.Visibility()}, true
}

// SetAccessor always succeeds for fields.
func (f *FieldInfo) SetAccessor() (Accessor, bool) {
	return Accessor{Name: f.field.Name, Visibility: f.Visibility()}, true
}

// PropertyInfo is a property-backed MemberInfo: a getter method X() T plus an
// optional setter SetX(T).
type PropertyInfo struct {
	declaring reflect.Type
	name      string
	typ       reflect.Type
	getter    reflect.Method
	getterPtr bool // getter declared on *T only
	setter    *reflect.Method
	setterPtr bool
}

// LookupProperty finds the property called name on struct type t (or *t).
// The getter must take no arguments and return one value; a setter is
// recognized when Set<name> takes exactly that value type and returns nothing.
func LookupProperty(t reflect.Type, name string) (*PropertyInfo, bool) {
	t = indirectType(t)
	if t == nil || t.Kind() != reflect.Struct {
		return nil, false
	}
	pt := reflect.PointerTo(t)
	gm, ok := pt.MethodByName(name)
	if !ok || gm.Type.NumIn() != 1 || gm.Type.NumOut() != 1 {
		return nil, false
	}
	p := &PropertyInfo{declaring: t, name: name, typ: gm.Type.Out(0), getter: gm}
	if _, onValue := t.MethodByName(name); !onValue {
		p.getterPtr = true
	}
	if sm, ok := pt.MethodByName("Set" + name); ok &&
		sm.Type.NumIn() == 2 && sm.Type.NumOut() == 0 && sm.Type.In(1) == p.typ {
		p.setter = &sm
		if _, onValue := t.MethodByName(sm.Name); !onValue {
			p.setterPtr = true
		}
	}
	return p, true
}

func (p *PropertyInfo) Name() string                { return p.name }
func (p *PropertyInfo) Kind() MemberKind            { return KindProperty }
func (p *PropertyInfo) DeclaringType() reflect.Type { return p.declaring }
func (p *PropertyInfo) Type() reflect.Type          { return p.typ }
func (p *PropertyInfo) Visibility() Visibility      { return visibilityOf(p.name) }

func (p *PropertyInfo) GetAccessor() (Accessor, bool) {
	return Accessor{Name: p.getter.Name, Visibility: visibilityOf(p.getter.Name), Receiver: p.receiver(p.getterPtr)}, true
}

func (p *PropertyInfo) SetAccessor() (Accessor, bool) {
	if p.setter == nil {
		return Accessor{}, false
	}
	return Accessor{Name: p.setter.Name, Visibility: visibilityOf(p.setter.Name), Receiver: p.receiver(p.setterPtr)}, true
}

// GetterMethod returns the reflected getter, taken from the *T method set.
func (p *PropertyInfo) GetterMethod() reflect.Method { return p.getter }

// SetterMethod returns the reflected setter, taken from the *T method set.
func (p *PropertyInfo) SetterMethod() (reflect.Method, bool) {
	if p.setter == nil {
		return reflect.Method{}, false
	}
	return *p.setter, true
}

func (p *PropertyInfo) receiver(ptr bool) reflect.Type {
	if ptr {
		return reflect.PointerTo(p.declaring)
	}
	return p.declaring
}

func indirectType(t reflect.Type) reflect.Type {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}
