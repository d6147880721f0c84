package contractkit

import (
	"reflect"
	"unsafe"
)

// Getter reads a member from a host instance (T or *T).
type Getter func(obj any) (any, error)

// Setter writes a member on a host instance, which must be a non-nil *T.
// A nil value stores the zero value of the member type.
type Setter func(obj any, value any) error

// AccessorCompiler turns a MemberInfo into callable accessors. DataMember
// memoizes whatever the compiler returns.
type AccessorCompiler interface {
	CompileGetter(m MemberInfo) (Getter, error)
	CompileSetter(m MemberInfo) (Setter, error)
}

// ReflectCompiler compiles accessors on top of package reflect.
// When AllowMemberAccess is set, unexported fields are reached through
// unsafe; otherwise compiling an accessor for them fails with ErrMemberAccess.
type ReflectCompiler struct {
	AllowMemberAccess bool
}

var _ AccessorCompiler = ReflectCompiler{}

func (c ReflectCompiler) CompileGetter(m MemberInfo) (Getter, error) {
	switch mi := m.(type) {
	case *FieldInfo:
		return c.fieldGetter(mi)
	case *PropertyInfo:
		return propertyGetter(mi), nil
	default:
		return nil, memberIssue(m, CodeInvalidMember, nil)
	}
}

func (c ReflectCompiler) CompileSetter(m MemberInfo) (Setter, error) {
	switch mi := m.(type) {
	case *FieldInfo:
		return c.fieldSetter(mi)
	case *PropertyInfo:
		return propertySetter(mi)
	default:
		return nil, memberIssue(m, CodeInvalidMember, nil)
	}
}

func (c ReflectCompiler) fieldGetter(f *FieldInfo) (Getter, error) {
	sf := f.StructField()
	if !sf.IsExported() && !c.AllowMemberAccess {
		return nil, memberIssue(f, CodeMemberAccessDenied, ErrMemberAccess)
	}
	declaring := f.DeclaringType()
	allow := c.AllowMemberAccess
	return func(obj any) (any, error) {
		hv, err := hostValue(obj, declaring, false)
		if err != nil {
			return nil, err
		}
		if allow && !hv.CanAddr() {
			cp := reflect.New(declaring).Elem()
			cp.Set(hv)
			hv = cp
		}
		fv, ok := walkIndex(hv, sf.Index, false, allow)
		if !ok {
			// nil embedded pointer on the path
			return reflect.Zero(sf.Type).Interface(), nil
		}
		if !fv.CanInterface() {
			if !allow || !fv.CanAddr() {
				return nil, memberIssue(f, CodeMemberAccessDenied, ErrMemberAccess)
			}
			fv = exposed(fv)
		}
		return fv.Interface(), nil
	}, nil
}

func (c ReflectCompiler) fieldSetter(f *FieldInfo) (Setter, error) {
	sf := f.StructField()
	if !sf.IsExported() && !c.AllowMemberAccess {
		return nil, memberIssue(f, CodeMemberAccessDenied, ErrMemberAccess)
	}
	declaring := f.DeclaringType()
	allow := c.AllowMemberAccess
	return func(obj any, value any) error {
		hv, err := hostValue(obj, declaring, true)
		if err != nil {
			return err
		}
		fv, ok := walkIndex(hv, sf.Index, true, allow)
		if !ok {
			return memberIssue(f, CodeMemberAccessDenied, ErrMemberAccess)
		}
		if !fv.CanSet() {
			if !allow || !fv.CanAddr() {
				return memberIssue(f, CodeMemberAccessDenied, ErrMemberAccess)
			}
			fv = exposed(fv)
		}
		vv, err := assignableValue(f, value)
		if err != nil {
			return err
		}
		fv.Set(vv)
		return nil
	}, nil
}

func propertyGetter(p *PropertyInfo) Getter {
	gm := p.GetterMethod()
	declaring := p.DeclaringType()
	return func(obj any) (any, error) {
		recv, err := hostPointer(obj, declaring, false)
		if err != nil {
			return nil, err
		}
		out := gm.Func.Call([]reflect.Value{recv})
		return out[0].Interface(), nil
	}
}

func propertySetter(p *PropertyInfo) (Setter, error) {
	sm, ok := p.SetterMethod()
	if !ok {
		return nil, memberIssue(p, CodeNoAccessor, ErrNoSetter)
	}
	declaring := p.DeclaringType()
	return func(obj any, value any) error {
		recv, err := hostPointer(obj, declaring, true)
		if err != nil {
			return err
		}
		vv, err := assignableValue(p, value)
		if err != nil {
			return err
		}
		sm.Func.Call([]reflect.Value{recv, vv})
		return nil
	}, nil
}

// hostValue returns the struct value behind obj. With mustAddr, obj has to be
// a pointer so writes land on the caller's instance.
func hostValue(obj any, declaring reflect.Type, mustAddr bool) (reflect.Value, error) {
	rv := reflect.ValueOf(obj)
	if !rv.IsValid() {
		return reflect.Value{}, hostIssue(declaring, obj)
	}
	if rv.Kind() == reflect.Pointer && rv.Type().Elem() == declaring {
		if rv.IsNil() {
			return reflect.Value{}, hostIssue(declaring, obj)
		}
		return rv.Elem(), nil
	}
	if rv.Type() == declaring && !mustAddr {
		return rv, nil
	}
	return reflect.Value{}, hostIssue(declaring, obj)
}

// hostPointer returns a *T receiver for obj, copying a T into a fresh
// pointer when writes are not required.
func hostPointer(obj any, declaring reflect.Type, mustAddr bool) (reflect.Value, error) {
	hv, err := hostValue(obj, declaring, mustAddr)
	if err != nil {
		return reflect.Value{}, err
	}
	if hv.CanAddr() {
		return hv.Addr(), nil
	}
	p := reflect.New(declaring)
	p.Elem().Set(hv)
	return p, nil
}

// walkIndex follows a promoted field path. With alloc, nil embedded pointers
// are allocated (through unexported embeddings only when allow is set);
// otherwise a nil pointer reports ok=false.
func walkIndex(v reflect.Value, index []int, alloc, allow bool) (reflect.Value, bool) {
	for i, x := range index {
		if i > 0 && v.Kind() == reflect.Pointer {
			if v.IsNil() {
				if !alloc {
					return reflect.Value{}, false
				}
				if !v.CanSet() {
					if !allow || !v.CanAddr() {
						return reflect.Value{}, false
					}
					v = exposed(v)
				}
				v.Set(reflect.New(v.Type().Elem()))
			}
			v = v.Elem()
		}
		v = v.Field(x)
	}
	return v, true
}

// exposed strips the read-only flag from an addressable value.
func exposed(v reflect.Value) reflect.Value {
	return reflect.NewAt(v.Type(), unsafe.Pointer(v.UnsafeAddr())).Elem()
}

func assignableValue(m MemberInfo, value any) (reflect.Value, error) {
	t := m.Type()
	if value == nil {
		return reflect.Zero(t), nil
	}
	vv := reflect.ValueOf(value)
	if vv.Type().AssignableTo(t) {
		return vv, nil
	}
	// int -> string conversion yields a rune, never what a caller meant
	if t.Kind() == reflect.String && vv.Kind() != reflect.String {
		return reflect.Value{}, valueIssue(m, vv.Type())
	}
	if vv.Kind() == reflect.Slice && t.Kind() == reflect.Array {
		return reflect.Value{}, valueIssue(m, vv.Type())
	}
	if vv.Type().ConvertibleTo(t) {
		return vv.Convert(t), nil
	}
	return reflect.Value{}, valueIssue(m, vv.Type())
}

func memberIssue(m MemberInfo, code string, cause error) Issues {
	params := map[string]any{}
	if m != nil {
		params["member"] = m.Name()
		if dt := m.DeclaringType(); dt != nil {
			params["type"] = dt.String()
		}
	}
	return NewIssue("/", code, cause, params)
}

func hostIssue(declaring reflect.Type, obj any) Issues {
	return NewIssue("/", CodeInvalidHost, nil, map[string]any{"type": declaring.String(), "got": reflect.TypeOf(obj)})
}

func valueIssue(m MemberInfo, got reflect.Type) Issues {
	return NewIssue("/", CodeInvalidValue, nil, map[string]any{"member": m.Name(), "type": m.Type().String(), "got": got.String()})
}
