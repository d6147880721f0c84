package contractkit

import "github.com/reoring/contractkit/internal/access"

// RequiresMemberAccessForGet reports whether code generated to read this
// member directly needs elevated access: the field or getter is unexported,
// the declaring type cannot be named from outside its package, or (for
// properties) the value type cannot. A member without a getter requires
// nothing. The answer is recomputed on every call.
func (m *DataMember) RequiresMemberAccessForGet() bool {
	acc, ok := m.info.GetAccessor()
	return ok && requiresMemberAccess(m.info, acc)
}

// RequiresMemberAccessForSet is the write-side counterpart of
// RequiresMemberAccessForGet.
func (m *DataMember) RequiresMemberAccessForSet() bool {
	acc, ok := m.info.SetAccessor()
	return ok && requiresMemberAccess(m.info, acc)
}

func requiresMemberAccess(info MemberInfo, acc Accessor) bool {
	if acc.Visibility != Exported {
		return true
	}
	declaring := info.DeclaringType()
	if acc.Receiver != nil {
		declaring = acc.Receiver
	}
	if !access.IsTypeVisible(declaring) {
		return true
	}
	return info.Kind() == KindProperty && !access.IsTypeVisible(info.Type())
}
