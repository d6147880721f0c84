package contractkit_test

import (
	"reflect"
	"testing"

	ck "github.com/reoring/contractkit"
)

type Box[T any] struct {
	V T
}

type GenericHost struct{}

func (GenericHost) Wrapped() Box[hiddenDetail] { return Box[hiddenDetail]{} }
func (GenericHost) Plain() Box[string]         { return Box[string]{} }
func (GenericHost) Nested() Box[[]*Box[int]]   { return Box[[]*Box[int]]{} }

// restrictedSetter is a property handle whose setter is package-private.
type restrictedSetter struct{ *ck.PropertyInfo }

func (r restrictedSetter) SetAccessor() (ck.Accessor, bool) {
	acc, ok := r.PropertyInfo.SetAccessor()
	acc.Name = "setLabel"
	acc.Visibility = ck.Unexported
	return acc, ok
}

func TestRequiresMemberAccess(t *testing.T) {
	cases := []struct {
		name    string
		info    ck.MemberInfo
		wantGet bool
		wantSet bool
	}{
		{"public field of public type", mustField(orderType, "ID"), false, false},
		{"unexported field", mustField(orderType, "secret"), true, true},
		{"exported field of unexported type", mustField(reflect.TypeOf(privateHost{}), "A"), true, true},
		{"property with unexported value type", mustProperty(orderType, "Hidden"), true, false},
		{"property with setter", mustProperty(orderType, "Label"), false, false},
		{"property without setter", mustProperty(orderType, "Items"), false, false},
		{"value receiver property", mustProperty(orderType, "Total"), false, false},
		{"exported getter with package-private setter", restrictedSetter{mustProperty(orderType, "Label")}, false, true},
		{"generic value type with unexported argument", mustProperty(reflect.TypeOf(GenericHost{}), "Wrapped"), true, false},
		{"generic value type with exported arguments", mustProperty(reflect.TypeOf(GenericHost{}), "Plain"), false, false},
		{"nested generic value type", mustProperty(reflect.TypeOf(GenericHost{}), "Nested"), false, false},
		{"field of generic type with unexported argument", mustField(reflect.TypeOf(Box[hiddenDetail]{}), "V"), true, true},
		{"field of generic type with exported argument", mustField(reflect.TypeOf(Box[string]{}), "V"), false, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := ck.NewDataMember(tc.info, nil)
			if got := m.RequiresMemberAccessForGet(); got != tc.wantGet {
				t.Fatalf("get = %v, want %v", got, tc.wantGet)
			}
			if got := m.RequiresMemberAccessForSet(); got != tc.wantSet {
				t.Fatalf("set = %v, want %v", got, tc.wantSet)
			}
		})
	}
}
