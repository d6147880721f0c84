package contractkit_test

import (
	"reflect"
	"testing"

	ck "github.com/reoring/contractkit"
)

func TestResolveStructKey(t *testing.T) {
	type sample struct {
		A int `contract:"name=alpha" json:"a"`
		B int `json:"bee,omitempty"`
		C int `json:",omitempty"`
		D int `json:"-"`
		E int `contract:"-"`
		F int
	}
	rt := reflect.TypeOf(sample{})
	want := []string{"alpha", "bee", "C", "-", "-", "F"}
	for i, w := range want {
		if got := ck.ResolveStructKey(rt.Field(i)); got != w {
			t.Fatalf("field %s: got %q want %q", rt.Field(i).Name, got, w)
		}
	}
}

func TestParseMemberTag(t *testing.T) {
	type sample struct {
		A string `contract:"name=a,order=4,required,nullable,omitdefault"`
		B string `json:"b,omitempty"`
		C string `contract:"order=x"`
	}
	rt := reflect.TypeOf(sample{})
	a := ck.ParseMemberTag(rt.Field(0))
	if a != (ck.MemberTag{Name: "a", Order: 4, Required: true, Nullable: true, OmitDefault: true, Tagged: true}) {
		t.Fatalf("a = %+v", a)
	}
	b := ck.ParseMemberTag(rt.Field(1))
	if b.Name != "b" || !b.OmitDefault || b.Tagged {
		t.Fatalf("b = %+v", b)
	}
	c := ck.ParseMemberTag(rt.Field(2))
	if c.Order != 0 || !c.Tagged {
		t.Fatalf("malformed order should be ignored: %+v", c)
	}
}
