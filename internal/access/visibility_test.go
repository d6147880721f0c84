package access

import (
	"reflect"
	"strings"
	"testing"
)

type Exported struct{ A int }
type unexported struct{ A int }

func TestIsTypeVisible(t *testing.T) {
	cases := []struct {
		name string
		t    reflect.Type
		want bool
	}{
		{"predeclared", reflect.TypeOf(0), true},
		{"error", reflect.TypeOf((*error)(nil)).Elem(), true},
		{"exported", reflect.TypeOf(strings.Builder{}), true},
		{"exported under internal/", reflect.TypeOf(Exported{}), false},
		{"unexported", reflect.TypeOf(unexported{}), false},
		{"slice of unexported", reflect.TypeOf([]unexported{}), false},
		{"map to exported", reflect.TypeOf(map[string]*strings.Builder{}), true},
		{"func returning unexported", reflect.TypeOf(func() unexported { return unexported{} }), false},
		{"anonymous struct", reflect.TypeOf(struct{ X int }{}), true},
		{"anonymous struct with hidden field", reflect.TypeOf(struct{ x int }{}), false},
		{"interface", reflect.TypeOf((*interface{ String() string })(nil)).Elem(), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsTypeVisible(tc.t); got != tc.want {
				t.Fatalf("IsTypeVisible(%v) = %v, want %v", tc.t, got, tc.want)
			}
		})
	}
}

func TestIsInternalPath(t *testing.T) {
	if !IsInternalPath("github.com/x/y/internal/z") || !IsInternalPath("internal/z") {
		t.Fatalf("internal paths not detected")
	}
	if IsInternalPath("github.com/x/internalize") || IsInternalPath("") {
		t.Fatalf("false positive")
	}
}

func TestIsExportedName(t *testing.T) {
	if !IsExportedName("Name") || IsExportedName("name") || IsExportedName("_x") || IsExportedName("") {
		t.Fatalf("unexpected result")
	}
}

func TestTypeArgsVisible(t *testing.T) {
	cases := []struct {
		name string
		want bool
	}{
		{"Box", true},
		{"Box[int]", true},
		{"Box[github.com/x/y.Item]", true},
		{"Box[github.com/x/y.item]", false},
		{"Box[github.com/x/internal/y.Item]", false},
		{"Pair[string,map[string][]*gopkg.in/yaml.v3.Node]", true},
		{"Box[github.com/x/y.Box[github.com/x/y.hidden]]", false},
		{"Box[struct { X int }]", true},
		{"Box[struct { x int }]", false},
		{"Box[chan<- github.com/foo-bar/y.Item]", true},
		{"Box[[4]int]", true},
	}
	for _, tc := range cases {
		if got := typeArgsVisible(tc.name); got != tc.want {
			t.Fatalf("typeArgsVisible(%q) = %v, want %v", tc.name, got, tc.want)
		}
	}
}
