package contractkit

import (
	"reflect"
	"strconv"
	"strings"
)

// ResolveStructKey applies the repository-wide rule to resolve a struct field's
// wire name.
// Priority: contract:"name=..." > json tag name > field name; "-" disables the field.
func ResolveStructKey(sf reflect.StructField) string {
	if ct := sf.Tag.Get("contract"); ct != "" {
		if ct == "-" {
			return "-"
		}
		for _, p := range strings.Split(ct, ",") {
			p = strings.TrimSpace(p)
			if strings.HasPrefix(p, "name=") {
				return strings.TrimPrefix(p, "name=")
			}
		}
	}
	if jt := sf.Tag.Get("json"); jt != "" {
		if jt == "-" {
			return "-"
		}
		if i := strings.IndexByte(jt, ','); i >= 0 {
			if jt[:i] != "" {
				return jt[:i]
			}
			return sf.Name
		}
		return jt
	}
	return sf.Name
}

// MemberTag is the parsed serialization metadata of a struct field.
type MemberTag struct {
	Name        string
	Order       int
	Required    bool
	OmitDefault bool // contract "omitdefault" or json "omitempty"
	Nullable    bool // contract "nullable"
	Tagged      bool // a contract tag is present
	Skip        bool
}

// ParseMemberTag reads the contract and json tags of sf.
// Recognized contract options: name=..., order=N, required, omitdefault, nullable.
func ParseMemberTag(sf reflect.StructField) MemberTag {
	mt := MemberTag{Name: ResolveStructKey(sf)}
	if mt.Name == "-" {
		mt.Skip = true
		return mt
	}
	if jt := sf.Tag.Get("json"); jt != "" {
		for _, p := range strings.Split(jt, ",")[1:] {
			if strings.TrimSpace(p) == "omitempty" {
				mt.OmitDefault = true
			}
		}
	}
	ct, ok := sf.Tag.Lookup("contract")
	if !ok {
		return mt
	}
	mt.Tagged = true
	for _, p := range strings.Split(ct, ",") {
		p = strings.TrimSpace(p)
		switch {
		case p == "required":
			mt.Required = true
		case p == "omitdefault":
			mt.OmitDefault = true
		case p == "nullable":
			mt.Nullable = true
		case strings.HasPrefix(p, "order="):
			if n, err := strconv.Atoi(strings.TrimPrefix(p, "order=")); err == nil {
				mt.Order = n
			}
		}
	}
	return mt
}
