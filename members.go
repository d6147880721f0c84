package contractkit

import (
	"reflect"
	"sort"
	"strings"
	"unicode"
)

// NamePolicy controls how wire names are derived from Go identifiers when no
// tag names the member.
type NamePolicy string

const (
	NameDeclared NamePolicy = "declared" // Use the Go identifier as-is.
	NameCamel    NamePolicy = "camel"    // OrderID -> orderID
	NameSnake    NamePolicy = "snake"    // OrderID -> order_id
)

// Apply converts a Go identifier according to the policy.
func (p NamePolicy) Apply(ident string) string {
	switch p {
	case NameCamel:
		return camelName(ident)
	case NameSnake:
		return snakeName(ident)
	default:
		return ident
	}
}

// BuildOption configures BuildMembers.
type BuildOption func(*buildConfig)

type buildConfig struct {
	properties  []string
	compiler    AccessorCompiler
	namePolicy  NamePolicy
	emitDefault bool
}

// WithProperties adds getter/setter method pairs as members.
func WithProperties(names ...string) BuildOption {
	return func(c *buildConfig) { c.properties = append(c.properties, names...) }
}

// WithCompiler sets the AccessorCompiler handed to every built member.
func WithCompiler(ac AccessorCompiler) BuildOption {
	return func(c *buildConfig) { c.compiler = ac }
}

// WithNamePolicy sets the policy applied to untagged member names.
func WithNamePolicy(p NamePolicy) BuildOption {
	return func(c *buildConfig) { c.namePolicy = p }
}

// WithEmitDefaultValue sets EmitDefaultValue for members not tagged
// omitdefault/omitempty.
func WithEmitDefaultValue(v bool) BuildOption {
	return func(c *buildConfig) { c.emitDefault = v }
}

// BuildMembers discovers the data members of struct type t: exported fields
// (including promoted ones), unexported fields carrying a contract tag, and
// the properties named with WithProperties. Members are sorted by order, then
// wire name. Members sharing a wire name at different embedding depths with
// different types are linked as conflicting; the same name twice at one depth
// is an error.
func BuildMembers(t reflect.Type, cat Catalog, opts ...BuildOption) ([]*DataMember, error) {
	cfg := buildConfig{namePolicy: NameDeclared, emitDefault: DefaultEmitDefaultValue}
	for _, opt := range opts {
		opt(&cfg)
	}
	t = indirectType(t)
	if t == nil || t.Kind() != reflect.Struct {
		return nil, NewIssue("/", CodeUnsupportedType, nil, map[string]any{"type": typeString(t)})
	}
	var mopts []MemberOption
	if cfg.compiler != nil {
		mopts = append(mopts, WithAccessorCompiler(cfg.compiler))
	}

	var members []*DataMember
	depth := map[*DataMember]int{}
	for _, sf := range reflect.VisibleFields(t) {
		_, tagged := sf.Tag.Lookup("contract")
		if sf.Anonymous && !tagged && indirectType(sf.Type).Kind() == reflect.Struct {
			// promoted fields are listed on their own
			continue
		}
		if !sf.IsExported() && !tagged {
			continue
		}
		mt := ParseMemberTag(sf)
		if mt.Skip {
			continue
		}
		m := NewDataMember(NewFieldInfo(t, sf), cat, mopts...)
		if mt.Name == sf.Name {
			m.SetName(cfg.namePolicy.Apply(sf.Name))
		} else {
			m.SetName(mt.Name)
		}
		m.SetOrder(mt.Order)
		m.SetRequired(mt.Required)
		m.SetEmitDefaultValue(cfg.emitDefault && !mt.OmitDefault)
		m.SetNullable(mt.Nullable || isNillable(sf.Type))
		members = append(members, m)
		depth[m] = len(sf.Index)
	}

	for _, name := range cfg.properties {
		pi, ok := LookupProperty(t, name)
		if !ok {
			return nil, NewIssue("/"+name, CodeInvalidMember, nil, map[string]any{"member": name, "type": t.String()})
		}
		m := NewDataMember(pi, cat, mopts...)
		m.SetName(cfg.namePolicy.Apply(name))
		m.SetEmitDefaultValue(cfg.emitDefault)
		m.SetNullable(isNillable(pi.Type()))
		if _, ok := pi.SetAccessor(); !ok {
			if !isCollection(pi.Type()) {
				return nil, NewIssue("/"+m.Name(), CodeNoAccessor, ErrNoSetter, map[string]any{"member": name, "type": t.String()})
			}
			m.SetGetOnlyCollection(true)
			// shared lookups never construct; make sure the contract exists
			if cat != nil {
				if _, err := cat.Contract(pi.Type()); err != nil {
					return nil, WrapMemberError(m, err)
				}
			}
		}
		members = append(members, m)
		depth[m] = 1
	}

	if err := linkConflicts(members, depth); err != nil {
		return nil, err
	}
	sort.SliceStable(members, func(i, j int) bool {
		if members[i].Order() != members[j].Order() {
			return members[i].Order() < members[j].Order()
		}
		return members[i].Name() < members[j].Name()
	})
	return members, nil
}

func duplicateIssue(name string, m *DataMember) Issues {
	return NewIssue("/"+name, CodeInvalidMember, nil, map[string]any{
		"member": m.MemberInfo().Name(),
		"type":   m.MemberInfo().DeclaringType().String(),
	})
}

func linkConflicts(members []*DataMember, depth map[*DataMember]int) error {
	byName := map[string][]*DataMember{}
	var names []string
	for _, m := range members {
		if _, ok := byName[m.Name()]; !ok {
			names = append(names, m.Name())
		}
		byName[m.Name()] = append(byName[m.Name()], m)
	}
	for _, name := range names {
		group := byName[name]
		if len(group) < 2 {
			continue
		}
		sort.SliceStable(group, func(i, j int) bool { return depth[group[i]] < depth[group[j]] })
		// the shallowest member wins; every deeper one is compared against it
		winner := group[0]
		for i := 1; i < len(group); i++ {
			cur := group[i]
			if depth[group[i-1]] == depth[cur] {
				return duplicateIssue(name, cur)
			}
			if winner.MemberType() == cur.MemberType() {
				continue
			}
			winner.SetConflictingNameAndType(true)
			cur.SetConflictingNameAndType(true)
			cur.SetConflictingMember(winner)
			if winner.ConflictingMember() == nil {
				winner.SetConflictingMember(cur)
			}
		}
	}
	return nil
}

// WrapMemberError annotates err with the member's wire name and declaring
// type. Issues keep their codes and causes; other errors become a single
// invalid_member issue.
func WrapMemberError(m *DataMember, err error) error {
	if err == nil {
		return nil
	}
	base := "/" + m.Name()
	params := map[string]any{
		"member": m.MemberInfo().Name(),
		"type":   m.MemberInfo().DeclaringType().String(),
	}
	if iss, ok := AsIssues(err); ok {
		out := make(Issues, 0, len(iss))
		for _, it := range iss {
			if it.Path == "" || it.Path == "/" {
				it.Path = base
			} else {
				it.Path = base + it.Path
			}
			merged := make(map[string]any, len(it.Params)+len(params))
			for k, v := range it.Params {
				merged[k] = v
			}
			for k, v := range params {
				if _, ok := merged[k]; !ok {
					merged[k] = v
				}
			}
			it.Params = merged
			out = append(out, it)
		}
		return out
	}
	return Issues{{Path: base, Code: CodeInvalidMember, Message: err.Error(), Cause: err, Params: params}}
}

func isNillable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer, reflect.Slice, reflect.Map, reflect.Interface:
		return true
	default:
		return false
	}
}

func isCollection(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Slice, reflect.Map:
		return true
	default:
		return false
	}
}

func typeString(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}

func camelName(ident string) string {
	rs := []rune(ident)
	// lower the leading run of upper-case letters, keeping the last one of a
	// run that starts a new word (URLPath -> urlPath)
	i := 0
	for i < len(rs) && unicode.IsUpper(rs[i]) {
		i++
	}
	if i > 1 && i < len(rs) {
		i--
	}
	for j := 0; j < i; j++ {
		rs[j] = unicode.ToLower(rs[j])
	}
	return string(rs)
}

func snakeName(ident string) string {
	rs := []rune(ident)
	var b strings.Builder
	for i, r := range rs {
		if unicode.IsUpper(r) {
			if i > 0 && (unicode.IsLower(rs[i-1]) || (i+1 < len(rs) && unicode.IsLower(rs[i+1]) && unicode.IsUpper(rs[i-1]))) {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
