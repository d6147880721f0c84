// Package contractkit describes the serializable members of Go types.
//
// A DataMember wraps one struct field or getter/setter pair (its MemberInfo)
// together with the metadata a serializer needs: wire name, order, required,
// emit-default and nullable flags, and whether it is a get-only collection.
// The member's type contract, primitive contract and compiled accessors are
// resolved against a Catalog on first use and reused afterwards.
//
// Design policy:
//   - Keep the descriptor and its interfaces in the root package; the
//     concrete catalog lives under catalog/ and the CLI under cmd/contractkit.
//   - Failures are reported as Issues (JSON Pointer, code, message).
//   - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	members, err := contractkit.BuildMembers(reflect.TypeOf(Order{}), catalog.Default())
//	for _, m := range members {
//		ct, err := m.TypeContract()
//		get, err := m.Getter()
//		v, err := get(&order)
//	}
package contractkit
