package contractkit

import (
	"reflect"

	js "github.com/reoring/contractkit/jsonschema"
)

// TypeID is a stable, process-local identity assigned to a type by a Catalog.
type TypeID int

// ResolutionMode selects how a Catalog may satisfy a contract lookup.
type ResolutionMode int

const (
	// ModeStandard allows the catalog to construct a contract on demand.
	ModeStandard ResolutionMode = iota
	// ModeSharedContract only returns contracts already registered under the
	// type's identity; nothing is constructed.
	ModeSharedContract
)

func (m ResolutionMode) String() string {
	switch m {
	case ModeStandard:
		return "standard"
	case ModeSharedContract:
		return "shared"
	default:
		return "unknown"
	}
}

// Contract describes how values of one Go type travel on the wire.
type Contract interface {
	// Name is the wire-level type name (for example "int" or "Order").
	Name() string
	// Type is the Go type the contract serializes.
	Type() reflect.Type
	// JSONSchema projects the contract into a JSON Schema representation.
	JSONSchema() (*js.Schema, error)
}

// PrimitiveContract is the fast-path contract for built-in value types.
// Encoders may bypass general contract dispatch when a member has one.
type PrimitiveContract interface {
	Contract
	// Marshal encodes v, which must be of Type(), into its wire form.
	Marshal(v any) ([]byte, error)
	// Unmarshal decodes a wire value into a value of Type().
	Unmarshal(data []byte) (any, error)
}

// Catalog is the process-wide contract lookup a DataMember resolves against.
// Implementations are expected to be safe for concurrent use.
type Catalog interface {
	// TypeID returns the stable identity of t.
	TypeID(t reflect.Type) TypeID
	// Contract performs standard type-to-contract resolution.
	Contract(t reflect.Type) (Contract, error)
	// GetOnlyCollectionContract resolves the contract of a collection member
	// that has no setter, keyed by type identity under mode.
	GetOnlyCollectionContract(id TypeID, t reflect.Type, mode ResolutionMode) (Contract, error)
	// PrimitiveContract returns the built-in fast-path contract for t, if any.
	PrimitiveContract(t reflect.Type) (PrimitiveContract, bool, error)
}
