package contractkit

import (
	"errors"
	"fmt"
	"strings"

	"github.com/reoring/contractkit/i18n"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	CodeInvalidMember         = "invalid_member"
	CodeUnsupportedType       = "unsupported_type"
	CodeContractNotRegistered = "contract_not_registered"
	CodeContractCycle         = "contract_cycle"
	CodeNoAccessor            = "no_accessor"
	CodeMemberAccessDenied    = "member_access_denied"
	CodeInvalidHost           = "invalid_host"
	CodeInvalidValue          = "invalid_value"
	CodeInvalidConfig         = "invalid_config"
)

var (
	// ErrNoCatalog is reported when a DataMember has to resolve a contract but
	// was constructed without a Catalog.
	ErrNoCatalog = errors.New("contractkit: no contract catalog")
	// ErrNoGetter indicates the member has no readable accessor.
	ErrNoGetter = errors.New("contractkit: member has no getter")
	// ErrNoSetter indicates the member has no writable accessor.
	ErrNoSetter = errors.New("contractkit: member has no setter")
	// ErrMemberAccess indicates compiling an accessor needs access to an
	// unexported member and the compiler does not allow it.
	ErrMemberAccess = errors.New("contractkit: member requires elevated access")
)

// Issue represents a single resolution or access failure.
type Issue struct {
	Path    string // JSON Pointer of the member wire name (for example: /items).
	Code    string // One of the codes listed above.
	Message string
	Hint    string // Optional: remediation hints.
	Cause   error  // Optional: underlying error.
	// Params carries structured parameters (e.g., {"member":"Items", "type":"pkg.Order"})
	// for i18n and diagnostics.
	Params map[string]any
}

// Issues is a collection of failures that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := min(n, maxShown)
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. unsupported_type at /path: unsupported type
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
		if it.Message != "" {
			fmt.Fprintf(b, ": %s", it.Message)
		}
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// Unwrap exposes the causes so errors.Is matches sentinels carried by issues.
func (iss Issues) Unwrap() []error {
	var errs []error
	for _, it := range iss {
		if it.Cause != nil {
			errs = append(errs, it.Cause)
		}
	}
	return errs
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// NewIssue builds a single-issue error with the translated message for code.
func NewIssue(path, code string, cause error, params map[string]any) Issues {
	return Issues{{Path: path, Code: code, Message: i18n.T(code, stringParams(params)), Cause: cause, Params: params}}
}

func stringParams(params map[string]any) map[string]string {
	if len(params) == 0 {
		return nil
	}
	out := make(map[string]string, len(params))
	for k, v := range params {
		out[k] = fmt.Sprint(v)
	}
	return out
}
