package contractkit_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	ck "github.com/reoring/contractkit"
)

// TestErrorModel_AsIssuesAndUnwrap exercises both AsIssues and errors.As and
// checks that sentinels carried as causes stay reachable through wrapping.
func TestErrorModel_AsIssuesAndUnwrap(t *testing.T) {
	err := fmt.Errorf("resolve: %w", ck.NewIssue("/items", ck.CodeNoAccessor, ck.ErrNoSetter, map[string]any{"member": "Items"}))

	var iss ck.Issues
	if !errors.As(err, &iss) {
		t.Fatalf("expected errors.As to extract Issues, got: %v", err)
	}
	got, ok := ck.AsIssues(err)
	if !ok || len(got) != 1 || got[0].Path != "/items" {
		t.Fatalf("unexpected issues: %v", got)
	}
	if !errors.Is(err, ck.ErrNoSetter) {
		t.Fatalf("cause not reachable through errors.Is")
	}
	if got[0].Message != "no accessor for Items" {
		t.Fatalf("message = %q", got[0].Message)
	}
	if _, ok := ck.AsIssues(errors.New("plain")); ok {
		t.Fatalf("plain errors are not issues")
	}
	if _, ok := ck.AsIssues(nil); ok {
		t.Fatalf("nil is not an issue")
	}
}

func TestErrorModel_Summary(t *testing.T) {
	var iss ck.Issues
	for _, p := range []string{"/a", "/b", "/c", "/d"} {
		iss = ck.AppendIssues(iss, ck.Issue{Path: p, Code: ck.CodeInvalidMember})
	}
	msg := iss.Error()
	if !strings.HasPrefix(msg, "invalid_member at /a; invalid_member at /b") {
		t.Fatalf("summary = %q", msg)
	}
	if strings.Contains(msg, "/d") || !strings.HasSuffix(msg, "(total 4)") {
		t.Fatalf("summary should be capped: %q", msg)
	}
	if ck.Issues(nil).Error() != "" {
		t.Fatalf("empty issues should render empty")
	}
}
