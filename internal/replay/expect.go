package replay

import (
	"fmt"
	"slices"
	"strings"

	"github.com/google/go-cmp/cmp"
)

// AssertionError reports a failed expectation.
type AssertionError struct {
	Check    string
	Expected string
	Actual   string
}

func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "expectation failed: %s\n", e.Check)
	fmt.Fprintf(&buf, "  expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  actual:   %s", e.Actual)
	return buf.String()
}

func (x *Expect) check(res *Result) error {
	if x.Actions != nil {
		got := make([]string, len(res.Actions))
		for i, r := range res.Actions {
			got[i] = r.Action
		}
		if !slices.Equal(x.Actions, got) {
			return &AssertionError{
				Check:    "actions",
				Expected: strings.Join(x.Actions, ", "),
				Actual:   strings.Join(got, ", "),
			}
		}
	}
	if x.DropResult != nil && !cmp.Equal(x.DropResult, res.DropResult) {
		return &AssertionError{
			Check:    "drop_result",
			Expected: fmt.Sprintf("%v", x.DropResult),
			Actual:   fmt.Sprintf("%v", res.DropResult),
		}
	}
	return nil
}
