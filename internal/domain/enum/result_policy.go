package enum

import "fmt"

// ResultPolicy selects how an exchange materializes its result. It is a
// request-level choice, never persisted.
type ResultPolicy int

const (
	// ResultPolicyCreateNewLinked opens a new exchange sale with its own
	// order number and items, linked back to the original sale
	ResultPolicyCreateNewLinked ResultPolicy = 0
	// ResultPolicyAppendToExisting appends the replacement items to the
	// original sale and recomputes its totals
	ResultPolicyAppendToExisting ResultPolicy = 1
)

func (p ResultPolicy) String() string {
	names := [...]string{"CreateNewLinked", "AppendToExisting"}
	if int(p) < 0 || int(p) >= len(names) {
		return "CreateNewLinked"
	}
	return names[p]
}

// ParseResultPolicy maps the wire representation to a ResultPolicy
func ParseResultPolicy(s string) (ResultPolicy, error) {
	switch s {
	case "", "CreateNewLinked":
		return ResultPolicyCreateNewLinked, nil
	case "AppendToExisting":
		return ResultPolicyAppendToExisting, nil
	}
	return ResultPolicyCreateNewLinked, fmt.Errorf("unknown result policy %q", s)
}
