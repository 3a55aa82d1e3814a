package vdom

import (
	"github.com/vango-dev/vtree/internal/errors"
)

// CheckList validates a child list assembled outside the builders:
// explicit keys must be unique and implicit indexes strictly increasing.
func CheckList(list []*VNode) error {
	if err := checkList(list); err != nil {
		return err
	}
	return nil
}

func checkList(list []*VNode) *errors.Error {
	var seen map[string]struct{}
	last := -1
	for _, c := range list {
		if c == nil {
			return errors.New(errors.CodeInvalidChild).WithDetail("child list contains nil")
		}
		if !c.ExplicitKey {
			if c.Index <= last {
				return errors.New(errors.CodeInvalidChild).
					WithDetailf("implicit index %d follows %d; unkeyed children must keep their slot order", c.Index, last)
			}
			last = c.Index
			continue
		}
		if seen == nil {
			seen = make(map[string]struct{}, len(list))
		}
		if _, dup := seen[c.Key]; dup {
			return errors.New(errors.CodeDuplicateKey).
				WithDetailf("key %q appears more than once", c.Key).
				WithSuggestion("give each sibling a distinct key")
		}
		seen[c.Key] = struct{}{}
	}
	return nil
}
