package lazy

import (
	"fmt"
	"strings"
)

// ModuleShapeError reports a module that resolved but whose default export is
// not a renderable component.
type ModuleShapeError struct {
	Label string
	Keys  []string
}

func (e *ModuleShapeError) Error() string {
	return fmt.Sprintf("lazy-loaded module %q does not export a renderable component as default. Resolved keys: %s",
		e.Label, strings.Join(e.Keys, ","))
}

// RetrievalError reports a loader that failed before producing a module.
type RetrievalError struct {
	Label string
	Err   error
}

func (e *RetrievalError) Error() string {
	return fmt.Sprintf("loading module %q: %v", e.Label, e.Err)
}

func (e *RetrievalError) Unwrap() error {
	return e.Err
}
