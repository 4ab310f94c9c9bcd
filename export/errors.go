package export

import (
	"errors"
	"fmt"
)

var ErrNoScene = errors.New("export: no scene to export")

// UnknownLightTypeError aborts an export pass when a lamp has a type that
// cannot be mapped to a renderer light.
type UnknownLightTypeError struct {
	Type   string
	Object string
}

func (e *UnknownLightTypeError) Error() string {
	return fmt.Sprintf("export: unknown light type %q for object %q", e.Type, e.Object)
}
