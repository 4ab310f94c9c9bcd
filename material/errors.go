package material

import (
	"errors"
	"fmt"
)

var (
	ErrNoOutput     = errors.New("material has no output node")
	ErrGraphTooDeep = errors.New("node graph exceeds the maximum depth; it probably contains a cycle")
)

// ConvertError reports the failed conversion of a single material.
type ConvertError struct {
	Material string
	Err      error
}

func (e *ConvertError) Error() string {
	return fmt.Sprintf("material: could not convert %q: %v", e.Material, e.Err)
}

func (e *ConvertError) Unwrap() error {
	return e.Err
}
