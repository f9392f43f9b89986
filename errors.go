package vellum

import (
	"errors"
	"fmt"
)

// ErrIllegalArgument is wrapped by every error returned for a structurally
// invalid parameter: an out-of-range insertion index, a non-positive zoom,
// re-parenting an attached node, removing a node that is not a child.
// Operations that fail with it leave the scene and index untouched.
var ErrIllegalArgument = errors.New("illegal argument")

func illegalArgument(format string, args ...any) error {
	return fmt.Errorf("vellum: "+format+": %w", append(args, ErrIllegalArgument)...)
}

// unknownVariant builds the panic value raised when a switch over a closed
// enumeration meets a value it does not handle. This is always a programming
// error.
func unknownVariant(enum string, v any) string {
	return fmt.Sprintf("vellum: unknown %s variant %v", enum, v)
}
