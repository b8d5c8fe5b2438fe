package runtimemodule

import (
	stderrors "errors"
	"fmt"
)

// ErrDuplicateModule matches every *DuplicateModuleError through errors.Is.
var ErrDuplicateModule = stderrors.New("runtime module is duplicated")

// DuplicateModuleError reports a plugin contribution whose identifier is already
// taken by an internal module.
type DuplicateModuleError struct {
	ID string
}

func (e *DuplicateModuleError) Error() string {
	return fmt.Sprintf("runtime module %q is duplicated, please check your plugin configuration", e.ID)
}

// Is makes errors.Is(err, ErrDuplicateModule) succeed.
func (e *DuplicateModuleError) Is(target error) bool {
	return target == ErrDuplicateModule
}
