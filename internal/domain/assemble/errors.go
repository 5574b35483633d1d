package assemble

import (
	"errors"
	"fmt"
)

// Sentinel kinds for assembly errors.
var (
	ErrSchemaMismatch = errors.New("feature schema version mismatch")
)

// SchemaMismatchError reports an instance whose constituent feature
// vectors were produced under different feature-schema versions.
// Mixing versions within one row silently corrupts model semantics,
// so the instance is rejected and the run continues.
type SchemaMismatchError struct {
	InstanceID  string
	HomeVersion string
	AwayVersion string
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("instance %s: home %q vs away %q: %v",
		e.InstanceID, e.HomeVersion, e.AwayVersion, ErrSchemaMismatch)
}

func (e *SchemaMismatchError) Unwrap() error {
	return ErrSchemaMismatch
}
