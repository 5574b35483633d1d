package normalize

import (
	"errors"
	"fmt"
)

// Sentinel kinds for normalization errors. These allow errors.Is/As
// from callers.
var (
	ErrUnknownSchema = errors.New("unknown source schema version")
)

// SchemaError reports a raw record whose source-schema version has no
// mapping table. The record is skipped; the run continues.
type SchemaError struct {
	EntityID string
	Version  string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("entity %s: schema version %q: %v", e.EntityID, e.Version, ErrUnknownSchema)
}

func (e *SchemaError) Unwrap() error {
	return ErrUnknownSchema
}
