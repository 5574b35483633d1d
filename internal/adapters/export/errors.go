package export

import (
	"errors"
	"fmt"
)

// Sentinel kinds for export errors.
var (
	ErrDatasetWrite = errors.New("dataset write failed")
	ErrDatasetRead  = errors.New("dataset read failed")
)

// DatasetWriteError reports a persistence failure. It is fatal for the
// run: the staging directory is discarded so no partial dataset is
// ever visible to consumers.
type DatasetWriteError struct {
	Path string
	Err  error
}

func (e *DatasetWriteError) Error() string {
	return fmt.Sprintf("%s: %v: %v", e.Path, ErrDatasetWrite, e.Err)
}

func (e *DatasetWriteError) Unwrap() error {
	return ErrDatasetWrite
}
