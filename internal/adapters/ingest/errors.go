package ingest

import "errors"

// Sentinel kinds for ingest errors.
var (
	ErrReadInput   = errors.New("read input failed")
	ErrWriteOutput = errors.New("write output failed")
)
