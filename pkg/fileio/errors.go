package fileio

import "errors"

var (
	errAborted       = errors.New("fileio: transfer aborted by peer")
	errTimedOut      = errors.New("fileio: transfer timed out")
	errTooManyErrors = errors.New("fileio: too many errors")
)
