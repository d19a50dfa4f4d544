package errors

import (
	"fmt"
)

type ErrCode int

type RootsErr struct {
	Code ErrCode
	Msg  string
}

func (e *RootsErr) Error() string {
	return fmt.Sprintf("[%d] %s", e.Code, e.Msg)
}

func new(code ErrCode, msg string) *RootsErr {
	return &RootsErr{
		Code: code,
		Msg:  msg,
	}
}

const (
	unresolvedLabel ErrCode = iota
	notMountable
	bufferTooSmall
	backendUnavailable
	mountFailed
	formatFailed
	detectionExhausted
	invalid
)

// Pre-defined errors. An operation that finds its target already in the
// requested state returns nil, never one of these.
var (
	UnresolvedLabel    = new(unresolvedLabel, "no root matches the label")
	NotMountable       = new(notMountable, "root has no mount point")
	BufferTooSmall     = new(bufferTooSmall, "translated path exceeds capacity")
	BackendUnavailable = new(backendUnavailable, "backend partition not found")
	MountFailed        = new(mountFailed, "mount failed on all configured devices")
	FormatFailed       = new(formatFailed, "format failed")
	DetectionExhausted = new(detectionExhausted, "no candidate filesystem mounted")

	NoPackageBound   = new(invalid, "no package is registered")
	NotPackageRoot   = new(invalid, "root is not a package root")
	UnsupportedFs    = new(invalid, "filesystem is not in the supported set")
	TrailingPath     = new(invalid, "root must be a bare label with no relative path")
	MissingPartition = new(invalid, "mtd root has no partition name")
)
