/*
DESCRIPTION
  xerror.go defines the error kinds returned across the stitcher's task
  boundaries (§6, §7): Param, Mem, File, Protocol, Timeout, Unknown, plus
  the Bypass sentinel for a legitimate per-frame no-op.

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package xerror defines the tagged error kinds used across the stitcher
// core's task boundaries, so a computation task's first failure can be
// converted into a caller-meaningful result without exceptions.
package xerror

import "fmt"

// Kind classifies a stitcher error.
type Kind int

const (
	Ok Kind = iota
	Bypass
	Param
	Mem
	File
	Protocol
	Timeout
	Unknown
)

func (k Kind) String() string {
	switch k {
	case Ok:
		return "ok"
	case Bypass:
		return "bypass"
	case Param:
		return "param"
	case Mem:
		return "mem"
	case File:
		return "file"
	case Protocol:
		return "protocol"
	case Timeout:
		return "timeout"
	case Unknown:
		return "unknown"
	default:
		return "invalid"
	}
}

// Error is a Kind-tagged error. Components return *Error (or wrap one)
// instead of ad hoc error strings so the orchestrator's work counter can
// classify the first failure of a frame.
type Error struct {
	Kind Kind
	Op   string // The operation that failed, e.g. "remap", "blend".
	Err  error  // Underlying cause, may be nil.
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("stitch360: %s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("stitch360: %s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// New builds an *Error of the given kind.
func New(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// KindOf returns the Kind of err if it is (or wraps) an *Error, and
// Unknown otherwise.
func KindOf(err error) Kind {
	var e *Error
	if ok := asError(err, &e); ok {
		return e.Kind
	}
	return Unknown
}

func asError(err error, target **Error) bool {
	for err != nil {
		if e, ok := err.(*Error); ok {
			*target = e
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
