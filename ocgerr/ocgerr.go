// Package ocgerr defines the sentinel error kinds the evaluation engine
// surfaces: callers compare against these with errors.Is,
// and node compute routines wrap them with fmt.Errorf("...: %w", ...) to
// attach context.
package ocgerr

import "errors"

// ErrAttrMissing indicates a get/set referenced an attribute name the
// node's AttrBlock does not declare. Get returns a zero value; Set
// changes nothing and reports this error.
var ErrAttrMissing = errors.New("ocgerr: attribute missing")

// ErrInputMissing indicates a required input slot was disconnected.
// Status becomes Warning and an empty stream is emitted downstream.
var ErrInputMissing = errors.New("ocgerr: input missing")

// ErrOracleFailure indicates an external collaborator (decode, encode,
// color-convert, resample) reported failure. Status becomes Error and
// the wrapped failure is recorded on the node's Err field.
var ErrOracleFailure = errors.New("ocgerr: oracle failure")

// ErrCycle indicates Connect would introduce a cycle; the graph is left
// unchanged.
var ErrCycle = errors.New("ocgerr: cycle rejected")

// ErrCapacityExceeded indicates a single cache entry is larger than the
// cache's byte budget; the insert is rejected but the caller still
// receives the computed stream.
var ErrCapacityExceeded = errors.New("ocgerr: capacity exceeded")

// ErrDuplicateEdge indicates Connect targeted a (dst, slot) pair that
// already has an incoming edge.
var ErrDuplicateEdge = errors.New("ocgerr: duplicate edge for input slot")
