package store

import (
	"errors"
	"fmt"
)

// NotFoundError reports that a requested entity does not exist upstream.
// The HTTP layer maps it to 404.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Entity, e.ID)
}

// UpstreamError reports that the snapshot store itself failed (unreachable,
// query error). It is always propagated, never defaulted: a fetch failure
// must stay distinguishable from a legitimately empty field. The HTTP layer
// maps it to 503.
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream %s: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// IsNotFound reports whether the error chain contains a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsUpstream reports whether the error chain contains an UpstreamError.
func IsUpstream(err error) bool {
	var ue *UpstreamError
	return errors.As(err, &ue)
}
