// Package contextkey holds private context key types to avoid collisions
// across packages that stash request-scoped values on a context.Context.
package contextkey

type key string

const (
	TraceID      key = "trace_id"
	SubmissionID key = "submission_id"
	TestID       key = "test_id"
)
