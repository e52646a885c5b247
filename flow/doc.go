// Package flow derives named output views from a fleet snapshot.
//
// A flow pairs a name with a predicate over records. Applying a flow is
// pure: no I/O, no snapshot mutation, record order preserved. Records
// whose shape defeats the predicate are skipped and counted, never an
// error for the whole flow.
package flow
