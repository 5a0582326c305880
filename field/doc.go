// Package field reconciles an externally controlled phone value with what
// the user is typing.
//
// The reconciler is an explicit three-state machine:
//
//	Uncontrolled       no external value; user input owns the value
//	ControlledIdle     external value present, field not focused
//	ControlledEditing  external value present, field focused
//
// Reconciler.Apply is a pure function from (State, Event) to
// (State, []Notification). Field wraps it with per-instance state and
// listeners for binding layers that prefer callbacks.
//
// While ControlledEditing the edit buffer is authoritative for display.
// External values arriving meanwhile are queued (latest wins) and reconciled
// once, on blur, which emits exactly one change notification.
package field
