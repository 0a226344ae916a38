// Package playground runs and grades challenge code against the backend and
// renders the outcome through capabilities handed in by the caller.
//
// # Capabilities
//
// The adapter never looks anything up globally. A [Config] carries:
//
//   - [runner.Runner]: the transport to the execution and submission endpoints
//   - [Panel]: the output region, styled by [dto.State]
//   - [Notifier]: dismissible banners
//   - [BusyIndicator]: toggled around every request
//   - [Confirmer]: the blocking yes/no step before submitting or resetting
//   - [Reloader] and [Scheduler]: the deferred reload after a correct answer
//   - [Editor] and [StarterSource]: the code buffer and its original content
//
// # Outcomes
//
// Every operation returns exactly one [dto.DisplayResult] and applies it to
// the panel and notifier before returning. Remote failures never surface as
// Go errors.
//
// # Overlapping calls
//
// Calls are independent. Unless [Config].Serialize is set, two calls may be
// in flight at once and the last reply to arrive owns the panel.
package playground
