// Package component implements the machinery shared by remote-backed UI components.
//
// A remote-backed component is populated by an asynchronous query and changes
// afterwards only through discrete messages. Core owns the component state, a
// single failure slot and a serial event queue:
//
//   - InitiateQuery runs a query in its own goroutine and turns its outcome into
//     exactly one queued event (a domain message on success, a Failure otherwise).
//   - Send enqueues events reported by child components on the same queue.
//   - Next and Run take events off the queue one at a time, fold them into the
//     state through the component's Reducer and invoke the render hook when the
//     reducer asks for it.
//
// Core is not safe for concurrent use. State, Failure, Dispatch and InitiateQuery
// belong to the goroutine that drives Next or Run; other goroutines talk to the
// component through Send and Invoke, and observe it through the render hook.
//
// Every query is tagged with a generation number. When a newer query has been
// initiated, resolutions of older ones are discarded without touching the state.
package component
