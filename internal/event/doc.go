// Package event provides a pub-sub event bus for automation events.
//
// # Main Types
//
//   - [Event]: Interface that all events implement (EventType, Timestamp)
//   - [Bus]: Synchronous pub-sub dispatcher with thread-safe operations
//   - [Handler]: Function type for event handlers (func(Event))
//
// # Events
//
//   - [StateChangedEvent]: idle/running/paused transitions with cause and counts
//   - [ProceedSentEvent]: a confirmation keystroke was attempted
//   - [DecisionEvent]: the classifier's verdict for a changed snapshot
//   - [NotifiedEvent]: a desktop notification was issued
//
// # Thread Safety
//
// The [Bus] type is safe for concurrent use. Handlers are called synchronously
// on the publishing goroutine and are protected by panic recovery.
//
// # Basic Usage
//
//	bus := event.NewBus()
//	bus.Subscribe(event.TypeStateChanged, func(e event.Event) {
//	    sc := e.(event.StateChangedEvent)
//	    fmt.Println(sc.StatusText)
//	})
package event
