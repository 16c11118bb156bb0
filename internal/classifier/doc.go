// Package classifier turns a snapshot of terminal text into an automation
// decision.
//
// The classifier is the leaf of the automation core. It has no knowledge of
// tmux, timers or keystrokes: given the text a Claude Code session currently
// shows, it answers one question, "what should the watcher do about this?".
//
// # Decisions
//
//   - [KindProceed]: a routine yes/continue prompt with a visible choice
//     affordance is on screen; answering "1" is safe.
//   - [KindPause]: a human is needed (an open question, a finished task, or a
//     suspected loop). The decision carries the reason shown to the user.
//   - [KindAutoResume]: after a completion pause the assistant started a new
//     unit of work, meaning the human re-engaged manually.
//   - [KindIgnore]: nothing actionable.
//
// # Priority
//
// Pattern families overlap, so the order of checks is part of the contract:
//
//  1. Loop detection over the rolling history (opt-in, see [WithLoopDetection])
//  2. User input required
//  3. Task completion
//  4. New task started (only right after a completion signal)
//  5. Proceed prompt (question phrase AND confirmation affordance)
//  6. Ignore
//
// A text that both asks an open question and offers "Continue? 1) Yes" is
// therefore never auto-answered.
//
// # Matching
//
// Every table in patterns.go is a flat list of lowercase literals checked by
// substring containment against the lowercased, ANSI-stripped text. Matching is
// deliberately liberal for pause rules and strict (two independent halves) for
// proceed.
//
// # Basic Usage
//
//	c := classifier.New()
//	switch d := c.Classify(text); d.Kind {
//	case classifier.KindProceed:
//	    // send confirmation
//	case classifier.KindPause:
//	    // notify with d.Reason
//	}
package classifier
