// Package runner drives one conversation turn: it appends the user's
// message, asks the oracle for a decision over the full history and the
// tool registry, and either streams the reply text or hands the turn to a
// lookup executor.
//
// Invariant:
//   - the system instruction is sent first on every call and is never
//     stored in history.
//
// History per turn:
//
//	text path:      user(text) -> assistant(reply)
//	tool success:   user(text) -> assistant([summary], name=tool)
//	tool not found: user(text)
package runner
