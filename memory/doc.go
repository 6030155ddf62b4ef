// Package memory holds the model-facing conversation log of a session.
//
// Persistence model:
//   - Store is the in-memory, append-only log. Append adds a message while the
//     turn is still open; Commit adds the closing message and flushes every
//     not-yet-durable message to the Backend.
//   - The system preamble is never stored; it is prepended at oracle-call time.
//   - Backends only ever append. Nothing is rewritten or deleted.
package memory
