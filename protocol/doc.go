// Package protocol implements the request/response exchange between the task
// planner and the companion path planner.
//
// # Wire format
//
// All frames are raw bytes with fixed bounds agreed on by both ends:
//
//   - Opcode: one ASCII byte, '0' heuristic, '1' route, '2' shutdown, '3' cost.
//   - Cell name: the name followed by a NUL, at most NameBound bytes in total.
//   - Confirmation: exactly NameBound bytes, NUL padded. The companion echoes
//     each name it receives, or answers the second name of a cost or route
//     request with the sentinel "Err-NoSol".
//   - Result: exactly ResultSize bytes holding an ASCII decimal number, NUL
//     padded.
//
// # Exchange
//
// A heuristic or cost round-trip is: opcode, name A, confirmation, name B,
// confirmation, result. A route notification stops after the second
// confirmation. Shutdown is the opcode alone. There are no request ids, so the
// two ends stay in step only because every frame is sent and read in this
// exact order; the Client validates names before writing anything so that a
// rejected request never leaves a partial exchange on the wire.
package protocol
