// Package transport moves raw frames between the task planner and the
// companion path planner.
//
// Two one-way named pipes make up one logical duplex channel: the request pipe
// carries bytes from the planner to the companion and the response pipe
// carries bytes back. Every operation blocks and is byte-exact: Send writes
// the whole frame or fails, Receive reads exactly the requested count or
// fails. There is no retry or timeout; any failure is reported as a
// TRANSPORT_FAILURE and is fatal to the session.
//
// Opening a FIFO blocks until the other end opens it too, so the two sides
// must open the pipes in compatible order. OpenPlanner opens the response pipe
// first and OpenCompanion opens it first as well (for writing), which lets the
// two rendezvous without deadlocking.
//
// Memory and Pair provide in-process substitutes for tests.
package transport
