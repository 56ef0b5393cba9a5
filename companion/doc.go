// Package companion starts and simulates the path planner on the other end
// of the pipes.
//
// Launch runs an external companion (typically a JVM) as a child process
// after making sure both pipes exist. Sim is an in-process companion over a
// rectangular grid of cells named C<x>_<y>. It is used by tests and by the
// "pathbridge simulate" command.
package companion
