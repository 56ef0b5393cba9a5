// Package health provides preflight checks for a bridge deployment: the
// named pipes, the companion binary and the optional Redis route sink.
//
// Each check returns a Status; Combine folds several into one, and the
// "pathbridge doctor" command prints them.
package health
