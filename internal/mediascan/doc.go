// Package mediascan walks a directory tree, classifies files by their
// extension and optionally copies every match into an extension-named
// subfolder of a target directory.
//
// The walk is sequential and depth-first. Per-extension counts and sizes are
// accumulated into a Metrics table owned by a single run, and progress is
// emitted to a Reporter as the walk proceeds.
package mediascan
