// Package fileutil holds small filesystem helpers shared by the converter:
// atomic file replacement and advisory directory locks.
package fileutil
