// Package splat turns Gaussian-splatting scene parameters into PLY vertex
// files.
//
// A conversion selects one timestep of a dynamic scene (or the whole static
// scene), checks that every parameter block describes the same splats,
// concatenates position, zero normals, colors, opacity, triplicated scales,
// and rotations into one float32 record per splat, and writes the records as
// the single "vertex" element of a PLY file named after the prefix and
// timestep. Files are replaced atomically so an interrupted run never leaves
// a truncated output behind.
//
// Run drives a whole scene: it converts every timestep in order under a lock
// on the destination directory and stops at the first error.
package splat
