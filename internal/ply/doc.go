// Package ply reads and writes PLY files holding float32 vertex data.
//
// Only the subset needed for splat exports is supported: any number of
// elements, each with scalar float properties, in ascii or binary (either
// byte order) encoding. List properties and non-float scalar types are
// rejected by the decoder.
package ply
