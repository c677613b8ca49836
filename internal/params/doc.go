// Package params loads Gaussian-splatting scene parameters from NumPy .npz
// archives.
//
// An archive is a zip of .npy entries. The loader resolves the five arrays a
// splat scene needs (positions, colors, opacities, scales, rotations) under
// configurable key names and hands them back as flat float32 tensors in C
// order together with their shapes. Float64 archives are narrowed to float32
// because every downstream consumer writes float32 records.
//
// The package performs no shape validation beyond what decoding requires;
// the splat package owns the rules that relate the arrays to each other.
package params
