package params_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"splatply/internal/params"
	"splatply/internal/testsupport"
)

func TestLoadDynamicScene(t *testing.T) {
	path := filepath.Join(t.TempDir(), "params.npz")
	entries := testsupport.WriteScene(t, path, testsupport.Scene{T: 2, N: 4, C: 3, S: 1, R: 4})

	archive, err := params.Load(path, params.DefaultKeys())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if archive.Path != path {
		t.Fatalf("unexpected path %q", archive.Path)
	}

	checks := []struct {
		arr   params.Array
		entry testsupport.NPZEntry
	}{
		{archive.Means, entries["means3D"]},
		{archive.Colors, entries["rgb_colors"]},
		{archive.Opacities, entries["logit_opacities"]},
		{archive.Scales, entries["log_scales"]},
		{archive.Rotations, entries["unnorm_rotations"]},
	}
	for _, c := range checks {
		if c.arr.Name != c.entry.Name {
			t.Fatalf("name = %q, want %q", c.arr.Name, c.entry.Name)
		}
		if diff := cmp.Diff(c.entry.Shape, c.arr.Shape); diff != "" {
			t.Fatalf("%s shape mismatch (-want +got):\n%s", c.entry.Name, diff)
		}
		want := make([]float32, len(c.entry.Data))
		for i, v := range c.entry.Data {
			want[i] = float32(v)
		}
		if diff := cmp.Diff(want, c.arr.Data); diff != "" {
			t.Fatalf("%s data mismatch (-want +got):\n%s", c.entry.Name, diff)
		}
	}
}

func TestLoadMissingKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "params.npz")
	entries := testsupport.SceneEntries(testsupport.Scene{N: 2, C: 3, S: 1, R: 4})
	testsupport.WriteNPZ(t, path, entries["means3D"], entries["rgb_colors"], entries["log_scales"], entries["unnorm_rotations"])

	_, err := params.Load(path, params.DefaultKeys())
	if !errors.Is(err, params.ErrMissingKey) {
		t.Fatalf("expected ErrMissingKey, got %v", err)
	}
	var missing *params.MissingKeyError
	if !errors.As(err, &missing) {
		t.Fatalf("expected *MissingKeyError, got %T", err)
	}
	if missing.Key != params.KeyOpacities {
		t.Fatalf("missing key = %q, want %q", missing.Key, params.KeyOpacities)
	}
}

func TestLoadCustomKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "params.npz")
	entries := testsupport.SceneEntries(testsupport.Scene{N: 3, C: 3, S: 1, R: 4})
	renamed := entries["means3D"]
	renamed.Name = "xyz"
	testsupport.WriteNPZ(t, path, renamed, entries["rgb_colors"], entries["logit_opacities"], entries["log_scales"], entries["unnorm_rotations"])

	keys := params.DefaultKeys()
	keys.Means = "xyz"
	archive, err := params.Load(path, keys)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if archive.Means.Name != "xyz" || archive.Means.Dim(0) != 3 {
		t.Fatalf("unexpected means array: %+v", archive.Means.Shape)
	}
}

func TestLoadNarrowsFloat64(t *testing.T) {
	path := filepath.Join(t.TempDir(), "params.npz")
	entries := testsupport.SceneEntries(testsupport.Scene{N: 2, C: 3, S: 1, R: 4})
	means := entries["means3D"]
	means.DType = "<f8"
	rot := entries["unnorm_rotations"]
	rot.DType = ">f8"
	colors := entries["rgb_colors"]
	colors.DType = ">f4"
	testsupport.WriteNPZ(t, path, means, colors, entries["logit_opacities"], entries["log_scales"], rot)

	archive, err := params.Load(path, params.DefaultKeys())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if archive.Means.DType != "<f8" {
		t.Fatalf("dtype = %q, want <f8", archive.Means.DType)
	}
	for i, v := range means.Data {
		if archive.Means.Data[i] != float32(v) {
			t.Fatalf("means[%d] = %v, want %v", i, archive.Means.Data[i], v)
		}
	}
	for i, v := range colors.Data {
		if archive.Colors.Data[i] != float32(v) {
			t.Fatalf("colors[%d] = %v, want %v", i, archive.Colors.Data[i], v)
		}
	}
	for i, v := range rot.Data {
		if archive.Rotations.Data[i] != float32(v) {
			t.Fatalf("rotations[%d] = %v, want %v", i, archive.Rotations.Data[i], v)
		}
	}
}

func TestLoadConvertsIntegerDTypes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "params.npz")
	entries := testsupport.SceneEntries(testsupport.Scene{N: 2, C: 3, S: 1, R: 4})
	opac := entries["logit_opacities"]
	opac.DType = "<i4"
	opac.Data = []float64{-3, 7}
	scales := entries["log_scales"]
	scales.DType = "<i8"
	scales.Data = []float64{-12, 40}
	colors := entries["rgb_colors"]
	colors.DType = "|u1"
	colors.Data = []float64{0, 1, 2, 253, 254, 255}
	testsupport.WriteNPZ(t, path, entries["means3D"], colors, opac, scales, entries["unnorm_rotations"])

	archive, err := params.Load(path, params.DefaultKeys())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if archive.Opacities.DType != "<i4" {
		t.Fatalf("dtype = %q, want <i4", archive.Opacities.DType)
	}
	if diff := cmp.Diff([]float32{-3, 7}, archive.Opacities.Data); diff != "" {
		t.Fatalf("opacities mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]float32{-12, 40}, archive.Scales.Data); diff != "" {
		t.Fatalf("scales mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]float32{0, 1, 2, 253, 254, 255}, archive.Colors.Data); diff != "" {
		t.Fatalf("colors mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConvertsHalfPrecision(t *testing.T) {
	path := filepath.Join(t.TempDir(), "params.npz")
	entries := testsupport.SceneEntries(testsupport.Scene{N: 2, C: 3, S: 1, R: 4})
	opac := entries["logit_opacities"]
	opac.DType = "<f2"
	opac.Data = []float64{0.5, -1.25}
	colors := entries["rgb_colors"]
	colors.DType = ">f2"
	colors.Data = []float64{0, 0.25, 1, 2.5, -4, 1024}
	testsupport.WriteNPZ(t, path, entries["means3D"], colors, opac, entries["log_scales"], entries["unnorm_rotations"])

	archive, err := params.Load(path, params.DefaultKeys())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if diff := cmp.Diff([]float32{0.5, -1.25}, archive.Opacities.Data); diff != "" {
		t.Fatalf("opacities mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]float32{0, 0.25, 1, 2.5, -4, 1024}, archive.Colors.Data); diff != "" {
		t.Fatalf("colors mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{2, 1}, archive.Opacities.Shape); diff != "" {
		t.Fatalf("opacities shape mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadReordersFortranArrays(t *testing.T) {
	path := filepath.Join(t.TempDir(), "params.npz")
	entries := testsupport.SceneEntries(testsupport.Scene{T: 2, N: 2, C: 3, S: 1, R: 4})
	means := entries["means3D"]
	means.Fortran = true
	scales := entries["log_scales"]
	scales.Fortran = true
	scales.DType = "<f8"
	testsupport.WriteNPZ(t, path, means, entries["rgb_colors"], entries["logit_opacities"], scales, entries["unnorm_rotations"])

	archive, err := params.Load(path, params.DefaultKeys())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	for name, c := range map[string]struct {
		arr   params.Array
		entry testsupport.NPZEntry
	}{
		"means3D":    {archive.Means, means},
		"log_scales": {archive.Scales, scales},
	} {
		want := make([]float32, len(c.entry.Data))
		for i, v := range c.entry.Data {
			want[i] = float32(v)
		}
		if diff := cmp.Diff(want, c.arr.Data); diff != "" {
			t.Fatalf("%s data mismatch (-want +got):\n%s", name, diff)
		}
	}
	// means3D[1][0][2] in row-major order.
	if got := archive.Means.Data[1*2*3+0*3+2]; got != 1002.25 {
		t.Fatalf("means3D[1][0][2] = %v, want 1002.25", got)
	}
}

func TestLoadRejectsComplexDType(t *testing.T) {
	path := filepath.Join(t.TempDir(), "params.npz")
	entries := testsupport.SceneEntries(testsupport.Scene{N: 2, C: 3, S: 1, R: 4})
	opac := entries["logit_opacities"]
	opac.DType = "<c8"
	testsupport.WriteNPZ(t, path, entries["means3D"], entries["rgb_colors"], opac, entries["log_scales"], entries["unnorm_rotations"])

	_, err := params.Load(path, params.DefaultKeys())
	if !errors.Is(err, params.ErrUnsupportedDType) {
		t.Fatalf("expected ErrUnsupportedDType, got %v", err)
	}
	var unsupported *params.UnsupportedDTypeError
	if !errors.As(err, &unsupported) || unsupported.Key != params.KeyOpacities || unsupported.DType != "<c8" {
		t.Fatalf("unexpected error %#v", err)
	}
}

func TestLoadNotAnArchive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "params.npz")
	testsupport.WriteFile(t, path, 128)

	if _, err := params.Load(path, params.DefaultKeys()); err == nil {
		t.Fatal("expected error for non-zip input")
	}
}

func TestReadAllListsEveryEntry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "params.npz")
	entries := testsupport.SceneEntries(testsupport.Scene{T: 3, N: 2, C: 3, S: 1, R: 4})
	extra := testsupport.NPZEntry{Name: "seg_colors", DType: "<c8", Shape: []int{2}, Data: []float64{1, 2}}
	testsupport.WriteNPZ(t, path, entries["rgb_colors"], entries["means3D"], extra)

	got, err := params.ReadAll(path)
	if err != nil {
		t.Fatalf("ReadAll returned error: %v", err)
	}
	names := make([]string, len(got))
	for i, e := range got {
		names[i] = e.Name
	}
	if diff := cmp.Diff([]string{"means3D", "rgb_colors", "seg_colors"}, names); diff != "" {
		t.Fatalf("entry names mismatch (-want +got):\n%s", diff)
	}
	if got[0].Err != nil || len(got[0].Data) != 3*2*3 {
		t.Fatalf("means3D entry: err=%v len=%d", got[0].Err, len(got[0].Data))
	}
	if !errors.Is(got[2].Err, params.ErrUnsupportedDType) || got[2].Data != nil {
		t.Fatalf("seg_colors entry error = %v", got[2].Err)
	}
	if got[2].DType != "<c8" || got[2].ShapeString() != "(2,)" {
		t.Fatalf("seg_colors header = %s %s", got[2].DType, got[2].ShapeString())
	}
}
