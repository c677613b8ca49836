package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"splatply/internal/config"
	"splatply/internal/params"
	"splatply/internal/ply"
	"splatply/internal/splat"
)

func newInspectCommand(ctx *commandContext) *cobra.Command {
	var archivePath string
	var plyPath string

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Summarize the arrays of a parameter archive or the vertices of a PLY file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if strings.TrimSpace(plyPath) != "" {
				path, err := config.ExpandPath(strings.TrimSpace(plyPath))
				if err != nil {
					return fmt.Errorf("resolve ply path: %w", err)
				}
				return inspectPLY(cmd.OutOrStdout(), path)
			}
			path, err := config.ExpandPath(strings.TrimSpace(archivePath))
			if err != nil {
				return fmt.Errorf("resolve archive path: %w", err)
			}

			entries, err := params.ReadAll(path)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderEntries(path, entries))
			fmt.Fprintf(out, "Scene: %s\n", describeScene(path, cfg.ArchiveKeys()))
			return nil
		},
	}

	cmd.Flags().StringVar(&archivePath, "npz", "", "Path to the .npz parameter archive")
	cmd.Flags().StringVar(&plyPath, "ply", "", "Path to a .ply file written by splatply")
	cmd.MarkFlagsOneRequired("npz", "ply")
	cmd.MarkFlagsMutuallyExclusive("npz", "ply")
	return cmd
}

// inspectPLY decodes a written point cloud and reports per-property statistics
// for its vertex element.
func inspectPLY(out io.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open ply: %w", err)
	}
	defer f.Close()

	file, err := ply.Decode(f)
	if err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	vertices, ok := file.Element(splat.VertexElement)
	if !ok {
		return fmt.Errorf("decode %s: no %s element", path, splat.VertexElement)
	}

	rows := make([][]string, 0, len(vertices.Properties))
	for _, prop := range vertices.Properties {
		values, err := vertices.Column(prop)
		if err != nil {
			return err
		}
		row := []string{prop, "", "", ""}
		if len(values) > 0 {
			lo, hi, mean := summarize(values)
			row = []string{prop, formatStat(lo), formatStat(hi), formatStat(mean)}
		}
		rows = append(rows, row)
	}
	fmt.Fprintln(out, renderTable(
		path,
		[]string{"Property", "Min", "Max", "Mean"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignRight, alignRight},
	))
	fmt.Fprintf(out, "Format: %s\n", file.Format)
	fmt.Fprintf(out, "Vertices: %d (%d properties)\n", vertices.Count(), len(vertices.Properties))
	return nil
}

func renderEntries(path string, entries []params.Entry) string {
	rows := make([][]string, 0, len(entries))
	for _, entry := range entries {
		row := []string{entry.Name, entry.DType, entry.ShapeString()}
		if entry.Err != nil {
			row = append(row, "", "", "", entry.Err.Error())
		} else if len(entry.Data) == 0 {
			row = append(row, "", "", "", "empty")
		} else {
			lo, hi, mean := summarize(entry.Data)
			row = append(row, formatStat(lo), formatStat(hi), formatStat(mean), "")
		}
		rows = append(rows, row)
	}
	return renderTable(
		path,
		[]string{"Array", "DType", "Shape", "Min", "Max", "Mean", "Note"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignLeft},
	)
}

func summarize(data []float32) (lo, hi, mean float64) {
	values := make([]float64, len(data))
	for i, v := range data {
		values[i] = float64(v)
	}
	return floats.Min(values), floats.Max(values), stat.Mean(values, nil)
}

func formatStat(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}

// describeScene reports whether the archive holds a static or dynamic scene
// under the configured keys.
func describeScene(path string, keys params.Keys) string {
	archive, err := params.Load(path, keys)
	if err != nil {
		return fmt.Sprintf("not convertible (%v)", err)
	}
	switch archive.Means.Rank() {
	case 2:
		if _, err := splat.BuildTable(archive, 0, true); err != nil {
			return fmt.Sprintf("static, not convertible (%v)", err)
		}
		return fmt.Sprintf("static, %d vertices", archive.Means.Dim(0))
	case 3:
		steps, err := splat.Timesteps(archive)
		if err != nil {
			return fmt.Sprintf("dynamic, not convertible (%v)", err)
		}
		if steps > 0 {
			if _, err := splat.BuildTable(archive, 0, false); err != nil {
				return fmt.Sprintf("dynamic, not convertible (%v)", err)
			}
		}
		return fmt.Sprintf("dynamic, %d timesteps, %d vertices", steps, archive.Means.Dim(1))
	default:
		return fmt.Sprintf("unknown (%s has shape %s)", archive.Means.Name, archive.Means.ShapeString())
	}
}
