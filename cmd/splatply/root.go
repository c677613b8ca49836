package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configFlag string
	var logLevelFlag string
	var logFormatFlag string
	var opts convertOptions

	ctx := newCommandContext(&configFlag, &logLevelFlag, &logFormatFlag)

	rootCmd := &cobra.Command{
		Use:   "splatply --npz <archive> --ply <prefix> --dest <folder> [--static]",
		Short: "Convert Gaussian splatting parameters to PLY point clouds",
		Long: "Convert a .npz archive of Gaussian splatting parameters into PLY files.\n" +
			"Dynamic scenes produce <prefix>_<t>.ply for every timestep; static scenes\n" +
			"(--static) produce a single <prefix>.ply.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.timestepSet = cmd.Flags().Changed("timestep")
			return runConvert(cmd, ctx, opts)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Log level override (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormatFlag, "log-format", "", "Log format override (console, json)")

	flags := rootCmd.Flags()
	flags.StringVar(&opts.archivePath, "npz", "", "Path to the .npz parameter archive")
	flags.StringVar(&opts.prefix, "ply", "", "Output file name prefix")
	flags.StringVar(&opts.destDir, "dest", "", "Output directory (created if missing)")
	flags.BoolVar(&opts.static, "static", false, "Treat the archive as a static scene without a time axis")
	flags.IntVar(&opts.timestep, "timestep", 0, "Convert only this timestep of a dynamic scene")
	flags.StringVar(&opts.format, "format", "", "PLY encoding override (binary_little_endian, binary_big_endian, ascii)")
	flags.BoolVarP(&opts.quiet, "quiet", "q", false, "Suppress the shape summary table")
	_ = rootCmd.MarkFlagRequired("npz")
	_ = rootCmd.MarkFlagRequired("ply")
	_ = rootCmd.MarkFlagRequired("dest")
	rootCmd.MarkFlagsMutuallyExclusive("static", "timestep")

	rootCmd.AddCommand(newInspectCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd
}
