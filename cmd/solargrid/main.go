// Command solargrid computes the solar energy falling on the surfaces
// of a building.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
)

// inputs are the flags shared by the commands that evaluate a building.
type inputs struct {
	buildingPath string
	envPath      string
	workers      int
	// bare skips the surrounding meshes listed in the environment.
	bare bool
}

func (in *inputs) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&in.buildingPath, "building", "b", "building.yaml", "building description `file`")
	cmd.Flags().StringVarP(&in.envPath, "env", "e", "env.yaml", "environment `file`")
	cmd.Flags().IntVarP(&in.workers, "workers", "w", 0, "surfaces computed in parallel (0 means GOMAXPROCS)")
	cmd.Flags().BoolVar(&in.bare, "bare", false, "ignore the surrounding meshes")
}

func main() {
	var verbose bool
	rootCmd := &cobra.Command{
		Use:          "solargrid",
		Short:        "Per-surface solar energy grids for buildings",
		SilenceUsage: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug output")

	rootCmd.AddCommand(gridCmd())
	rootCmd.AddCommand(heatmapCmd())
	rootCmd.AddCommand(dayCmd())
	rootCmd.AddCommand(seasonCmd())
	rootCmd.AddCommand(serveCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func gridCmd() *cobra.Command {
	var in inputs
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "grid",
		Short: "Compute every surface at the environment's time and print the totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGrid(cmd.Context(), &in, asJSON, cmd.OutOrStdout())
		},
	}
	in.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full grids as JSON")
	return cmd
}

func heatmapCmd() *cobra.Command {
	var in inputs
	var surface, out string
	cmd := &cobra.Command{
		Use:   "heatmap",
		Short: "Render the energy grid of one surface",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runHeatmap(cmd.Context(), &in, surface, out)
		},
	}
	in.register(cmd)
	cmd.Flags().StringVarP(&surface, "surface", "s", "", "surface `id` to render")
	cmd.Flags().StringVarP(&out, "out", "o", "heatmap.png", "output image `file`")
	cmd.MarkFlagRequired("surface")
	return cmd
}

func dayCmd() *cobra.Command {
	var in inputs
	var step time.Duration
	var out string
	cmd := &cobra.Command{
		Use:   "day",
		Short: "Plot the building's total energy over the environment's day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDay(cmd.Context(), &in, step, out)
		},
	}
	in.register(cmd)
	cmd.Flags().DurationVar(&step, "step", 10*time.Minute, "time between samples")
	cmd.Flags().StringVarP(&out, "out", "o", "day.png", "output image `file`")
	return cmd
}

func seasonCmd() *cobra.Command {
	var in inputs
	var step time.Duration
	var days int
	var out string
	cmd := &cobra.Command{
		Use:   "season",
		Short: "Plot the building's total energy by day and time of day over the environment's year",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSeason(cmd.Context(), &in, step, days, out)
		},
	}
	in.register(cmd)
	cmd.Flags().DurationVar(&step, "step", 30*time.Minute, "time between samples")
	cmd.Flags().IntVar(&days, "days", 7, "days between sampled days")
	cmd.Flags().StringVarP(&out, "out", "o", "season.png", "output image `file`")
	return cmd
}

func serveCmd() *cobra.Command {
	var port, workers int
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the energy API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), port, workers)
		},
	}
	cmd.Flags().IntVarP(&port, "port", "p", 8080, "HTTP server port")
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "surfaces computed in parallel per request (0 means GOMAXPROCS)")
	return cmd
}
