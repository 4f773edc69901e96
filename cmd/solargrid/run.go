package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/aclements/solargrid/building"
	"github.com/aclements/solargrid/grid"
	"github.com/aclements/solargrid/heatmap"
	"github.com/aclements/solargrid/internal/cache"
	"github.com/aclements/solargrid/internal/config"
	"github.com/aclements/solargrid/internal/server"
	"github.com/aclements/solargrid/scene"
	"github.com/gorilla/handlers"
)

// A job is a loaded building in its environment.
type job struct {
	in       *inputs
	building *building.Building
	env      *config.Environment
	scene    *scene.Scene
}

func load(in *inputs) (*job, error) {
	b, err := building.Load(in.buildingPath)
	if err != nil {
		return nil, err
	}
	e, err := config.Load(in.envPath)
	if err != nil {
		return nil, err
	}
	sc, err := e.Scene(b, !in.bare)
	if err != nil {
		return nil, err
	}
	slog.Debug("loaded scene", "building", in.buildingPath, "triangles", sc.Len())
	return &job{in, b, e, sc}, nil
}

// at computes the building at time t.
func (j *job) at(ctx context.Context, t time.Time) (*building.Result, *grid.Env, error) {
	env := j.env.Env(t, j.scene.Oracle(t.YearDay()), slog.Default())
	res, err := j.building.Energy(ctx, env, j.in.workers)
	return res, env, err
}

func runGrid(ctx context.Context, in *inputs, asJSON bool, w io.Writer) error {
	j, err := load(in)
	if err != nil {
		return err
	}
	res, env, err := j.at(ctx, j.env.Time)
	if err != nil {
		return err
	}
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	fmt.Fprintf(w, "sun elevation %.1f°, day %d\n", env.Sun.ElevationAngle*180/math.Pi, env.Sun.DayOfYear)
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "surface\tcells\tarea m²\tenergy W\t\n")
	row := func(g *grid.EnergyGrid) {
		fmt.Fprintf(tw, "%s\t%d\t%.2f\t%.1f\t\n", g.SurfaceID, g.Nx*g.Ny, g.Area(), g.Total())
	}
	for _, id := range sortedKeys(res.Walls) {
		row(res.Walls[id])
	}
	for _, id := range sortedKeys(res.Doors) {
		row(res.Doors[id])
	}
	for _, id := range sortedKeys(res.Roofs) {
		for _, g := range res.Roofs[id] {
			row(g)
		}
	}
	fmt.Fprintf(tw, "total\t\t\t%.1f\t\n", res.Total())
	return tw.Flush()
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func runHeatmap(ctx context.Context, in *inputs, surface, out string) error {
	j, err := load(in)
	if err != nil {
		return err
	}
	res, _, err := j.at(ctx, j.env.Time)
	if err != nil {
		return err
	}
	g := find(res, surface)
	if g == nil {
		return fmt.Errorf("no surface %q", surface)
	}
	return heatmap.Save(heatmap.Surface(g), out)
}

func find(res *building.Result, id string) *grid.EnergyGrid {
	if g, ok := res.Walls[id]; ok {
		return g
	}
	if g, ok := res.Doors[id]; ok {
		return g
	}
	for _, gs := range res.Roofs {
		for _, g := range gs {
			if g.SurfaceID == id {
				return g
			}
		}
	}
	return nil
}

// series computes the building's total energy at each of times. Results
// are cached by their inputs.
func (j *job) series(ctx context.Context, times []time.Time) ([]heatmap.Sample, error) {
	c := &cache.Cache{Dir: cache.DefaultDir}
	key := j.cacheKey(times)
	var samples []heatmap.Sample
	if c.Load(key, &samples) {
		slog.Debug("loaded samples from cache", "key", key)
		return samples, nil
	}

	start := time.Now()
	for _, t := range times {
		s := heatmap.Sample{Time: t}
		env := j.env.Env(t, grid.NoShadow, nil)
		if env.Sun.Up() {
			res, _, err := j.at(ctx, t)
			if err != nil {
				return nil, err
			}
			s.Energy = res.Total()
		}
		samples = append(samples, s)
	}
	slog.Info("computed samples", "n", len(samples), "elapsed", time.Since(start))
	c.Save(key, samples)
	return samples, nil
}

// cacheKey hashes everything series depends on. The surroundings go in
// as triangles, so editing a mesh in place changes the key.
func (j *job) cacheKey(times []time.Time) cache.Key {
	return cache.MakeKey(j.building, j.env, j.scene.Triangles(), times)
}

func runDay(ctx context.Context, in *inputs, step time.Duration, out string) error {
	if step <= 0 {
		return fmt.Errorf("step must be positive")
	}
	j, err := load(in)
	if err != nil {
		return err
	}
	t0 := j.env.Time.UTC().Truncate(24 * time.Hour)
	var times []time.Time
	for t := t0; t.Before(t0.Add(24 * time.Hour)); t = t.Add(step) {
		times = append(times, t)
	}
	samples, err := j.series(ctx, times)
	if err != nil {
		return err
	}
	plt, err := heatmap.Day(t0.Format("2006-01-02"), samples)
	if err != nil {
		return err
	}
	return heatmap.Save(plt, out)
}

func runSeason(ctx context.Context, in *inputs, step time.Duration, days int, out string) error {
	if step <= 0 || days <= 0 {
		return fmt.Errorf("step and days must be positive")
	}
	j, err := load(in)
	if err != nil {
		return err
	}
	year := j.env.Time.UTC().Year()
	var times []time.Time
	for d := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC); d.Year() == year; d = d.AddDate(0, 0, days) {
		for t := d; t.Before(d.Add(24 * time.Hour)); t = t.Add(step) {
			times = append(times, t)
		}
	}
	samples, err := j.series(ctx, times)
	if err != nil {
		return err
	}
	return heatmap.Save(heatmap.Season(fmt.Sprint(year), samples, step), out)
}

func runServe(ctx context.Context, port, workers int) error {
	srv := server.New(workers, slog.Default())
	httpSrv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: handlers.LoggingHandler(slogWriter{}, srv.Router()),
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		httpSrv.Shutdown(shutdownCtx)
	}()
	slog.Info("listening", "addr", httpSrv.Addr)
	if err := httpSrv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// slogWriter sends access log lines to the default logger.
type slogWriter struct{}

func (slogWriter) Write(p []byte) (int, error) {
	slog.Info("http", "access", string(trimNewline(p)))
	return len(p), nil
}

func trimNewline(p []byte) []byte {
	if n := len(p); n > 0 && p[n-1] == '\n' {
		return p[:n-1]
	}
	return p
}
