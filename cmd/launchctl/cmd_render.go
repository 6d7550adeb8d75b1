package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"

	"github.com/okian/launchdash/internal/adapters/render"
	service "github.com/okian/launchdash/internal/app"
	"github.com/okian/launchdash/internal/domain/model"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const directoryPermission = 0o750

type renderFlags struct {
	outDir   string
	format   string
	site     string
	low      float64
	high     float64
	allSites bool
	parallel int
	width    int
	height   int
}

// renderJob is one chart image to write.
type renderJob struct {
	output string
	site   string
	path   string
}

func newRenderCmd(g *globalFlags) *cobra.Command {
	f := &renderFlags{}
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the pie and scatter charts to image files",
		Long: "Render writes success-pie-chart and success-payload-scatter-chart images for\n" +
			"one site, or for every selector option with --all-sites. The payload range\n" +
			"defaults to the full range of the dataset.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			format, err := render.ParseFormat(f.format)
			if err != nil {
				return err
			}
			if f.parallel <= 0 {
				return fmt.Errorf("--parallel must be positive, got %d", f.parallel)
			}

			svc, cfg, err := openService(ctx, g)
			if err != nil {
				return err
			}
			defer svc.Stop()

			rng, err := svc.Bounds(ctx)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("low") {
				rng.Low = f.low
			}
			if cmd.Flags().Changed("high") {
				rng.High = f.high
			}
			if !rng.Valid() {
				return fmt.Errorf("invalid payload range [%g, %g]", rng.Low, rng.High)
			}

			width, height := cfg.ChartWidth, cfg.ChartHeight
			if f.width > 0 {
				width = f.width
			}
			if f.height > 0 {
				height = f.height
			}
			renderer := render.New(render.WithSize(width, height))

			sites := []string{f.site}
			if f.allSites {
				opts, err := svc.SiteOptions(ctx)
				if err != nil {
					return err
				}
				sites = sites[:0]
				for _, o := range opts {
					sites = append(sites, o.Value)
				}
			}

			if err := os.MkdirAll(f.outDir, directoryPermission); err != nil {
				return fmt.Errorf("create %s: %w", f.outDir, err)
			}

			var jobs []renderJob
			for _, site := range sites {
				for _, output := range []string{service.PieGraphID, service.ScatterGraphID} {
					name := fmt.Sprintf("%s-%s.%s", output, slug(site), format)
					jobs = append(jobs, renderJob{output: output, site: site, path: filepath.Join(f.outDir, name)})
				}
			}

			if err := renderAll(ctx, svc, renderer, format, rng, jobs, f.parallel); err != nil {
				return err
			}

			paths := make([]string, 0, len(jobs))
			for _, j := range jobs {
				paths = append(paths, j.path)
			}
			sort.Strings(paths)
			for _, p := range paths {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			return nil
		},
	}

	fl := cmd.Flags()
	fl.StringVarP(&f.outDir, "out", "o", "charts", "output directory")
	fl.StringVar(&f.format, "format", string(render.FormatPNG), "image format: png or svg")
	fl.StringVar(&f.site, "site", model.AllSites, "launch site, or ALL")
	fl.Float64Var(&f.low, "low", 0, "lower payload bound in kg (default: smallest payload)")
	fl.Float64Var(&f.high, "high", 0, "upper payload bound in kg (default: largest payload)")
	fl.BoolVar(&f.allSites, "all-sites", false, "render every selector option")
	fl.IntVar(&f.parallel, "parallel", runtime.NumCPU(), "charts rendered at once")
	fl.IntVar(&f.width, "width", 0, "image width in pixels (default: chart_width)")
	fl.IntVar(&f.height, "height", 0, "image height in pixels (default: chart_height)")
	cmd.MarkFlagsMutuallyExclusive("site", "all-sites")
	return cmd
}

// renderAll writes every job with at most limit renders in flight. The first
// failure cancels the jobs not yet started.
func renderAll(ctx context.Context, svc *service.Service, r *render.Renderer, format render.Format, rng model.PayloadRange, jobs []renderJob, limit int) error {
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(limit)
	for _, job := range jobs {
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			var fig any
			var err error
			if job.output == service.PieGraphID {
				fig, err = svc.Pie(egCtx, job.site)
			} else {
				fig, err = svc.Scatter(egCtx, job.site, rng)
			}
			if err != nil {
				return fmt.Errorf("%s for %s: %w", job.output, job.site, err)
			}
			return writeImage(job.path, r, fig, format)
		})
	}
	return eg.Wait()
}

func writeImage(path string, r *render.Renderer, fig any, format render.Format) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()
	if err := r.Render(file, fig, format); err != nil {
		return fmt.Errorf("render %s: %w", path, err)
	}
	return nil
}
