// Package main provides the tri-morph command: warp an input image onto a
// target image through a shared triangulation of matched control points.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"tri-morph/internal/app"
	"tri-morph/internal/cvwarp"
	"tri-morph/internal/image"
	"tri-morph/internal/morph"
	"tri-morph/internal/overlay"
	"tri-morph/internal/progress"
	"tri-morph/internal/project"
	"tri-morph/internal/version"
	"tri-morph/internal/warp"

	"github.com/golang/glog"
)

const appName = "tri-morph"

var (
	jobFlag       = flag.String("job", "", "Path to a .morph.json job file")
	inputFlag     = flag.String("input", "", "Input image; points are read from the sidecar .txt file")
	targetFlag    = flag.String("target", "", "Target image; points are read from the sidecar .txt file")
	outFlag       = flag.String("out", "", "Result PNG path")
	boundaryFlag  = flag.String("boundary", "corners", "Boundary points: corners or inset")
	antialiasFlag = flag.Bool("antialias", false, "Blend triangle edges with supersampled coverage")
	workersFlag   = flag.Int("workers", 1, "Number of concurrent triangle warps")
	strictFlag    = flag.Bool("strict", false, "Abort on the first singular triangle")
	backendFlag   = flag.String("backend", project.BackendNative, "Warp backend: native or opencv")
	overlaysFlag  = flag.String("overlays", "", "Directory for triangulation overlay PNGs")
	watchFlag     = flag.Bool("watch", false, "Re-run whenever the images or point files change")
	versionFlag   = flag.Bool("version", false, "Print version and exit")
)

func main() {
	flag.Parse()
	glog.CopyStandardLogTo("INFO")
	defer glog.Flush()

	if *versionFlag {
		fmt.Println(version.String(appName))
		return
	}

	job, jobPath, err := loadJob()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(2)
	}
	if job.InputImagePath == "" || job.TargetImagePath == "" {
		fmt.Fprintln(os.Stderr, "Usage: tri-morph -input <image> -target <image> [-out result.png] | -job <file.morph.json>")
		flag.PrintDefaults()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	session := newSession(job)
	if err := run(ctx, session, job, jobPath); err != nil {
		glog.Errorf("%v", err)
		if !*watchFlag {
			glog.Flush()
			os.Exit(1)
		}
	}
	if *watchFlag {
		watch(ctx, session, job, jobPath)
	}
}

// loadJob reads the job file, if any, and applies command-line overrides.
func loadJob() (*project.File, string, error) {
	job := project.New(appName)
	jobPath := ""
	if *jobFlag != "" {
		var err error
		if job, err = project.Load(*jobFlag); err != nil {
			return nil, "", err
		}
		jobPath = *jobFlag
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "input":
			job.SetInputImage(jobPath, absPath(*inputFlag))
		case "target":
			job.SetTargetImage(jobPath, absPath(*targetFlag))
		case "out":
			job.OutputPath = absPath(*outFlag)
		case "overlays":
			job.OverlayDir = absPath(*overlaysFlag)
		case "boundary":
			job.Settings.Boundary = *boundaryFlag
		case "antialias":
			job.Settings.Antialias = *antialiasFlag
		case "workers":
			job.Settings.Workers = *workersFlag
		case "strict":
			job.Settings.Strict = *strictFlag
		case "backend":
			job.Settings.Backend = *backendFlag
		}
	})
	if jobPath == "" && job.OutputPath == "" {
		job.OutputPath = absPath("morph.png")
	}
	if err := job.Settings.Validate(); err != nil {
		return nil, "", err
	}
	return job, jobPath, nil
}

func absPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

func options(s project.Settings) morph.Options {
	opts := morph.Options{
		Antialias: s.Antialias,
		Workers:   s.Workers,
		Strict:    s.Strict,
		Warper:    warp.Nearest{},
	}
	if s.Backend == project.BackendOpenCV {
		opts.Warper = cvwarp.Warper{}
	}
	return opts
}

func newSession(job *project.File) *app.Session {
	session := app.NewSession(job.Settings.BoundaryVariant(), options(job.Settings))
	session.On(app.EventImageLoaded, func(data interface{}) {
		ev := data.(app.ImageLoaded)
		fmt.Printf("Loaded %s %s (%d points)\n", ev.Side, ev.Path, ev.Points)
	})
	session.On(app.EventTriangulated, func(data interface{}) {
		fmt.Printf("Triangulated: %d triangles\n", data.(int))
	})
	return session
}

// run loads, triangulates and morphs the job once, then writes its outputs.
func run(ctx context.Context, session *app.Session, job *project.File, jobPath string) error {
	opts := session.Options()
	glog.V(1).Infof("morph options: warper %T, workers %d, antialias %v, strict %v",
		opts.Warper, opts.Workers, opts.Antialias, opts.Strict)

	if err := session.LoadJob(job, jobPath); err != nil {
		return err
	}
	if err := session.Triangulate(); err != nil {
		return err
	}

	spinner := progress.NewSpinner(os.Stderr)
	spinner.Start("Morphing")
	stats, err := session.Morph(ctx)
	spinner.Stop()
	if err != nil {
		return fmt.Errorf("morph failed: %w", err)
	}
	fmt.Printf("Warped %d of %d triangles in %v (%d skipped, %d out of bounds)\n",
		stats.Warped, stats.Triangles, stats.Elapsed.Round(time.Millisecond), len(stats.Skipped), stats.OutOfBounds)

	out := job.GetOutputPath(jobPath)
	if err := session.SaveResult(out); err != nil {
		return fmt.Errorf("failed to save result: %w", err)
	}
	fmt.Printf("Wrote %s\n", out)

	if dir := job.GetOverlayDir(jobPath); dir != "" {
		if err := writeOverlays(session, dir); err != nil {
			return err
		}
	}

	st := session.State()
	src, dst := warp.Float(st.InputPoints().Points), warp.Float(st.TargetPoints().Points)
	if global, err := warp.FitAffine(src, dst); err != nil {
		glog.Warningf("global affine fit failed: %v", err)
	} else {
		fmt.Printf("Global affine residual: %.2f px (piecewise map is exact at control points)\n",
			warp.MeanResidual(src, dst, global))
	}
	return nil
}

func writeOverlays(session *app.Session, dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create overlay directory: %w", err)
	}
	in, tg, err := session.Overlays(overlay.DefaultOptions())
	if err != nil {
		return err
	}
	if err := image.SavePNG(filepath.Join(dir, "input_overlay.png"), in); err != nil {
		return err
	}
	if err := image.SavePNG(filepath.Join(dir, "target_overlay.png"), tg); err != nil {
		return err
	}
	fmt.Printf("Wrote overlays to %s\n", dir)
	return nil
}

// watch re-runs the job whenever one of its inputs changes, until ctx is done.
// A change to the job file itself reloads its settings; a new boundary
// variant needs a fresh session, anything else is applied with SetOptions.
func watch(ctx context.Context, session *app.Session, job *project.File, jobPath string) {
	for {
		paths := []string{
			job.GetInputImagePath(jobPath), job.GetInputPointsPath(jobPath),
			job.GetTargetImagePath(jobPath), job.GetTargetPointsPath(jobPath),
		}
		if jobPath != "" {
			paths = append(paths, jobPath)
		}
		reloader := app.NewReloader(time.Second, paths...)

		changed := make(chan []string, 1)
		reloader.OnChange(func(paths []string) {
			select {
			case changed <- paths:
			default:
			}
		})
		reloader.Start()
		glog.Infof("watching %d job inputs for changes", len(paths))

		jobChanged, ok := waitForChange(ctx, changed, jobPath)
		reloader.Stop()
		if !ok {
			return
		}
		if jobChanged {
			reloaded, _, err := loadJob()
			if err != nil {
				glog.Errorf("reloading %s: %v", jobPath, err)
				continue
			}
			if reloaded.Settings.BoundaryVariant() != job.Settings.BoundaryVariant() {
				session = newSession(reloaded)
			} else {
				session.SetOptions(options(reloaded.Settings))
			}
			job = reloaded
		}
		if err := run(ctx, session, job, jobPath); err != nil {
			glog.Errorf("%v", err)
		}
	}
}

// waitForChange blocks until the reloader reports a change. It reports
// whether the job file was among the changed paths, and false for ok once
// ctx is done.
func waitForChange(ctx context.Context, changed <-chan []string, jobPath string) (jobChanged, ok bool) {
	select {
	case <-ctx.Done():
		return false, false
	case paths := <-changed:
		glog.Infof("changed: %v", paths)
		for _, p := range paths {
			if jobPath != "" && p == jobPath {
				return true, true
			}
		}
		return false, true
	}
}
