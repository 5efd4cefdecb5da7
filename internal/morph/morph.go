package morph

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tri-morph/internal/image"
	"tri-morph/internal/warp"
	"tri-morph/pkg/geometry"

	"github.com/golang/glog"
	"golang.org/x/sync/errgroup"
)

// Options controls a morph.
type Options struct {
	// Warper resamples each triangle. Nil selects warp.Nearest.
	Warper warp.Warper
	// Antialias weights triangle edges by 4x4 supersampled coverage and
	// normalises shared-edge pixels over every triangle that touches them.
	Antialias bool
	// Workers > 1 warps triangles concurrently. Compositing stays in
	// triangle order, so the result does not depend on Workers.
	Workers int
	// Strict aborts on the first singular triangle instead of skipping it.
	Strict bool
}

// Stats summarises a morph.
type Stats struct {
	Triangles int
	Warped    int
	// Skipped holds one error per triangle left out of the result.
	Skipped []error
	// OutOfBounds counts triangles with an input vertex outside the input image.
	OutOfBounds int
	Elapsed     time.Duration
}

type warped struct {
	patch *image.Image
	rect  geometry.RectInt
	err   error
}

// Morph warps every input triangle onto its target triangle and composites
// the patches into a copy of the current result, sized to the target image.
// On error the receiver is returned unchanged.
func (s State) Morph(ctx context.Context, opts Options) (State, Stats, error) {
	if !s.triangulated {
		return s, Stats{}, &NotTriangulatedError{Phase: s.Phase()}
	}
	if opts.Warper == nil {
		opts.Warper = warp.Nearest{}
	}
	start := time.Now()
	stats := Stats{Triangles: len(s.indices)}

	patches, err := s.warpAll(ctx, opts)
	if err != nil {
		return s, Stats{}, err
	}

	out := s.result.Reframe(s.target.Width, s.target.Height)
	var acc *image.Accumulator
	if opts.Antialias {
		acc = image.NewAccumulator(out.Width, out.Height)
	}
	for i, w := range patches {
		if err := ctx.Err(); err != nil {
			return s, Stats{}, err
		}
		if w.err != nil {
			if errors.Is(w.err, errOutOfBounds) {
				stats.OutOfBounds++
			}
			stats.Skipped = append(stats.Skipped, w.err)
			continue
		}

		local := s.targetTris[i].Offset(w.rect.Origin())
		mask := image.FillMask(local, w.rect.Width, w.rect.Height, opts.Antialias)
		if acc != nil {
			err = acc.Add(w.rect, w.patch, mask)
		} else {
			err = image.Composite(out, w.rect, w.patch, mask)
		}
		if err != nil {
			return s, Stats{}, fmt.Errorf("failed to composite triangle %d: %w", i, err)
		}
		stats.Warped++
	}
	if acc != nil {
		acc.Resolve(out)
	}
	stats.Elapsed = time.Since(start)

	glog.V(1).Infof("morphed %d of %d triangles (%d skipped) in %v",
		stats.Warped, stats.Triangles, len(stats.Skipped), stats.Elapsed)

	next := s
	next.result = out
	next.morphed = true
	return next, stats, nil
}

var errOutOfBounds = errors.New("input vertex outside the input image")

// warpAll resamples every triangle, concurrently when opts.Workers > 1.
// Per-triangle numeric failures are recorded in the returned slice unless
// opts.Strict is set.
func (s State) warpAll(ctx context.Context, opts Options) ([]warped, error) {
	out := make([]warped, len(s.indices))
	bounds := s.input.PointBounds()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(opts.Workers, 1))
	for i := range s.indices {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			src, dst := s.inputTris[i], s.targetTris[i]
			if !bounds.Contains(src[0]) || !bounds.Contains(src[1]) || !bounds.Contains(src[2]) {
				out[i].err = fmt.Errorf("triangle %d %v: %w", i, s.indices[i], errOutOfBounds)
				glog.Warningf("skipping triangle %d: %v", i, out[i].err)
				return nil
			}

			patch, rect, err := warp.WarpTriangle(opts.Warper, s.input, src, dst)
			if err != nil {
				var se *warp.SingularTriangleError
				if !errors.As(err, &se) {
					return fmt.Errorf("triangle %d: %w", i, err)
				}
				err = &warp.SingularTriangleError{Triangle: i, Det: se.Det}
				if opts.Strict {
					return err
				}
				glog.Warningf("skipping triangle %d %v: %v", i, s.indices[i], err)
				out[i].err = err
				return nil
			}
			if glog.V(2) {
				glog.Infof("triangle %d %v -> %v", i, s.indices[i], rect)
			}
			out[i] = warped{patch: patch, rect: rect}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
