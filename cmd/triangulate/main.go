// Command triangulate triangulates one image's control points and prints the
// index triples, one "i,j,k" per line.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"tri-morph/internal/delaunay"
	"tri-morph/internal/image"
	"tri-morph/internal/overlay"
	"tri-morph/internal/points"
	"tri-morph/internal/version"
	"tri-morph/pkg/colorutil"
	"tri-morph/pkg/geometry"

	"github.com/golang/glog"
)

func main() {
	imgPath := flag.String("i", "", "Path to image")
	ptsPath := flag.String("p", "", "Path to point file (default: image sidecar .txt)")
	boundary := flag.String("boundary", "corners", "Boundary points: corners or inset")
	overlayPath := flag.String("overlay", "", "Write a triangulation overlay PNG here")
	labels := flag.Bool("labels", false, "Label points with their index in the overlay")
	edgeColor := flag.String("color", "cyan", "Overlay edge color name")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()
	glog.CopyStandardLogTo("INFO")
	defer glog.Flush()

	if *showVersion {
		fmt.Println(version.String("triangulate"))
		return
	}
	if *imgPath == "" {
		fmt.Println("Usage: triangulate -i <image> [-p <points>] [-boundary corners|inset] [-overlay out.png]")
		os.Exit(1)
	}
	if *ptsPath == "" {
		*ptsPath = points.PathFor(*imgPath)
	}

	if !image.IsSupportedFormat(*imgPath) {
		fmt.Fprintf(os.Stderr, "Unsupported image format: %s (want %s)\n", *imgPath, strings.Join(image.SupportedFormats(), ", "))
		os.Exit(1)
	}

	b, err := points.ParseBoundary(*boundary)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	img, err := image.Load(*imgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load image: %v\n", err)
		os.Exit(1)
	}
	raw, err := points.Load(*ptsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load points: %v\n", err)
		os.Exit(1)
	}
	set, err := points.Build(raw, img.Width, img.Height, b)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", *ptsPath, err)
		os.Exit(1)
	}

	indices, err := delaunay.Triangulate(set.Points, img.PointBounds())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Triangulation failed: %v\n", err)
		os.Exit(1)
	}
	for _, ti := range indices {
		fmt.Println(ti)
	}

	tris, err := set.Triangles(indices)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	// Coverage compares the triangle areas with the hull of the in-bounds points.
	var inside []geometry.Point
	for _, p := range set.Points {
		if img.PointBounds().Contains(p) {
			inside = append(inside, p)
		}
	}
	var area int64
	for _, t := range tris {
		area += t.Area2()
	}
	hull := geometry.PolygonArea2(geometry.ConvexHull(inside))
	coverage := 0.0
	if hull > 0 {
		coverage = 100 * float64(area) / float64(hull)
	}
	fmt.Fprintf(os.Stderr, "%d points (%d + %d boundary), %d triangles, hull coverage %.1f%%\n",
		set.Len(), set.Correspondences, set.Len()-set.Correspondences, len(indices), coverage)

	if *overlayPath != "" {
		opts := overlay.DefaultOptions()
		opts.Labels = *labels
		opts.EdgeColor = colorutil.Parse(*edgeColor, colorutil.Cyan)
		if err := image.SavePNG(*overlayPath, overlay.Draw(img, set.Points, tris, opts)); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write overlay: %v\n", err)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Wrote %s\n", *overlayPath)
	}
}
