// Package project provides morph job file handling and persistence.
package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"tri-morph/internal/points"
)

// File represents a morph job file (.morph.json).
type File struct {
	Version     int       `json:"version"`
	Name        string    `json:"name"`
	Created     time.Time `json:"created"`
	Modified    time.Time `json:"modified"`
	Description string    `json:"description,omitempty"`

	// Image paths (relative to job file)
	InputImagePath  string `json:"input_image,omitempty"`
	TargetImagePath string `json:"target_image,omitempty"`

	// Point file paths (relative to job file). Empty means the image's
	// sidecar .txt file.
	InputPointsPath  string `json:"input_points,omitempty"`
	TargetPointsPath string `json:"target_points,omitempty"`

	// Outputs (relative to job file)
	OutputPath string `json:"output,omitempty"`
	OverlayDir string `json:"overlays,omitempty"`

	Settings Settings `json:"settings"`
}

// Settings holds the morph parameters for the job.
type Settings struct {
	Boundary  string `json:"boundary,omitempty"`
	Antialias bool   `json:"antialias"`
	Workers   int    `json:"workers,omitempty"`
	Strict    bool   `json:"strict"`
	// Backend selects the triangle warper: "native" or "opencv".
	Backend string `json:"backend,omitempty"`
}

// Backend names.
const (
	BackendNative = "native"
	BackendOpenCV = "opencv"
)

// New creates a new job file with default settings.
func New(name string) *File {
	now := time.Now()
	return &File{
		Version:  1,
		Name:     name,
		Created:  now,
		Modified: now,
		Settings: Settings{
			Boundary:  points.BoundaryCorners.String(),
			Antialias: false,
			Workers:   1,
			Backend:   BackendNative,
		},
	}
}

// Load loads a job from a .morph.json file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var job File
	if err := json.Unmarshal(data, &job); err != nil {
		return nil, fmt.Errorf("failed to parse job %s: %w", path, err)
	}
	if err := job.Settings.Validate(); err != nil {
		return nil, fmt.Errorf("job %s: %w", path, err)
	}

	return &job, nil
}

// Save saves the job to a file.
func (p *File) Save(path string) error {
	p.Modified = time.Now()

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Validate checks the enumerated settings.
func (s Settings) Validate() error {
	if _, err := points.ParseBoundary(s.Boundary); err != nil {
		return err
	}
	switch s.Backend {
	case "", BackendNative, BackendOpenCV:
	default:
		return fmt.Errorf("unknown backend %q", s.Backend)
	}
	if s.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", s.Workers)
	}
	return nil
}

// BoundaryVariant returns the parsed boundary setting.
func (s Settings) BoundaryVariant() points.Boundary {
	b, err := points.ParseBoundary(s.Boundary)
	if err != nil {
		return points.BoundaryCorners
	}
	return b
}

func relTo(projectPath, path string) string {
	rel, err := filepath.Rel(filepath.Dir(projectPath), path)
	if err != nil {
		return path
	}
	return rel
}

func resolve(projectPath, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(filepath.Dir(projectPath), path)
}

// SetInputImage sets the input image path (relative to the job).
func (p *File) SetInputImage(projectPath, imagePath string) {
	p.InputImagePath = relTo(projectPath, imagePath)
	p.Modified = time.Now()
}

// SetTargetImage sets the target image path (relative to the job).
func (p *File) SetTargetImage(projectPath, imagePath string) {
	p.TargetImagePath = relTo(projectPath, imagePath)
	p.Modified = time.Now()
}

// GetInputImagePath returns the absolute path to the input image.
func (p *File) GetInputImagePath(projectPath string) string {
	return resolve(projectPath, p.InputImagePath)
}

// GetTargetImagePath returns the absolute path to the target image.
func (p *File) GetTargetImagePath(projectPath string) string {
	return resolve(projectPath, p.TargetImagePath)
}

// GetInputPointsPath returns the input point file, defaulting to the
// input image's sidecar file.
func (p *File) GetInputPointsPath(projectPath string) string {
	if p.InputPointsPath == "" {
		if img := p.GetInputImagePath(projectPath); img != "" {
			return points.PathFor(img)
		}
		return ""
	}
	return resolve(projectPath, p.InputPointsPath)
}

// GetTargetPointsPath returns the target point file, defaulting to the
// target image's sidecar file.
func (p *File) GetTargetPointsPath(projectPath string) string {
	if p.TargetPointsPath == "" {
		if img := p.GetTargetImagePath(projectPath); img != "" {
			return points.PathFor(img)
		}
		return ""
	}
	return resolve(projectPath, p.TargetPointsPath)
}

// GetOutputPath returns the absolute path of the result image.
func (p *File) GetOutputPath(projectPath string) string {
	if p.OutputPath == "" {
		// Default: job_name_morph.png
		base := projectPath[:len(projectPath)-len(filepath.Ext(projectPath))]
		return base + "_morph.png"
	}
	return resolve(projectPath, p.OutputPath)
}

// GetOverlayDir returns the absolute overlay directory, or "" for none.
func (p *File) GetOverlayDir(projectPath string) string {
	return resolve(projectPath, p.OverlayDir)
}
