package project

import (
	"os"
	"path/filepath"
	"testing"

	"tri-morph/internal/points"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaults(t *testing.T) {
	job := New("faces")
	assert.Equal(t, 1, job.Version)
	assert.Equal(t, "corners", job.Settings.Boundary)
	assert.Equal(t, 1, job.Settings.Workers)
	assert.Equal(t, BackendNative, job.Settings.Backend)
	assert.NoError(t, job.Settings.Validate())
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "faces.morph.json")

	job := New("faces")
	job.SetInputImage(path, filepath.Join(dir, "img", "a.png"))
	job.SetTargetImage(path, filepath.Join(dir, "img", "b.png"))
	job.Settings.Boundary = "inset"
	job.Settings.Workers = 4
	require.NoError(t, job.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("img", "a.png"), loaded.InputImagePath)
	assert.Equal(t, filepath.Join(dir, "img", "b.png"), loaded.GetTargetImagePath(path))
	assert.Equal(t, filepath.Join(dir, "img", "a.txt"), loaded.GetInputPointsPath(path))
	assert.Equal(t, points.BoundaryInset, loaded.Settings.BoundaryVariant())
	assert.Equal(t, 4, loaded.Settings.Workers)
	assert.Equal(t, filepath.Join(dir, "faces.morph_morph.png"), loaded.GetOutputPath(path))
	assert.Empty(t, loaded.GetOverlayDir(path))
}

func TestExplicitPaths(t *testing.T) {
	job := New("x")
	job.TargetPointsPath = "pts/b.txt"
	job.OutputPath = "/tmp/out.png"
	assert.Equal(t, filepath.Join("/jobs", "pts/b.txt"), job.GetTargetPointsPath("/jobs/x.json"))
	assert.Equal(t, "/tmp/out.png", job.GetOutputPath("/jobs/x.json"))
	assert.Empty(t, job.GetInputPointsPath("/jobs/x.json"))
}

func TestLoadRejectsBadSettings(t *testing.T) {
	dir := t.TempDir()
	for name, body := range map[string]string{
		"boundary": `{"settings": {"boundary": "hexagon"}}`,
		"backend":  `{"settings": {"backend": "cuda"}}`,
		"workers":  `{"settings": {"workers": -2}}`,
		"json":     `{"settings": `,
	} {
		path := filepath.Join(dir, name+".json")
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
		_, err := Load(path)
		assert.Error(t, err, name)
	}
}
