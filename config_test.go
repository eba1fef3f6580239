package pathway

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 1500, cfg.Navigation.DurationMillis)
	assert.Equal(t, Vec3{0, 3, 6}, cfg.Navigation.EyeOffset)
	assert.Equal(t, Vec3{0, 1, 0}, cfg.Navigation.LookOffset)
	assert.Equal(t, 150, cfg.Glyphs.Count)
	assert.Equal(t, 75.0, cfg.Camera.FOV)
}

func TestReadConfigOverridesDefaults(t *testing.T) {
	cfg, err := ReadConfig(strings.NewReader(`
seed = 42

[navigation]
duration_ms = 800

[glyphs]
count = 20

[scene]
background = "#000000"
`))
	require.NoError(t, err)
	assert.Equal(t, uint64(42), cfg.Seed)
	assert.Equal(t, 800, cfg.Navigation.DurationMillis)
	assert.Equal(t, 20, cfg.Glyphs.Count)
	assert.Equal(t, uint32(0x000000), cfg.BackgroundColor().RGB())
	// Untouched sections keep their defaults.
	assert.Equal(t, DefaultConfig().Geometry, cfg.Geometry)
	assert.Equal(t, 1280, cfg.Window.Width)
}

func TestReadConfigRejectsUnknownKeys(t *testing.T) {
	_, err := ReadConfig(strings.NewReader("[camera]\nzoom = 2\n"))
	assert.Error(t, err)
}

func TestReadConfigRejectsInvalidValues(t *testing.T) {
	_, err := ReadConfig(strings.NewReader(`
[camera]
fov = 0

[navigation]
duration_ms = -1

[outline]
color = "white"
`))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidConfig)
	for _, want := range []string{"camera.fov", "navigation.duration_ms", "outline.color"} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestValidateLights(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Scene.Lights = append(cfg.Scene.Lights,
		LightConfig{Kind: "spot", Color: "#ffffff", Intensity: 1},
		LightConfig{Kind: "point", Color: "nope", Intensity: 1},
	)
	err := cfg.Validate()
	require.ErrorIs(t, err, ErrInvalidConfig)
	assert.Contains(t, err.Error(), "scene.lights[3]")
	assert.Contains(t, err.Error(), "scene.lights[4]")

	// Broken entries are skipped when building the scene.
	assert.Len(t, cfg.SceneLights(), 3)
}

func TestSceneLights(t *testing.T) {
	lights := DefaultConfig().SceneLights()
	require.Len(t, lights, 3)
	assert.Equal(t, LightAmbient, lights[0].Kind)
	assert.Equal(t, LightDirectional, lights[1].Kind)
	assert.Equal(t, LightPoint, lights[2].Kind)
	assert.Equal(t, uint32(0x3677ac), lights[2].Color.RGB())
	assert.Equal(t, 50.0, lights[2].Range)
}

func TestFog(t *testing.T) {
	fog := DefaultConfig().Fog()
	assert.Equal(t, uint32(0x111111), fog.Color.RGB())
	assert.Equal(t, 1.0, fog.Near)
	assert.Equal(t, 100.0, fog.Far)
}

func TestConfigWriteToRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seed = 99
	cfg.Glyphs.Symbols = []string{"+", "π"}

	var buf bytes.Buffer
	n, err := cfg.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), n)

	got, err := ReadConfig(&buf)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "look.toml")
	require.NoError(t, os.WriteFile(path, []byte("debug = true\n"), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.True(t, cfg.Debug)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}
