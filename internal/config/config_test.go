package config

import (
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultWorkers, cfg.Workers)
	assert.Equal(t, DefaultListenAddr, cfg.ListenAddr)
	assert.Empty(t, cfg.ManifestPath)
	assert.False(t, cfg.Debug)
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf.json")
	body := `{"image_dir": "/data/img", "output_dir": "/data/out", "workers": 4}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	t.Setenv("OBJEXTR_WORKERS", "16")
	t.Setenv("OBJEXTR_MANIFEST", "/data/run.db")
	t.Setenv("OBJEXTR_DEBUG", "true")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/data/img", cfg.ImageDir)
	assert.Equal(t, "/data/out", cfg.OutputDir)
	assert.Equal(t, "annotations.json", cfg.AnnotationPath)
	assert.Equal(t, 16, cfg.Workers)
	assert.Equal(t, "/data/run.db", cfg.ManifestPath)
	assert.True(t, cfg.Debug)
}

func TestLoad_BadEnvNumberKeepsValue(t *testing.T) {
	t.Setenv("OBJEXTR_WORKERS", "many")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultWorkers, cfg.Workers)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "none.json"))
		assert.Error(t, err)
	})

	t.Run("bad json", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "conf.json")
		require.NoError(t, os.WriteFile(path, []byte("{"), 0o644))
		_, err := Load(path)
		assert.Error(t, err)
	})

	t.Run("worker range", func(t *testing.T) {
		t.Setenv("OBJEXTR_WORKERS", "0")
		_, err := Load("")
		assert.ErrorContains(t, err, "workers must be between")
	})
}

func TestValidate(t *testing.T) {
	cases := map[string]func(c *Config){
		"image dir":   func(c *Config) { c.ImageDir = "" },
		"annotations": func(c *Config) { c.AnnotationPath = "" },
		"output dir":  func(c *Config) { c.OutputDir = "" },
		"too many":    func(c *Config) { c.Workers = MaxWorkers + 1 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := Default()
			mutate(c)
			assert.Error(t, c.Validate())
		})
	}
	assert.NoError(t, Default().Validate())
}

func TestPackageDoc(t *testing.T) {
	f, err := parser.ParseFile(token.NewFileSet(), "config.go", nil, parser.ParseComments|parser.PackageClauseOnly)
	require.NoError(t, err)
	require.NotNil(t, f.Doc)
	assert.True(t, strings.HasPrefix(f.Doc.Text(), "Package config "))
}
