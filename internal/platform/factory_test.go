package platform_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/quicktab/internal/platform"
	"github.com/aretw0/quicktab/pkg/adapters/fs"
	"github.com/aretw0/quicktab/pkg/core"
)

const song = "---\ntitle: Intro\n---\n# Intro\n\n```quicktab\n4/5 5/5\n\n3/4\n```\n"

func TestNew_RendersWithDefaults(t *testing.T) {
	vault := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(vault, "intro.md"), []byte(song), 0644))

	svc, err := platform.New(vault)
	require.NoError(t, err)

	report, err := svc.RenderAll(context.Background(), false)
	require.NoError(t, err)
	rendered, _, failed := report.Count()
	assert.Equal(t, 1, rendered)
	assert.Equal(t, 0, failed)

	data, err := os.ReadFile(filepath.Join(vault, ".quicktab", "out", "intro", "0.vextab"))
	require.NoError(t, err)
	assert.Equal(t, "tabstave\nnotes 4/5 5/5\n\ntabstave\nnotes 3/4\n", string(data))
}

func TestNew_Options(t *testing.T) {
	t.Run("Settings File", func(t *testing.T) {
		vault := t.TempDir()
		cfg := filepath.Join(t.TempDir(), "custom.yaml")
		require.NoError(t, os.WriteFile(cfg, []byte("width: 900\n"), 0644))

		svc, err := platform.New(vault, platform.WithSettingsFile(cfg))
		require.NoError(t, err)
		assert.Equal(t, 900, svc.Settings().Width)
	})

	t.Run("Invalid Settings", func(t *testing.T) {
		_, err := platform.New(t.TempDir(), platform.WithSettings(core.Settings{Scale: 1}))
		assert.ErrorIs(t, err, platform.ErrInvalidSettings)
	})

	t.Run("Output Dir And Pattern", func(t *testing.T) {
		vault := t.TempDir()
		out := filepath.Join(t.TempDir(), "public")
		require.NoError(t, os.MkdirAll(filepath.Join(vault, "songs"), 0755))
		require.NoError(t, os.WriteFile(filepath.Join(vault, "songs", "a.md"), []byte(song), 0644))
		require.NoError(t, os.WriteFile(filepath.Join(vault, "readme.md"), []byte(song), 0644))

		svc, err := platform.New(vault, platform.WithOutputDir(out), platform.WithPattern("songs/*.md"))
		require.NoError(t, err)
		report, err := svc.RenderAll(context.Background(), false)
		require.NoError(t, err)
		assert.Equal(t, 1, report.Documents)

		_, err = os.Stat(filepath.Join(out, "songs", "a", "0.vextab"))
		assert.NoError(t, err)
	})

	t.Run("Must Exist", func(t *testing.T) {
		_, err := platform.New(filepath.Join(t.TempDir(), "missing"), platform.WithMustExist(true))
		assert.Error(t, err)
	})

	t.Run("Unknown Adapter", func(t *testing.T) {
		_, err := platform.New(t.TempDir(), platform.WithAdapter("s3"))
		assert.Error(t, err)
	})
}

func TestNew_ParentSettingsSurviveInitialize(t *testing.T) {
	parent := t.TempDir()
	vault := filepath.Join(parent, "songs")
	require.NoError(t, os.MkdirAll(vault, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(parent, platform.SettingsFile), []byte("width: 900\n"), 0644))

	for run := 1; run <= 2; run++ {
		svc, err := platform.New(vault)
		require.NoError(t, err)
		assert.Equal(t, 900, svc.Settings().Width, "run %d", run)
	}
}

func TestNew_RendersAgainIntoNewOutputDir(t *testing.T) {
	vault := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(vault, "intro.md"), []byte(song), 0644))
	ctx := context.Background()

	svc, err := platform.New(vault)
	require.NoError(t, err)
	_, err = svc.RenderAll(ctx, false)
	require.NoError(t, err)

	out := filepath.Join(t.TempDir(), "public")
	svc, err = platform.New(vault, platform.WithOutputDir(out))
	require.NoError(t, err)
	report, err := svc.RenderAll(ctx, false)
	require.NoError(t, err)

	rendered, skipped, _ := report.Count()
	assert.Equal(t, 1, rendered)
	assert.Equal(t, 0, skipped)
	_, err = os.Stat(filepath.Join(out, "intro", "0.vextab"))
	assert.NoError(t, err)
}

func TestInit(t *testing.T) {
	vault := filepath.Join(t.TempDir(), "vault")
	repo, err := platform.Init(vault, platform.WithSystemDir(".qt"))
	require.NoError(t, err)

	fsRepo, ok := repo.(*fs.Repository)
	require.True(t, ok)
	assert.Equal(t, vault, fsRepo.Path)

	_, err = os.Stat(filepath.Join(vault, ".qt", "out"))
	assert.NoError(t, err)
}
