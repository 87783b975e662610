package main

import (
	"bytes"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runCLI executes the root command in-process with fresh flag values.
func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func writeVault(t *testing.T, files map[string]string) string {
	t.Helper()
	vault := t.TempDir()
	// keeps settings discovery inside the vault
	require.NoError(t, os.Mkdir(filepath.Join(vault, ".quicktab"), 0755))
	for name, content := range files {
		p := filepath.Join(vault, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0644))
	}
	return vault
}

func TestExpand(t *testing.T) {
	config := filepath.Join(t.TempDir(), "quicktab.yaml")
	require.NoError(t, os.WriteFile(config, []byte("include_tabstave: true\n"), 0644))

	tests := []struct {
		name  string
		stdin string
		args  []string
		want  string
	}{
		{
			name:  "Defaults",
			stdin: "4/5 5/5\n\n3/4\n",
			args:  []string{"expand", "--config", config},
			want:  "tabstave\nnotes 4/5 5/5\n\ntabstave\nnotes 3/4\n",
		},
		{
			name:  "Notation",
			stdin: "text hi\n4/5",
			args:  []string{"expand", "--config", config, "--notation"},
			want:  "tabstave notation=true\ntext hi\nnotes 4/5\n",
		},
		{
			name:  "No Directives",
			stdin: "4/5\n\n3/4",
			args:  []string{"expand", "--config", config, "--tabstave=false"},
			want:  "notes 4/5\n\nnotes 3/4\n",
		},
		{
			name:  "Every Stave",
			stdin: "1/1\n\n2/2\n\n3/3",
			args:  []string{"expand", "--config", config, "--every-stave"},
			want:  "tabstave\nnotes 1/1\n\ntabstave\nnotes 2/2\n\ntabstave\nnotes 3/3\n",
		},
		{
			name:  "First Boundary Only",
			stdin: "1/1\n\n2/2\n\n3/3",
			args:  []string{"expand", "--config", config},
			want:  "tabstave\nnotes 1/1\n\ntabstave\nnotes 2/2\n\nnotes 3/3\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runCLI(t, tt.stdin, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}

	t.Run("From File", func(t *testing.T) {
		src := filepath.Join(t.TempDir(), "riff.qt")
		require.NoError(t, os.WriteFile(src, []byte("0/6"), 0644))
		out, err := runCLI(t, "", "expand", "--config", config, src)
		require.NoError(t, err)
		assert.Equal(t, "tabstave\nnotes 0/6\n", out)
	})
}

func TestDefaults(t *testing.T) {
	config := filepath.Join(t.TempDir(), "quicktab.yaml")
	require.NoError(t, os.WriteFile(config, []byte("include_notation: true\n"), 0644))

	out, err := runCLI(t, "", "defaults", "--config", config)
	require.NoError(t, err)
	assert.Equal(t, "tabstave notation=true\n", out)

	out, err = runCLI(t, "", "defaults", "--config", config, "--tabstave=false", "--notation=false")
	require.NoError(t, err)
	assert.Empty(t, out)
}

const doc = "---\nquicktab:\n  include_notation: true\n---\n# Song\n\n```quicktab\n4/5\n```\n\n```vextab\ntabstave\nnotes 1/1\n```\n"

func TestBlocks(t *testing.T) {
	vault := writeVault(t, map[string]string{"songs/a.md": doc})

	out, err := runCLI(t, "", "blocks", vault, "--json")
	require.NoError(t, err)

	var views []blockView
	require.NoError(t, json.Unmarshal([]byte(out), &views))
	require.Len(t, views, 2)
	assert.Equal(t, "songs/a#0", views[0].ID)
	assert.Equal(t, "quicktab", views[0].Dialect)
	assert.Equal(t, 7, views[0].Line)
	assert.Equal(t, "tabstave notation=true\nnotes 4/5", views[0].Source)
	assert.Equal(t, "vextab", views[1].Dialect)

	out, err = runCLI(t, "", "blocks", vault)
	require.NoError(t, err)
	assert.Contains(t, out, "songs/a#1")
}

func TestRender(t *testing.T) {
	vault := writeVault(t, map[string]string{"a.md": doc})

	out, err := runCLI(t, "", "render", vault)
	require.NoError(t, err)
	assert.Contains(t, out, "1 document(s): 2 rendered, 0 unchanged, 0 failed")

	data, err := os.ReadFile(filepath.Join(vault, ".quicktab", "out", "a", "0.vextab"))
	require.NoError(t, err)
	assert.Equal(t, "tabstave notation=true\nnotes 4/5\n", string(data))

	out, err = runCLI(t, "", "render", vault)
	require.NoError(t, err)
	assert.Contains(t, out, "0 rendered, 2 unchanged")

	out, err = runCLI(t, "", "render", vault, "--force", "--json")
	require.NoError(t, err)
	var views []renderingView
	require.NoError(t, json.Unmarshal([]byte(out), &views))
	require.Len(t, views, 2)
	assert.Equal(t, "rendered", views[0].Status)
}

func TestRender_FailingEngine(t *testing.T) {
	vault := writeVault(t, map[string]string{"a.md": doc})

	out, err := runCLI(t, "", "render", vault, "--exec", "quicktab-no-such-engine")
	require.Error(t, err)
	assert.Contains(t, out, "failed")

	_, statErr := os.Stat(filepath.Join(vault, ".quicktab", "out", "a", "0.svg"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestRender_EngineAfterDash(t *testing.T) {
	requireSh(t)
	vault := writeVault(t, map[string]string{"a.md": doc})

	_, err := runCLI(t, "", "render", vault, "other")
	assert.Error(t, err)

	// "my engine" becomes $0 and must survive as a single argument
	_, err = runCLI(t, "", "render", vault, "--format", "txt", "--", "sh", "-c", `test "$0" = "my engine" && cat`, "my engine")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(vault, ".quicktab", "out", "a", "0.txt"))
	require.NoError(t, err)
	assert.Equal(t, "tabstave notation=true\nnotes 4/5", string(data))

	_, err = runCLI(t, "", "render", vault, "--exec", "cat", "--", "cat")
	assert.Error(t, err)
}

func requireSh(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}

func TestVersion(t *testing.T) {
	out, err := runCLI(t, "", "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "quicktab version "))
}

func TestStatus(t *testing.T) {
	vault := writeVault(t, map[string]string{"a.md": doc})
	_, err := runCLI(t, "", "render", vault)
	require.NoError(t, err)

	out, err := runCLI(t, "", "status", vault)
	require.NoError(t, err)

	var state struct {
		Service struct {
			RendererFormat string `json:"renderer_format"`
		} `json:"service"`
		Repository struct {
			Artifacts int `json:"artifacts"`
		} `json:"repository"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &state))
	assert.Equal(t, "vextab", state.Service.RendererFormat)
	assert.Equal(t, 2, state.Repository.Artifacts)
}
