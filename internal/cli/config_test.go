package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		_ = rootCmd.PersistentFlags().Set("config", "")
		_ = configInitCmd.Flags().Set("force", "false")
	})

	err := rootCmd.Execute()
	return buf.String(), err
}

func TestConfigCmd_Registered(t *testing.T) {
	configCmd := findCommand(t, rootCmd, "config")
	findCommand(t, configCmd, "init")
}

func TestConfigInit_WritesTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gitweekly", "config.yml")

	out, err := runRoot(t, "config", "init", "--config", path)

	require.NoError(t, err)
	assert.Contains(t, out, "Created "+path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "commits_per_chunk: 5")
	assert.Contains(t, string(data), "OPENROUTER_API_KEY")
}

func TestConfigInit_LeavesExistingFileAlone(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("model: custom/model\n"), 0o644))

	out, err := runRoot(t, "config", "init", "--config", path)

	require.NoError(t, err)
	assert.Contains(t, out, "already exists")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "model: custom/model\n", string(data))
}

func TestConfigInit_ForceOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("model: custom/model\n"), 0o644))

	out, err := runRoot(t, "config", "init", "--config", path, "--force")

	require.NoError(t, err)
	assert.Contains(t, out, "Created "+path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "merge_batch_size: 5")
}

func TestVersionCmd_DevBuild(t *testing.T) {
	out, err := runRoot(t, "version")

	require.NoError(t, err)
	assert.Contains(t, out, "gitweekly dev (unreleased build)")
}
