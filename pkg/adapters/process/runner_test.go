package process

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunner_Execute(t *testing.T) {
	runner := NewRunner()
	runner.Register("greet", "echo", "hello")

	t.Run("Executes Registered Command", func(t *testing.T) {
		out, err := runner.Execute(context.Background(), "greet", nil)
		require.NoError(t, err)
		assert.Equal(t, "hello", out)
	})

	t.Run("Fails For Unregistered Command", func(t *testing.T) {
		_, err := runner.Execute(context.Background(), "hacker_script", nil)
		assert.ErrorContains(t, err, "not registered")
	})

	t.Run("Passes Arguments via Env Vars", func(t *testing.T) {
		runner.Register("echo_env", "sh", "-c", `echo "$TALEBOX_ARG_MSG" "$TALEBOX_ARG_LEVEL" "$TALEBOX_ARG_TAGS"`)

		out, err := runner.Execute(context.Background(), "echo_env", map[string]any{
			"msg":   "; rm -rf /",
			"level": 7,
			"tags":  []string{"a", "b"},
		})
		require.NoError(t, err)
		assert.Equal(t, `; rm -rf / 7 ["a","b"]`, out)
	})

	t.Run("Reports Stderr On Failure", func(t *testing.T) {
		runner.Register("fail", "sh", "-c", "echo broken >&2; exit 3")

		_, err := runner.Execute(context.Background(), "fail", nil)
		assert.ErrorContains(t, err, "broken")
	})
}

func TestRunner_RegistryFromConfig(t *testing.T) {
	runner := NewRunner(WithRegistry(map[string]ProcessConfig{
		"env": {Name: "env", Command: "sh", Args: []string{"-c", "echo $CARD"}, Environment: map[string]string{"CARD": "1"}},
	}), WithBaseDir(t.TempDir()))

	assert.True(t, runner.Has("env"))
	out, err := runner.Execute(context.Background(), "env", nil)
	require.NoError(t, err)
	assert.Equal(t, "1", out)
}

func TestLoadCommands(t *testing.T) {
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "commands.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(`
commands:
  - name: player
    command: mpg123
    args: ["-q", "-"]
  - name: incomplete
`), 0o644))

	cmds, err := LoadCommands(yamlPath)
	require.NoError(t, err)
	require.Len(t, cmds, 1)
	assert.Equal(t, []string{"-q", "-"}, cmds[CommandPlayer].Args)

	jsonPath := filepath.Join(dir, "commands.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"commands": [{"name": "mixer", "command": "amixer"}]}`), 0o644))
	cmds, err = LoadCommands(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, "amixer", cmds[CommandMixer].Command)

	cmds, err = LoadCommands(filepath.Join(dir, "missing.yaml"))
	require.NoError(t, err)
	assert.Empty(t, cmds)

	require.NoError(t, os.WriteFile(jsonPath, []byte(`{`), 0o644))
	_, err = LoadCommands(jsonPath)
	assert.Error(t, err)
}
