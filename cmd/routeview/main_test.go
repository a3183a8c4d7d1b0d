package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vango-dev/routeview/internal/errors"
)

const table = `
routes:
  - path: /
    component: Shell
    props: {title: Directory}
    children:
      - path: users/:id:int
        name: user
        component: Section
        props: {title: User}
        children:
          - path: profile
            name: profile
            components: {default: Props, aside: Text}
            props: true
            slotProps:
              aside: {text: Sidebar}
`

func writeTable(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "routes.yaml")
	require.NoError(t, os.WriteFile(path, []byte(table), 0o644))
	return path
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(&stdout, &stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestRenderCommand(t *testing.T) {
	out, _, err := run(t, "render", "--routes", writeTable(t), "--log-level", "error", "/users/42/profile")
	require.NoError(t, err)

	assert.Contains(t, out, "<!DOCTYPE html>")
	assert.Contains(t, out, "<h1>Directory</h1>")
	assert.Contains(t, out, "<h2>User</h2>")
	assert.Contains(t, out, "<li>id=42</li>")
	assert.Contains(t, out, "<p>Sidebar</p>")
}

func TestRenderCommandNoMatch(t *testing.T) {
	_, _, err := run(t, "render", "--routes", writeTable(t), "--log-level", "error", "/users/abc")
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, "E203"))
}

func TestRenderCommandMissingTable(t *testing.T) {
	_, _, err := run(t, "render", "--routes", filepath.Join(t.TempDir(), "none.yaml"), "/")
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, "E104"))
}

func TestRoutesCommand(t *testing.T) {
	out, _, err := run(t, "routes", "--routes", writeTable(t))
	require.NoError(t, err)

	assert.Contains(t, out, "PATH")
	assert.Regexp(t, `/\s+-\s+0\s+default=Shell\(static\)`, out)
	assert.Regexp(t, `/users/:id:int\s+user\s+1\s+default=Section\(static\)`, out)
	assert.Regexp(t, `/users/:id:int/profile\s+profile\s+2\s+default=Props\(params\) aside=Text\(static\)`, out)
}

func TestConfigFileFlag(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("routes:\n  file: "+writeTable(t)+"\nlog:\n  level: error\n"), 0o644))

	out, _, err := run(t, "--config", cfg, "render", "/")
	require.NoError(t, err)
	assert.Contains(t, out, "<h1>Directory</h1>")
}

func TestInvalidConfig(t *testing.T) {
	_, _, err := run(t, "routes", "--routes", writeTable(t), "--log-level", "loud")
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, "E106"))
}

func TestVersionCommand(t *testing.T) {
	out, _, err := run(t, "version", "--short")
	require.NoError(t, err)
	assert.Equal(t, "dev\n", out)
}
