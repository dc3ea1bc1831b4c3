package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shinji-kodama/dependabot-docker/internal/model"
)

const scanFixtureConfig = `version: 2
updates:
  - package-ecosystem: docker
    directory: /a
    schedule:
      interval: weekly
`

// TestRunScan_Text verifies the text table and that scan writes nothing.
func TestRunScan_Text(t *testing.T) {
	root := newRepo(t, map[string]string{
		"a/Dockerfile":           "FROM alpine\n",
		"b/sub/Dockerfile":       "FROM alpine\n",
		".github/dependabot.yml": scanFixtureConfig,
	})

	var out bytes.Buffer
	require.NoError(t, runScan(testOptions(root, "weekly"), &scanFlags{}, &out))

	want := "DIRECTORY                      STATUS\n" +
		"a                              configured\n" +
		"b/sub                          missing\n"
	assert.Equal(t, want, out.String())

	data, err := os.ReadFile(filepath.Join(root, ".github", "dependabot.yml"))
	require.NoError(t, err)
	assert.Equal(t, scanFixtureConfig, string(data))
}

// TestRunScan_Empty verifies the message for a tree without Dockerfiles.
func TestRunScan_Empty(t *testing.T) {
	root := newRepo(t, map[string]string{"README.md": "hi\n"})

	var out bytes.Buffer
	require.NoError(t, runScan(testOptions(root, "weekly"), &scanFlags{check: true}, &out))
	assert.Equal(t, "No Dockerfiles found.\n", out.String())
}

// TestRunScan_JSON verifies the JSON output shape.
func TestRunScan_JSON(t *testing.T) {
	jsonOutput = true
	t.Cleanup(func() { jsonOutput = false })

	root := newRepo(t, map[string]string{
		"a/Dockerfile":           "FROM alpine\n",
		"c/Dockerfile":           "FROM alpine\n",
		".github/dependabot.yml": scanFixtureConfig,
	})

	var out bytes.Buffer
	require.NoError(t, runScan(testOptions(root, "weekly"), &scanFlags{}, &out))

	var result struct {
		Directories []scanRow `json:"directories"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &result))
	assert.Equal(t, []scanRow{
		{Directory: "a", Configured: true},
		{Directory: "c", Configured: false},
	}, result.Directories)
}

// TestRunScan_Check verifies --check fails only when entries are missing.
func TestRunScan_Check(t *testing.T) {
	t.Run("missing entries", func(t *testing.T) {
		root := newRepo(t, map[string]string{
			"a/Dockerfile": "FROM alpine\n",
			"c/Dockerfile": "FROM alpine\n",
			"d/Dockerfile": "FROM alpine\n",
		})

		var out bytes.Buffer
		err := runScan(testOptions(root, "weekly"), &scanFlags{check: true}, &out)
		require.Error(t, err)

		var cliErr *model.CLIError
		require.True(t, errors.As(err, &cliErr))
		assert.Equal(t, model.ExitGeneralError, cliErr.Code)
		assert.Contains(t, err.Error(), "3 Dockerfile directories without a Dependabot entry")
	})

	t.Run("all configured", func(t *testing.T) {
		root := newRepo(t, map[string]string{
			"a/Dockerfile":           "FROM alpine\n",
			".github/dependabot.yml": scanFixtureConfig,
		})

		var out bytes.Buffer
		assert.NoError(t, runScan(testOptions(root, "weekly"), &scanFlags{check: true}, &out))
	})
}

// TestExecute_ScanCommand runs the scan subcommand through cobra.
func TestExecute_ScanCommand(t *testing.T) {
	isolateEnv(t)
	root := newRepo(t, map[string]string{"a/Dockerfile": "FROM alpine\n"})

	code, stdout, _ := runCLI(t, "scan", "--root", root, "--check")
	assert.Equal(t, model.ExitGeneralError, code)
	assert.Contains(t, stdout, "missing")

	_, err := os.Stat(filepath.Join(root, ".github"))
	assert.True(t, errors.Is(err, os.ErrNotExist), "scan must not write the config")
}

// TestPluralY covers the small pluralisation helper.
func TestPluralY(t *testing.T) {
	assert.Equal(t, "y", pluralY(1))
	assert.Equal(t, "ies", pluralY(2))
}
