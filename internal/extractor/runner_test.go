package extractor

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/temirov/gitingest-agent/internal/types"
)

func TestClassifyFailure(t *testing.T) {
	arguments := []string{"https://github.com/owner/missing", "-o", "-"}
	testCases := []struct {
		name            string
		stderr          string
		expectedReason  types.ExtractionReason
		expectedMessage string
	}{
		{
			name:            "not_found",
			stderr:          "Error: Repository not found",
			expectedReason:  types.ReasonNotFound,
			expectedMessage: "Repository not found: https://github.com/owner/missing",
		},
		{
			name:            "http_404",
			stderr:          "HTTP 404 returned by remote",
			expectedReason:  types.ReasonNotFound,
			expectedMessage: "Repository not found: https://github.com/owner/missing",
		},
		{
			name:            "bad_credentials",
			stderr:          "Bad credentials",
			expectedReason:  types.ReasonAuth,
			expectedMessage: "Authentication failed (private repository?)",
		},
		{
			name:            "permission_denied",
			stderr:          "fatal: Permission denied (publickey)",
			expectedReason:  types.ReasonAuth,
			expectedMessage: "Authentication failed (private repository?)",
		},
		{
			name:            "dns_failure",
			stderr:          "fatal: Could not resolve host: github.com",
			expectedReason:  types.ReasonNetwork,
			expectedMessage: "Network error: Unable to reach GitHub",
		},
		{
			name:            "anything_else",
			stderr:          "  Traceback: something broke\n",
			expectedReason:  types.ReasonGeneric,
			expectedMessage: "GitIngest error: Traceback: something broke",
		},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			err := ClassifyFailure(arguments, testCase.stderr)
			require.Error(t, err)
			assert.Equal(t, types.KindExtraction, types.KindOf(err))
			assert.Equal(t, testCase.expectedReason, types.ReasonOf(err))
			assert.Equal(t, testCase.expectedMessage, err.Error())
		})
	}
}

func TestCommandRunnerMissingExecutable(t *testing.T) {
	runner := NewCommandRunner("gitingest-agent-definitely-missing-binary", nil)
	_, err := runner.Run(context.Background(), []string{"https://github.com/owner/repo"}, time.Second)
	require.Error(t, err)
	assert.Equal(t, types.KindExtraction, types.KindOf(err))
	assert.Contains(t, err.Error(), "executable not found")
}

func TestCommandRunnerTimeoutKillsDescendants(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts are not executable on windows")
	}
	testCases := []struct {
		name   string
		script string
	}{
		{name: "foreground_child", script: "#!/bin/sh\nsleep 30\n"},
		{name: "background_child", script: "#!/bin/sh\nsleep 30 &\nwait\n"},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			executablePath := filepath.Join(t.TempDir(), "gitingest")
			require.NoError(t, os.WriteFile(executablePath, []byte(testCase.script), 0o755))

			timeout := time.Second
			runner := NewCommandRunner(executablePath, nil)
			startedAt := time.Now()
			_, err := runner.Run(context.Background(), []string{"https://github.com/owner/repo", "-o", "-"}, timeout)
			elapsed := time.Since(startedAt)

			require.Error(t, err)
			assert.Equal(t, types.ReasonTimeout, types.ReasonOf(err))
			assert.Contains(t, err.Error(), "GitIngest timed out after 1s")
			assert.Less(t, elapsed, timeout+terminationGracePeriod+time.Second)
		})
	}
}
