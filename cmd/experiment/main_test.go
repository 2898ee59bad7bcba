package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/YuminosukeSato/statlearn/internal/experiment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteReportToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.yaml")
	rep := &experiment.Report{RunID: "abc"}

	require.NoError(t, writeReport(rep, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "run_id: abc")
}

func TestWriteReportBadPath(t *testing.T) {
	err := writeReport(&experiment.Report{}, filepath.Join(t.TempDir(), "missing", "report.yaml"))
	assert.Error(t, err)
}

type closeFailWriter struct {
	bytes.Buffer
	closeErr error
}

func (w *closeFailWriter) Close() error { return w.closeErr }

func TestWriteAndCloseReportsCloseError(t *testing.T) {
	diskFull := errors.New("no space left on device")
	w := &closeFailWriter{closeErr: diskFull}

	err := writeAndClose(&experiment.Report{RunID: "abc"}, w, "report.yaml")
	require.Error(t, err)
	assert.ErrorIs(t, err, diskFull)
	assert.Contains(t, err.Error(), "close report.yaml")
	assert.Contains(t, w.String(), "run_id: abc")
}

func TestWriteAndCloseOK(t *testing.T) {
	w := &closeFailWriter{}
	require.NoError(t, writeAndClose(&experiment.Report{RunID: "abc"}, w, "report.yaml"))
}

func TestRunRejectsBadLogLevel(t *testing.T) {
	err := run(options{logLevel: "loud"})
	assert.Error(t, err)
}

func TestRunRejectsMissingConfig(t *testing.T) {
	err := run(options{logLevel: "error", configPath: filepath.Join(t.TempDir(), "none.yaml")})
	assert.Error(t, err)
}
