package logger

import (
	"io"
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureStdout runs fn with os.Stdout redirected to a pipe and returns
// whatever fn wrote.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()

	orig := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w
	defer func() { os.Stdout = orig }()

	fn()

	require.NoError(t, w.Close())
	out, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(out)
}

func TestSetupStampsServiceField(t *testing.T) {
	out := captureStdout(t, func() {
		log := Setup("info", "json")
		log.Info().Msg("boot")
	})

	assert.Contains(t, out, `"service":"aerovault"`)
	assert.Contains(t, out, `"message":"boot"`)
}

func TestSetupParsesLevel(t *testing.T) {
	Setup("warn", "json")
	assert.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())
}

func TestSetupInvalidLevelFallsBackToInfo(t *testing.T) {
	Setup("bogus", "json")
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}
