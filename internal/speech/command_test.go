package speech_test

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voice-calculator/internal/speech"
)

func requireCommands(t *testing.T, names ...string) {
	t.Helper()
	for _, n := range names {
		if _, err := exec.LookPath(n); err != nil {
			t.Skipf("%s not available: %v", n, err)
		}
	}
}

func TestCommandListener(t *testing.T) {
	requireCommands(t, "echo")
	l := &speech.CommandListener{Command: []string{"echo", "five plus three"}}
	got, err := l.Listen(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "five plus three", got)
}

func TestCommandListenerPlaceholders(t *testing.T) {
	requireCommands(t, "echo")
	l := &speech.CommandListener{
		Command:     []string{"echo", "{limit}", "{calibration}"},
		PhraseLimit: 5 * time.Second,
		Calibration: 500 * time.Millisecond,
	}
	got, err := l.Listen(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "5 0.5", got)
}

func TestCommandListenerErrors(t *testing.T) {
	_, err := (&speech.CommandListener{}).Listen(context.Background())
	assert.ErrorIs(t, err, speech.ErrUnavailable)

	requireCommands(t, "false")
	_, err = (&speech.CommandListener{Command: []string{"false"}}).Listen(context.Background())
	assert.Error(t, err)
}

func TestCommandSpeaker(t *testing.T) {
	requireCommands(t, "sh")
	dir := t.TempDir()

	stdin := filepath.Join(dir, "stdin.txt")
	s := &speech.CommandSpeaker{Command: []string{"sh", "-c", `cat > "$0"`, stdin}}
	require.NoError(t, s.Speak(context.Background(), "42"))
	b, err := os.ReadFile(stdin)
	require.NoError(t, err)
	assert.Equal(t, "42\n", string(b))

	arg := filepath.Join(dir, "arg.txt")
	s = &speech.CommandSpeaker{Command: []string{"sh", "-c", `printf %s "$1" > "$0"`, arg, "{text}"}}
	require.NoError(t, s.Speak(context.Background(), "3.5"))
	b, err = os.ReadFile(arg)
	require.NoError(t, err)
	assert.Equal(t, "3.5", string(b))

	assert.ErrorIs(t, (&speech.CommandSpeaker{}).Speak(context.Background(), "x"), speech.ErrUnavailable)
}
