package speech

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// Placeholders expanded in command arguments.
const (
	LimitPlaceholder       = "{limit}"
	CalibrationPlaceholder = "{calibration}"
	TextPlaceholder        = "{text}"
)

// CommandListener runs an external recognizer that prints one transcript on
// stdout. Arguments may contain {limit} and {calibration}, replaced by the
// respective windows in seconds.
type CommandListener struct {
	Command     []string
	PhraseLimit time.Duration
	Calibration time.Duration
}

// Listen runs the recognizer until it exits or ctx is done.
func (c *CommandListener) Listen(ctx context.Context) (string, error) {
	if len(c.Command) == 0 {
		return "", ErrUnavailable
	}
	r := strings.NewReplacer(
		LimitPlaceholder, seconds(c.PhraseLimit),
		CalibrationPlaceholder, seconds(c.Calibration),
	)
	args := expand(c.Command, r)
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", fmt.Errorf("running recognizer %s: %w: %s", args[0], err, msg)
		}
		return "", fmt.Errorf("running recognizer %s: %w", args[0], err)
	}
	return strings.TrimSpace(string(out)), nil
}

// CommandSpeaker runs an external synthesizer. If no argument contains
// {text}, the text is written to the program's stdin.
type CommandSpeaker struct {
	Command []string
}

// Speak runs the synthesizer and waits for it to finish.
func (c *CommandSpeaker) Speak(ctx context.Context, text string) error {
	if len(c.Command) == 0 {
		return ErrUnavailable
	}
	args := expand(c.Command, strings.NewReplacer(TextPlaceholder, text))
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	if !hasPlaceholder(c.Command, TextPlaceholder) {
		cmd.Stdin = strings.NewReader(text + "\n")
	}
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("running synthesizer %s: %w: %s", args[0], err, bytes.TrimSpace(out))
	}
	return nil
}

func expand(argv []string, r *strings.Replacer) []string {
	out := make([]string, len(argv))
	for i, a := range argv {
		out[i] = r.Replace(a)
	}
	return out
}

func hasPlaceholder(argv []string, p string) bool {
	for _, a := range argv {
		if strings.Contains(a, p) {
			return true
		}
	}
	return false
}

func seconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', -1, 64)
}
