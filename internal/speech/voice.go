package speech

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Default recognizer windows.
const (
	DefaultPhraseLimit = 5 * time.Second
	DefaultCalibration = 500 * time.Millisecond
)

// ErrUnavailable is returned by collaborators that have no backing device or
// program.
var ErrUnavailable = errors.New("speech: not available")

// Listener captures one spoken phrase and returns its transcript.
type Listener interface {
	Listen(ctx context.Context) (string, error)
}

// Speaker reads text aloud.
type Speaker interface {
	Speak(ctx context.Context, text string) error
}

// Nop is a Listener and Speaker that is never available.
type Nop struct{}

func (Nop) Listen(context.Context) (string, error) { return "", ErrUnavailable }
func (Nop) Speak(context.Context, string) error    { return ErrUnavailable }

// Voice wraps a Listener and a Speaker so that failures never reach the
// calculator: Listen yields "" and Speak does nothing when the underlying
// collaborator fails.
type Voice struct {
	listener Listener
	speaker  Speaker
	limit    time.Duration
	logger   *zap.Logger
}

// Option configures a Voice.
type Option func(*Voice)

// WithListener sets the speech recognizer.
func WithListener(l Listener) Option {
	return func(v *Voice) { v.listener = l }
}

// WithSpeaker sets the speech synthesizer.
func WithSpeaker(s Speaker) Option {
	return func(v *Voice) { v.speaker = s }
}

// WithPhraseLimit bounds how long a single Listen may take.
func WithPhraseLimit(d time.Duration) Option {
	return func(v *Voice) { v.limit = d }
}

// WithLogger sets the logger failures are reported to.
func WithLogger(l *zap.Logger) Option {
	return func(v *Voice) { v.logger = l }
}

// NewVoice returns a Voice. Collaborators default to Nop.
func NewVoice(opts ...Option) *Voice {
	v := &Voice{
		listener: Nop{},
		speaker:  Nop{},
		limit:    DefaultPhraseLimit,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Listen returns one transcript, or "" on silence, timeout or any failure.
func (v *Voice) Listen(ctx context.Context) (text string) {
	if v.limit > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, v.limit)
		defer cancel()
	}
	defer func() {
		if r := recover(); r != nil {
			v.logger.Warn("speech recognizer panicked", zap.Any("panic", r))
			text = ""
		}
	}()
	start := time.Now()
	text, err := v.listener.Listen(ctx)
	if err != nil {
		v.logger.Debug("listen failed",
			zap.Error(err),
			zap.Duration("elapsed", time.Since(start)),
		)
		return ""
	}
	v.logger.Debug("heard phrase", zap.String("transcript", text))
	return text
}

// Speak reads text aloud, ignoring failures.
func (v *Voice) Speak(ctx context.Context, text string) {
	defer func() {
		if r := recover(); r != nil {
			v.logger.Warn("speech synthesizer panicked", zap.Any("panic", r))
		}
	}()
	if err := v.speaker.Speak(ctx, text); err != nil {
		v.logger.Debug("speak failed", zap.String("text", text), zap.Error(err))
	}
}

// CanListen reports whether a recognizer is configured.
func (v *Voice) CanListen() bool {
	_, nop := v.listener.(Nop)
	return !nop
}

// CanSpeak reports whether a synthesizer is configured.
func (v *Voice) CanSpeak() bool {
	_, nop := v.speaker.(Nop)
	return !nop
}

func (v *Voice) String() string {
	return fmt.Sprintf("voice(listen=%t, speak=%t, limit=%s)", v.CanListen(), v.CanSpeak(), v.limit)
}
