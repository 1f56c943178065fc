// Command calc is the terminal voice calculator. It reads expressions or
// commands from stdin and, when configured, listens for spoken phrases and
// reads results aloud.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"voice-calculator/internal/calculator"
	"voice-calculator/internal/config"
	"voice-calculator/internal/expression"
	"voice-calculator/internal/session"
	"voice-calculator/internal/speech"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "calc:", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configPath = flag.String("config", os.Getenv("CALC_CONFIG"), "path to the YAML configuration file")
		expr       = flag.String("e", "", "evaluate `expression`, print the result and exit")
		degrees    = flag.Bool("degrees", false, "interpret trigonometric arguments in degrees")
		voice      = flag.Bool("voice", false, "enable the configured recognizer and synthesizer")
	)
	flag.Parse()

	if *expr != "" {
		opts := []expression.Option{}
		if *degrees {
			opts = append(opts, expression.WithAngleUnit(expression.Degrees))
		}
		res := expression.Evaluate(*expr, opts...)
		fmt.Println(res.Display())
		if res.Err != nil {
			return res.Err
		}
		return nil
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer logger.Sync()

	settings, err := calculator.SettingsFromConfig(cfg.Calculator)
	if err != nil {
		return err
	}
	if *degrees {
		settings.AngleUnit = expression.Degrees
	}

	sess := session.New(
		session.WithAngleUnit(settings.AngleUnit),
		session.WithResultPolicy(settings.ResultPolicy),
		session.WithLogger(logger.Named("session")),
	)

	v := speech.NewVoice(speech.WithLogger(logger.Named("voice")))
	if *voice {
		v = newVoice(cfg.Voice, logger.Named("voice"))
	}
	logger.Debug("calculator ready",
		zap.Stringer("angle_unit", settings.AngleUnit),
		zap.Stringer("result_policy", settings.ResultPolicy),
		zap.Stringer("voice", v),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	r := newREPL(sess, v, os.Stdin, os.Stdout, settings.RecentHistory)
	return r.run(ctx)
}

// newLogger writes human-readable entries to stderr so they never mix with
// results on stdout.
func newLogger(cfg config.Log) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	zc := zap.NewDevelopmentConfig()
	zc.Development = cfg.Development
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}
	return zc.Build()
}

func newVoice(cfg config.Voice, logger *zap.Logger) *speech.Voice {
	opts := []speech.Option{
		speech.WithPhraseLimit(cfg.PhraseLimit + cfg.Calibration),
		speech.WithLogger(logger),
	}
	if len(cfg.ListenCommand) > 0 {
		breaker := speech.DefaultBreakerConfig("recognizer")
		breaker.ConsecutiveFailures = cfg.BreakerFailures
		breaker.Timeout = cfg.BreakerTimeout
		listener := &speech.CommandListener{
			Command:     cfg.ListenCommand,
			PhraseLimit: cfg.PhraseLimit,
			Calibration: cfg.Calibration,
		}
		opts = append(opts, speech.WithListener(speech.NewBreakerListener(listener, breaker, logger)))
	}
	if len(cfg.SpeakCommand) > 0 {
		opts = append(opts, speech.WithSpeaker(&speech.CommandSpeaker{Command: cfg.SpeakCommand}))
	}
	return speech.NewVoice(opts...)
}
