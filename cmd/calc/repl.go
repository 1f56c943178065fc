package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"voice-calculator/internal/session"
	"voice-calculator/internal/speech"
)

const prompt = "> "

const helpText = `Type an expression to evaluate it, or a command:
  :say <phrase>    evaluate a spoken phrase, e.g. :say five times three
  :listen          listen for a phrase and evaluate it
  :speak           read the display aloud
  :key <key>...    press keypad keys, e.g. :key 7 x^2 =
  :history [n]     list the most recent calculations
  :clear           clear the display
  :help            show this text
  :quit            exit`

type repl struct {
	sess   *session.Session
	voice  *speech.Voice
	in     *bufio.Scanner
	out    io.Writer
	recent int
}

func newREPL(sess *session.Session, voice *speech.Voice, in io.Reader, out io.Writer, recent int) *repl {
	return &repl{
		sess:   sess,
		voice:  voice,
		in:     bufio.NewScanner(in),
		out:    out,
		recent: recent,
	}
}

// run reads lines until EOF, :quit or ctx is done.
func (r *repl) run(ctx context.Context) error {
	fmt.Fprint(r.out, prompt)
	for r.in.Scan() {
		if ctx.Err() != nil {
			return nil
		}
		if quit := r.handle(ctx, r.in.Text()); quit {
			return nil
		}
		fmt.Fprint(r.out, prompt)
	}
	fmt.Fprintln(r.out)
	return r.in.Err()
}

// handle executes one input line and reports whether the user asked to quit.
func (r *repl) handle(ctx context.Context, line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}
	if !strings.HasPrefix(line, ":") {
		r.sess.Submit(line)
		r.show(ctx)
		return false
	}

	cmd, arg, _ := strings.Cut(line[1:], " ")
	arg = strings.TrimSpace(arg)
	switch cmd {
	case "q", "quit", "exit":
		return true
	case "h", "help":
		fmt.Fprintln(r.out, helpText)
	case "say":
		r.heard(ctx, arg)
	case "listen":
		if !r.voice.CanListen() {
			fmt.Fprintln(r.out, "no recognizer configured")
			return false
		}
		fmt.Fprintln(r.out, "listening...")
		text := r.voice.Listen(ctx)
		if text == "" {
			fmt.Fprintln(r.out, "Sorry, I didn't catch that.")
			return false
		}
		fmt.Fprintf(r.out, "heard %q\n", text)
		r.heard(ctx, text)
	case "speak":
		r.voice.Speak(ctx, r.sess.Announcement())
	case "key", "keys":
		for _, k := range strings.Fields(arg) {
			r.sess.Press(k)
		}
		r.show(ctx)
	case "history":
		r.history(arg)
	case "clear":
		r.sess.Press(session.KeyClear)
		r.show(ctx)
	default:
		fmt.Fprintf(r.out, "unknown command :%s (try :help)\n", cmd)
	}
	return false
}

// heard evaluates a transcript the way the keypad's microphone button does:
// translate, evaluate, then show and speak the outcome.
func (r *repl) heard(ctx context.Context, transcript string) {
	if transcript == "" {
		fmt.Fprintln(r.out, "Sorry, I didn't catch that.")
		return
	}
	r.sess.ApplyTranscript(transcript)
	r.sess.Press(session.KeyEquals)
	r.show(ctx)
}

func (r *repl) show(ctx context.Context) {
	switch r.sess.State() {
	case session.ResultShown, session.ErrorShown:
		fmt.Fprintf(r.out, "%s = %s\n", r.sess.Expression(), r.sess.Result())
	default:
		fmt.Fprintln(r.out, r.sess.Announcement())
	}
	if r.voice.CanSpeak() {
		r.voice.Speak(ctx, r.sess.Announcement())
	}
}

func (r *repl) history(arg string) {
	n := r.recent
	if arg != "" {
		v, err := strconv.Atoi(arg)
		if err != nil || v < 0 {
			fmt.Fprintf(r.out, "invalid count %q\n", arg)
			return
		}
		n = v
	}
	entries := r.sess.Recent(n)
	if len(entries) == 0 {
		fmt.Fprintln(r.out, "no history")
		return
	}
	for _, e := range entries {
		fmt.Fprintln(r.out, e)
	}
}
