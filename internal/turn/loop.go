package turn

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/nadzzz/voxlist/internal/command"
	"github.com/nadzzz/voxlist/internal/message"
)

// Source yields utterances. Next returns io.EOF once the source is
// exhausted.
type Source interface {
	Next(ctx context.Context) (*message.Message, error)
}

// LineSource reads one utterance per line. A blank line stands for an
// utterance in which no speech was detected.
type LineSource struct {
	source string
	lines  chan string
	err    error

	done      chan struct{}
	closeOnce sync.Once
}

// NewLineSource starts reading lines from r. source labels the messages.
// Call Close to stop the reader; a Read already blocked on r still has to
// return on its own.
func NewLineSource(r io.Reader, source string) *LineSource {
	s := &LineSource{source: source, lines: make(chan string), done: make(chan struct{})}
	go func() {
		defer close(s.lines)
		sc := bufio.NewScanner(r)
		for sc.Scan() {
			select {
			case s.lines <- sc.Text():
			case <-s.done:
				return
			}
		}
		s.err = sc.Err()
	}()
	return s
}

// Close stops the reader goroutine. Next returns io.EOF once it has exited.
func (s *LineSource) Close() error {
	s.closeOnce.Do(func() { close(s.done) })
	return nil
}

// Next blocks until a line is read or ctx is done.
func (s *LineSource) Next(ctx context.Context) (*message.Message, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case line, ok := <-s.lines:
		if !ok {
			if s.err != nil {
				return nil, fmt.Errorf("reading input: %w", s.err)
			}
			return nil, io.EOF
		}
		return &message.Message{Source: s.source, Text: line, Timestamp: time.Now()}, nil
	}
}

// Banner is the greeting with the supported phrasings.
func Banner() string {
	var sb strings.Builder
	sb.WriteString("\n=== Welcome to voxlist! ===\n")
	sb.WriteString("\nAvailable commands:\n")
	for _, ex := range command.Examples() {
		sb.WriteString("- '" + ex + "'\n")
	}
	sb.WriteString("\nPress Ctrl+C to exit\n")
	return sb.String()
}

// Loop is the interactive read-handle-render cycle.
type Loop struct {
	src  Source
	proc *Processor
	out  io.Writer
}

// NewLoop creates a Loop writing to out.
func NewLoop(src Source, proc *Processor, out io.Writer) *Loop {
	return &Loop{src: src, proc: proc, out: out}
}

// Run prints the banner and handles utterances until ctx is cancelled or the
// source is exhausted. A failing turn never ends the loop.
func (l *Loop) Run(ctx context.Context) error {
	fmt.Fprint(l.out, Banner())

	for {
		fmt.Fprintln(l.out, "\nWaiting for your command...")

		msg, err := l.src.Next(ctx)
		switch {
		case errors.Is(err, io.EOF):
			return nil
		case ctx.Err() != nil:
			fmt.Fprintln(l.out, "\nGoodbye! Thanks for using voxlist!")
			return nil
		case err != nil:
			return err
		}

		res, err := l.proc.Handle(ctx, msg)
		if err != nil {
			fmt.Fprintf(l.out, "\nAn error occurred: %v\nPlease try again.\n", err)
			continue
		}
		if res.Transcript != "" {
			fmt.Fprintf(l.out, "\nRecognized command: '%s'\n", res.Transcript)
		}
		if res.Command != nil {
			fmt.Fprintf(l.out, "Parsed command: %s\n", res.Command)
		}
		fmt.Fprintf(l.out, "\n%s\n\n", Render(res))
		fmt.Fprintln(l.out, strings.Repeat("-", 50))
	}
}
