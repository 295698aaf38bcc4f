// Package turn runs one utterance through the pipeline: speech-to-text,
// parsing and dispatch. It also hosts the interactive listen loop.
//
// The processor is the single entry point used by every transport and by the
// console loop. Turns are serialised so the playlist client never serves two
// utterances at once.
package turn

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/nadzzz/voxlist/internal/command"
	"github.com/nadzzz/voxlist/internal/dispatch"
	"github.com/nadzzz/voxlist/internal/message"
	"github.com/nadzzz/voxlist/internal/observe"
	"github.com/nadzzz/voxlist/internal/transcribe"
)

// ErrNoTranscriber is returned for audio messages when no speech-to-text
// backend is configured.
var ErrNoTranscriber = errors.New("no transcriber configured for audio input")

// Dispatcher executes parsed commands.
type Dispatcher interface {
	Dispatch(ctx context.Context, cmd command.Command) dispatch.Result
}

// Processor handles turns. The zero value is not usable; use NewProcessor.
type Processor struct {
	mu sync.Mutex

	dispatcher  Dispatcher
	transcriber transcribe.Transcriber
	opts        transcribe.Opts
	metrics     *observe.Metrics
}

// Option configures a Processor.
type Option func(*Processor)

// WithTranscriber enables audio input.
func WithTranscriber(t transcribe.Transcriber) Option {
	return func(p *Processor) { p.transcriber = t }
}

// WithTranscribeOpts sets the default speech-to-text options. A message's
// Language overrides opts.Language.
func WithTranscribeOpts(opts transcribe.Opts) Option {
	return func(p *Processor) { p.opts = opts }
}

// WithMetrics records turn outcomes and transcription latency on m.
func WithMetrics(m *observe.Metrics) Option {
	return func(p *Processor) { p.metrics = m }
}

// NewProcessor creates a Processor dispatching through d.
func NewProcessor(d Dispatcher, opts ...Option) *Processor {
	p := &Processor{dispatcher: d}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Handle runs msg through the pipeline. Domain outcomes, including failed
// transcription and unrecognised phrasing, are reported in the TurnResult;
// the error is reserved for requests the processor cannot serve at all.
func (p *Processor) Handle(ctx context.Context, msg *message.Message) (*message.TurnResult, error) {
	if msg == nil {
		return nil, errors.New("nil message")
	}
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now()
	}
	if msg.HasAudio() && p.transcriber == nil {
		return nil, ErrNoTranscriber
	}

	ctx, span := observe.StartSpan(ctx, "turn.handle", trace.WithAttributes(
		attribute.String("message.id", msg.ID),
		attribute.String("message.source", msg.Source),
	))
	defer span.End()

	log := observe.Logger(ctx).With("message_id", msg.ID, "source", msg.Source)

	p.mu.Lock()
	defer p.mu.Unlock()

	res := &message.TurnResult{MessageID: msg.ID}

	text, err := p.transcript(ctx, msg)
	if err != nil {
		log.Info("utterance not transcribed", "error", err)
		res.Outcome = message.NotTranscribed
		res.Error = err.Error()
		return p.finish(ctx, res, err), nil
	}
	res.Transcript = text

	cmd, ok := command.Parse(text)
	if !ok {
		log.Info("command not recognized", "transcript", text)
		res.Outcome = message.NotRecognized
		return p.finish(ctx, res, nil), nil
	}
	res.Command = &cmd
	log.Debug("command parsed", "command", cmd.String())

	result := p.dispatcher.Dispatch(ctx, cmd)
	res.Result = &result
	if result.OK {
		res.Outcome = message.Succeeded
	} else {
		res.Outcome = message.Failed
	}
	return p.finish(ctx, res, nil), nil
}

// transcript returns the normalised text of msg, transcribing audio when
// present.
func (p *Processor) transcript(ctx context.Context, msg *message.Message) (string, error) {
	if !msg.HasAudio() {
		text := transcribe.Normalize(msg.Text)
		if text == "" {
			return "", transcribe.ErrNoSpeech
		}
		return text, nil
	}

	opts := p.opts
	if msg.Language != "" {
		opts.Language = msg.Language
	}

	start := time.Now()
	text, err := p.transcriber.Transcribe(ctx, msg.Audio, msg.ContentType, opts)
	p.metrics.RecordTranscribe(ctx, p.transcriber.Name(), err, time.Since(start))
	if err != nil {
		return "", err
	}
	// Backends normalise already; repeat it so a misbehaving one cannot leak
	// mixed case into the parser.
	text = transcribe.Normalize(text)
	if text == "" {
		return "", transcribe.ErrNoSpeech
	}
	return text, nil
}

func (p *Processor) finish(ctx context.Context, res *message.TurnResult, err error) *message.TurnResult {
	res.ResponseText = render(res, err)
	p.metrics.RecordTurn(ctx, string(res.Outcome))
	slog.Debug("turn complete", "message_id", res.MessageID, "outcome", res.Outcome)
	return res
}
