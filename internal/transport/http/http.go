// Package http implements the HTTP transport for voxlist.
//
// This transport exposes a small REST API: POST /dispatch runs an utterance
// (text or raw audio) through the pipeline, POST /parse only parses text, and
// /swagger/ serves the API docs. It suits web clients, phones and smart
// speakers that prefer plain HTTP.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/nadzzz/voxlist/docs" // registers the swagger spec
	"github.com/nadzzz/voxlist/internal/command"
	"github.com/nadzzz/voxlist/internal/message"
	"github.com/nadzzz/voxlist/internal/transcribe"
	"github.com/nadzzz/voxlist/internal/transport"
)

// maxAudioBytes bounds raw audio uploads.
const maxAudioBytes = 25 << 20

// maxJSONBytes bounds JSON messages, which carry audio base64 encoded.
const maxJSONBytes = maxAudioBytes/3*4 + 64<<10

// Transport implements transport.Transport over HTTP.
type Transport struct {
	addr   string
	server *http.Server
}

// New creates a new HTTP transport on the given port.
func New(port int) *Transport {
	return &Transport{addr: fmt.Sprintf(":%d", port)}
}

// Name returns the transport identifier.
func (t *Transport) Name() string { return "http" }

// Listen starts the HTTP server and routes incoming requests to the handler.
func (t *Transport) Listen(ctx context.Context, handler transport.Handler) error {
	lis, err := net.Listen("tcp", t.addr)
	if err != nil {
		return fmt.Errorf("http listen: %w", err)
	}
	return t.Serve(ctx, lis, handler)
}

// Serve accepts connections on lis until ctx is cancelled.
func (t *Transport) Serve(ctx context.Context, lis net.Listener, handler transport.Handler) error {
	t.server = &http.Server{
		Handler:           Routes(handler),
		ReadHeaderTimeout: 10 * time.Second,
	}

	slog.Info("http transport listening", "addr", lis.Addr().String())

	go func() {
		<-ctx.Done()
		slog.Info("http transport shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = t.server.Shutdown(shutdownCtx)
	}()

	if err := t.server.Serve(lis); err != http.ErrServerClosed {
		return fmt.Errorf("http serve: %w", err)
	}
	return nil
}

// Routes returns the transport's request multiplexer.
func Routes(handler transport.Handler) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /dispatch", func(w http.ResponseWriter, r *http.Request) {
		handleDispatch(w, r, handler)
	})
	mux.HandleFunc("POST /parse", handleParse)

	// Swagger UI serves the registered OpenAPI docs.
	mux.Handle("GET /swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	return mux
}

// handleDispatch processes a POST /dispatch request.
//
// @Summary     Dispatch a spoken or typed playlist command
// @Description Accepts a JSON message (pre-transcribed text or base64 audio) or raw audio bytes.
// @Description The utterance is transcribed, parsed and dispatched against the playlist service.
// @Description Domain failures (unrecognized phrasing, unknown playlist) are reported in the body with status 200.
// @Tags        dispatch
// @Accept      json
// @Accept      audio/wav
// @Accept      audio/ogg
// @Produce     json
// @Param       message           body    message.Message  true   "Dispatch request (JSON). For raw audio, POST the bytes directly with the appropriate Content-Type."
// @Param       X-Voxlist-Source  header  string           false  "Sender identifier (used with raw audio uploads)"
// @Success     200  {object}  message.TurnResult  "Turn outcome"
// @Failure     400  {string}  string  "Invalid request body"
// @Failure     413  {string}  string  "Request body too large"
// @Failure     500  {string}  string  "Internal processing error"
// @Router      /dispatch [post]
func handleDispatch(w http.ResponseWriter, r *http.Request, handler transport.Handler) {
	var msg message.Message

	contentType := r.Header.Get("Content-Type")
	switch {
	case strings.HasPrefix(contentType, "application/json"):
		body := http.MaxBytesReader(w, r.Body, maxJSONBytes)
		if err := json.NewDecoder(body).Decode(&msg); err != nil {
			bodyError(w, "invalid json", err)
			return
		}
	default:
		// Treat body as raw audio; read the sender from headers.
		audio, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxAudioBytes))
		if err != nil {
			bodyError(w, "reading audio", err)
			return
		}
		msg.Audio = audio
		msg.ContentType = contentType
		msg.Source = r.Header.Get("X-Voxlist-Source")
		msg.Language = r.Header.Get("Content-Language")
	}

	result, err := handler(r.Context(), &msg)
	if err != nil {
		slog.Error("dispatch failed", "error", err)
		http.Error(w, "dispatch error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, result)
}

// bodyError answers 413 when the body hit its size limit and 400 otherwise.
func bodyError(w http.ResponseWriter, what string, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		http.Error(w, fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit), http.StatusRequestEntityTooLarge)
		return
	}
	http.Error(w, what+": "+err.Error(), http.StatusBadRequest)
}

// ParseRequest is the body of POST /parse.
type ParseRequest struct {
	Text string `json:"text" example:"add thriller by michael jackson to my halloween playlist"`
}

// ParseResponse is the answer of POST /parse.
type ParseResponse struct {
	Recognized bool             `json:"recognized"`
	Command    *command.Command `json:"command,omitempty"`
}

// handleParse processes a POST /parse request.
//
// @Summary     Parse an utterance without dispatching it
// @Description Runs the command parser on the normalized text and returns the structured command, if any.
// @Tags        parse
// @Accept      json
// @Produce     json
// @Param       request  body      ParseRequest   true  "Utterance text"
// @Success     200      {object}  ParseResponse  "Parse result"
// @Failure     400      {string}  string         "Invalid request body"
// @Router      /parse [post]
func handleParse(w http.ResponseWriter, r *http.Request) {
	var req ParseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json: "+err.Error(), http.StatusBadRequest)
		return
	}

	var resp ParseResponse
	if cmd, ok := command.Parse(transcribe.Normalize(req.Text)); ok {
		resp = ParseResponse{Recognized: true, Command: &cmd}
	}
	writeJSON(w, resp)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// Close gracefully shuts down the HTTP server.
func (t *Transport) Close() error {
	if t.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return t.server.Shutdown(ctx)
	}
	return nil
}
