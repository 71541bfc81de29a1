package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/softmesh/graphql/gqlerror"
	"github.com/softmesh/graphql/parser"
	"github.com/softmesh/graphql/validate"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("github.com/softmesh/graphql/handler")

// CheckRequest carries one GraphQL document to diagnose.
type CheckRequest struct {
	Source string `json:"source"`
}

// Diagnostic is one parse or validation finding, in the shape editor
// integrations consume.
type Diagnostic struct {
	Severity string `json:"severity"`
	Kind     string `json:"kind"`
	Message  string `json:"message"`
}

// CheckResponse reports whether a document is clean along with every
// diagnostic found. Diagnostics is always present, possibly empty.
type CheckResponse struct {
	Valid       bool         `json:"valid"`
	Diagnostics []Diagnostic `json:"diagnostics"`
}

// Check handles one-shot diagnostics requests over HTTP.
func Check(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "handler.Check")
	defer span.End()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "unable to read body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	var req CheckRequest
	if err := json.Unmarshal(body, &req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	resp := diagnose(req.Source)
	span.SetAttributes(
		attribute.Int("graphql.source_bytes", len(req.Source)),
		attribute.Bool("graphql.valid", resp.Valid),
		attribute.Int("graphql.diagnostics", len(resp.Diagnostics)),
	)
	slog.DebugContext(ctx, "checked document",
		"bytes", len(req.Source),
		"valid", resp.Valid,
		"diagnostics", len(resp.Diagnostics))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// upgrader upgrades HTTP connections to WebSocket connections.
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Socket streams diagnostics over a WebSocket connection: one CheckResponse
// per received CheckRequest, until the client closes the connection.
func Socket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already replied with an HTTP error.
		slog.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				slog.Warn("websocket read failed", "error", err)
			}
			return
		}

		var req CheckRequest
		if err := json.Unmarshal(msg, &req); err != nil {
			bad := CheckResponse{Diagnostics: []Diagnostic{{
				Severity: "error",
				Kind:     "bad-request",
				Message:  "invalid JSON payload",
			}}}
			if err := conn.WriteJSON(bad); err != nil {
				return
			}
			continue
		}

		_, span := tracer.Start(r.Context(), "handler.Socket")
		resp := diagnose(req.Source)
		span.SetAttributes(
			attribute.Int("graphql.source_bytes", len(req.Source)),
			attribute.Bool("graphql.valid", resp.Valid),
			attribute.Int("graphql.diagnostics", len(resp.Diagnostics)),
		)
		span.End()

		if err := conn.WriteJSON(resp); err != nil {
			slog.Warn("websocket write failed", "error", err)
			return
		}
	}
}

// diagnose parses and validates one document. A parse error yields a single
// diagnostic; a parsed document yields one diagnostic per validation error.
func diagnose(source string) CheckResponse {
	doc, err := parser.Parse([]byte(source))
	if err != nil {
		return CheckResponse{Diagnostics: []Diagnostic{parseDiagnostic(err)}}
	}

	errs := validate.Validate(doc)
	resp := CheckResponse{
		Valid:       len(errs) == 0,
		Diagnostics: make([]Diagnostic, 0, len(errs)),
	}
	for _, e := range errs {
		resp.Diagnostics = append(resp.Diagnostics, Diagnostic{
			Severity: "error",
			Kind:     e.Kind.String(),
			Message:  e.Error(),
		})
	}
	return resp
}

func parseDiagnostic(err error) Diagnostic {
	kind := "parse-error"
	var charErr *gqlerror.ExpectedCharError
	var tokenErr *gqlerror.ExpectedTokenError
	switch {
	case errors.Is(err, parser.ErrTooDeep):
		kind = "max-depth"
	case errors.As(err, &charErr):
		kind = "unexpected-character"
	case errors.As(err, &tokenErr):
		kind = "unexpected-token"
	}
	return Diagnostic{Severity: "error", Kind: kind, Message: err.Error()}
}
