package protocol

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/zeebo/blake3"

	"github.com/sekai-tl/sekai-core/core/chardet"
	"github.com/sekai-tl/sekai-core/core/entry"
	coreerrors "github.com/sekai-tl/sekai-core/core/errors"
	"github.com/sekai-tl/sekai-core/core/parser"
	"github.com/sekai-tl/sekai-core/core/qa"
	"github.com/sekai-tl/sekai-core/core/rebuild"
	"github.com/sekai-tl/sekai-core/internal/fileutil"
	"github.com/sekai-tl/sekai-core/internal/logging"
)

// Handler dispatches protocol requests to the core. It holds only the
// detector (static weight table), so one Handler serves any number of
// requests.
type Handler struct {
	detector *chardet.Detector

	// readInput is injectable for testing path resolution.
	readInput func(string) ([]byte, error)
}

// NewHandler returns a Handler backed by the given detector.
func NewHandler(d *chardet.Detector) *Handler {
	return &Handler{
		detector:  d,
		readInput: fileutil.ReadInput,
	}
}

// Handle processes one raw request line and returns the response. A
// panic in any command handler is recovered into an internal error
// response: one malformed input must not take the process down for
// other requests.
func (h *Handler) Handle(ctx context.Context, line []byte) (resp Response) {
	var req Request
	if err := json.Unmarshal(line, &req); err != nil {
		return Response{Status: StatusError, Message: "invalid json", Kind: KindInvalidInput}
	}

	defer func() {
		if r := recover(); r != nil {
			logging.ErrorContext(ctx, "handler panic", "cmd", req.Cmd, "panic", fmt.Sprint(r))
			resp = fail(req.ID, coreerrors.NewInternal("dispatcher", fmt.Sprintf("panic in %q handler", req.Cmd)))
		}
	}()

	switch req.Cmd {
	case "ping":
		return ok(req.ID, map[string]string{"message": "sekai-core alive"})
	case "parse_text":
		return h.handleParse(ctx, req)
	case "rebuild_text":
		return h.handleRebuild(ctx, req)
	case "run_qa":
		return h.handleQA(ctx, req)
	case "detect_encoding", "encoding.detect":
		return h.handleDetect(ctx, req)
	default:
		return fail(req.ID, coreerrors.NewValidation("cmd", fmt.Sprintf("unknown command %q", req.Cmd)))
	}
}

func (h *Handler) handleParse(ctx context.Context, req Request) Response {
	var payload struct {
		Text *string `json:"text"`
	}
	if err := decodePayload(req.Payload, &payload); err != nil {
		return fail(req.ID, err)
	}
	if payload.Text == nil {
		return fail(req.ID, coreerrors.NewValidation("text", "payload.text is required"))
	}

	entries, err := parser.Segment(*payload.Text)
	if err != nil {
		return fail(req.ID, err)
	}
	if entries == nil {
		entries = []entry.CoreEntry{}
	}
	logging.DebugContext(ctx, "parsed text", "bytes", len(*payload.Text), "entries", len(entries))
	return ok(req.ID, map[string]any{"entries": entries})
}

func (h *Handler) handleRebuild(ctx context.Context, req Request) Response {
	entries, err := entriesFromPayload(req.Payload)
	if err != nil {
		return fail(req.ID, err)
	}

	text, err := rebuild.Rebuild(entries)
	if err != nil {
		return fail(req.ID, err)
	}
	logging.DebugContext(ctx, "rebuilt text", "entries", len(entries), "bytes", len(text))
	return ok(req.ID, map[string]string{"text": text})
}

func (h *Handler) handleQA(ctx context.Context, req Request) Response {
	entries, err := entriesFromPayload(req.Payload)
	if err != nil {
		return fail(req.ID, err)
	}

	issues := qa.Run(entries)
	logging.DebugContext(ctx, "qa complete", "entries", len(entries), "issues", len(issues))
	return ok(req.ID, map[string]any{"issues": issues})
}

func (h *Handler) handleDetect(ctx context.Context, req Request) Response {
	var payload struct {
		Path *string `json:"path"`
	}
	if err := decodePayload(req.Payload, &payload); err != nil {
		return fail(req.ID, err)
	}
	if payload.Path == nil || *payload.Path == "" {
		return fail(req.ID, coreerrors.NewValidation("path", "payload.path is required"))
	}

	data, err := h.readInput(*payload.Path)
	if err != nil {
		return fail(req.ID, err)
	}

	digest := blake3.Sum256(data)
	result := h.detector.Detect(data)
	logging.InfoContext(ctx, "encoding detected",
		"path", *payload.Path,
		"bytes", len(data),
		"digest", hex.EncodeToString(digest[:])[:16],
		"best", result.Best,
		"confidence", result.Confidence,
	)
	if result.Uncertain() {
		logging.WarnContext(ctx, "low detection confidence",
			"path", *payload.Path, "confidence", result.Confidence)
	}
	return ok(req.ID, result)
}

// decodePayload strictly decodes a command payload. A missing payload
// decodes as the zero value so required-field checks fire uniformly.
func decodePayload(raw json.RawMessage, into any) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, into); err != nil {
		var ve *coreerrors.ValidationError
		if errors.As(err, &ve) {
			return ve
		}
		return coreerrors.NewValidation("payload", err.Error())
	}
	return nil
}

func entriesFromPayload(raw json.RawMessage) ([]entry.CoreEntry, error) {
	var payload struct {
		Entries *[]entry.CoreEntry `json:"entries"`
	}
	if err := decodePayload(raw, &payload); err != nil {
		return nil, err
	}
	if payload.Entries == nil {
		return nil, coreerrors.NewValidation("entries", "payload.entries is required")
	}
	return *payload.Entries, nil
}
