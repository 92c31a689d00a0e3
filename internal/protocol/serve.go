package protocol

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/sekai-tl/sekai-core/internal/logging"
)

// maxLineBytes bounds a single request line. Script files arrive inline
// in parse_text payloads, so the limit is generous.
const maxLineBytes = 64 << 20

// Serve runs the protocol loop: one JSON request per line on r, one
// JSON response per line on w, flushed after every response. Blank
// lines are skipped. Requests are handled serially; the cores are
// stateless, so any queuing policy belongs here and the simplest one
// wins. Serve returns when r is exhausted or w fails.
func Serve(ctx context.Context, r io.Reader, w io.Writer, h *Handler) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)
	out := bufio.NewWriter(w)

	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		reqCtx := logging.WithRequestID(ctx, uuid.NewString())
		start := time.Now()
		resp := h.Handle(reqCtx, line)
		logRequest(reqCtx, line, resp, time.Since(start))

		if err := writeResponse(out, resp); err != nil {
			return err
		}
	}
	return scanner.Err()
}

func writeResponse(out *bufio.Writer, resp Response) error {
	data, err := json.Marshal(resp)
	if err != nil {
		// Responses are built from plain values; this is a defect.
		data, _ = json.Marshal(Response{
			Status:  StatusError,
			Message: "internal core error",
			Kind:    KindInternal,
		})
	}
	if _, err := out.Write(data); err != nil {
		return err
	}
	if err := out.WriteByte('\n'); err != nil {
		return err
	}
	return out.Flush()
}

func logRequest(ctx context.Context, line []byte, resp Response, elapsed time.Duration) {
	var req Request
	cmd := "?"
	if err := json.Unmarshal(line, &req); err == nil && req.Cmd != "" {
		cmd = req.Cmd
	}
	logging.Request(ctx, cmd, resp.Status, elapsed)
}
