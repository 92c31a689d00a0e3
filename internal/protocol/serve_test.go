package protocol

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/sekai-tl/sekai-core/core/chardet"
)

func TestServe(t *testing.T) {
	input := strings.Join([]string{
		`{"cmd":"ping","id":1}`,
		``, // blank lines are skipped
		`{"cmd":"parse_text","id":2,"payload":{"text":"Hi"}}`,
		`not json at all`,
		`{"cmd":"rebuild_text","id":3,"payload":{"entries":[{"index":0,"kind":"text","content":"Hi"}]}}`,
	}, "\n") + "\n"

	var out bytes.Buffer
	h := NewHandler(chardet.NewDetector())
	if err := Serve(context.Background(), strings.NewReader(input), &out, h); err != nil {
		t.Fatal(err)
	}

	var responses []map[string]any
	scanner := bufio.NewScanner(&out)
	for scanner.Scan() {
		var resp map[string]any
		if err := json.Unmarshal(scanner.Bytes(), &resp); err != nil {
			t.Fatalf("response line is not JSON: %q", scanner.Text())
		}
		responses = append(responses, resp)
	}

	if len(responses) != 4 {
		t.Fatalf("got %d responses, want 4: %v", len(responses), responses)
	}

	if responses[0]["status"] != "ok" || responses[0]["id"] != float64(1) {
		t.Errorf("ping response: %v", responses[0])
	}
	if responses[1]["status"] != "ok" || responses[1]["id"] != float64(2) {
		t.Errorf("parse response: %v", responses[1])
	}
	if responses[2]["status"] != "error" {
		t.Errorf("invalid json should answer with an error: %v", responses[2])
	}
	if _, hasID := responses[2]["id"]; hasID {
		t.Errorf("unparseable request cannot echo an id: %v", responses[2])
	}
	if responses[3]["status"] != "ok" || responses[3]["id"] != float64(3) {
		t.Errorf("rebuild response: %v", responses[3])
	}
}

func TestServeEmptyInput(t *testing.T) {
	var out bytes.Buffer
	h := NewHandler(chardet.NewDetector())
	if err := Serve(context.Background(), strings.NewReader(""), &out, h); err != nil {
		t.Fatal(err)
	}
	if out.Len() != 0 {
		t.Errorf("no requests should produce no responses, got %q", out.String())
	}
}

func TestServeOneResponsePerLine(t *testing.T) {
	input := strings.Repeat(`{"cmd":"ping"}`+"\n", 10)
	var out bytes.Buffer
	h := NewHandler(chardet.NewDetector())
	if err := Serve(context.Background(), strings.NewReader(input), &out, h); err != nil {
		t.Fatal(err)
	}
	lines := strings.Count(out.String(), "\n")
	if lines != 10 {
		t.Errorf("got %d response lines, want 10", lines)
	}
}
