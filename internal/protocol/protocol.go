// Package protocol implements the line-oriented JSON request/response
// protocol that fronts the engine. Each inbound line is one request;
// each outbound line is one response with the request id echoed
// verbatim, including its absence. The dispatcher is thin glue: all
// real work happens in the core packages.
package protocol

import (
	"encoding/json"
	"errors"

	coreerrors "github.com/sekai-tl/sekai-core/core/errors"
)

// Request is one inbound protocol message.
type Request struct {
	Cmd     string          `json:"cmd"`
	ID      json.RawMessage `json:"id,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response is one outbound protocol message.
type Response struct {
	ID      json.RawMessage `json:"id,omitempty"`
	Status  string          `json:"status"`
	Payload any             `json:"payload,omitempty"`
	Message string          `json:"message,omitempty"`
	Kind    string          `json:"kind,omitempty"`
}

// Status values.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Machine-readable error kinds.
const (
	KindInvalidInput   = "invalid_input"
	KindDuplicateIndex = "duplicate_index"
	KindMissingIndex   = "missing_index"
	KindInternal       = "internal"
)

func ok(id json.RawMessage, payload any) Response {
	return Response{ID: id, Status: StatusOK, Payload: payload}
}

func fail(id json.RawMessage, err error) Response {
	return Response{ID: id, Status: StatusError, Message: err.Error(), Kind: errKind(err)}
}

// errKind maps a core error to its wire kind tag.
func errKind(err error) string {
	switch {
	case errors.Is(err, coreerrors.ErrDuplicateIndex):
		return KindDuplicateIndex
	case errors.Is(err, coreerrors.ErrMissingIndex):
		return KindMissingIndex
	case errors.Is(err, coreerrors.ErrInternal):
		return KindInternal
	default:
		return KindInvalidInput
	}
}
