package chardet

import (
	"bytes"
	"fmt"

	coreerrors "github.com/sekai-tl/sekai-core/core/errors"
)

// Decode converts buf to a UTF-8 string under the named candidate
// encoding. The candidate's byte-order mark, when present, is stripped.
// Illegal byte sequences become U+FFFD so no input length is ever lost.
func Decode(id string, buf []byte) (string, error) {
	c, ok := candidateByID(id)
	if !ok {
		return "", coreerrors.NewValidation("encoding", fmt.Sprintf("unknown encoding %q", id))
	}
	if len(c.BOM) > 0 && bytes.HasPrefix(buf, c.BOM) {
		buf = buf[len(c.BOM):]
	}
	if len(buf) == 0 {
		return "", nil
	}
	out, err := c.enc.NewDecoder().Bytes(buf)
	if err != nil {
		return "", coreerrors.Wrapf(err, "decoding as %s", id)
	}
	return string(out), nil
}
