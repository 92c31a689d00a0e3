// Package fileutil resolves input paths to byte buffers for the engine.
package fileutil

import (
	"io"
	"os"
	"strings"

	"github.com/ulikunitz/xz"

	coreerrors "github.com/sekai-tl/sekai-core/core/errors"
)

// ReadInput reads a script file into memory. Files with an .xz suffix
// are decompressed transparently, so archived script dumps can be fed to
// detection without unpacking them first.
func ReadInput(path string) ([]byte, error) {
	if path == "" {
		return nil, coreerrors.NewValidation("path", "path is required")
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, coreerrors.NewIO("open", path, err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".xz") {
		xr, err := xz.NewReader(f)
		if err != nil {
			return nil, coreerrors.NewIO("decompress", path, err)
		}
		r = xr
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, coreerrors.NewIO("read", path, err)
	}
	return data, nil
}
