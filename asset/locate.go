package asset

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"
)

// Number of header bytes needed by the filetype matchers.
const sniffLen = 262

// Locate resolves path against baseDir (when relative) and reports whether
// the resolved file exists on disk. Blender-style "//" relative prefixes
// are treated as relative to baseDir.
func Locate(path, baseDir string) (string, bool) {
	if path == "" {
		return "", false
	}

	resolved := strings.TrimPrefix(path, "//")
	if !filepath.IsAbs(resolved) && baseDir != "" {
		resolved = filepath.Join(baseDir, resolved)
	}
	resolved = filepath.Clean(resolved)

	info, err := os.Stat(resolved)
	if err != nil || info.IsDir() {
		return resolved, false
	}
	return resolved, true
}

// IsImage sniffs the file header and returns true if it contains a known
// image format. HDR radiance maps are not covered by the sniffer and are
// matched on their magic string instead.
func IsImage(path string) bool {
	header, err := readHeader(path)
	if err != nil {
		return false
	}
	if filetype.IsImage(header) {
		return true
	}
	return bytes.HasPrefix(header, []byte("#?RADIANCE")) || bytes.HasPrefix(header, []byte("#?RGBE"))
}

// IsIES returns true if the file is an IES photometric profile.
func IsIES(path string) bool {
	if !strings.EqualFold(filepath.Ext(path), ".ies") {
		return false
	}
	header, err := readHeader(path)
	if err != nil {
		return false
	}
	return bytes.HasPrefix(bytes.TrimSpace(header), []byte("IESNA"))
}

func readHeader(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	header := make([]byte, sniffLen)
	n, err := io.ReadFull(f, header)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, err
	}
	return header[:n], nil
}
