// Package filex holds small filesystem helpers used by the CLI.
package filex

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

var (
	ErrTooLarge = errors.New("file too large")
	ErrNotImage = errors.New("not an image")
)

// EnsureParentDir creates the directory that will hold path, so that a
// database file can be opened there.
func EnsureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o770); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return nil
}

// ReadImage reads an image file of at most maxBytes and returns its content
// and MIME type, sniffed from the content and falling back to the extension.
func ReadImage(path string, maxBytes int64) ([]byte, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxBytes+1))
	if err != nil {
		return nil, "", fmt.Errorf("read %s: %w", path, err)
	}
	if int64(len(data)) > maxBytes {
		return nil, "", fmt.Errorf("%w: %s exceeds %d bytes", ErrTooLarge, path, maxBytes)
	}

	ct := http.DetectContentType(data)
	if !strings.HasPrefix(ct, "image/") {
		ct = mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	}
	if !strings.HasPrefix(ct, "image/") {
		return nil, "", fmt.Errorf("%w: %s", ErrNotImage, path)
	}
	return data, ct, nil
}

// ExtensionFor returns a file extension for an image MIME type.
func ExtensionFor(contentType string) string {
	switch strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0]) {
	case "image/png":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	case "image/svg+xml":
		return ".svg"
	}
	return ".img"
}
