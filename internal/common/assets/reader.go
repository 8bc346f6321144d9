// Package assets reads the kiosk's bundled public files: the gallery images
// and the message of the day.
package assets

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	apperrors "timeclock-kiosk/internal/common/errors"
)

// ImageURLPrefix is prepended to every listed image file name.
const ImageURLPrefix = "/images/"

var imageExtensions = map[string]bool{
	"jpg":  true,
	"jpeg": true,
	"png":  true,
}

// Reader resolves files relative to a fixed base directory.
type Reader struct {
	basePath string
}

func NewReader(basePath string) *Reader {
	return &Reader{basePath: basePath}
}

func (r *Reader) ImageDir() string {
	return filepath.Join(r.basePath, "public", "images")
}

func (r *Reader) MessagePath() string {
	return filepath.Join(r.basePath, "public", "message.txt")
}

// ListImages returns "/images/<name>" for each jpg, jpeg or png file in the
// image directory, in the order the directory yields them.
func (r *Reader) ListImages() ([]string, error) {
	dir := r.ImageDir()

	f, err := os.Open(dir)
	if err != nil {
		return nil, apperrors.NewFileReadError(dir, err)
	}
	defer f.Close()

	// f.ReadDir keeps directory order; os.ReadDir would sort.
	entries, err := f.ReadDir(-1)
	if err != nil {
		return nil, apperrors.NewFileReadError(dir, err)
	}

	images := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if imageExtensions[extension(entry.Name())] {
			images = append(images, ImageURLPrefix+entry.Name())
		}
	}
	return images, nil
}

// ReadMessage returns the full contents of public/message.txt.
func (r *Reader) ReadMessage() (string, error) {
	path := r.MessagePath()

	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return "", apperrors.NewFileNotFoundError("Message", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", apperrors.NewFileReadError(path, err)
	}
	if !utf8.Valid(data) {
		return "", apperrors.NewFileReadError(path, fmt.Errorf("%s: contents are not valid UTF-8", path))
	}
	return string(data), nil
}

// extension returns the text after the last dot, or "" when the name has no
// dot or only a leading one.
func extension(name string) string {
	idx := strings.LastIndex(name, ".")
	if idx <= 0 {
		return ""
	}
	return name[idx+1:]
}
