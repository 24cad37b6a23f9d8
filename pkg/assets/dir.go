// Package assets resolves the image and audio names of a book to files on disk.
package assets

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/talebox/pkg/cipher"
)

// Dir serves assets from an image folder and an audio folder.
// When Protected is set, files are deciphered on the fly.
type Dir struct {
	Images    string
	Audio     string
	Protected bool
}

// OpenImage opens the image called name.
func (d Dir) OpenImage(name string) (io.ReadCloser, error) {
	return d.open(d.Images, name)
}

// OpenAudio opens the audio file called name.
func (d Dir) OpenAudio(name string) (io.ReadCloser, error) {
	return d.open(d.Audio, name)
}

func (d Dir) open(base, name string) (io.ReadCloser, error) {
	path, err := join(base, name)
	if err != nil {
		return nil, err
	}
	if d.Protected {
		return cipher.Open(path)
	}
	return os.Open(path)
}

// join resolves name below base and refuses names escaping it.
func join(base, name string) (string, error) {
	rel := filepath.Clean(filepath.FromSlash(name))
	if name == "" || filepath.IsAbs(rel) || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid asset name %q", name)
	}
	return filepath.Join(base, rel), nil
}
