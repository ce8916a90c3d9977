package render

import (
	"fmt"
	"os"
	"path/filepath"

	"quickdock/internal/scenedoc"

	"github.com/anthonynsimon/bild/imgio"
)

// SavePNG renders the document and writes the result as a PNG, creating the
// target directory if needed.
func SavePNG(doc *scenedoc.Document, path string, opts Options) error {
	img, err := Render(doc, opts)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("render: create output dir: %w", err)
		}
	}
	if err := imgio.Save(path, img, imgio.PNGEncoder()); err != nil {
		return fmt.Errorf("render: write %s: %w", path, err)
	}
	return nil
}
