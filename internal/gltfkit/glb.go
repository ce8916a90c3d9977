package gltfkit

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"quickdock/internal/scenedoc"
)

// GLB container framing, per the glTF 2.0 binary layout.
const (
	glbMagic   = 0x46546C67 // "glTF"
	glbVersion = 2
	chunkJSON  = 0x4E4F534A // "JSON"
	chunkBIN   = 0x004E4942 // "BIN\0"
)

// Export encodes the document and writes it to path, creating the output
// directory if needed. Binary output uses the GLB container; otherwise the
// buffer is embedded in the JSON as a data URI so the file stays standalone.
func Export(doc *scenedoc.Document, path string, opts Options) error {
	g, bin, err := Encode(doc, opts)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("gltfkit: create output dir: %w", err)
		}
	}

	var out bytes.Buffer
	if opts.Binary {
		if err := WriteGLB(&out, g, bin); err != nil {
			return err
		}
	} else {
		if len(bin) > 0 {
			g.Buffers[0].URI = "data:application/octet-stream;base64," + base64.StdEncoding.EncodeToString(bin)
		}
		text, err := json.Marshal(g)
		if err != nil {
			return fmt.Errorf("gltfkit: marshal document: %w", err)
		}
		out.Write(text)
	}

	if err := os.WriteFile(path, out.Bytes(), 0o644); err != nil {
		return fmt.Errorf("gltfkit: write %s: %w", path, err)
	}
	return nil
}

// WriteGLB frames a document and its binary buffer as a GLB stream. Both
// chunks are padded to four bytes as the container requires, JSON with
// spaces and the buffer with zeros.
func WriteGLB(w io.Writer, doc *Document, bin []byte) error {
	text, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("gltfkit: marshal document: %w", err)
	}
	for len(text)%4 != 0 {
		text = append(text, ' ')
	}
	padded := bin
	if rem := len(bin) % 4; rem != 0 {
		padded = append(append([]byte(nil), bin...), make([]byte, 4-rem)...)
	}

	total := 12 + 8 + len(text)
	if len(padded) > 0 {
		total += 8 + len(padded)
	}
	header := [3]uint32{glbMagic, glbVersion, uint32(total)}
	if err := binary.Write(w, binary.LittleEndian, header); err != nil {
		return fmt.Errorf("gltfkit: write container header: %w", err)
	}
	if err := writeChunk(w, chunkJSON, text); err != nil {
		return err
	}
	if len(padded) > 0 {
		if err := writeChunk(w, chunkBIN, padded); err != nil {
			return err
		}
	}
	return nil
}

func writeChunk(w io.Writer, kind uint32, data []byte) error {
	head := [2]uint32{uint32(len(data)), kind}
	if err := binary.Write(w, binary.LittleEndian, head); err != nil {
		return fmt.Errorf("gltfkit: write chunk header: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("gltfkit: write chunk: %w", err)
	}
	return nil
}

// ReadGLB parses a GLB stream back into a document and its binary buffer.
// It is the inverse of WriteGLB and exists mostly so tests and tooling can
// inspect exported files without a second glTF dependency.
func ReadGLB(r io.Reader) (*Document, []byte, error) {
	var header [3]uint32
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, nil, fmt.Errorf("gltfkit: read container header: %w", err)
	}
	if header[0] != glbMagic {
		return nil, nil, fmt.Errorf("gltfkit: bad magic %#x", header[0])
	}
	if header[1] != glbVersion {
		return nil, nil, fmt.Errorf("gltfkit: unsupported container version %d", header[1])
	}

	var doc *Document
	var bin []byte
	for {
		var chunk [2]uint32
		if err := binary.Read(r, binary.LittleEndian, &chunk); err != nil {
			if err == io.EOF {
				break
			}
			return nil, nil, fmt.Errorf("gltfkit: read chunk header: %w", err)
		}
		data := make([]byte, chunk[0])
		if _, err := io.ReadFull(r, data); err != nil {
			return nil, nil, fmt.Errorf("gltfkit: read chunk: %w", err)
		}
		switch chunk[1] {
		case chunkJSON:
			doc = &Document{}
			if err := json.Unmarshal(data, doc); err != nil {
				return nil, nil, fmt.Errorf("gltfkit: parse document chunk: %w", err)
			}
		case chunkBIN:
			bin = data
		}
	}
	if doc == nil {
		return nil, nil, fmt.Errorf("gltfkit: container has no document chunk")
	}
	return doc, bin, nil
}
