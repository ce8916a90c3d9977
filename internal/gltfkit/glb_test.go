package gltfkit

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportGLBContainer(t *testing.T) {
	doc := buildScene(t)
	path := filepath.Join(t.TempDir(), "public", "models", "drone.glb")
	require.NoError(t, Export(doc, path, WebExport))
	require.NoError(t, Export(doc, path, WebExport), "re-export over an existing directory")

	raw, err := os.ReadFile(path)
	require.NoError(t, err, "export creates missing directories")
	require.Greater(t, len(raw), 12)

	assert.Equal(t, uint32(glbMagic), binary.LittleEndian.Uint32(raw[0:4]))
	assert.Equal(t, uint32(glbVersion), binary.LittleEndian.Uint32(raw[4:8]))
	assert.Equal(t, uint32(len(raw)), binary.LittleEndian.Uint32(raw[8:12]), "header length covers the whole file")

	jsonLen := binary.LittleEndian.Uint32(raw[12:16])
	assert.Zero(t, jsonLen%4, "document chunk is padded")
	assert.Equal(t, uint32(chunkJSON), binary.LittleEndian.Uint32(raw[16:20]))

	g, bin, err := ReadGLB(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Len(t, g.Nodes, 32)
	assert.Len(t, g.Meshes, 29)
	assert.Zero(t, len(bin)%4)
	assert.GreaterOrEqual(t, len(bin), g.Buffers[0].ByteLength)
}

func TestExportTextDataURI(t *testing.T) {
	doc := buildScene(t)
	opts := WebExport
	opts.Binary = false
	path := filepath.Join(t.TempDir(), "drone.gltf")
	require.NoError(t, Export(doc, path, opts))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var g Document
	require.NoError(t, json.Unmarshal(raw, &g))
	require.Len(t, g.Buffers, 1)
	uri := g.Buffers[0].URI
	require.True(t, strings.HasPrefix(uri, "data:application/octet-stream;base64,"), "buffer is embedded")
	bin, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(uri, "data:application/octet-stream;base64,"))
	require.NoError(t, err)
	assert.Equal(t, g.Buffers[0].ByteLength, len(bin))
}

func TestWriteGLBRoundTrip(t *testing.T) {
	doc := buildScene(t)
	g, bin, err := Encode(doc, WebExport)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteGLB(&buf, g, bin))

	back, backBin, err := ReadGLB(&buf)
	require.NoError(t, err)
	assert.Len(t, back.Nodes, len(g.Nodes))
	assert.Len(t, back.Accessors, len(g.Accessors))
	assert.Equal(t, bin, backBin[:len(bin)], "padding only ever extends the buffer")
}

func TestReadGLBRejectsBadHeader(t *testing.T) {
	_, _, err := ReadGLB(bytes.NewReader([]byte("not a glb file at all")))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad magic")

	var buf bytes.Buffer
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, [3]uint32{glbMagic, 3, 12}))
	_, _, err = ReadGLB(&buf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported container version")
}

func TestReadGLBRequiresDocumentChunk(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, [3]uint32{glbMagic, glbVersion, 20}))
	require.NoError(t, writeChunk(&buf, chunkBIN, []byte{0, 0, 0, 0}))
	_, _, err := ReadGLB(&buf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no document chunk")
}
