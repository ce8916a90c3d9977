package render

import (
	"image"
	"path/filepath"
	"testing"

	"quickdock/internal/meshgen"
	"quickdock/internal/scenedoc"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testDoc sets up a document with a camera five units up the Z axis looking
// straight down -Z at the origin, over a mid-blue world background.
func testDoc(w, h int) *scenedoc.Document {
	doc := scenedoc.New()
	doc.Render = scenedoc.RenderSettings{Width: w, Height: h}
	doc.EnsureWorld(mgl32.Vec3{0.25, 0.5, 0.75}, 1)
	doc.SetCamera("Cam", mgl32.Vec3{0, 0, 5}, mgl32.QuatIdent(), 40)
	return doc
}

func TestRenderBackgroundOnly(t *testing.T) {
	doc := testDoc(64, 48)
	img2, err := Render(doc, Options{})
	require.NoError(t, err)

	assert.Equal(t, image.Rect(0, 0, 64, 48), img2.Bounds())
	want := toneMap(mgl32.Vec3{0.25, 0.5, 0.75})
	assert.Equal(t, want, img2.RGBAAt(0, 0))
	assert.Equal(t, want, img2.RGBAAt(32, 24))
	assert.Equal(t, want, img2.RGBAAt(63, 47))
}

func TestRenderCubeInFront(t *testing.T) {
	doc := testDoc(64, 64)
	cube := doc.NewMeshObject("Cube", meshgen.Cube("Cube", 1))
	cube.Material = doc.NewMaterial("Red", mgl32.Vec3{0.9, 0.1, 0.1}, 0.5, 0)
	doc.AddLight("Key", scenedoc.LightPoint, mgl32.Vec3{2, 2, 4}, 800, 0)

	img2, err := Render(doc, Options{})
	require.NoError(t, err)

	bg := img2.RGBAAt(1, 1)
	center := img2.RGBAAt(32, 32)
	assert.NotEqual(t, bg, center, "cube should cover the image center")
	assert.Greater(t, int(center.R), int(center.G), "lit cube keeps its red tint")
}

func TestRenderDepthOrder(t *testing.T) {
	doc := testDoc(48, 48)

	front := doc.NewMeshObject("Front", meshgen.Cube("Front", 1))
	front.Position = mgl32.Vec3{0, 0, 2}
	front.Material = doc.NewMaterial("Red", mgl32.Vec3{1, 0, 0}, 0.5, 0)

	back := doc.NewMeshObject("Back", meshgen.Cube("Back", 1))
	back.Material = doc.NewMaterial("Green", mgl32.Vec3{0, 1, 0}, 0.5, 0)

	img2, err := Render(doc, Options{})
	require.NoError(t, err)

	center := img2.RGBAAt(24, 24)
	assert.Greater(t, int(center.R), int(center.G), "the nearer cube wins the depth test")
}

func TestRenderSupersampleKeepsOutputSize(t *testing.T) {
	doc := testDoc(40, 30)
	img2, err := Render(doc, Options{Supersample: 2})
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 40, 30), img2.Bounds())
}

func TestRenderRequiresCamera(t *testing.T) {
	doc := scenedoc.New()
	doc.Render = scenedoc.RenderSettings{Width: 8, Height: 8}
	_, err := Render(doc, Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no camera")
}

func TestShadeFacingLight(t *testing.T) {
	mat := &scenedoc.Material{BaseColor: mgl32.Vec4{0.5, 0.5, 0.5, 1}, Roughness: 0.5}
	lamp := &scenedoc.Light{Kind: scenedoc.LightPoint, Position: mgl32.Vec3{0, 0, 2}, Color: mgl32.Vec3{1, 1, 1}, Energy: 100}
	eye := mgl32.Vec3{0, 0, 1}

	lit := shadePoint(mgl32.Vec3{}, mgl32.Vec3{0, 0, 1}, eye, mat, []*scenedoc.Light{lamp})
	side := shadePoint(mgl32.Vec3{}, mgl32.Vec3{0, 1, 0}, eye, mat, []*scenedoc.Light{lamp})
	assert.Greater(t, lit.X(), side.X(), "a face toward the lamp is brighter")
}

func TestSavePNGCreatesDirectory(t *testing.T) {
	doc := testDoc(16, 12)
	path := filepath.Join(t.TempDir(), "previews", "nested", "still.png")
	require.NoError(t, SavePNG(doc, path, Options{}))

	img2, err := imgio.Open(path)
	require.NoError(t, err)
	assert.Equal(t, 16, img2.Bounds().Dx())
	assert.Equal(t, 12, img2.Bounds().Dy())
}
