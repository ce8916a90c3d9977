package sceneio

import (
	"os"
	"path/filepath"
	"testing"

	"quickdock/internal/dronescene"
	"quickdock/internal/scenedoc"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScene(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scene.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestSaveLoadRoundTrip(t *testing.T) {
	doc := scenedoc.New()
	_, _, err := dronescene.Build(doc, dronescene.DefaultLayout())
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "scenes", "dock.yaml")
	require.NoError(t, Save(doc, path))

	got, err := Load(path)
	require.NoError(t, err)

	require.Len(t, got.Objects, len(doc.Objects))
	for i, want := range doc.Objects {
		o := got.Objects[i]
		assert.Equal(t, want.Name, o.Name)
		assert.Equal(t, want.Position, o.Position, want.Name)
		assert.Equal(t, want.Rotation, o.Rotation, want.Name)
		assert.Equal(t, want.Scale, o.Scale, want.Name)
		assert.Equal(t, want.ParentFrame, o.ParentFrame, want.Name)
		assert.Equal(t, want.ParentInverse, o.ParentInverse, want.Name)
		if want.Parent == nil {
			assert.Nil(t, o.Parent, want.Name)
		} else {
			require.NotNil(t, o.Parent, want.Name)
			assert.Equal(t, want.Parent.Name, o.Parent.Name)
		}
		if want.Material == nil {
			assert.Nil(t, o.Material, want.Name)
		} else {
			require.NotNil(t, o.Material, want.Name)
			assert.Equal(t, want.Material.Name, o.Material.Name)
		}
		if want.Mesh == nil {
			assert.Nil(t, o.Mesh, want.Name)
		} else {
			require.NotNil(t, o.Mesh, want.Name)
			assert.Equal(t, want.Mesh.Recipe, o.Mesh.Recipe, want.Name)
			assert.Equal(t, want.Mesh.TriangleCount(), o.Mesh.TriangleCount(), want.Name)
		}
	}

	require.NotNil(t, got.Camera)
	assert.Equal(t, doc.Camera.Name, got.Camera.Name)
	assert.Equal(t, doc.Camera.Rotation, got.Camera.Rotation)
	assert.Equal(t, doc.Camera.FOVDeg, got.Camera.FOVDeg)
	require.NotNil(t, got.World)
	assert.Equal(t, doc.World.Color, got.World.Color)
	assert.Equal(t, doc.World.Strength, got.World.Strength)
	require.Len(t, got.Lights, 2)
	assert.Equal(t, doc.Lights[0].Energy, got.Lights[0].Energy)
	assert.Equal(t, doc.Lights[1].Name, got.Lights[1].Name)
	assert.Equal(t, doc.Render, got.Render)
	assert.Equal(t, doc.Frame, got.Frame)

	// Animation state survives: both documents pose identically elsewhere in
	// the timeline, including the parent handover.
	doc.ApplyFrame(100)
	got.ApplyFrame(100)
	want, _ := doc.ObjectByName("QuickChangeBox")
	box, ok := got.ObjectByName("QuickChangeBox")
	require.True(t, ok)
	assert.Equal(t, want.WorldPosition(), box.WorldPosition())
	assert.InDelta(t, 1.62, float64(box.WorldPosition().Z()), 1e-4)
}

func TestLoadRejectsUnknownParent(t *testing.T) {
	path := writeScene(t, `
version: 1
frame: 1
render: {width: 8, height: 8, frame_start: 1, frame_end: 10}
objects:
  - name: Orphan
    position: [0, 0, 0]
    rotation: [1, 0, 0, 0]
    scale: [1, 1, 1]
    parent: Ghost
    selected: false
`)
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown parent "Ghost"`)
}

func TestLoadRejectsBadMaterialIndex(t *testing.T) {
	path := writeScene(t, `
version: 1
frame: 1
render: {width: 8, height: 8, frame_start: 1, frame_end: 10}
materials:
  - {name: Only, color: [1, 1, 1], roughness: 0.5, metallic: 0}
objects:
  - name: Crate
    position: [0, 0, 0]
    rotation: [1, 0, 0, 0]
    scale: [1, 1, 1]
    recipe: {kind: cube, size: 1}
    material: 3
    selected: false
`)
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "material index 3 out of range")
}

func TestLoadRejectsUnknownRecipe(t *testing.T) {
	path := writeScene(t, `
version: 1
frame: 1
render: {width: 8, height: 8, frame_start: 1, frame_end: 10}
objects:
  - name: Blob
    position: [0, 0, 0]
    rotation: [1, 0, 0, 0]
    scale: [1, 1, 1]
    recipe: {kind: torus}
    selected: false
`)
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `rebuild mesh for "Blob"`)
}

func TestLoadRejectsWrongVersion(t *testing.T) {
	path := writeScene(t, "version: 9\nframe: 1\nrender: {width: 8, height: 8, frame_start: 1, frame_end: 10}\n")
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported scene version 9")
}

func TestLoadRejectsParentCycle(t *testing.T) {
	path := writeScene(t, `
version: 1
frame: 1
render: {width: 8, height: 8, frame_start: 1, frame_end: 10}
objects:
  - name: A
    position: [0, 0, 0]
    rotation: [1, 0, 0, 0]
    scale: [1, 1, 1]
    parent: B
    selected: false
  - name: B
    position: [0, 0, 0]
    rotation: [1, 0, 0, 0]
    scale: [1, 1, 1]
    parent: A
    selected: false
`)
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "never terminates")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestResolveScenePath(t *testing.T) {
	scene := filepath.Join("renders", "dock.yaml")
	assert.Equal(t, filepath.Join("renders", "preview.png"), ResolveScenePath(scene, "//preview.png"))
	assert.Equal(t, "/tmp/out.png", ResolveScenePath(scene, "/tmp/out.png"))
	assert.Equal(t, "out.png", ResolveScenePath(scene, "out.png"))
}
