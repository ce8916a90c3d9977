package dronescene

import (
	"testing"

	"quickdock/internal/scenedoc"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var dronePartNames = []string{
	"DroneBody", "ArmX", "ArmY",
	"Motor_1", "Prop_1", "Motor_2", "Prop_2", "Motor_3", "Prop_3", "Motor_4", "Prop_4",
	"MountPlate",
	"DroneGuide_1", "DroneGuide_2", "DroneGuide_3", "DroneGuide_4",
	"Latch_Left", "Latch_Right",
}

func TestMaterialsPalette(t *testing.T) {
	doc := scenedoc.New()
	mats := Materials(doc)

	assert.Len(t, mats, 8)
	assert.Len(t, doc.Materials, 8)
	assert.Equal(t, "DroneMat", mats["drone"].Name)
	assert.Equal(t, float32(0.75), mats["metal"].Metallic)
	assert.Equal(t, float32(0.55), mats["dock"].Roughness)
	for _, m := range mats {
		assert.Equal(t, float32(1), m.BaseColor.W())
	}
}

func TestBuildDroneWithMountStructure(t *testing.T) {
	doc := scenedoc.New()
	mats := Materials(doc)
	root, err := BuildDroneWithMount(doc, DefaultLayout(), mats)
	require.NoError(t, err)

	assert.Equal(t, "DroneRoot", root.Name)
	assert.Nil(t, root.Mesh, "the root is an empty transform node")
	assert.Nil(t, root.Parent)

	var meshChildren int
	for _, o := range doc.Objects {
		if o == root {
			continue
		}
		require.NotNil(t, o.Mesh, "%s carries a mesh", o.Name)
		assert.Same(t, root, o.Root(), "%s hangs under the drone root", o.Name)
		meshChildren++
	}
	assert.Equal(t, len(dronePartNames), meshChildren)
	for _, name := range dronePartNames {
		_, ok := doc.ObjectByName(name)
		assert.True(t, ok, "missing part %s", name)
	}
}

func TestBuildBoxAndDockStructure(t *testing.T) {
	doc := scenedoc.New()
	mats := Materials(doc)
	dock, box, err := BuildBoxAndDock(doc, DefaultLayout(), mats)
	require.NoError(t, err)

	assert.Equal(t, "DockBase", dock.Name)
	assert.Nil(t, dock.Parent, "the pad stays unparented")
	assert.Equal(t, "QuickChangeBox", box.Name)

	attached := []string{
		"BoxLid",
		"BoxPin_1", "BoxPin_2", "BoxPin_3", "BoxPin_4",
		"LatchSlot_Left", "LatchSlot_Right",
	}
	for _, name := range attached {
		o, ok := doc.ObjectByName(name)
		require.True(t, ok, name)
		assert.Same(t, box, o.Parent, "%s rides on the box", name)
	}

	pole, _ := doc.ObjectByName("LampPole")
	head, _ := doc.ObjectByName("LampHead")
	assert.Nil(t, pole.Parent)
	assert.Nil(t, head.Parent)

	lid, _ := doc.ObjectByName("BoxLid")
	assert.Equal(t, "BoxTopMat", lid.Material.Name)
}

func TestBuildFullDocument(t *testing.T) {
	doc := scenedoc.New()
	droneRoot, box, err := Build(doc, DefaultLayout())
	require.NoError(t, err)

	// Drone root plus 18 parts, box group of 8 plus pad, pole, and head.
	assert.Len(t, doc.Objects, 30)
	assert.Len(t, doc.Meshes, 29)
	assert.Len(t, doc.Lights, 2)
	require.NotNil(t, doc.Camera)
	assert.Equal(t, "MainCamera", doc.Camera.Name)
	require.NotNil(t, doc.World)
	assert.Equal(t, float32(0.7), doc.World.Strength)
	assert.Equal(t, 1920, doc.Render.Width)
	assert.Equal(t, 68, doc.Frame, "the document is left posed at the preview frame")

	assert.Equal(t, "DroneRoot", droneRoot.Name)
	assert.Equal(t, "QuickChangeBox", box.Name)

	key := doc.Lights[0]
	assert.Equal(t, scenedoc.LightArea, key.Kind)
	assert.Equal(t, float32(1300), key.Energy)
}

func TestAnimationKeyframesAndHandover(t *testing.T) {
	doc := scenedoc.New()
	droneRoot, box, err := Build(doc, DefaultLayout())
	require.NoError(t, err)

	assert.Equal(t, []int{1, 40, 58, 100}, droneRoot.Track(scenedoc.ChannelLocation).Frames())
	assert.Equal(t, []int{57, 58}, box.Track(scenedoc.ChannelLocation).Frames())

	assert.Same(t, droneRoot, box.Parent)
	assert.Equal(t, 58, box.ParentFrame)

	// The box holds its docked position up to the grasp frame.
	doc.ApplyFrame(1)
	assert.InDelta(t, 0.18, float64(box.WorldPosition().Z()), 1e-5)
	doc.ApplyFrame(57)
	assert.InDelta(t, 0.18, float64(box.WorldPosition().Z()), 1e-5)

	// World position is preserved across the ownership change.
	doc.ApplyFrame(58)
	assert.InDelta(t, 0.18, float64(box.WorldPosition().Z()), 1e-5)
	assert.InDelta(t, 0, float64(box.WorldPosition().X()), 1e-5)

	// From then on the box rides the drone.
	doc.ApplyFrame(100)
	assert.InDelta(t, 0.18+1.9-0.46, float64(box.WorldPosition().Z()), 1e-4)

	// Preview frame, between grasp and lift.
	doc.ApplyFrame(68)
	wantDroneZ := 0.46 + (1.9-0.46)*10.0/42.0
	assert.InDelta(t, wantDroneZ, float64(droneRoot.Position.Z()), 1e-4)
	assert.InDelta(t, wantDroneZ-0.46+0.18, float64(box.WorldPosition().Z()), 1e-4)
}

func TestBuildTwiceResetsObjects(t *testing.T) {
	doc := scenedoc.New()
	_, _, err := Build(doc, DefaultLayout())
	require.NoError(t, err)
	_, _, err = Build(doc, DefaultLayout())
	require.NoError(t, err)

	assert.Len(t, doc.Objects, 30, "a rebuild starts from a cleared scene")
	// Materials accumulate across rebuilds; nothing de-duplicates them.
	assert.Len(t, doc.Materials, 16)
}
