package dronescene

import (
	"fmt"

	"quickdock/internal/meshgen"
	"quickdock/internal/scenedoc"

	"github.com/go-gl/mathgl/mgl32"
)

// Materials creates the demo palette on the document and returns it keyed by
// role. Each entry is a fresh material; rebuilding a scene adds a fresh
// palette rather than reusing an old one.
func Materials(doc *scenedoc.Document) map[string]*scenedoc.Material {
	return map[string]*scenedoc.Material{
		"drone":   doc.NewMaterial("DroneMat", mgl32.Vec3{0.12, 0.13, 0.15}, 0.32, 0.35),
		"dark":    doc.NewMaterial("DarkMat", mgl32.Vec3{0.05, 0.06, 0.08}, 0.45, 0.2),
		"metal":   doc.NewMaterial("MetalMat", mgl32.Vec3{0.58, 0.62, 0.68}, 0.25, 0.75),
		"latch":   doc.NewMaterial("LatchMat", mgl32.Vec3{0.15, 0.65, 0.28}, 0.4, 0.3),
		"box":     doc.NewMaterial("BoxMat", mgl32.Vec3{0.78, 0.81, 0.85}, 0.35, 0.1),
		"box_top": doc.NewMaterial("BoxTopMat", mgl32.Vec3{0.22, 0.64, 0.31}, 0.35, 0.15),
		"dock":    doc.NewMaterial("DockMat", mgl32.Vec3{0.23, 0.28, 0.33}, 0.55, 0.25),
		"pole":    doc.NewMaterial("PoleMat", mgl32.Vec3{0.75, 0.78, 0.82}, 0.5, 0.2),
	}
}

// AddCube adds a unit cube object stretched to size by object scale.
func AddCube(doc *scenedoc.Document, name string, size, location mgl32.Vec3, mat *scenedoc.Material) *scenedoc.Object {
	o := doc.NewMeshObject(name, meshgen.Cube(name, 1))
	o.Position = location
	o.Scale = size
	o.Material = mat
	return o
}

// AddCylinder adds a cylinder with the radius and depth baked into the mesh.
// rotationDeg is an XYZ euler in degrees.
func AddCylinder(doc *scenedoc.Document, name string, radius, depth float32, location, rotationDeg mgl32.Vec3, mat *scenedoc.Material) *scenedoc.Object {
	o := doc.NewMeshObject(name, meshgen.Cylinder(name, radius, depth, meshgen.DefaultCylinderSegments))
	o.Position = location
	o.SetEuler(rotationDeg.X(), rotationDeg.Y(), rotationDeg.Z())
	o.Material = mat
	return o
}

// AddCone adds a cone (or frustum) with both radii baked into the mesh.
// rotationDeg is an XYZ euler in degrees.
func AddCone(doc *scenedoc.Document, name string, radiusBottom, radiusTop, depth float32, location, rotationDeg mgl32.Vec3, mat *scenedoc.Material) *scenedoc.Object {
	o := doc.NewMeshObject(name, meshgen.Cone(name, radiusBottom, radiusTop, depth, meshgen.DefaultConeSegments))
	o.Position = location
	o.SetEuler(rotationDeg.X(), rotationDeg.Y(), rotationDeg.Z())
	o.Material = mat
	return o
}

// SetupScene applies the frame range, render settings, and world background.
func SetupScene(doc *scenedoc.Document, l Layout) {
	doc.Render = scenedoc.RenderSettings{
		Width:      l.Render.Width,
		Height:     l.Render.Height,
		FrameStart: l.Frames.Start,
		FrameEnd:   l.Frames.End,
		OutPath:    l.Render.PreviewPath,
	}
	doc.EnsureWorld(l.World.Color, l.World.Strength)
}

// quadrants orders the four arm diagonals the way the parts are numbered.
var quadrants = [4]mgl32.Vec2{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}

// BuildDroneWithMount assembles the drone: body, crossed arms, four motor
// and propeller pairs, the underslung mount plate with four guide cones, and
// the two payload latches, all parented to an empty root at the origin. The
// root is what the flight animation drives.
func BuildDroneWithMount(doc *scenedoc.Document, l Layout, mats map[string]*scenedoc.Material) (*scenedoc.Object, error) {
	d := l.Drone
	root := doc.NewObject("DroneRoot")

	var parts []*scenedoc.Object
	parts = append(parts,
		AddCube(doc, "DroneBody", d.BodySize, d.BodyPos, mats["drone"]),
		AddCube(doc, "ArmX", d.ArmXSize, d.ArmPos, mats["drone"]),
		AddCube(doc, "ArmY", d.ArmYSize, d.ArmPos, mats["drone"]),
	)

	for i, q := range quadrants {
		pos := mgl32.Vec3{q.X() * d.MotorSpread, q.Y() * d.MotorSpread, d.MotorZ}
		motor := AddCylinder(doc, fmt.Sprintf("Motor_%d", i+1), d.MotorRadius, d.MotorDepth, pos, mgl32.Vec3{}, mats["dark"])
		prop := AddCube(doc, fmt.Sprintf("Prop_%d", i+1), d.PropSize,
			mgl32.Vec3{pos.X(), pos.Y(), pos.Z() + d.PropLift}, mats["dark"])
		parts = append(parts, motor, prop)
	}

	parts = append(parts, AddCube(doc, "MountPlate", d.PlateSize, d.PlatePos, mats["metal"]))

	for i, q := range quadrants {
		pos := mgl32.Vec3{q.X() * d.GuideSpreadX, q.Y() * d.GuideSpreadY, d.GuideZ}
		cone := AddCone(doc, fmt.Sprintf("DroneGuide_%d", i+1),
			d.GuideRadiusBottom, d.GuideRadiusTop, d.GuideDepth, pos, mgl32.Vec3{}, mats["metal"])
		parts = append(parts, cone)
	}

	parts = append(parts,
		AddCube(doc, "Latch_Left", d.LatchSize, mgl32.Vec3{0, d.LatchOffsetY, d.LatchZ}, mats["latch"]),
		AddCube(doc, "Latch_Right", d.LatchSize, mgl32.Vec3{0, -d.LatchOffsetY, d.LatchZ}, mats["latch"]),
	)

	for _, p := range parts {
		if err := doc.SetParent(p, root); err != nil {
			return nil, err
		}
	}
	return root, nil
}

// BuildBoxAndDock assembles the ground side: the docking pad, the
// quick-change box carrying its lid, alignment pins, and latch slots, and
// the decorative lamp post. The pad and the post stay unparented; the box is
// the object the drone later picks up.
func BuildBoxAndDock(doc *scenedoc.Document, l Layout, mats map[string]*scenedoc.Material) (dock, box *scenedoc.Object, err error) {
	k := l.Dock
	dock = AddCube(doc, "DockBase", k.BaseSize, k.BasePos, mats["dock"])
	box = AddCube(doc, "QuickChangeBox", k.BoxSize, k.BoxPos, mats["box"])

	var attachments []*scenedoc.Object
	attachments = append(attachments, AddCube(doc, "BoxLid", k.LidSize, k.LidPos, mats["box_top"]))

	for i, q := range quadrants {
		pos := mgl32.Vec3{q.X() * k.PinSpreadX, q.Y() * k.PinSpreadY, k.PinZ}
		pin := AddCylinder(doc, fmt.Sprintf("BoxPin_%d", i+1), k.PinRadius, k.PinDepth, pos, mgl32.Vec3{}, mats["metal"])
		attachments = append(attachments, pin)
	}

	attachments = append(attachments,
		AddCube(doc, "LatchSlot_Left", k.SlotSize, mgl32.Vec3{0, k.SlotOffsetY, k.SlotZ}, mats["dark"]),
		AddCube(doc, "LatchSlot_Right", k.SlotSize, mgl32.Vec3{0, -k.SlotOffsetY, k.SlotZ}, mats["dark"]),
	)

	for _, a := range attachments {
		if err := doc.SetParent(a, box); err != nil {
			return nil, nil, err
		}
	}

	AddCylinder(doc, "LampPole", k.PoleRadius, k.PoleDepth, k.PolePos, mgl32.Vec3{}, mats["pole"])
	AddCube(doc, "LampHead", k.HeadSize, k.HeadPos, mats["dock"])

	return dock, box, nil
}

// SetupCameraLights frames the shot with the main camera and a key/fill pair
// of area lamps.
func SetupCameraLights(doc *scenedoc.Document, l Layout) {
	rot := scenedoc.EulerDegToQuat(l.Camera.RotDeg.X(), l.Camera.RotDeg.Y(), l.Camera.RotDeg.Z())
	doc.SetCamera("MainCamera", l.Camera.Pos, rot, l.Camera.FOVDeg)
	doc.AddLight("KeyLight", scenedoc.LightArea, l.KeyLight.Pos, l.KeyLight.Energy, l.KeyLight.Size)
	doc.AddLight("FillLight", scenedoc.LightArea, l.FillLight.Pos, l.FillLight.Energy, l.FillLight.Size)
}

// AddSimpleAnimation keys the drone root through start, approach, grasp, and
// lift altitudes, then hands the box over to the drone at the grasp frame
// with its world transform preserved. The box gets a key just before the
// handover and one at it, so both sides of the ownership change are pinned.
func AddSimpleAnimation(doc *scenedoc.Document, droneRoot, box *scenedoc.Object, l Layout) error {
	f := l.Flight

	droneRoot.Position = mgl32.Vec3{0, 0, f.StartZ}
	droneRoot.Keyframe(scenedoc.ChannelLocation, f.StartFrame)
	droneRoot.Position = mgl32.Vec3{0, 0, f.ApproachZ}
	droneRoot.Keyframe(scenedoc.ChannelLocation, f.ApproachFrame)
	droneRoot.Position = mgl32.Vec3{0, 0, f.GraspZ}
	droneRoot.Keyframe(scenedoc.ChannelLocation, f.GraspFrame)
	droneRoot.Position = mgl32.Vec3{0, 0, f.LiftZ}
	droneRoot.Keyframe(scenedoc.ChannelLocation, f.LiftFrame)

	box.Keyframe(scenedoc.ChannelLocation, f.SettleFrame)
	box.Position = l.Dock.BoxPos
	if err := doc.ReparentKeepWorld(box, droneRoot, f.GraspFrame); err != nil {
		return err
	}
	box.Keyframe(scenedoc.ChannelLocation, f.GraspFrame)
	return nil
}

// Build runs the whole construction sequence on the document: clear, scene
// setup, palette, drone, dock, camera and lights, animation, and finally
// posing at the preview frame. The returned objects are the drone root and
// the payload box.
func Build(doc *scenedoc.Document, l Layout) (droneRoot, box *scenedoc.Object, err error) {
	doc.Clear()
	SetupScene(doc, l)

	mats := Materials(doc)
	droneRoot, err = BuildDroneWithMount(doc, l, mats)
	if err != nil {
		return nil, nil, fmt.Errorf("dronescene: build drone: %w", err)
	}
	_, box, err = BuildBoxAndDock(doc, l, mats)
	if err != nil {
		return nil, nil, fmt.Errorf("dronescene: build dock: %w", err)
	}
	SetupCameraLights(doc, l)
	if err := AddSimpleAnimation(doc, droneRoot, box, l); err != nil {
		return nil, nil, fmt.Errorf("dronescene: animate: %w", err)
	}

	doc.ApplyFrame(l.Frames.Preview)
	return droneRoot, box, nil
}
