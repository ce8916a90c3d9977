// Package viewer is an interactive preview of a scene document: a free
// camera over the posed objects, grid and lamp markers, and keyboard
// transport for the animation range.
package viewer

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"

	"quickdock/internal/logger"
	"quickdock/internal/scenedoc"
)

const (
	gridExtent     = 12
	gridMinorStep  = 1
	gridMajorStep  = 5
	gridMinorAlpha = 50
	gridMajorAlpha = 120
	axisLineAlpha  = 220

	lampMarkerRadius = 0.08

	// playFPS advances the animation at the authoring frame rate.
	playFPS = 24.0
)

// Viewer holds a 3D camera over one document and plays its animation. Update
// runs camera and transport input; Draw renders between BeginMode3D and
// EndMode3D. Camera control is raylib's free camera.
type Viewer struct {
	doc *scenedoc.Document
	log *logger.Logger

	Camera      rl.Camera3D
	cursorDone  bool
	GridVisible bool

	meshes *meshCache

	playing bool
	frame   float32
}

// New returns a viewer posed at the document's current frame. The camera
// starts on the document camera when there is one, otherwise on a default
// three-quarter view. Up is +Z to match the document's axes.
func New(doc *scenedoc.Document, log *logger.Logger) *Viewer {
	v := &Viewer{
		doc:         doc,
		log:         log,
		meshes:      newMeshCache(),
		GridVisible: true,
		frame:       float32(doc.Frame),
	}
	v.Camera.Up = rl.NewVector3(0, 0, 1)
	v.Camera.Fovy = 45
	v.Camera.Projection = rl.CameraPerspective
	if c := doc.Camera; c != nil {
		forward := c.Rotation.Rotate(mgl32.Vec3{0, 0, -1})
		target := c.Position.Add(forward.Mul(4))
		v.Camera.Position = rl.NewVector3(c.Position.X(), c.Position.Y(), c.Position.Z())
		v.Camera.Target = rl.NewVector3(target.X(), target.Y(), target.Z())
		v.Camera.Fovy = c.FOVDeg
	} else {
		v.Camera.Position = rl.NewVector3(4, -4, 3)
		v.Camera.Target = rl.NewVector3(0, 0, 1)
	}
	return v
}

// Update runs once per frame: free-camera input, then the animation
// transport. Space toggles playback, left/right step one frame and pause,
// R rewinds, G toggles the grid.
func (v *Viewer) Update() {
	if !v.cursorDone {
		rl.DisableCursor()
		v.cursorDone = true
	}
	rl.UpdateCamera(&v.Camera, rl.CameraFree)

	start, end := v.frameRange()
	switch {
	case rl.IsKeyPressed(rl.KeySpace):
		v.playing = !v.playing
	case rl.IsKeyPressed(rl.KeyRight):
		v.playing = false
		v.frame = clampFrame(v.frame+1, start, end)
	case rl.IsKeyPressed(rl.KeyLeft):
		v.playing = false
		v.frame = clampFrame(v.frame-1, start, end)
	case rl.IsKeyPressed(rl.KeyR):
		v.playing = false
		v.frame = float32(start)
	case rl.IsKeyPressed(rl.KeyG):
		v.GridVisible = !v.GridVisible
	}
	if v.playing {
		v.frame += rl.GetFrameTime() * playFPS
		if v.frame > float32(end) {
			v.frame = float32(start)
		}
	}
	if f := int(v.frame); f != v.doc.Frame {
		v.doc.ApplyFrame(f)
	}
}

func (v *Viewer) frameRange() (start, end int) {
	start = v.doc.Render.FrameStart
	if start < 1 {
		start = 1
	}
	end = v.doc.Render.FrameEnd
	if end < start {
		end = start
	}
	return start, end
}

func clampFrame(f float32, start, end int) float32 {
	if f < float32(start) {
		return float32(start)
	}
	if f > float32(end) {
		return float32(end)
	}
	return f
}

// Frame returns the transport's current frame.
func (v *Viewer) Frame() int {
	return int(v.frame)
}

// Playing reports whether the transport is running.
func (v *Viewer) Playing() bool {
	return v.playing
}

// Draw renders the 3D scene. Call after ClearBackground and before the 2D
// overlay. Draws the ground grid when GridVisible, then every mesh object at
// its current world transform, then lamp markers.
func (v *Viewer) Draw() {
	rl.BeginMode3D(v.Camera)
	if v.GridVisible {
		drawGroundGrid()
	}

	pos := v.Camera.Position
	v.meshes.SetView([3]float32{pos.X, pos.Y, pos.Z}, v.lightDir())
	for _, o := range v.doc.Objects {
		v.meshes.DrawObject(o)
	}

	for _, l := range v.doc.Lights {
		drawLampMarker(l)
	}
	rl.EndMode3D()
}

// lightDir is the direction toward the first lamp, so viewer shading roughly
// agrees with the preview render's key light.
func (v *Viewer) lightDir() [3]float32 {
	if len(v.doc.Lights) == 0 {
		return [3]float32{0.5, 0.5, 1}
	}
	d := v.doc.Lights[0].Position.Normalize()
	return [3]float32{d.X(), d.Y(), d.Z()}
}

// drawLampMarker draws a wire sphere at the lamp position, tinted by the lamp
// color.
func drawLampMarker(l *scenedoc.Light) {
	c := rl.NewColor(
		uint8(mgl32.Clamp(l.Color.X(), 0, 1)*255+0.5),
		uint8(mgl32.Clamp(l.Color.Y(), 0, 1)*255+0.5),
		uint8(mgl32.Clamp(l.Color.Z(), 0, 1)*255+0.5),
		255,
	)
	rl.DrawSphereWires(rl.NewVector3(l.Position.X(), l.Position.Y(), l.Position.Z()), lampMarkerRadius, 8, 8, c)
}

// drawGroundGrid draws a grid on the XY ground plane with major/minor lines
// and axis lines through the origin (X=red, Y=green, Z=blue, Z vertical).
// Reuses start/end vectors to avoid per-frame allocations in the hot loop.
func drawGroundGrid() {
	minor := rl.NewColor(128, 128, 128, gridMinorAlpha)
	major := rl.NewColor(160, 160, 160, gridMajorAlpha)
	axisX := rl.NewColor(220, 80, 80, axisLineAlpha)
	axisY := rl.NewColor(80, 220, 80, axisLineAlpha)
	axisZ := rl.NewColor(80, 80, 220, axisLineAlpha)

	var start, end rl.Vector3
	// Grid lines on the XY plane (Z=0): lines along Y (varying X) and along X
	// (varying Y).
	for x := -gridExtent; x <= gridExtent; x += gridMinorStep {
		c := major
		if x%gridMajorStep != 0 {
			c = minor
		}
		start.X, start.Y, start.Z = float32(x), float32(-gridExtent), 0
		end.X, end.Y, end.Z = float32(x), float32(gridExtent), 0
		rl.DrawLine3D(start, end, c)
	}
	for y := -gridExtent; y <= gridExtent; y += gridMinorStep {
		c := major
		if y%gridMajorStep != 0 {
			c = minor
		}
		start.X, start.Y, start.Z = float32(-gridExtent), float32(y), 0
		end.X, end.Y, end.Z = float32(gridExtent), float32(y), 0
		rl.DrawLine3D(start, end, c)
	}

	// Axis lines through origin (X=red, Y=green, Z=blue)
	start.X, start.Y, start.Z = float32(-gridExtent), 0, 0
	end.X, end.Y, end.Z = float32(gridExtent), 0, 0
	rl.DrawLine3D(start, end, axisX)
	start.X, start.Y, start.Z = 0, float32(-gridExtent), 0
	end.X, end.Y, end.Z = 0, float32(gridExtent), 0
	rl.DrawLine3D(start, end, axisY)
	start.X, start.Y, start.Z = 0, 0, float32(-gridExtent)
	end.X, end.Y, end.Z = 0, 0, float32(gridExtent)
	rl.DrawLine3D(start, end, axisZ)
}
