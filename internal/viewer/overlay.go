package viewer

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	hudFontSize   = 20
	hudPadding    = 12
	hudLineHeight = hudFontSize + 4
	logTailLines  = 4
	// fpsUpdateInterval: only refresh the FPS text every N frames to reduce allocations.
	fpsUpdateInterval = 30
)

// Overlay draws the 2D HUD over the 3D view: transport state top-left, FPS
// top-right, recent log lines at the bottom. Hidden state is per overlay.
type Overlay struct {
	Visible     bool
	frameCount  uint32
	lastFpsText string
	lastFrame   int
	lastStatus  string
}

// NewOverlay returns a visible overlay.
func NewOverlay() *Overlay {
	return &Overlay{Visible: true}
}

// Draw renders the HUD for the given viewer. Call after Viewer.Draw in the
// draw loop. Status text is only rebuilt when the frame changes; FPS only
// every fpsUpdateInterval frames.
func (o *Overlay) Draw(v *Viewer) {
	if rl.IsKeyPressed(rl.KeyO) {
		o.Visible = !o.Visible
	}
	if !o.Visible {
		return
	}
	o.frameCount++

	start, end := v.frameRange()
	if v.Frame() != o.lastFrame || o.lastStatus == "" {
		o.lastFrame = v.Frame()
		state := "paused"
		if v.Playing() {
			state = "playing"
		}
		o.lastStatus = fmt.Sprintf("frame %d  [%d-%d]  %s", o.lastFrame, start, end, state)
	}

	y := int32(hudPadding)
	rl.DrawText(o.lastStatus, hudPadding, y, hudFontSize, rl.RayWhite)
	y += hudLineHeight
	rl.DrawText("space play  arrows step  r rewind  g grid  o overlay", hudPadding, y, hudFontSize, rl.Gray)

	if o.frameCount%fpsUpdateInterval == 0 || o.lastFpsText == "" {
		o.lastFpsText = fmt.Sprintf("FPS: %d", rl.GetFPS())
	}
	screenW := int32(rl.GetScreenWidth())
	w := rl.MeasureText(o.lastFpsText, hudFontSize)
	rl.DrawText(o.lastFpsText, screenW-w-hudPadding, hudPadding, hudFontSize, rl.Green)

	if v.log != nil {
		tail := v.log.Tail(logTailLines)
		y = int32(rl.GetScreenHeight()) - int32(len(tail))*hudLineHeight - hudPadding
		for _, line := range tail {
			rl.DrawText(line, hudPadding, y, hudFontSize, rl.LightGray)
			y += hudLineHeight
		}
	}
}
