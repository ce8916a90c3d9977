package viewer

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"

	"quickdock/internal/logger"
	"quickdock/internal/prefs"
	"quickdock/internal/scenedoc"
)

const (
	windowWidth  = 1280
	windowHeight = 720
	windowTitle  = "quickdock viewer"
)

// Run opens a window over the document and loops until it is closed. Each
// frame it runs viewer input, clears to the world background, draws the 3D
// scene, then the HUD. Grid, overlay, and autoplay preferences persist
// across runs.
func Run(doc *scenedoc.Document, log *logger.Logger) {
	rl.InitWindow(windowWidth, windowHeight, windowTitle)
	defer rl.CloseWindow()
	rl.SetTargetFPS(60)

	v := New(doc, log)
	hud := NewOverlay()
	p, _ := prefs.Load()
	v.GridVisible = p.GridVisible
	v.playing = p.AutoPlay
	hud.Visible = p.ShowOverlay
	bg := backgroundColor(doc.World)

	for !rl.WindowShouldClose() {
		v.Update()

		rl.BeginDrawing()
		rl.ClearBackground(bg)
		v.Draw()
		hud.Draw(v)
		rl.EndDrawing()
	}

	p.GridVisible = v.GridVisible
	p.AutoPlay = v.playing
	p.ShowOverlay = hud.Visible
	_ = prefs.Save(p)
}

// backgroundColor flattens the world environment to a clear color.
func backgroundColor(w *scenedoc.World) rl.Color {
	if w == nil {
		return rl.Black
	}
	c := w.Color.Mul(w.Strength)
	return rl.NewColor(
		uint8(mgl32.Clamp(c.X(), 0, 1)*255+0.5),
		uint8(mgl32.Clamp(c.Y(), 0, 1)*255+0.5),
		uint8(mgl32.Clamp(c.Z(), 0, 1)*255+0.5),
		255,
	)
}
