package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"quickdock/internal/commands"
	"quickdock/internal/dronescene"
	"quickdock/internal/env"
	"quickdock/internal/gltfkit"
	"quickdock/internal/logger"
	"quickdock/internal/render"
	"quickdock/internal/scenedoc"
	"quickdock/internal/sceneio"
	"quickdock/internal/viewer"
)

// defaultGLBName mirrors the web pipeline's asset location, relative to the
// scene file's directory.
const defaultGLBName = "public/models/drone.glb"

func main() {
	if err := env.Load(".env"); err != nil {
		fmt.Fprintln(os.Stderr, "quickdock: load .env:", err)
	}
	log := logger.NewEcho()

	reg := commands.NewRegistry("quickdock")
	registerBuild(reg, log)
	registerExport(reg, log)
	registerRender(reg, log)
	registerView(reg, log)

	err := reg.Execute(os.Args[1:])
	switch {
	case err == nil:
	case commands.IsHelp(err):
		reg.Usage(os.Stdout)
	case commands.IsUsage(err):
		fmt.Fprintln(os.Stderr, "quickdock:", err)
		reg.Usage(os.Stderr)
		os.Exit(2)
	default:
		fmt.Fprintln(os.Stderr, "quickdock:", err)
		os.Exit(1)
	}
}

func defaultScenePath() string {
	return env.String("QUICKDOCK_SCENE", "scenes/quickchange_dock.yaml")
}

// registerBuild adds the scene construction command: build the demo document
// from the layout, save it, and render the preview still.
func registerBuild(reg *commands.Registry, log *logger.Logger) {
	fs := flag.NewFlagSet("build", flag.ContinueOnError)
	scene := fs.String("scene", defaultScenePath(), "scene file to write")
	layout := fs.String("layout", env.String("QUICKDOCK_LAYOUT", ""), "optional YAML layout overrides")
	still := fs.Bool("still", true, "render the preview still after building")
	reg.Register("build", "build the docking demo scene and render its preview", fs, func() error {
		l, err := dronescene.LoadLayout(*layout)
		if err != nil {
			return err
		}
		doc := scenedoc.New()
		if _, _, err := dronescene.Build(doc, l); err != nil {
			return err
		}
		log.Logf("Built scene: %d objects, %d materials, %d lights",
			len(doc.Objects), len(doc.Materials), len(doc.Lights))

		if err := sceneio.Save(doc, *scene); err != nil {
			return err
		}
		log.Logf("Saved scene: %s", *scene)

		if !*still {
			return nil
		}
		out := sceneio.ResolveScenePath(*scene, doc.Render.OutPath)
		if err := render.SavePNG(doc, out, render.DefaultOptions); err != nil {
			return err
		}
		log.Logf("Rendered preview: %s (frame %d)", out, doc.Frame)
		return nil
	})
}

// registerExport adds the glTF export command, matching the web pipeline's
// defaults: a baked GLB with materials and lights, no cameras.
func registerExport(reg *commands.Registry, log *logger.Logger) {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	scene := fs.String("scene", defaultScenePath(), "scene file to export")
	out := fs.String("out", env.String("QUICKDOCK_OUT", ""), "output path (default "+defaultGLBName+" next to the scene)")
	selected := fs.Bool("selected", false, "export only selected objects")
	cameras := fs.Bool("cameras", false, "include the scene camera")
	text := fs.Bool("text", false, "write JSON glTF instead of a GLB container")
	hierarchy := fs.Bool("hierarchy", false, "keep the object hierarchy and animation instead of baking transforms")
	reg.Register("export", "export a saved scene to glTF for the web viewer", fs, func() error {
		doc, err := sceneio.Load(*scene)
		if err != nil {
			return err
		}
		doc.DeselectAll()

		opts := gltfkit.WebExport
		opts.SelectedOnly = *selected
		opts.Cameras = *cameras
		opts.Binary = !*text
		opts.ApplyTransforms = !*hierarchy

		path := *out
		if path == "" {
			path = filepath.Join(filepath.Dir(*scene), filepath.FromSlash(defaultGLBName))
		}
		if err := gltfkit.Export(doc, path, opts); err != nil {
			return err
		}
		log.Logf("Exported GLB: %s", path)
		return nil
	})
}

// registerRender adds the re-render command: pose a saved scene at a frame
// and write a still.
func registerRender(reg *commands.Registry, log *logger.Logger) {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	scene := fs.String("scene", defaultScenePath(), "scene file to render")
	frame := fs.Int("frame", 0, "frame to pose (default: the scene's saved frame)")
	out := fs.String("out", "", "output PNG (default: the scene's preview path)")
	width := fs.Int("width", 0, "override the scene's render width")
	height := fs.Int("height", 0, "override the scene's render height")
	scale := fs.Int("ss", render.DefaultOptions.Supersample, "supersampling factor")
	reg.Register("render", "render a still from a saved scene", fs, func() error {
		doc, err := sceneio.Load(*scene)
		if err != nil {
			return err
		}
		if *frame > 0 {
			doc.ApplyFrame(*frame)
		}
		if *width > 0 {
			doc.Render.Width = *width
		}
		if *height > 0 {
			doc.Render.Height = *height
		}
		path := *out
		if path == "" {
			path = sceneio.ResolveScenePath(*scene, doc.Render.OutPath)
		}
		if err := render.SavePNG(doc, path, render.Options{Supersample: *scale}); err != nil {
			return err
		}
		log.Logf("Rendered still: %s (frame %d)", path, doc.Frame)
		return nil
	})
}

// registerView adds the interactive viewer command.
func registerView(reg *commands.Registry, log *logger.Logger) {
	fs := flag.NewFlagSet("view", flag.ContinueOnError)
	scene := fs.String("scene", defaultScenePath(), "scene file to view")
	reg.Register("view", "open a saved scene in the interactive viewer", fs, func() error {
		doc, err := sceneio.Load(*scene)
		if err != nil {
			return err
		}
		log.Logf("Viewing %s: %d objects", *scene, len(doc.Objects))
		viewer.Run(doc, log)
		return nil
	})
}
