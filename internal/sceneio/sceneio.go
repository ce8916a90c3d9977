// Package sceneio saves scene documents to YAML files and loads them back.
// Mesh geometry is not stored; each mesh travels as the recipe it was
// generated from and is rebuilt on load, which keeps scene files small and
// diffable.
package sceneio

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"quickdock/internal/meshgen"
	"quickdock/internal/scenedoc"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"
)

// Version is written into every scene file. Load rejects anything else.
const Version = 1

type fileDoc struct {
	Version   int            `yaml:"version"`
	Frame     int            `yaml:"frame"`
	World     *fileWorld     `yaml:"world,omitempty"`
	Render    fileRender     `yaml:"render"`
	Camera    *fileCamera    `yaml:"camera,omitempty"`
	Lights    []fileLight    `yaml:"lights,omitempty"`
	Materials []fileMaterial `yaml:"materials,omitempty"`
	Objects   []fileObject   `yaml:"objects,omitempty"`
}

type fileWorld struct {
	Color    mgl32.Vec3 `yaml:"color"`
	Strength float32    `yaml:"strength"`
}

type fileRender struct {
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	FrameStart int    `yaml:"frame_start"`
	FrameEnd   int    `yaml:"frame_end"`
	OutPath    string `yaml:"out_path,omitempty"`
}

type fileCamera struct {
	Name     string     `yaml:"name"`
	Position mgl32.Vec3 `yaml:"position"`
	Rotation [4]float32 `yaml:"rotation"` // w, x, y, z
	FOVDeg   float32    `yaml:"fov_deg"`
	Near     float32    `yaml:"near"`
	Far      float32    `yaml:"far"`
}

type fileLight struct {
	Name     string     `yaml:"name"`
	Kind     string     `yaml:"kind"`
	Position mgl32.Vec3 `yaml:"position"`
	Color    mgl32.Vec3 `yaml:"color"`
	Energy   float32    `yaml:"energy"`
	Size     float32    `yaml:"size,omitempty"`
}

type fileMaterial struct {
	Name      string     `yaml:"name"`
	Color     mgl32.Vec3 `yaml:"color"`
	Roughness float32    `yaml:"roughness"`
	Metallic  float32    `yaml:"metallic"`
}

// fileObject references its material by index because material names may
// repeat; parents are referenced by name, which the builder keeps unique.
type fileObject struct {
	Name          string          `yaml:"name"`
	Position      mgl32.Vec3      `yaml:"position"`
	Rotation      [4]float32      `yaml:"rotation"`
	Scale         mgl32.Vec3      `yaml:"scale"`
	Recipe        *meshgen.Recipe `yaml:"recipe,omitempty"`
	Material      *int            `yaml:"material,omitempty"`
	Parent        string          `yaml:"parent,omitempty"`
	ParentFrame   int             `yaml:"parent_frame,omitempty"`
	ParentInverse []float32       `yaml:"parent_inverse,omitempty"`
	Selected      bool            `yaml:"selected"`
	Tracks        []fileTrack     `yaml:"tracks,omitempty"`
}

type fileTrack struct {
	Channel string    `yaml:"channel"`
	Keys    []fileKey `yaml:"keys"`
}

type fileKey struct {
	Frame int        `yaml:"frame"`
	Value mgl32.Vec3 `yaml:"value"`
}

// Save writes the document to path as YAML, creating the target directory
// if needed.
func Save(doc *scenedoc.Document, path string) error {
	f, err := encodeDoc(doc)
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("sceneio: marshal scene: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("sceneio: create scene dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("sceneio: write %s: %w", path, err)
	}
	return nil
}

// Load reads a scene file and reconstructs the document, rebuilding mesh
// geometry from recipes and re-posing the scene at the saved frame.
func Load(path string) (*scenedoc.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("sceneio: read %s: %w", path, err)
	}
	var f fileDoc
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("sceneio: parse %s: %w", path, err)
	}
	return decodeDoc(&f)
}

// ResolveScenePath resolves a render output path against the scene file it
// was saved with. A leading "//" marks a scene-relative path, the convention
// authoring tools use for outputs that travel with the scene; anything else
// is returned unchanged.
func ResolveScenePath(scenePath, target string) string {
	if rel, ok := strings.CutPrefix(target, "//"); ok {
		return filepath.Join(filepath.Dir(scenePath), rel)
	}
	return target
}

func encodeDoc(doc *scenedoc.Document) (*fileDoc, error) {
	f := &fileDoc{
		Version: Version,
		Frame:   doc.Frame,
		Render: fileRender{
			Width:      doc.Render.Width,
			Height:     doc.Render.Height,
			FrameStart: doc.Render.FrameStart,
			FrameEnd:   doc.Render.FrameEnd,
			OutPath:    doc.Render.OutPath,
		},
	}
	if doc.World != nil {
		f.World = &fileWorld{Color: doc.World.Color, Strength: doc.World.Strength}
	}
	if doc.Camera != nil {
		c := doc.Camera
		f.Camera = &fileCamera{
			Name:     c.Name,
			Position: c.Position,
			Rotation: quatToFile(c.Rotation),
			FOVDeg:   c.FOVDeg,
			Near:     c.Near,
			Far:      c.Far,
		}
	}
	for _, l := range doc.Lights {
		f.Lights = append(f.Lights, fileLight{
			Name:     l.Name,
			Kind:     l.Kind,
			Position: l.Position,
			Color:    l.Color,
			Energy:   l.Energy,
			Size:     l.Size,
		})
	}

	matIndex := make(map[*scenedoc.Material]int, len(doc.Materials))
	for i, m := range doc.Materials {
		matIndex[m] = i
		f.Materials = append(f.Materials, fileMaterial{
			Name:      m.Name,
			Color:     m.BaseColor.Vec3(),
			Roughness: m.Roughness,
			Metallic:  m.Metallic,
		})
	}

	for _, o := range doc.Objects {
		fo := fileObject{
			Name:        o.Name,
			Position:    o.Position,
			Rotation:    quatToFile(o.Rotation),
			Scale:       o.Scale,
			ParentFrame: o.ParentFrame,
			Selected:    o.Selected,
		}
		if o.Mesh != nil {
			if o.Mesh.Recipe.Kind == "" {
				return nil, fmt.Errorf("sceneio: object %q has a mesh without a recipe", o.Name)
			}
			r := o.Mesh.Recipe
			fo.Recipe = &r
		}
		if o.Material != nil {
			i, ok := matIndex[o.Material]
			if !ok {
				return nil, fmt.Errorf("sceneio: object %q uses a material not on the document", o.Name)
			}
			fo.Material = &i
		}
		if o.Parent != nil {
			fo.Parent = o.Parent.Name
		}
		if o.ParentInverse != mgl32.Ident4() {
			fo.ParentInverse = append([]float32(nil), o.ParentInverse[:]...)
		}
		for _, t := range o.Tracks {
			ft := fileTrack{Channel: string(t.Channel)}
			for _, k := range t.Keys {
				ft.Keys = append(ft.Keys, fileKey{Frame: k.Frame, Value: k.Value})
			}
			fo.Tracks = append(fo.Tracks, ft)
		}
		f.Objects = append(f.Objects, fo)
	}
	return f, nil
}

func decodeDoc(f *fileDoc) (*scenedoc.Document, error) {
	if f.Version != Version {
		return nil, fmt.Errorf("sceneio: unsupported scene version %d", f.Version)
	}
	doc := scenedoc.New()
	doc.Render = scenedoc.RenderSettings{
		Width:      f.Render.Width,
		Height:     f.Render.Height,
		FrameStart: f.Render.FrameStart,
		FrameEnd:   f.Render.FrameEnd,
		OutPath:    f.Render.OutPath,
	}
	if f.World != nil {
		doc.EnsureWorld(f.World.Color, f.World.Strength)
	}
	if f.Camera != nil {
		c := doc.SetCamera(f.Camera.Name, f.Camera.Position, quatFromFile(f.Camera.Rotation), f.Camera.FOVDeg)
		c.Near = f.Camera.Near
		c.Far = f.Camera.Far
	}
	for _, l := range f.Lights {
		doc.AddLight(l.Name, l.Kind, l.Position, l.Energy, l.Size).Color = l.Color
	}
	for _, m := range f.Materials {
		doc.NewMaterial(m.Name, m.Color, m.Roughness, m.Metallic)
	}

	for _, fo := range f.Objects {
		var o *scenedoc.Object
		if fo.Recipe != nil {
			mesh, err := fo.Recipe.Build(fo.Name)
			if err != nil {
				return nil, fmt.Errorf("sceneio: rebuild mesh for %q: %w", fo.Name, err)
			}
			o = doc.NewMeshObject(fo.Name, mesh)
		} else {
			o = doc.NewObject(fo.Name)
		}
		o.Position = fo.Position
		o.Rotation = quatFromFile(fo.Rotation)
		o.Scale = fo.Scale
		o.Selected = fo.Selected
		o.ParentFrame = fo.ParentFrame
		if fo.Material != nil {
			i := *fo.Material
			if i < 0 || i >= len(doc.Materials) {
				return nil, fmt.Errorf("sceneio: object %q material index %d out of range", fo.Name, i)
			}
			o.Material = doc.Materials[i]
		}
		switch len(fo.ParentInverse) {
		case 0:
			o.ParentInverse = mgl32.Ident4()
		case 16:
			copy(o.ParentInverse[:], fo.ParentInverse)
		default:
			return nil, fmt.Errorf("sceneio: object %q parent_inverse has %d values, want 16", fo.Name, len(fo.ParentInverse))
		}
		for _, ft := range fo.Tracks {
			tr := o.Track(scenedoc.Channel(ft.Channel))
			for _, k := range ft.Keys {
				tr.Insert(k.Frame, k.Value)
			}
		}
	}

	// Parents resolve by name in a second pass so order in the file does not
	// matter.
	for i, fo := range f.Objects {
		if fo.Parent == "" {
			continue
		}
		p, ok := doc.ObjectByName(fo.Parent)
		if !ok {
			return nil, fmt.Errorf("sceneio: object %q references unknown parent %q", fo.Name, fo.Parent)
		}
		doc.Objects[i].Parent = p
	}
	for _, o := range doc.Objects {
		steps := 0
		for p := o.Parent; p != nil; p = p.Parent {
			if steps++; steps > len(doc.Objects) {
				return nil, fmt.Errorf("sceneio: parent chain of %q never terminates", o.Name)
			}
		}
	}

	if f.Frame > 0 {
		doc.ApplyFrame(f.Frame)
	}
	return doc, nil
}

func quatToFile(q mgl32.Quat) [4]float32 {
	return [4]float32{q.W, q.V.X(), q.V.Y(), q.V.Z()}
}

func quatFromFile(v [4]float32) mgl32.Quat {
	return mgl32.Quat{W: v[0], V: mgl32.Vec3{v[1], v[2], v[3]}}
}
