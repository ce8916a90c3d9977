package gltfkit

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"quickdock/internal/meshgen"
	"quickdock/internal/scenedoc"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Options selects what goes into the asset and how.
type Options struct {
	// Binary writes a GLB container; otherwise the asset is JSON with the
	// buffer embedded as a data URI.
	Binary bool
	// ApplyTransforms bakes every object's world transform at the document's
	// current frame into the vertex data, producing a flat node list with no
	// animation. When off, the node hierarchy and location tracks export as
	// authored.
	ApplyTransforms bool
	// SelectedOnly restricts the export to selected objects.
	SelectedOnly bool

	Normals   bool
	TexCoords bool
	Materials bool
	Lights    bool
	Cameras   bool

	// SceneName overrides the default scene name.
	SceneName string
}

// WebExport matches the web-viewer pipeline: a GLB with everything baked,
// materials and lights kept, cameras dropped.
var WebExport = Options{
	Binary:          true,
	ApplyTransforms: true,
	Normals:         true,
	TexCoords:       true,
	Materials:       true,
	Lights:          true,
}

const (
	defaultSceneName = "Scene"
	generatorName    = "quickdock glTF writer"

	// animFPS converts track frames to sampler seconds, frame 1 landing at
	// t=0.
	animFPS = 24.0

	// wattsToCandela converts lamp power to the lumens-per-steradian
	// intensity punctual lights use, 683 lm/W spread over the full sphere.
	wattsToCandela = 683.0 / (4 * math32.Pi)
)

// The document's axes are Z up; glTF wants Y up. Baked vertices and root
// transforms pass through this basis change.
var (
	yUpMat  = mgl32.HomogRotate3DX(-math32.Pi / 2)
	yUpQuat = mgl32.QuatRotate(-math32.Pi/2, mgl32.Vec3{1, 0, 0})
)

type encoder struct {
	src  *scenedoc.Document
	opts Options
	out  Document
	bin  bytes.Buffer

	matIndex  map[*scenedoc.Material]int
	meshIndex map[*meshgen.Mesh]int
	nodeIndex map[*scenedoc.Object]int
}

// Encode builds the glTF document and its binary buffer without touching the
// filesystem.
func Encode(doc *scenedoc.Document, opts Options) (*Document, []byte, error) {
	if doc == nil {
		return nil, nil, fmt.Errorf("gltfkit: nil document")
	}
	e := &encoder{
		src:       doc,
		opts:      opts,
		matIndex:  make(map[*scenedoc.Material]int),
		meshIndex: make(map[*meshgen.Mesh]int),
		nodeIndex: make(map[*scenedoc.Object]int),
	}
	name := opts.SceneName
	if name == "" {
		name = defaultSceneName
	}
	e.out.Asset = Asset{Version: "2.0", Generator: generatorName}
	e.out.Scenes = []Scene{{Name: name}}

	objects := e.included()
	if opts.ApplyTransforms {
		e.encodeBaked(objects)
	} else {
		e.encodeHierarchy(objects)
	}
	e.encodeLights()
	e.encodeCamera()

	e.out.Buffers = []Buffer{{ByteLength: e.bin.Len()}}
	return &e.out, e.bin.Bytes(), nil
}

func (e *encoder) included() []*scenedoc.Object {
	var objs []*scenedoc.Object
	for _, o := range e.src.Objects {
		if e.opts.SelectedOnly && !o.Selected {
			continue
		}
		objs = append(objs, o)
	}
	return objs
}

// encodeBaked writes one root node per object with the world transform at
// the current frame baked into its vertex data. Hierarchy and animation
// collapse away; what the importer sees is the posed scene.
func (e *encoder) encodeBaked(objects []*scenedoc.Object) {
	for _, o := range objects {
		n := Node{Name: o.Name}
		if o.Mesh != nil {
			world := yUpMat.Mul4(o.WorldMatrix())
			mi := e.addMesh(o.Mesh, &world, e.materialIndex(o.Material))
			n.Mesh = &mi
		}
		e.addRootNode(n)
	}
}

// encodeHierarchy exports objects as authored: local TRS per node, children
// under parents, and a wrapper node carrying any parent-inverse compensation
// matrix. Root transforms are rebased to Y up.
func (e *encoder) encodeHierarchy(objects []*scenedoc.Object) {
	included := make(map[*scenedoc.Object]bool, len(objects))
	for _, o := range objects {
		included[o] = true
	}

	// Nodes first, so parent links can reference them in any file order.
	for _, o := range objects {
		n := Node{Name: o.Name}
		if o.Mesh != nil {
			mi := e.addMesh(o.Mesh, nil, e.materialIndex(o.Material))
			n.Mesh = &mi
		}
		e.nodeIndex[o] = len(e.out.Nodes)
		e.out.Nodes = append(e.out.Nodes, n)
	}

	for _, o := range objects {
		idx := e.nodeIndex[o]
		if o.Parent != nil && included[o.Parent] {
			setTRS(&e.out.Nodes[idx], o.Position, o.Rotation, o.Scale)
			childIdx := idx
			if o.ParentInverse != mgl32.Ident4() {
				childIdx = e.addWrapperNode(o, idx)
			}
			pi := e.nodeIndex[o.Parent]
			e.out.Nodes[pi].Children = append(e.out.Nodes[pi].Children, childIdx)
			continue
		}
		// Roots of the exported set are rebased to Y up. An object whose
		// parent was filtered out keeps its world placement.
		t, r, s := scenedoc.Decompose(o.WorldMatrix())
		setTRS(&e.out.Nodes[idx], yUpQuat.Rotate(t), yUpQuat.Mul(r), s)
		e.out.Scenes[0].Nodes = append(e.out.Scenes[0].Nodes, idx)
	}

	e.encodeAnimation(objects, included)
}

// encodeAnimation gathers every included object's location track into one
// timeline animation, local translation keys sampled LINEAR.
func (e *encoder) encodeAnimation(objects []*scenedoc.Object, included map[*scenedoc.Object]bool) {
	anim := Animation{Name: "timeline"}
	for _, o := range objects {
		tr := locationTrack(o)
		if tr == nil || len(tr.Keys) == 0 {
			continue
		}
		isRoot := o.Parent == nil || !included[o.Parent]
		times := make([]float32, len(tr.Keys))
		values := make([]mgl32.Vec3, len(tr.Keys))
		for i, k := range tr.Keys {
			times[i] = float32(k.Frame-1) / animFPS
			if isRoot {
				values[i] = yUpQuat.Rotate(k.Value)
			} else {
				values[i] = k.Value
			}
		}
		si := len(anim.Samplers)
		anim.Samplers = append(anim.Samplers, AnimationSampler{
			Input:         e.addTimeAccessor(times),
			Output:        e.addVec3Accessor(values, 0, false),
			Interpolation: "LINEAR",
		})
		node := e.nodeIndex[o]
		anim.Channels = append(anim.Channels, AnimationChannel{
			Sampler: si,
			Target:  AnimationTarget{Node: &node, Path: "translation"},
		})
	}
	if len(anim.Channels) > 0 {
		e.out.Animations = append(e.out.Animations, anim)
	}
}

// encodeLights adds one root node per lamp with a punctual-light reference.
// Area lamps become point lights; the ratified extension has no area type.
func (e *encoder) encodeLights() {
	if !e.opts.Lights || len(e.src.Lights) == 0 {
		return
	}
	ext := &LightsExtension{}
	for i, l := range e.src.Lights {
		ext.Lights = append(ext.Lights, PunctualLight{
			Name:      l.Name,
			Type:      "point",
			Color:     [3]float32(l.Color),
			Intensity: l.Energy * wattsToCandela,
		})
		t := [3]float32(yUpQuat.Rotate(l.Position))
		e.addRootNode(Node{
			Name:        l.Name,
			Translation: &t,
			Extensions:  &NodeExtensions{Light: &NodeLight{Light: i}},
		})
	}
	e.out.Extensions = &Extensions{Lights: ext}
	e.out.ExtensionsUsed = append(e.out.ExtensionsUsed, lightsExtName)
}

// encodeCamera exports the document camera when cameras are enabled. Both
// conventions look down -Z, so only the axis rebase applies.
func (e *encoder) encodeCamera() {
	if !e.opts.Cameras || e.src.Camera == nil {
		return
	}
	c := e.src.Camera
	var aspect float32
	if e.src.Render.Width > 0 && e.src.Render.Height > 0 {
		aspect = float32(e.src.Render.Width) / float32(e.src.Render.Height)
	}
	ci := len(e.out.Cameras)
	e.out.Cameras = append(e.out.Cameras, Camera{
		Name: c.Name,
		Type: "perspective",
		Perspective: &CameraPerspective{
			AspectRatio: aspect,
			YFov:        mgl32.DegToRad(c.FOVDeg),
			ZNear:       c.Near,
			ZFar:        c.Far,
		},
	})
	t := [3]float32(yUpQuat.Rotate(c.Position))
	r := yUpQuat.Mul(c.Rotation).Normalize()
	rot := [4]float32{r.V.X(), r.V.Y(), r.V.Z(), r.W}
	e.addRootNode(Node{Name: c.Name, Camera: &ci, Translation: &t, Rotation: &rot})
}

func (e *encoder) addRootNode(n Node) int {
	idx := len(e.out.Nodes)
	e.out.Nodes = append(e.out.Nodes, n)
	e.out.Scenes[0].Nodes = append(e.out.Scenes[0].Nodes, idx)
	return idx
}

// addWrapperNode interposes a matrix node between parent and child carrying
// the child's parent-inverse compensation.
func (e *encoder) addWrapperNode(o *scenedoc.Object, child int) int {
	m := [16]float32(o.ParentInverse)
	e.out.Nodes = append(e.out.Nodes, Node{
		Name:     o.Name + "_parentinverse",
		Matrix:   &m,
		Children: []int{child},
	})
	return len(e.out.Nodes) - 1
}

// materialIndex interns the material, returning nil when materials are
// disabled or absent. Only referenced materials reach the file.
func (e *encoder) materialIndex(m *scenedoc.Material) *int {
	if !e.opts.Materials || m == nil {
		return nil
	}
	if i, ok := e.matIndex[m]; ok {
		return &i
	}
	i := len(e.out.Materials)
	e.matIndex[m] = i
	e.out.Materials = append(e.out.Materials, Material{
		Name: m.Name,
		PBRMetallicRoughness: &PBR{
			BaseColorFactor: [4]float32(m.BaseColor),
			MetallicFactor:  m.Metallic,
			RoughnessFactor: m.Roughness,
		},
		DoubleSided: true,
	})
	return &i
}

// addMesh writes the mesh's vertex data into the buffer and registers a glTF
// mesh with one triangle primitive. With a nil transform an earlier
// registration of the same mesh is reused; baked meshes are always written
// fresh because the transform differs per object.
func (e *encoder) addMesh(m *meshgen.Mesh, transform *mgl32.Mat4, matIdx *int) int {
	if transform == nil {
		if i, ok := e.meshIndex[m]; ok {
			return i
		}
	}

	positions := m.Positions
	normals := m.Normals
	if transform != nil {
		positions = make([]mgl32.Vec3, len(m.Positions))
		for i, p := range m.Positions {
			positions[i] = transform.Mul4x1(p.Vec4(1)).Vec3()
		}
		if len(m.Normals) == len(m.Positions) {
			nm := transform.Inv().Transpose().Mat3()
			normals = make([]mgl32.Vec3, len(m.Normals))
			for i, n := range m.Normals {
				v := nm.Mul3x1(n)
				if l := v.Len(); l > 0 {
					v = v.Mul(1 / l)
				}
				normals[i] = v
			}
		}
	}

	prim := Primitive{Attributes: map[string]int{}, Material: matIdx}
	prim.Attributes["POSITION"] = e.addVec3Accessor(positions, targetArrayBuffer, true)
	if e.opts.Normals && len(normals) == len(positions) {
		prim.Attributes["NORMAL"] = e.addVec3Accessor(normals, targetArrayBuffer, false)
	}
	if e.opts.TexCoords && len(m.TexCoords) == len(positions) {
		prim.Attributes["TEXCOORD_0"] = e.addVec2Accessor(m.TexCoords)
	}
	if len(m.Indices) > 0 {
		ii := e.addIndexAccessor(m.Indices, len(positions))
		prim.Indices = &ii
	}

	idx := len(e.out.Meshes)
	e.out.Meshes = append(e.out.Meshes, Mesh{Name: m.Name, Primitives: []Primitive{prim}})
	if transform == nil {
		e.meshIndex[m] = idx
	}
	return idx
}

func (e *encoder) addVec3Accessor(data []mgl32.Vec3, target int, withBounds bool) int {
	view := e.addView(data, target)
	acc := Accessor{BufferView: &view, ComponentType: compFloat, Count: len(data), Type: "VEC3"}
	if withBounds && len(data) > 0 {
		mn, mx := boundsVec3(data)
		acc.Min = []float32{mn.X(), mn.Y(), mn.Z()}
		acc.Max = []float32{mx.X(), mx.Y(), mx.Z()}
	}
	return e.addAccessor(acc)
}

func (e *encoder) addVec2Accessor(data []mgl32.Vec2) int {
	view := e.addView(data, targetArrayBuffer)
	return e.addAccessor(Accessor{BufferView: &view, ComponentType: compFloat, Count: len(data), Type: "VEC2"})
}

// addTimeAccessor writes animation input times; samplers require explicit
// bounds on their input.
func (e *encoder) addTimeAccessor(times []float32) int {
	view := e.addView(times, 0)
	acc := Accessor{BufferView: &view, ComponentType: compFloat, Count: len(times), Type: "SCALAR"}
	if len(times) > 0 {
		acc.Min = []float32{times[0]}
		acc.Max = []float32{times[len(times)-1]}
	}
	return e.addAccessor(acc)
}

// addIndexAccessor writes indices as unsigned shorts when the vertex count
// allows it and falls back to 32 bit otherwise.
func (e *encoder) addIndexAccessor(indices []uint32, vertexCount int) int {
	comp := compUShort
	var data any
	if vertexCount > 0xFFFF {
		comp = compUInt
		data = indices
	} else {
		short := make([]uint16, len(indices))
		for i, v := range indices {
			short[i] = uint16(v)
		}
		data = short
	}
	view := e.addView(data, targetElementArrayBuffer)
	return e.addAccessor(Accessor{BufferView: &view, ComponentType: comp, Count: len(indices), Type: "SCALAR"})
}

// addView appends data to the binary buffer on a 4-byte boundary and
// registers a buffer view over it.
func (e *encoder) addView(data any, target int) int {
	for e.bin.Len()%4 != 0 {
		e.bin.WriteByte(0)
	}
	off := e.bin.Len()
	// Cannot fail: fixed-size data into a bytes.Buffer.
	_ = binary.Write(&e.bin, binary.LittleEndian, data)
	e.out.BufferViews = append(e.out.BufferViews, BufferView{
		Buffer:     0,
		ByteOffset: off,
		ByteLength: e.bin.Len() - off,
		Target:     target,
	})
	return len(e.out.BufferViews) - 1
}

func (e *encoder) addAccessor(a Accessor) int {
	e.out.Accessors = append(e.out.Accessors, a)
	return len(e.out.Accessors) - 1
}

// setTRS stores the non-identity components of a local pose on the node.
func setTRS(n *Node, t mgl32.Vec3, r mgl32.Quat, s mgl32.Vec3) {
	if t != (mgl32.Vec3{}) {
		v := [3]float32(t)
		n.Translation = &v
	}
	r = r.Normalize()
	if r.W != 1 || r.V != (mgl32.Vec3{}) {
		v := [4]float32{r.V.X(), r.V.Y(), r.V.Z(), r.W}
		n.Rotation = &v
	}
	if s != (mgl32.Vec3{1, 1, 1}) {
		v := [3]float32(s)
		n.Scale = &v
	}
}

func locationTrack(o *scenedoc.Object) *scenedoc.Track {
	for _, t := range o.Tracks {
		if t.Channel == scenedoc.ChannelLocation {
			return t
		}
	}
	return nil
}

func boundsVec3(data []mgl32.Vec3) (mn, mx mgl32.Vec3) {
	mn, mx = data[0], data[0]
	for _, v := range data[1:] {
		for i := 0; i < 3; i++ {
			if v[i] < mn[i] {
				mn[i] = v[i]
			}
			if v[i] > mx[i] {
				mx[i] = v[i]
			}
		}
	}
	return mn, mx
}
