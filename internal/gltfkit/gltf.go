// Package gltfkit writes scene documents as glTF 2.0, either as a binary GLB
// container or as JSON with an embedded buffer. It covers the subset the
// web-viewer pipeline needs: triangle meshes, PBR materials, punctual lights,
// perspective cameras, and translation animation.
package gltfkit

// glTF component types and buffer-view targets.
const (
	compFloat  = 5126
	compUShort = 5123
	compUInt   = 5125

	targetArrayBuffer        = 34962
	targetElementArrayBuffer = 34963
)

// lightsExtName is the ratified punctual-lights extension.
const lightsExtName = "KHR_lights_punctual"

// Document is the JSON half of a glTF asset. Field order follows the layout
// the common DCC exporters emit, which keeps diffs against reference files
// readable.
type Document struct {
	Asset          Asset        `json:"asset"`
	Scene          int          `json:"scene"`
	Scenes         []Scene      `json:"scenes"`
	Nodes          []Node       `json:"nodes,omitempty"`
	Cameras        []Camera     `json:"cameras,omitempty"`
	Meshes         []Mesh       `json:"meshes,omitempty"`
	Materials      []Material   `json:"materials,omitempty"`
	Animations     []Animation  `json:"animations,omitempty"`
	Accessors      []Accessor   `json:"accessors,omitempty"`
	BufferViews    []BufferView `json:"bufferViews,omitempty"`
	Buffers        []Buffer     `json:"buffers,omitempty"`
	ExtensionsUsed []string     `json:"extensionsUsed,omitempty"`
	Extensions     *Extensions  `json:"extensions,omitempty"`
}

type Asset struct {
	Version   string `json:"version"`
	Generator string `json:"generator,omitempty"`
}

type Scene struct {
	Name  string `json:"name,omitempty"`
	Nodes []int  `json:"nodes,omitempty"`
}

// Node carries either TRS components or a matrix, never both. Pointers stay
// nil for identity components so they drop out of the JSON.
type Node struct {
	Name        string          `json:"name,omitempty"`
	Mesh        *int            `json:"mesh,omitempty"`
	Camera      *int            `json:"camera,omitempty"`
	Children    []int           `json:"children,omitempty"`
	Translation *[3]float32     `json:"translation,omitempty"`
	Rotation    *[4]float32     `json:"rotation,omitempty"` // x, y, z, w
	Scale       *[3]float32     `json:"scale,omitempty"`
	Matrix      *[16]float32    `json:"matrix,omitempty"` // column major
	Extensions  *NodeExtensions `json:"extensions,omitempty"`
}

type NodeExtensions struct {
	Light *NodeLight `json:"KHR_lights_punctual,omitempty"`
}

type NodeLight struct {
	Light int `json:"light"`
}

type Mesh struct {
	Name       string      `json:"name,omitempty"`
	Primitives []Primitive `json:"primitives"`
}

type Primitive struct {
	Attributes map[string]int `json:"attributes"`
	Indices    *int           `json:"indices,omitempty"`
	Material   *int           `json:"material,omitempty"`
}

// Material always writes its PBR factors; the glTF defaults (metallic 1) are
// wrong for most of what we export.
type Material struct {
	Name                 string `json:"name,omitempty"`
	PBRMetallicRoughness *PBR   `json:"pbrMetallicRoughness,omitempty"`
	DoubleSided          bool   `json:"doubleSided,omitempty"`
}

type PBR struct {
	BaseColorFactor [4]float32 `json:"baseColorFactor"`
	MetallicFactor  float32    `json:"metallicFactor"`
	RoughnessFactor float32    `json:"roughnessFactor"`
}

type Camera struct {
	Name        string             `json:"name,omitempty"`
	Type        string             `json:"type"`
	Perspective *CameraPerspective `json:"perspective,omitempty"`
}

type CameraPerspective struct {
	AspectRatio float32 `json:"aspectRatio,omitempty"`
	YFov        float32 `json:"yfov"`
	ZNear       float32 `json:"znear"`
	ZFar        float32 `json:"zfar,omitempty"`
}

type Animation struct {
	Name     string             `json:"name,omitempty"`
	Channels []AnimationChannel `json:"channels"`
	Samplers []AnimationSampler `json:"samplers"`
}

type AnimationChannel struct {
	Sampler int             `json:"sampler"`
	Target  AnimationTarget `json:"target"`
}

type AnimationTarget struct {
	Node *int   `json:"node,omitempty"`
	Path string `json:"path"`
}

type AnimationSampler struct {
	Input         int    `json:"input"`
	Output        int    `json:"output"`
	Interpolation string `json:"interpolation,omitempty"`
}

type Accessor struct {
	BufferView    *int      `json:"bufferView,omitempty"`
	ByteOffset    int       `json:"byteOffset,omitempty"`
	ComponentType int       `json:"componentType"`
	Count         int       `json:"count"`
	Type          string    `json:"type"`
	Min           []float32 `json:"min,omitempty"`
	Max           []float32 `json:"max,omitempty"`
}

type BufferView struct {
	Buffer     int `json:"buffer"`
	ByteOffset int `json:"byteOffset,omitempty"`
	ByteLength int `json:"byteLength"`
	Target     int `json:"target,omitempty"`
}

type Buffer struct {
	ByteLength int    `json:"byteLength"`
	URI        string `json:"uri,omitempty"`
}

type Extensions struct {
	Lights *LightsExtension `json:"KHR_lights_punctual,omitempty"`
}

type LightsExtension struct {
	Lights []PunctualLight `json:"lights,omitempty"`
}

type PunctualLight struct {
	Name      string     `json:"name,omitempty"`
	Type      string     `json:"type"`
	Color     [3]float32 `json:"color"`
	Intensity float32    `json:"intensity,omitempty"`
}
