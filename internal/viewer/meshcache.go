package viewer

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"

	"quickdock/internal/meshgen"
	"quickdock/internal/scenedoc"
)

// cached holds the GPU mesh and the model-space correction for one recipe.
// The correction maps raylib's generator conventions (Y up, cylinders based
// at the origin) onto the document's (Z up, solids centered).
type cached struct {
	mesh       rl.Mesh
	correction mgl32.Mat4
}

// meshCache maps mesh recipes to GPU meshes. Meshes are created on first draw
// so that GPU resources are allocated after the window/OpenGL context exists.
type meshCache struct {
	cache    map[meshgen.Recipe]cached
	mtl      rl.Material
	mtlReady bool
	viewPos  [3]float32 // camera position, set each frame for lighting
	lightDir [3]float32 // direction to light (normalized), set each frame
}

func newMeshCache() *meshCache {
	return &meshCache{
		cache:    make(map[meshgen.Recipe]cached),
		lightDir: [3]float32{0.5, 0.5, 1}, // default: from above, camera side
	}
}

// SetView sets camera position and direction-to-light for this frame. Call
// once per frame before drawing objects so shading tracks the camera.
func (c *meshCache) SetView(viewPos, lightDir [3]float32) {
	c.viewPos = viewPos
	c.lightDir = lightDir
}

// defaultObjectColor is the albedo tint for objects without a material.
var defaultObjectColor = rl.NewColor(128, 128, 128, 255)

// yToZUp maps raylib's +Y axis onto the document's +Z axis.
var yToZUp = mgl32.HomogRotate3DX(mgl32.DegToRad(90))

// ensure creates the GPU mesh for a recipe if not yet cached. Frustum guides
// (cone recipes with a positive top radius) draw as full cones; the generator
// has no truncated variant and the difference is invisible at viewer scale.
func (c *meshCache) ensure(r meshgen.Recipe) (cached, bool) {
	if m, ok := c.cache[r]; ok {
		return m, true
	}
	var m cached
	switch r.Kind {
	case meshgen.KindCube:
		m.mesh = rl.GenMeshCube(r.Size, r.Size, r.Size)
		m.correction = mgl32.Ident4()
	case meshgen.KindPlane:
		m.mesh = rl.GenMeshPlane(r.Size, r.Size, 1, 1)
		m.correction = yToZUp
	case meshgen.KindCylinder:
		m.mesh = rl.GenMeshCylinder(r.Radius, r.Depth, r.Segments)
		m.correction = yToZUp.Mul4(mgl32.Translate3D(0, -r.Depth/2, 0))
	case meshgen.KindCone:
		m.mesh = rl.GenMeshCone(r.RadiusBottom, r.Depth, r.Segments)
		m.correction = yToZUp.Mul4(mgl32.Translate3D(0, -r.Depth/2, 0))
	default:
		return cached{}, false
	}
	c.cache[r] = m
	return m, true
}

func (c *meshCache) material() rl.Material {
	if !c.mtlReady {
		c.mtl = rl.LoadMaterialDefault()
		shader := rl.LoadShaderFromMemory(litVS, litFS)
		if rl.IsShaderValid(shader) {
			c.mtl.Shader = shader
		}
		c.mtlReady = true
	}
	return c.mtl
}

// DrawObject draws one document object with its world transform at the
// document's current frame. Must be called between BeginMode3D and EndMode3D;
// SetView must be called once per frame before drawing.
func (c *meshCache) DrawObject(o *scenedoc.Object) {
	if o.Mesh == nil {
		return
	}
	m, ok := c.ensure(o.Mesh.Recipe)
	if !ok {
		return
	}
	mtl := c.material()
	if albedo := mtl.GetMap(rl.MapAlbedo); albedo != nil {
		albedo.Color = objectColor(o.Material)
	}
	c.setLitShaderUniforms(mtl.Shader, o.Material)
	transform := o.WorldMatrix().Mul4(m.correction)
	rl.DrawMesh(m.mesh, mtl, rlMatrix(transform))
}

// objectColor converts a document material's base color to an 8-bit tint.
func objectColor(m *scenedoc.Material) rl.Color {
	if m == nil {
		return defaultObjectColor
	}
	return rl.NewColor(
		uint8(mgl32.Clamp(m.BaseColor.X(), 0, 1)*255+0.5),
		uint8(mgl32.Clamp(m.BaseColor.Y(), 0, 1)*255+0.5),
		uint8(mgl32.Clamp(m.BaseColor.Z(), 0, 1)*255+0.5),
		255,
	)
}

// rlMatrix converts a column-major mgl32 matrix to raylib's field layout.
// Both store column i at indices 4i..4i+3, so the mapping is direct.
func rlMatrix(m mgl32.Mat4) rl.Matrix {
	return rl.Matrix{
		M0: m[0], M1: m[1], M2: m[2], M3: m[3],
		M4: m[4], M5: m[5], M6: m[6], M7: m[7],
		M8: m[8], M9: m[9], M10: m[10], M11: m[11],
		M12: m[12], M13: m[13], M14: m[14], M15: m[15],
	}
}

const (
	litVS = `#version 330
in vec3 vertexPosition;
in vec2 vertexTexCoord;
in vec3 vertexNormal;
uniform mat4 matProjection;
uniform mat4 matView;
uniform mat4 matModel;
out vec3 fragPosition;
out vec2 fragTexCoord;
out vec3 fragNormal;
void main() {
  vec4 worldPos = matModel * vec4(vertexPosition, 1.0);
  fragPosition = worldPos.xyz;
  fragTexCoord = vertexTexCoord;
  fragNormal = mat3(matModel) * vertexNormal;
  gl_Position = matProjection * matView * worldPos;
}
`
	litFS = `#version 330
in vec3 fragPosition;
in vec2 fragTexCoord;
in vec3 fragNormal;
uniform vec4 colDiffuse;
uniform vec3 viewPos;
uniform vec3 lightDir;
uniform vec4 ambient;
uniform vec3 lightColor;
uniform float lightIntensity;
uniform float specularPower;
uniform float specularStrength;
out vec4 finalColor;
void main() {
  vec4 tint = colDiffuse;
  vec3 N = normalize(fragNormal);
  vec3 L = normalize(lightDir);
  vec3 V = normalize(viewPos - fragPosition);
  float NdotL = max(dot(N, L), 0.0);
  vec3 diffuse = tint.rgb * NdotL * lightColor * lightIntensity;
  vec3 amb = ambient.rgb * tint.rgb;
  vec3 H = normalize(L + V);
  float NdotH = max(dot(N, H), 0.0);
  float spec = pow(NdotH, specularPower) * specularStrength;
  vec3 specular = lightColor * spec * (NdotL > 0.0 ? 1.0 : 0.0);
  finalColor = vec4(amb + diffuse + specular, tint.a);
}
`
)

// defaultAmbient is the ambient term (dim so shadowed areas aren't pure black).
var defaultAmbient = [4]float32{0.2, 0.22, 0.26, 1.0}

// defaultLightColor is a soft warm-white for the directional light.
var defaultLightColor = [3]float32{1.0, 0.98, 0.95}

// defaultLightIntensity scales the directional diffuse (0-1).
const defaultLightIntensity = float32(0.75)

// specular shape derived from the object's material: rough surfaces get a
// broad dim highlight, metallic ones a strong tight one.
func specularFor(m *scenedoc.Material) (power, strength float32) {
	if m == nil {
		return 48.0, 0.35
	}
	gloss := 1 - mgl32.Clamp(m.Roughness, 0, 1)
	power = 8 + gloss*gloss*120
	strength = 0.08 + 0.55*mgl32.Clamp(m.Metallic, 0, 1)
	return power, strength
}

// setLitShaderUniforms sets viewPos, lightDir, ambient, light color/intensity,
// and the material-derived specular on the given shader (cgo-safe: local arrays).
func (c *meshCache) setLitShaderUniforms(shader rl.Shader, m *scenedoc.Material) {
	if !rl.IsShaderValid(shader) {
		return
	}
	viewPos := [3]float32{c.viewPos[0], c.viewPos[1], c.viewPos[2]}
	lightDir := [3]float32{c.lightDir[0], c.lightDir[1], c.lightDir[2]}
	amb := [4]float32{defaultAmbient[0], defaultAmbient[1], defaultAmbient[2], defaultAmbient[3]}
	lightColor := [3]float32{defaultLightColor[0], defaultLightColor[1], defaultLightColor[2]}
	specPower, specStrength := specularFor(m)
	if loc := rl.GetShaderLocation(shader, "viewPos"); loc >= 0 {
		rl.SetShaderValueV(shader, loc, viewPos[:], rl.ShaderUniformVec3, 1)
	}
	if loc := rl.GetShaderLocation(shader, "lightDir"); loc >= 0 {
		rl.SetShaderValueV(shader, loc, lightDir[:], rl.ShaderUniformVec3, 1)
	}
	if loc := rl.GetShaderLocation(shader, "ambient"); loc >= 0 {
		rl.SetShaderValueV(shader, loc, amb[:], rl.ShaderUniformVec4, 1)
	}
	if loc := rl.GetShaderLocation(shader, "lightColor"); loc >= 0 {
		rl.SetShaderValueV(shader, loc, lightColor[:], rl.ShaderUniformVec3, 1)
	}
	if loc := rl.GetShaderLocation(shader, "lightIntensity"); loc >= 0 {
		rl.SetShaderValue(shader, loc, []float32{defaultLightIntensity}, rl.ShaderUniformFloat)
	}
	if loc := rl.GetShaderLocation(shader, "specularPower"); loc >= 0 {
		rl.SetShaderValue(shader, loc, []float32{specPower}, rl.ShaderUniformFloat)
	}
	if loc := rl.GetShaderLocation(shader, "specularStrength"); loc >= 0 {
		rl.SetShaderValue(shader, loc, []float32{specStrength}, rl.ShaderUniformFloat)
	}
}
