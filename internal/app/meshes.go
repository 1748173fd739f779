package app

import (
	"image"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/google/uuid"
	"github.com/philipparndt/gopin/pkg/geometry"
	"github.com/philipparndt/gopin/pkg/scene"
)

// Light direction for baked lighting
var lightDir = geometry.NewVector3(-0.5, -1.0, -0.5).Normalize()

// Texture coordinates of the two triangles of a box face, matching the
// corner order of scene.BoxFaces
var faceUVs = [2][3][2]float32{
	{{0, 1}, {1, 1}, {1, 0}},
	{{0, 1}, {1, 0}, {0, 0}},
}

// meshCache owns the GPU copies of scene object meshes. Meshes are kept in
// local space and drawn with the object's world transform, so moving a
// parent does not require a re-upload.
type meshCache struct {
	meshes map[uuid.UUID]rl.Mesh
	seen   map[uuid.UUID]bool

	plain    rl.Material
	hasPlain bool
	// Textured objects get a material of their own that owns the texture
	textured map[uuid.UUID]rl.Material
}

func newMeshCache() *meshCache {
	return &meshCache{
		meshes:   make(map[uuid.UUID]rl.Mesh),
		seen:     make(map[uuid.UUID]bool),
		textured: make(map[uuid.UUID]rl.Material),
	}
}

// setTexture uploads img and maps it onto the object's faces
func (c *meshCache) setTexture(id uuid.UUID, img *image.RGBA) {
	if old, ok := c.textured[id]; ok {
		rl.UnloadMaterial(old)
	}
	cpu := rl.NewImageFromImage(img)
	tex := rl.LoadTextureFromImage(cpu)
	rl.UnloadImage(cpu)

	mat := rl.LoadMaterialDefault()
	rl.SetMaterialTexture(&mat, rl.MapDiffuse, tex)
	c.textured[id] = mat
	c.evict(id)
}

// draw renders o, uploading its mesh on first use
func (c *meshCache) draw(o *scene.Object) {
	c.seen[o.ID] = true

	mat, textured := c.textured[o.ID]
	if !textured {
		mat = c.plainMaterial()
	}

	mesh, ok := c.meshes[o.ID]
	if !ok {
		mesh = toRaylibMesh(o.Mesh, textured)
		c.meshes[o.ID] = mesh
	}

	mat.Maps.Color = toRaylibColor(o.Material.Color)
	rl.DrawMesh(mesh, mat, worldMatrix(o))
}

func (c *meshCache) plainMaterial() rl.Material {
	if !c.hasPlain {
		c.plain = rl.LoadMaterialDefault()
		c.hasPlain = true
	}
	return c.plain
}

// sweep releases meshes of objects that were not drawn since the last sweep
func (c *meshCache) sweep() {
	for id := range c.meshes {
		if !c.seen[id] {
			c.evict(id)
		}
	}
	clear(c.seen)
}

func (c *meshCache) evict(id uuid.UUID) {
	mesh, ok := c.meshes[id]
	if !ok {
		return
	}
	rl.UnloadMesh(&mesh)
	delete(c.meshes, id)
}

func (c *meshCache) close() {
	for id := range c.meshes {
		c.evict(id)
	}
	for id, mat := range c.textured {
		rl.UnloadMaterial(mat)
		delete(c.textured, id)
	}
	if c.hasPlain {
		rl.UnloadMaterial(c.plain)
		c.hasPlain = false
	}
}

// toRaylibMesh converts triangles to a raylib mesh with baked lighting.
// Vertex colors carry only the light intensity; the object color is
// applied through the material so it can change every frame. Textured
// meshes are left unlit.
func toRaylibMesh(triangles []geometry.Triangle, textured bool) rl.Mesh {
	triangleCount := len(triangles)
	vertexCount := triangleCount * 3

	mesh := rl.Mesh{
		VertexCount:   int32(vertexCount),
		TriangleCount: int32(triangleCount),
	}

	vertices := make([]float32, vertexCount*3)
	normals := make([]float32, vertexCount*3)
	texcoords := make([]float32, vertexCount*2)
	colors := make([]uint8, vertexCount*4)

	idx := 0
	for i, triangle := range triangles {
		normal := triangle.CalculateNormal()

		shade := uint8(255)
		if !textured {
			shade = uint8(255 * math.Max(0.3, -normal.Dot(lightDir)))
		}

		for corner, v := range [3]geometry.Vector3{triangle.V1, triangle.V2, triangle.V3} {
			vertices[idx*3+0] = float32(v.X)
			vertices[idx*3+1] = float32(v.Y)
			vertices[idx*3+2] = float32(v.Z)
			normals[idx*3+0] = float32(normal.X)
			normals[idx*3+1] = float32(normal.Y)
			normals[idx*3+2] = float32(normal.Z)
			if textured {
				uv := faceUVs[i%2][corner]
				texcoords[idx*2+0] = uv[0]
				texcoords[idx*2+1] = uv[1]
			}
			colors[idx*4+0] = shade
			colors[idx*4+1] = shade
			colors[idx*4+2] = shade
			colors[idx*4+3] = 255
			idx++
		}
	}

	if vertexCount > 0 {
		mesh.Vertices = &vertices[0]
		mesh.Normals = &normals[0]
		mesh.Texcoords = &texcoords[0]
		mesh.Colors = &colors[0]
	}

	rl.UploadMesh(&mesh, false)
	return mesh
}

// worldMatrix rebuilds the object's scale and translation from its parent
// chain
func worldMatrix(o *scene.Object) rl.Matrix {
	origin := o.LocalToWorld(geometry.Vector3{})
	scale := o.LocalToWorld(geometry.NewVector3(1, 1, 1)).Sub(origin)
	return rl.MatrixMultiply(
		rl.MatrixScale(float32(scale.X), float32(scale.Y), float32(scale.Z)),
		rl.MatrixTranslate(float32(origin.X), float32(origin.Y), float32(origin.Z)),
	)
}
