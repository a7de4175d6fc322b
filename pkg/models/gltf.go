package models

import (
	"encoding/binary"
	"fmt"
	"image"
	"log/slog"
	"math"
	"os"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/qmuntal/gltf"
)

// GLTFLoader loads glTF and GLB files.
type GLTFLoader struct {
	CalculateNormals bool // Generate smooth normals when the file has none
	LoadTextures     bool // Decode base color textures

	Logger *slog.Logger // Receives textures that fail to load; may be nil
}

// NewGLTFLoader creates a loader with normals and textures enabled.
func NewGLTFLoader() *GLTFLoader {
	return &GLTFLoader{
		CalculateNormals: true,
		LoadTextures:     true,
	}
}

// LoadGLTF loads a glTF or GLB file with default options.
func LoadGLTF(path string) (*Mesh, error) {
	return NewGLTFLoader().Load(path)
}

// Load reads every triangle primitive of every mesh in the document.
func (l *GLTFLoader) Load(path string) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}

	mesh := NewMesh(filepath.Base(path))
	mesh.Materials = l.materials(doc, filepath.Dir(path))

	for i, m := range doc.Meshes {
		if m == nil {
			return nil, fmt.Errorf("%s: mesh %d is empty", path, i)
		}
		if err := l.appendMesh(doc, m, mesh); err != nil {
			return nil, fmt.Errorf("mesh %q: %w", m.Name, err)
		}
	}
	if len(mesh.Faces) == 0 {
		return nil, fmt.Errorf("%s: no triangles", path)
	}

	if l.CalculateNormals && !mesh.HasNormals() {
		mesh.CalculateSmoothNormals()
	}
	mesh.CalculateBounds()
	return mesh, nil
}

func (l *GLTFLoader) materials(doc *gltf.Document, dir string) []Material {
	out := make([]Material, len(doc.Materials))
	for i, gm := range doc.Materials {
		mat := DefaultMaterial()
		if gm == nil {
			out[i] = mat
			continue
		}
		mat.Name = gm.Name
		mat.Metallic = 1
		mat.Roughness = 1
		if pbr := gm.PBRMetallicRoughness; pbr != nil {
			if pbr.BaseColorFactor != nil {
				mat.BaseColor = *pbr.BaseColorFactor
			}
			if pbr.MetallicFactor != nil {
				mat.Metallic = *pbr.MetallicFactor
			}
			if pbr.RoughnessFactor != nil {
				mat.Roughness = *pbr.RoughnessFactor
			}
			if l.LoadTextures && pbr.BaseColorTexture != nil {
				// A broken texture degrades to the base color.
				img, err := textureImage(doc, pbr.BaseColorTexture.Index, dir)
				if err != nil {
					logger(l.Logger).Warn("texture not loaded", "material", gm.Name, "err", err)
				}
				mat.Texture = img
			}
		}
		out[i] = mat
	}
	return out
}

func textureImage(doc *gltf.Document, texIdx int, dir string) (image.Image, error) {
	if texIdx < 0 || texIdx >= len(doc.Textures) || doc.Textures[texIdx] == nil || doc.Textures[texIdx].Source == nil {
		return nil, fmt.Errorf("texture %d has no source", texIdx)
	}
	src := *doc.Textures[texIdx].Source
	if src < 0 || src >= len(doc.Images) || doc.Images[src] == nil {
		return nil, fmt.Errorf("texture %d: image %d out of range", texIdx, src)
	}
	img := doc.Images[src]

	var data []byte
	switch {
	case img.BufferView != nil:
		bv, buf, err := bufferView(doc, *img.BufferView)
		if err != nil {
			return nil, fmt.Errorf("image %d: %w", src, err)
		}
		if bv.ByteOffset < 0 || bv.ByteLength < 0 || bv.ByteOffset+bv.ByteLength > len(buf) {
			return nil, fmt.Errorf("image %d: buffer view out of range", src)
		}
		data = buf[bv.ByteOffset : bv.ByteOffset+bv.ByteLength]
	case img.URI != "":
		var err error
		data, err = os.ReadFile(filepath.Join(dir, img.URI))
		if err != nil {
			return nil, fmt.Errorf("image %d: %w", src, err)
		}
	default:
		return nil, fmt.Errorf("image %d has no data", src)
	}
	return DecodeImage(data)
}

func (l *GLTFLoader) appendMesh(doc *gltf.Document, m *gltf.Mesh, mesh *Mesh) error {
	for _, prim := range m.Primitives {
		if prim == nil || prim.Mode != gltf.PrimitiveTriangles {
			continue
		}
		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			continue
		}

		positions, err := readVec3(doc, posIdx)
		if err != nil {
			return fmt.Errorf("read positions: %w", err)
		}
		var normals []mgl64.Vec3
		if idx, ok := prim.Attributes[gltf.NORMAL]; ok {
			if normals, err = readVec3(doc, idx); err != nil {
				return fmt.Errorf("read normals: %w", err)
			}
		}
		var uvs []mgl64.Vec2
		if idx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
			if uvs, err = readVec2(doc, idx); err != nil {
				return fmt.Errorf("read uvs: %w", err)
			}
		}

		base := len(mesh.Vertices)
		for i, p := range positions {
			v := Vertex{Position: p}
			if i < len(normals) {
				v.Normal = normals[i]
			}
			if i < len(uvs) {
				// glTF puts V=0 at the top of the image.
				v.UV = mgl64.Vec2{uvs[i].X(), 1 - uvs[i].Y()}
			}
			mesh.Vertices = append(mesh.Vertices, v)
		}

		material := -1
		if prim.Material != nil && *prim.Material >= 0 && *prim.Material < len(mesh.Materials) {
			material = *prim.Material
		}

		var indices []int
		if prim.Indices != nil {
			if indices, err = readIndices(doc, *prim.Indices); err != nil {
				return fmt.Errorf("read indices: %w", err)
			}
		} else {
			indices = make([]int, len(positions))
			for i := range indices {
				indices[i] = i
			}
		}
		for i := 0; i+2 < len(indices); i += 3 {
			f := Face{Material: material}
			for k := range 3 {
				if indices[i+k] < 0 || indices[i+k] >= len(positions) {
					return fmt.Errorf("index %d out of range", indices[i+k])
				}
				f.V[k] = base + indices[i+k]
			}
			mesh.Faces = append(mesh.Faces, f)
		}
	}
	return nil
}

// accessor returns accessor idx, checking that it exists.
func accessor(doc *gltf.Document, idx int) (*gltf.Accessor, error) {
	if idx < 0 || idx >= len(doc.Accessors) || doc.Accessors[idx] == nil {
		return nil, fmt.Errorf("accessor %d out of range", idx)
	}
	return doc.Accessors[idx], nil
}

// bufferView returns buffer view idx and the data of the buffer it points
// into. gltf.Open does not validate these references.
func bufferView(doc *gltf.Document, idx int) (*gltf.BufferView, []byte, error) {
	if idx < 0 || idx >= len(doc.BufferViews) || doc.BufferViews[idx] == nil {
		return nil, nil, fmt.Errorf("buffer view %d out of range", idx)
	}
	bv := doc.BufferViews[idx]
	if bv.Buffer < 0 || bv.Buffer >= len(doc.Buffers) || doc.Buffers[bv.Buffer] == nil {
		return nil, nil, fmt.Errorf("buffer view %d: buffer %d out of range", idx, bv.Buffer)
	}
	return bv, doc.Buffers[bv.Buffer].Data, nil
}

// accessorBytes returns the buffer, start offset and stride of an accessor.
func accessorBytes(doc *gltf.Document, idx int, elemSize int) ([]byte, int, int, *gltf.Accessor, error) {
	acc, err := accessor(doc, idx)
	if err != nil {
		return nil, 0, 0, nil, err
	}
	if acc.BufferView == nil {
		return nil, 0, 0, nil, fmt.Errorf("accessor %d has no buffer view", idx)
	}
	bv, data, err := bufferView(doc, *acc.BufferView)
	if err != nil {
		return nil, 0, 0, nil, fmt.Errorf("accessor %d: %w", idx, err)
	}
	if data == nil {
		return nil, 0, 0, nil, fmt.Errorf("accessor %d: buffer has no data", idx)
	}
	stride := bv.ByteStride
	if stride == 0 {
		stride = elemSize
	}
	start := bv.ByteOffset + acc.ByteOffset
	if stride < 0 || start < 0 || acc.Count < 0 {
		return nil, 0, 0, nil, fmt.Errorf("accessor %d: negative offset, stride or count", idx)
	}
	if acc.Count > 0 && start+(acc.Count-1)*stride+elemSize > len(data) {
		return nil, 0, 0, nil, fmt.Errorf("accessor %d overruns its buffer", idx)
	}
	return data, start, stride, acc, nil
}

func readFloats(doc *gltf.Document, idx int, want gltf.AccessorType, n int) ([][]float64, error) {
	acc, err := accessor(doc, idx)
	if err != nil {
		return nil, err
	}
	if acc.Type != want || acc.ComponentType != gltf.ComponentFloat {
		return nil, fmt.Errorf("accessor %d: expected float %v, got %v %v", idx, want, acc.ComponentType, acc.Type)
	}
	data, start, stride, _, err := accessorBytes(doc, idx, 4*n)
	if err != nil {
		return nil, err
	}
	out := make([][]float64, acc.Count)
	for i := range acc.Count {
		off := start + i*stride
		out[i] = make([]float64, n)
		for j := range n {
			bits := binary.LittleEndian.Uint32(data[off+4*j:])
			out[i][j] = float64(math.Float32frombits(bits))
		}
	}
	return out, nil
}

func readVec3(doc *gltf.Document, idx int) ([]mgl64.Vec3, error) {
	raw, err := readFloats(doc, idx, gltf.AccessorVec3, 3)
	if err != nil {
		return nil, err
	}
	out := make([]mgl64.Vec3, len(raw))
	for i, r := range raw {
		out[i] = mgl64.Vec3{r[0], r[1], r[2]}
	}
	return out, nil
}

func readVec2(doc *gltf.Document, idx int) ([]mgl64.Vec2, error) {
	raw, err := readFloats(doc, idx, gltf.AccessorVec2, 2)
	if err != nil {
		return nil, err
	}
	out := make([]mgl64.Vec2, len(raw))
	for i, r := range raw {
		out[i] = mgl64.Vec2{r[0], r[1]}
	}
	return out, nil
}

func readIndices(doc *gltf.Document, idx int) ([]int, error) {
	a, err := accessor(doc, idx)
	if err != nil {
		return nil, err
	}
	var size int
	switch a.ComponentType {
	case gltf.ComponentUbyte:
		size = 1
	case gltf.ComponentUshort:
		size = 2
	case gltf.ComponentUint:
		size = 4
	default:
		return nil, fmt.Errorf("unexpected index type %v", a.ComponentType)
	}
	data, start, stride, acc, err := accessorBytes(doc, idx, size)
	if err != nil {
		return nil, err
	}
	out := make([]int, acc.Count)
	for i := range acc.Count {
		off := start + i*stride
		switch size {
		case 1:
			out[i] = int(data[off])
		case 2:
			out[i] = int(binary.LittleEndian.Uint16(data[off:]))
		case 4:
			out[i] = int(binary.LittleEndian.Uint32(data[off:]))
		}
	}
	return out, nil
}
