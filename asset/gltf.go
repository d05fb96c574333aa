package asset

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"

	"github.com/gogpu/glview/scene"
)

// DefaultMaxModelBytes caps how much of a model source the loader will
// read. Oversized assets fail the load instead of exhausting memory.
const DefaultMaxModelBytes = 256 << 20

// ErrModelTooLarge is returned when a model source exceeds the loader's
// byte limit.
var ErrModelTooLarge = errors.New("asset: model exceeds size limit")

// GLBLoader decodes GLB and glTF model files into scene node trees.
// The zero value is ready to use.
type GLBLoader struct {
	// MaxBytes caps the source size. Zero means DefaultMaxModelBytes.
	MaxBytes int64
}

// Load reads the source and decodes it into a node tree rooted at a node
// carrying the given name. The glTF node hierarchy and per-node TRS are
// preserved; mesh-bearing nodes get a bounding sphere for picking.
func (l *GLBLoader) Load(ctx context.Context, src Source, name string) (*scene.Node, error) {
	rc, err := src.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	maxBytes := l.MaxBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxModelBytes
	}
	data, err := io.ReadAll(io.LimitReader(rc, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", src.Name(), err)
	}
	if int64(len(data)) > maxBytes {
		return nil, fmt.Errorf("%s: %w", src.Name(), ErrModelTooLarge)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc := new(gltf.Document)
	if err := gltf.NewDecoder(bytes.NewReader(data)).Decode(doc); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", src.Name(), err)
	}
	return buildTree(doc, name)
}

// buildTree converts the document's default scene into a node tree.
func buildTree(doc *gltf.Document, name string) (*scene.Node, error) {
	root := scene.NewNode(name)

	var sceneIdx int
	if doc.Scene != nil {
		sceneIdx = int(*doc.Scene)
	}
	if sceneIdx >= len(doc.Scenes) {
		if len(doc.Scenes) == 0 {
			// A document with no scenes is valid glTF; the model is
			// just an empty group.
			return root, nil
		}
		return nil, fmt.Errorf("asset: scene index %d out of range", sceneIdx)
	}

	for _, idx := range doc.Scenes[sceneIdx].Nodes {
		child, err := buildNode(doc, int(idx), make(map[int]bool))
		if err != nil {
			return nil, err
		}
		root.AddChild(child)
	}
	return root, nil
}

func buildNode(doc *gltf.Document, idx int, seen map[int]bool) (*scene.Node, error) {
	if idx < 0 || idx >= len(doc.Nodes) {
		return nil, fmt.Errorf("asset: node index %d out of range", idx)
	}
	if seen[idx] {
		return nil, fmt.Errorf("asset: node cycle at index %d", idx)
	}
	seen[idx] = true

	src := doc.Nodes[idx]
	n := scene.NewNode(src.Name)
	n.SetTransform(nodeTransform(src))

	if src.Mesh != nil {
		meshIdx := int(*src.Mesh)
		if meshIdx >= len(doc.Meshes) {
			return nil, fmt.Errorf("asset: mesh index %d out of range", meshIdx)
		}
		n.SetMesh(meshPayload(doc, doc.Meshes[meshIdx]))
	}

	for _, c := range src.Children {
		child, err := buildNode(doc, int(c), seen)
		if err != nil {
			return nil, err
		}
		n.AddChild(child)
	}
	return n, nil
}

// nodeTransform extracts the TRS transform of a glTF node. A matrix
// transform is decomposed into translation, rotation and scale; glTF
// guarantees node matrices are TRS-decomposable.
func nodeTransform(n *gltf.Node) scene.Transform {
	t := scene.IdentityTransform()

	if m := n.Matrix; !allZero16(m) && !isIdentity16(m) {
		return decomposeMatrix(m)
	}

	t.Position = mgl32.Vec3{
		float32(n.Translation[0]),
		float32(n.Translation[1]),
		float32(n.Translation[2]),
	}
	if r := n.Rotation; r != [4]float64{} {
		// glTF stores quaternions as (x, y, z, w).
		t.Rotation = mgl32.Quat{
			W: float32(r[3]),
			V: mgl32.Vec3{float32(r[0]), float32(r[1]), float32(r[2])},
		}.Normalize()
	}
	if s := n.Scale; s != [3]float64{} {
		t.Scale = mgl32.Vec3{float32(s[0]), float32(s[1]), float32(s[2])}
	}
	return t
}

func decomposeMatrix(m [16]float64) scene.Transform {
	// glTF matrices are column-major, matching mgl32.
	var cm mgl32.Mat4
	for i, v := range m {
		cm[i] = float32(v)
	}

	t := scene.IdentityTransform()
	t.Position = mgl32.Vec3{cm[12], cm[13], cm[14]}

	sx := mgl32.Vec3{cm[0], cm[1], cm[2]}.Len()
	sy := mgl32.Vec3{cm[4], cm[5], cm[6]}.Len()
	sz := mgl32.Vec3{cm[8], cm[9], cm[10]}.Len()
	t.Scale = mgl32.Vec3{sx, sy, sz}

	if sx != 0 && sy != 0 && sz != 0 {
		rot := mgl32.Ident4()
		for i := 0; i < 3; i++ {
			rot[i] = cm[i] / sx
			rot[4+i] = cm[4+i] / sy
			rot[8+i] = cm[8+i] / sz
		}
		t.Rotation = mgl32.Mat4ToQuat(rot).Normalize()
	}
	return t
}

func allZero16(m [16]float64) bool { return m == [16]float64{} }

func isIdentity16(m [16]float64) bool {
	return m == [16]float64{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// meshPayload summarizes a glTF mesh for the scene graph: primitive
// count plus a bounding sphere derived from POSITION accessor bounds.
func meshPayload(doc *gltf.Document, m *gltf.Mesh) *scene.Mesh {
	payload := &scene.Mesh{PrimitiveCount: len(m.Primitives)}

	var radius float64
	for _, prim := range m.Primitives {
		accIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok || int(accIdx) >= len(doc.Accessors) {
			continue
		}
		acc := doc.Accessors[accIdx]
		if len(acc.Min) < 3 || len(acc.Max) < 3 {
			continue
		}
		var halfExt, center float64
		for i := 0; i < 3; i++ {
			lo, hi := float64(acc.Min[i]), float64(acc.Max[i])
			halfExt += (hi - lo) * (hi - lo) / 4
			mid := (hi + lo) / 2
			center += mid * mid
		}
		// Sphere centered at the node origin covering the box.
		r := math.Sqrt(halfExt) + math.Sqrt(center)
		if r > radius {
			radius = r
		}
	}
	payload.BoundingRadius = float32(radius)
	return payload
}
