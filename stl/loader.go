// Package stl reads binary STL files into renderable meshes. Triangles are emitted unindexed (three
// vertices per triangle) and the facet normal is stored in the vertex color channel, which gives a
// cheap flat-shaded look with the solid pipeline.
package stl

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"

	lin "github.com/xlab/linmath"
	"go.uber.org/zap"

	"ECS_render_engine/ecs"
)

const (
	headerSize     = 80
	triangleStride = 50 // normal + 3 vertices (4 x vec3) + 2 attribute bytes
)

// Load reads a binary STL file from path.
func Load(path string) (ecs.Mesh, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return ecs.Mesh{}, fmt.Errorf("read stl %s: %w", path, err)
	}
	if len(b) < headerSize+4 {
		return ecs.Mesh{}, fmt.Errorf("stl %s: file too short (%d bytes)", path, len(b))
	}
	triangleCnt := binary.LittleEndian.Uint32(b[headerSize : headerSize+4])
	payload := b[headerSize+4:]
	if uint32(len(payload)) < triangleCnt*triangleStride {
		return ecs.Mesh{}, fmt.Errorf("stl %s: %d triangles announced but only %d payload bytes",
			path, triangleCnt, len(payload))
	}
	zap.S().Infof("Read stl file %s: %d triangles, %d KiB payload", path, triangleCnt, len(payload)/1024)
	return toMesh(payload, triangleCnt), nil
}

func toMesh(payload []byte, triangleCnt uint32) ecs.Mesh {
	vertices := make([]ecs.Vertex, 0, triangleCnt*3)
	indices := make([]uint32, 0, triangleCnt*3)

	for t := uint32(0); t < triangleCnt; t++ {
		base := int(t) * triangleStride
		normal := toVec3(payload[base : base+12])
		for corner := 0; corner < 3; corner++ {
			off := base + 12 + corner*12
			vertices = append(vertices, ecs.Vertex{
				Pos:   toVec3(payload[off : off+12]),
				Color: normal,
			})
			indices = append(indices, uint32(len(indices)))
		}
	}
	return ecs.Mesh{Vertices: vertices, Indices: indices, State: ecs.MeshUnloaded}
}

func toVec3(b []byte) lin.Vec3 {
	return lin.Vec3{
		toFloat32(b[:4]),
		toFloat32(b[4:8]),
		toFloat32(b[8:12]),
	}
}

func toFloat32(b []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b))
}
