package mesh

// quadIndices is the two-triangle topology of one quad.
var quadIndices = [6]uint32{0, 1, 2, 2, 1, 3}

// QuadMesh is a growable vertex buffer of quads, rebuilt every frame by the
// render thread. It is not safe for concurrent use.
type QuadMesh struct {
	vertices []SpriteVertex
}

// NewQuadMesh creates a mesh with room for capacity quads.
func NewQuadMesh(capacity int) *QuadMesh {
	if capacity < 0 {
		capacity = 0
	}
	return &QuadMesh{vertices: make([]SpriteVertex, 0, capacity*4)}
}

// PushQuad appends four zeroed vertices and returns them for filling.
// The returned pointer is invalidated by the next PushQuad.
func (m *QuadMesh) PushQuad() *[4]SpriteVertex {
	n := len(m.vertices)
	m.vertices = append(m.vertices, SpriteVertex{}, SpriteVertex{}, SpriteVertex{}, SpriteVertex{})
	return (*[4]SpriteVertex)(m.vertices[n : n+4])
}

// QuadCount returns the number of quads pushed since the last Reset.
func (m *QuadMesh) QuadCount() int {
	return len(m.vertices) / 4
}

// Vertices returns the pushed vertices. The slice aliases the mesh storage.
func (m *QuadMesh) Vertices() []SpriteVertex {
	return m.vertices
}

// Indices returns the triangle-list indices for all pushed quads.
func (m *QuadMesh) Indices() []uint32 {
	quads := m.QuadCount()
	indices := make([]uint32, 0, quads*len(quadIndices))
	for q := range quads {
		base := uint32(q * 4) //nolint:gosec // quad count bounded by memory
		for _, i := range quadIndices {
			indices = append(indices, base+i)
		}
	}
	return indices
}

// Bytes encodes all vertices for a GPU vertex buffer upload.
func (m *QuadMesh) Bytes() []byte {
	buf := make([]byte, 0, len(m.vertices)*VertexStride)
	for i := range m.vertices {
		buf = m.vertices[i].Marshal(buf)
	}
	return buf
}

// Reset drops all quads, keeping the allocated storage.
func (m *QuadMesh) Reset() {
	m.vertices = m.vertices[:0]
}
