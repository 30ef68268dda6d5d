package bmesh

// FaceTable is a snapshot of the mesh faces indexed by position. Entries are
// never compacted: killed faces read back as nil and Tombstone clears an
// entry explicitly, so indices stay valid while the mesh is modified.
type FaceTable struct {
	faces []*Face
	index map[*Face]int
}

// FaceTable snapshots the live faces of the mesh.
func (m *Mesh) FaceTable() *FaceTable {
	faces := m.Faces()
	t := &FaceTable{
		faces: faces,
		index: make(map[*Face]int, len(faces)),
	}
	for i, f := range faces {
		t.index[f] = i
	}
	return t
}

// Len returns the number of entries in the table, tombstones included.
func (t *FaceTable) Len() int { return len(t.faces) }

// Get returns the face at index i or nil if it was tombstoned or killed.
func (t *FaceTable) Get(i int) *Face {
	f := t.faces[i]
	if f == nil || f.dead {
		return nil
	}
	return f
}

// IndexOf returns the table index of f.
func (t *FaceTable) IndexOf(f *Face) (int, bool) {
	i, ok := t.index[f]
	return i, ok
}

// Tombstone marks entry i as removed.
func (t *FaceTable) Tombstone(i int) { t.faces[i] = nil }
