package bmesh

// SplitEdges rips the mesh along the given edges. Around each endpoint the
// faces are grouped into fans connected through edges not being split; every
// fan but the first gets its own copy of the vertex. Edges whose endpoints
// both get separated end up duplicated, one copy per side. It returns the
// number of vertices created.
func (m *Mesh) SplitEdges(edges []*Edge) int {
	split := make(map[*Edge]bool, len(edges))
	var verts []*Vert
	seen := make(map[*Vert]bool)
	for _, e := range edges {
		if e.dead {
			continue
		}
		split[e] = true
		for _, v := range e.V {
			if !seen[v] {
				seen[v] = true
				verts = append(verts, v)
			}
		}
	}

	// remap[f][old] is the replacement vertex of old in face f.
	remap := make(map[*Face]map[*Vert]*Vert)
	var order []*Face
	created := 0
	for _, v := range verts {
		fans := vertFans(v, split)
		for _, fan := range fans[1:] {
			nv := m.AddVert(v.Co)
			created++
			for _, f := range fan {
				if remap[f] == nil {
					remap[f] = make(map[*Vert]*Vert)
					order = append(order, f)
				}
				remap[f][v] = nv
			}
		}
	}

	var touched []*Edge
	loop := make([]*Vert, 0, 8)
	for _, f := range order {
		loop = loop[:0]
		for _, v := range f.verts {
			if nv, ok := remap[f][v]; ok {
				v = nv
			}
			loop = append(loop, v)
		}
		touched = append(touched, f.edges...)
		example := Face{Mat: f.Mat, Tag: f.Tag}
		m.KillFace(f)
		if nf := m.AddFace(loop, &example); nf != nil {
			for i, e := range nf.edges {
				// Copies of split edges keep the tag of the original.
				if old := m.FindEdge(f.verts[i], f.verts[(i+1)%len(f.verts)]); old != nil && old != e {
					e.Tag = e.Tag || old.Tag
				}
			}
		}
	}
	// Edges whose faces all moved to the copies are now loose.
	for _, e := range touched {
		if !e.dead && len(e.faces) == 0 {
			m.KillEdge(e)
		}
	}
	return created
}

// vertFans groups the faces around v into fans connected through edges of v
// that are not in split.
func vertFans(v *Vert, split map[*Edge]bool) [][]*Face {
	faces := v.Faces()
	group := make(map[*Face]int, len(faces))
	var fans [][]*Face
	for _, seed := range faces {
		if _, ok := group[seed]; ok {
			continue
		}
		id := len(fans)
		group[seed] = id
		fan := []*Face{seed}
		for head := 0; head < len(fan); head++ {
			for _, e := range fan[head].edges {
				if !e.Has(v) || split[e] {
					continue
				}
				for _, g := range e.faces {
					if _, ok := group[g]; !ok {
						group[g] = id
						fan = append(fan, g)
					}
				}
			}
		}
		fans = append(fans, fan)
	}
	if len(fans) == 0 {
		return [][]*Face{nil}
	}
	return fans
}
