package bmesh

// GroupFaces partitions faces into islands: maximal sets of faces connected
// through edges for which crossable returns true. Faces are returned ordered
// by island and ranges holds the [start,end) bounds of each island within
// order. Only faces present in the faces argument are grouped.
func GroupFaces(faces []*Face, crossable func(e *Edge) bool) (order []*Face, ranges [][2]int) {
	member := make(map[*Face]bool, len(faces))
	for _, f := range faces {
		if !f.dead {
			member[f] = true
		}
	}
	visited := make(map[*Face]bool, len(member))
	order = make([]*Face, 0, len(member))
	for _, seed := range faces {
		if !member[seed] || visited[seed] {
			continue
		}
		start := len(order)
		visited[seed] = true
		order = append(order, seed)
		// order doubles as the BFS queue.
		for head := start; head < len(order); head++ {
			f := order[head]
			for _, e := range f.edges {
				if !crossable(e) {
					continue
				}
				for _, g := range e.faces {
					if member[g] && !visited[g] {
						visited[g] = true
						order = append(order, g)
					}
				}
			}
		}
		ranges = append(ranges, [2]int{start, len(order)})
	}
	return order, ranges
}
