package model

// Marks records processes by pid and generation so a mark never carries
// over to a later process that reuses the pid.
type Marks map[int32]uint64

// Add marks n.
func (s Marks) Add(n *ProcessNode) {
	s[n.PID] = n.Generation
}

// Has reports whether n itself is marked.
func (s Marks) Has(n *ProcessNode) bool {
	gen, ok := s[n.PID]
	return ok && gen == n.Generation
}

// Toggle flips the mark on n.
func (s Marks) Toggle(n *ProcessNode) {
	if s.Has(n) {
		delete(s, n.PID)
		return
	}
	s.Add(n)
}

// Prune drops marks whose process is no longer in m.
func (s Marks) Prune(m *Model) {
	for pid, gen := range s {
		if n, ok := m.Node(pid); !ok || n.Generation != gen {
			delete(s, pid)
		}
	}
}
