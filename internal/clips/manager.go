package clips

// Manager owns the clip set and allocates identifiers.
// Order is insertion order, which is also draw order for overlapping clips.
type Manager struct {
	clips  []*Clip
	nextID int
}

// NewManager creates a new clip manager
func NewManager() *Manager {
	return &Manager{
		clips:  make([]*Clip, 0),
		nextID: 1,
	}
}

// NextID reserves and returns a fresh identifier.
func (m *Manager) NextID() int {
	id := m.nextID
	m.nextID++
	return id
}

// PeekID returns the identifier the next Add will receive.
func (m *Manager) PeekID() int {
	return m.nextID
}

// Add appends a clip, assigning an identifier when it has none.
func (m *Manager) Add(clip *Clip) *Clip {
	if clip.ID == 0 {
		clip.ID = m.NextID()
	} else if clip.ID >= m.nextID {
		m.nextID = clip.ID + 1
	}
	m.clips = append(m.clips, clip)
	return clip
}

// Get retrieves a clip by ID
func (m *Manager) Get(id int) *Clip {
	for _, clip := range m.clips {
		if clip.ID == id {
			return clip
		}
	}
	return nil
}

// Remove deletes a clip by ID and reports whether it existed.
func (m *Manager) Remove(id int) bool {
	for i, clip := range m.clips {
		if clip.ID == id {
			m.clips = append(m.clips[:i], m.clips[i+1:]...)
			return true
		}
	}
	return false
}

// Replace swaps the whole clip set and recomputes the next identifier
// as max(id)+1.
func (m *Manager) Replace(clips []*Clip) {
	maxID := 0
	for _, c := range clips {
		if c != nil && c.ID > maxID {
			maxID = c.ID
		}
	}
	m.clips = make([]*Clip, 0, len(clips))
	m.nextID = maxID + 1
	for _, c := range clips {
		if c == nil {
			continue
		}
		m.Add(c)
	}
}

// All returns all clips
func (m *Manager) All() []*Clip {
	return m.clips
}

// Len returns the number of clips.
func (m *Manager) Len() int {
	return len(m.clips)
}

// Filter returns clips for which keep returns true, in order.
func (m *Manager) Filter(keep func(*Clip) bool) []*Clip {
	var out []*Clip
	for _, c := range m.clips {
		if keep(c) {
			out = append(out, c)
		}
	}
	return out
}

// ActiveAt returns the clips whose [Start, End) contains t.
func (m *Manager) ActiveAt(t float64) []*Clip {
	return m.Filter(func(c *Clip) bool { return c.Contains(t) })
}
