package petals

// Field holds the live particles in creation order
// It plays the role of the presentation layer: the spawner adds and removes, renderers iterate
type Field struct {
	particles []Particle
	index     map[uint64]int
}

// NewField creates an empty field
func NewField() *Field {
	return &Field{
		particles: make([]Particle, 0, 64),
		index:     make(map[uint64]int),
	}
}

// Add inserts p, a duplicate ID replaces the existing particle
func (f *Field) Add(p Particle) {
	if i, ok := f.index[p.ID]; ok {
		f.particles[i] = p
		return
	}
	f.index[p.ID] = len(f.particles)
	f.particles = append(f.particles, p)
}

// Remove deletes the particle with id, returns false if absent
func (f *Field) Remove(id uint64) bool {
	i, ok := f.index[id]
	if !ok {
		return false
	}
	delete(f.index, id)

	copy(f.particles[i:], f.particles[i+1:])
	f.particles = f.particles[:len(f.particles)-1]
	for j := i; j < len(f.particles); j++ {
		f.index[f.particles[j].ID] = j
	}
	return true
}

// Has reports whether id is live
func (f *Field) Has(id uint64) bool {
	_, ok := f.index[id]
	return ok
}

// Len returns the number of live particles
func (f *Field) Len() int {
	return len(f.particles)
}

// Each calls fn for every live particle, oldest first
func (f *Field) Each(fn func(Particle)) {
	for _, p := range f.particles {
		fn(p)
	}
}
