package telemetry

// LifetimeStats tracks per-organism statistics over its lifetime.
type LifetimeStats struct {
	BirthTick  int32
	FounderID  uint32 // lineage root; equals the organism's ID for founders
	Generation uint32

	Children int
	Moves    int
}

// Age returns the number of ticks lived as of currentTick.
func (s *LifetimeStats) Age(currentTick int32) int32 {
	return currentTick - s.BirthTick
}

// LifetimeTracker manages per-organism lifetime statistics keyed by lineage ID.
type LifetimeTracker struct {
	stats map[uint32]*LifetimeStats
}

// NewLifetimeTracker creates a new lifetime tracker.
func NewLifetimeTracker() *LifetimeTracker {
	return &LifetimeTracker{
		stats: make(map[uint32]*LifetimeStats),
	}
}

// Register creates lifetime stats for a new organism.
func (lt *LifetimeTracker) Register(id uint32, birthTick int32, founderID, generation uint32) {
	lt.stats[id] = &LifetimeStats{
		BirthTick:  birthTick,
		FounderID:  founderID,
		Generation: generation,
	}
}

// Get returns the lifetime stats for an organism, or nil if not found.
func (lt *LifetimeTracker) Get(id uint32) *LifetimeStats {
	return lt.stats[id]
}

// Remove removes an organism's stats and returns them.
func (lt *LifetimeTracker) Remove(id uint32) *LifetimeStats {
	stats := lt.stats[id]
	delete(lt.stats, id)
	return stats
}

// RecordChild increments the parent's children count.
func (lt *LifetimeTracker) RecordChild(parentID uint32) {
	if s := lt.stats[parentID]; s != nil {
		s.Children++
	}
}

// RecordMove increments the organism's move count.
func (lt *LifetimeTracker) RecordMove(id uint32) {
	if s := lt.stats[id]; s != nil {
		s.Moves++
	}
}

// Reset drops every tracked organism.
func (lt *LifetimeTracker) Reset() {
	clear(lt.stats)
}

// Count returns the number of tracked organisms.
func (lt *LifetimeTracker) Count() int {
	return len(lt.stats)
}

// ActiveLineageCount returns the number of distinct founders among living organisms.
func (lt *LifetimeTracker) ActiveLineageCount() int {
	seen := make(map[uint32]struct{})
	for _, s := range lt.stats {
		seen[s.FounderID] = struct{}{}
	}
	return len(seen)
}
