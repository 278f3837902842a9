package diosmodel

// EventSet is an insertion-ordered mapping of event name to Event,
// satisfying the Design Note §9 requirement that events iterate in
// first-seen order, not map order. It pairs a slice (for order) with an
// index (for O(1) lookup/reuse), rather than reaching for an unordered
// map.
type EventSet struct {
	order []*Event
	index map[string]*Event
}

// NewEventSet returns an empty, ready-to-use EventSet.
func NewEventSet() *EventSet {
	return &EventSet{index: make(map[string]*Event)}
}

// GetOrCreate returns the Event for name, creating and appending it if
// this is the first time name has been seen (spec §3: "collisions
// across queues reuse the same entity").
func (s *EventSet) GetOrCreate(name string) *Event {
	if e, ok := s.index[name]; ok {
		return e
	}
	e := &Event{Name: name}
	s.index[name] = e
	s.order = append(s.order, e)
	return e
}

// List returns events in first-seen order.
func (s *EventSet) List() []*Event {
	return s.order
}

// Len reports the number of distinct events seen.
func (s *EventSet) Len() int {
	return len(s.order)
}
