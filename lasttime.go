package entityset

import (
	"fmt"
	"time"

	"github.com/featureforge/entityset/frame"
)

// AddLastTimeIndexes computes the derived last-time-index column for the
// given entities: for each row, the latest time the row or any of its child
// rows was observed. Children are processed before their parents so that
// child last times propagate through multi-level hierarchies.
func (es *EntitySet) AddLastTimeIndexes(ids ...string) error {
	requested := make(map[string]bool, len(ids))
	for _, id := range ids {
		if _, err := es.Entity(id); err != nil {
			return err
		}
		requested[id] = true
	}

	visited := make(map[string]bool)
	var order []string
	var visit func(id string)
	visit = func(id string) {
		if visited[id] {
			return
		}
		visited[id] = true
		for _, r := range es.relationships {
			if r.ParentEntity().ID == id && requested[r.ChildEntity().ID] {
				visit(r.ChildEntity().ID)
			}
		}
		order = append(order, id)
	}
	for _, id := range ids {
		visit(id)
	}

	for _, id := range order {
		if !requested[id] {
			continue
		}
		if err := es.computeLastTimeIndex(es.entities[id]); err != nil {
			return err
		}
	}
	return nil
}

func (es *EntitySet) computeLastTimeIndex(e *Entity) error {
	lti := make([]time.Time, e.NumRows())
	if e.TimeIndex != "" {
		col, err := e.Frame.Column(e.TimeIndex)
		if err != nil {
			return err
		}
		for i, v := range col.Values {
			if t, ok := v.(time.Time); ok {
				lti[i] = t
			}
		}
	}

	for _, r := range es.relationships {
		if r.ParentEntity() != e {
			continue
		}
		child := r.ChildEntity()
		childTimes, err := childLastTimes(child)
		if err != nil {
			return err
		}
		if childTimes == nil {
			continue
		}

		keyCol, err := child.Frame.Column(r.Child.ID)
		if err != nil {
			return err
		}
		latest := make(map[any]time.Time, child.NumRows())
		for i, key := range keyCol.Values {
			if key == nil {
				continue
			}
			if t := childTimes[i]; t.After(latest[key]) {
				latest[key] = t
			}
		}

		parentCol, err := e.Frame.Column(r.Parent.ID)
		if err != nil {
			return err
		}
		for i, key := range parentCol.Values {
			if key == nil {
				continue
			}
			if t, ok := latest[key]; ok && t.After(lti[i]) {
				lti[i] = t
			}
		}
	}

	e.lastTimeIndex = lti
	return nil
}

// childLastTimes returns the per-row observation times of a child entity:
// its own last-time-index column when already computed, otherwise its time
// index. Entities without any time information contribute nothing.
func childLastTimes(child *Entity) ([]time.Time, error) {
	if child.lastTimeIndex != nil {
		return child.lastTimeIndex, nil
	}
	if child.TimeIndex == "" {
		return nil, nil
	}
	col, err := child.Frame.Column(child.TimeIndex)
	if err != nil {
		return nil, err
	}
	if col.Dtype != frame.Datetime {
		return nil, fmt.Errorf("entity %q: time index %q has dtype %s, expected %s",
			child.ID, child.TimeIndex, col.Dtype, frame.Datetime)
	}
	times := make([]time.Time, len(col.Values))
	for i, v := range col.Values {
		if t, ok := v.(time.Time); ok {
			times[i] = t
		}
	}
	return times, nil
}
