package tui

import (
	"math"
	"strings"
)

// moveSelection jumps the current selection to the spatially nearest node
// in dir from the selected node's layout position: Manhattan distance
// along both axes, with the perpendicular component weighted higher than
// the primary one so a same-quadrant candidate wins over an equally-close
// one that has drifted off-axis.
func (m *Model) moveSelection(dir direction) {
	if m.layout == nil {
		return
	}
	cur, ok := m.layout.Nodes[m.selected]
	if !ok {
		m.selectFocusOrFirst()
		return
	}

	var best string
	bestScore := math.Inf(1)
	for _, id := range m.sg.SortedIDs() {
		if id == m.selected {
			continue
		}
		n, ok := m.layout.Nodes[id]
		if !ok {
			continue
		}
		dx := n.Pos.X - cur.Pos.X
		dy := n.Pos.Y - cur.Pos.Y
		if !inDirection(dir, dx, dy) {
			continue
		}
		primary, perp := axisDistances(dir, dx, dy)
		score := primary + perp*2
		if score < bestScore {
			bestScore = score
			best = id
		}
	}

	if best != "" {
		m.selected = best
		m.centerOn(best)
	}
	m.recrop()
}

func inDirection(dir direction, dx, dy float64) bool {
	switch dir {
	case dirRight:
		return dx > 0
	case dirLeft:
		return dx < 0
	case dirDown:
		return dy > 0
	case dirUp:
		return dy < 0
	}
	return false
}

// axisDistances splits a candidate's offset into the distance along dir's
// own axis (primary) and the distance along the perpendicular axis (perp).
func axisDistances(dir direction, dx, dy float64) (primary, perp float64) {
	switch dir {
	case dirLeft, dirRight:
		return math.Abs(dx), math.Abs(dy)
	default:
		return math.Abs(dy), math.Abs(dx)
	}
}

// cycleSelection moves the selection delta steps through sg's stable id
// order, wrapping at either end.
func (m *Model) cycleSelection(delta int) {
	ids := m.sg.SortedIDs()
	if len(ids) == 0 {
		return
	}
	idx := 0
	for i, id := range ids {
		if id == m.selected {
			idx = i
			break
		}
	}
	idx = ((idx+delta)%len(ids) + len(ids)) % len(ids)
	m.selected = ids[idx]
	m.centerOn(m.selected)
	m.recrop()
}

func (m *Model) selectFocusOrFirst() {
	if m.sg.FocusID != "" {
		if _, ok := m.sg.GetNode(m.sg.FocusID); ok {
			m.selected = m.sg.FocusID
			return
		}
	}
	ids := m.sg.SortedIDs()
	if len(ids) > 0 {
		m.selected = ids[0]
	}
}

// findMatches recomputes the search results for the current term, ordered
// by prefix match first, then substring match, each group in id order —
// SortedIDs already yields id order, so each bucket only needs appending.
func (m *Model) findMatches() {
	m.matches = nil
	m.matchIdx = 0
	if m.search == "" {
		return
	}

	term := strings.ToLower(m.search)
	var prefixHits, substringHits []string
	for _, id := range m.sg.SortedIDs() {
		node, ok := m.sg.GetNode(id)
		if !ok {
			continue
		}
		lowerID := strings.ToLower(id)
		lowerName := strings.ToLower(node.Name)

		switch {
		case strings.HasPrefix(lowerID, term) || strings.HasPrefix(lowerName, term):
			prefixHits = append(prefixHits, id)
		case strings.Contains(lowerID, term) || strings.Contains(lowerName, term):
			substringHits = append(substringHits, id)
		}
	}

	m.matches = append(prefixHits, substringHits...)
}

func (m *Model) cycleMatch(delta int) {
	if len(m.matches) == 0 {
		return
	}
	m.matchIdx = ((m.matchIdx+delta)%len(m.matches) + len(m.matches)) % len(m.matches)
}
