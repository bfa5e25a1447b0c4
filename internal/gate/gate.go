// Package gate resolves score thresholds into rank labels.
package gate

import (
	"sort"
	"strconv"
	"strings"
)

// Current returns the highest threshold that is <= score.
// ok is false when no threshold qualifies.
func Current(score int, thresholds []int) (gate int, ok bool) {
	for _, t := range thresholds {
		if t > score {
			continue
		}
		if !ok || t > gate {
			gate, ok = t, true
		}
	}
	return gate, ok
}

// Next returns the lowest threshold that is strictly greater than score.
// ok is false when score already meets every threshold.
func Next(score int, thresholds []int) (gate int, ok bool) {
	for _, t := range thresholds {
		if t <= score {
			continue
		}
		if !ok || t < gate {
			gate, ok = t, true
		}
	}
	return gate, ok
}

// Gate is a score cutoff and the rank it unlocks.
type Gate struct {
	Threshold int
	Label     string
}

// Ladder is a validated set of gates.
type Ladder struct {
	gates []Gate
}

// Parse builds a Ladder from a string-keyed rank mapping as it is persisted.
// Keys that are not integers are left out and returned in rejected, sorted.
// When several keys name the same threshold ("100", "0100", "+100") the
// canonical spelling wins, otherwise the lowest key; the others are
// rejected too.
func Parse(ranks map[string]string) (l Ladder, rejected []string) {
	winner := make(map[int]string, len(ranks))
	for key := range ranks {
		t, err := strconv.Atoi(strings.TrimSpace(key))
		if err != nil {
			rejected = append(rejected, key)
			continue
		}
		prev, seen := winner[t]
		if !seen {
			winner[t] = key
			continue
		}
		if preferKey(t, key, prev) {
			winner[t], key = key, prev
		}
		rejected = append(rejected, key)
	}
	for t, key := range winner {
		l.gates = append(l.gates, Gate{Threshold: t, Label: ranks[key]})
	}
	sort.Slice(l.gates, func(i, j int) bool { return l.gates[i].Threshold < l.gates[j].Threshold })
	sort.Strings(rejected)
	return l, rejected
}

func preferKey(t int, key, other string) bool {
	canonical := strconv.Itoa(t)
	if key == canonical || other == canonical {
		return key == canonical
	}
	return key < other
}

// NewLadder builds a Ladder from already validated gates. A later gate
// replaces an earlier one with the same threshold.
func NewLadder(gates ...Gate) Ladder {
	byThreshold := make(map[int]string, len(gates))
	for _, g := range gates {
		byThreshold[g.Threshold] = g.Label
	}
	var l Ladder
	for t, label := range byThreshold {
		l.gates = append(l.gates, Gate{Threshold: t, Label: label})
	}
	sort.Slice(l.gates, func(i, j int) bool { return l.gates[i].Threshold < l.gates[j].Threshold })
	return l
}

// Len reports the number of gates.
func (l Ladder) Len() int { return len(l.gates) }

// Thresholds lists the numeric cutoffs in ascending order.
func (l Ladder) Thresholds() []int {
	out := make([]int, len(l.gates))
	for i, g := range l.gates {
		out[i] = g.Threshold
	}
	return out
}

// Current returns the gate a score has earned.
func (l Ladder) Current(score int) (Gate, bool) {
	t, ok := Current(score, l.Thresholds())
	if !ok {
		return Gate{}, false
	}
	return l.lookup(t)
}

// Next returns the first gate a score has not reached yet.
func (l Ladder) Next(score int) (Gate, bool) {
	t, ok := Next(score, l.Thresholds())
	if !ok {
		return Gate{}, false
	}
	return l.lookup(t)
}

// Descending lists the gates from the highest threshold down.
func (l Ladder) Descending() []Gate {
	out := make([]Gate, len(l.gates))
	for i, g := range l.gates {
		out[len(l.gates)-1-i] = g
	}
	return out
}

func (l Ladder) lookup(threshold int) (Gate, bool) {
	i := sort.Search(len(l.gates), func(i int) bool { return l.gates[i].Threshold >= threshold })
	if i < len(l.gates) && l.gates[i].Threshold == threshold {
		return l.gates[i], true
	}
	return Gate{}, false
}
