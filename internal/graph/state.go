package graph

import (
	"sort"
	"strconv"
)

// Visible is the visibility bit meaning the node participates in the sample.
const Visible uint8 = 1

// VisState maps each dynamic node to its sampled visibility bit for one
// Monte-Carlo row. Any value other than Visible means not visible.
type VisState map[NodeID]uint8

// Key serializes the state with entries in ascending ID order, so two states
// with the same assignments always produce the same key. Used to deduplicate
// samples.
func (s VisState) Key() string {
	ids := make([]NodeID, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	buf := make([]byte, 0, len(ids)*8)
	for _, id := range ids {
		buf = strconv.AppendUint(buf, uint64(id), 10)
		buf = append(buf, '=')
		buf = strconv.AppendUint(buf, uint64(s[id]), 10)
		buf = append(buf, ';')
	}
	return string(buf)
}

// Values maps nodes to rolled-up operability in [0, 1].
type Values map[NodeID]float32

// EdgeKey identifies a child→parent edge in an EdgeValues map.
type EdgeKey struct {
	From NodeID
	To   NodeID
}

// EdgeValues carries auxiliary per-edge data, such as roll-up weights.
type EdgeValues map[EdgeKey]float32
