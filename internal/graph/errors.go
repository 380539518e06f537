package graph

import "fmt"

// StartNodeError reports that start discovery found no unique candidate.
type StartNodeError struct {
	Candidates []NodeID // ascending; empty when every node has predecessors
}

func (e *StartNodeError) Error() string {
	if len(e.Candidates) == 0 {
		return "no start node candidate: every node has predecessors"
	}
	return fmt.Sprintf("multiple start node candidates: %v", e.Candidates)
}

// EndNodeError reports that end discovery found no unique candidate.
type EndNodeError struct {
	Candidates []NodeID // ascending; empty when every node has successors
}

func (e *EndNodeError) Error() string {
	if len(e.Candidates) == 0 {
		return "no end node candidate: every node has successors"
	}
	return fmt.Sprintf("multiple end node candidates: %v", e.Candidates)
}

// NoEndConnectionError reports that no directed path leads from start to end.
type NoEndConnectionError struct {
	Start NodeID
	End   NodeID
}

func (e *NoEndConnectionError) Error() string {
	return fmt.Sprintf("start node %d has no path to end node %d", e.Start, e.End)
}

// CycleError reports that a topological ordering does not exist.
type CycleError struct {
	Remaining []NodeID // ascending; nodes left unordered
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("graph contains a cycle: %d nodes unordered %v", len(e.Remaining), e.Remaining)
}
