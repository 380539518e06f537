// Package input reads dependency networks and per-edge data from CSV.
package input

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gyaneshwarpardhi/critnet/internal/graph"
)

const (
	// DefaultNodeName replaces a node name the input failed to provide.
	DefaultNodeName = "DEFAULT"
	// DefaultNodeID replaces a node ID the input failed to provide. Graphs
	// that still carry it are rejected before analysis.
	DefaultNodeID graph.NodeID = 999999
	// UnknownAlpha marks an edge whose weight could not be read.
	UnknownAlpha float32 = -1
)

// ParseLinks reads a links CSV into a graph. Every row is one edge:
// child name, child ID, parent name, parent ID. Malformed cells fall back to
// the defaults and are collected into a *LoadError, returned alongside the
// best-effort graph; any other error aborts the read.
func ParseLinks(r io.Reader) (*graph.Graph, error) {
	rows, err := readRows(r)
	if err != nil {
		return nil, fmt.Errorf("read links csv: %w", err)
	}

	g := graph.NewGraph()
	var cells []*CellError
	for y, row := range rows {
		childName := stringCell(row, y, 0, &cells)
		childID := idCell(row, y, 1, &cells)
		parentName := stringCell(row, y, 2, &cells)
		parentID := idCell(row, y, 3, &cells)

		g.AddNode(graph.Node{ID: childID, Name: childName})
		g.AddNode(graph.Node{ID: parentID, Name: parentName})
		g.AddEdge(childID, parentID)
	}

	if len(cells) > 0 {
		return g, &LoadError{Input: "links", Cells: cells}
	}
	return g, nil
}

// ParseAlphaColumn reads a one-column CSV of edge weights. Row i belongs to
// edges[i]. Missing or malformed rows yield UnknownAlpha for their edge and
// a collected cell error; extra rows are ignored.
func ParseAlphaColumn(r io.Reader, edges []graph.Edge) (graph.EdgeValues, error) {
	rows, err := readRows(r)
	if err != nil {
		return nil, fmt.Errorf("read alpha csv: %w", err)
	}
	return alphaFromRows(rows, edges)
}

func alphaFromRows(rows [][]string, edges []graph.Edge) (graph.EdgeValues, error) {
	values := make(graph.EdgeValues, len(edges))
	var cells []*CellError
	for y, e := range edges {
		alpha := UnknownAlpha
		if y >= len(rows) || len(rows[y]) == 0 {
			cells = append(cells, &CellError{Row: y, Col: 0})
		} else {
			raw := strings.TrimSpace(rows[y][0])
			f, err := strconv.ParseFloat(raw, 32)
			if err != nil {
				cells = append(cells, &CellError{Row: y, Col: 0, Value: raw, Err: err})
			} else {
				alpha = float32(f)
			}
		}
		values[graph.EdgeKey{From: e.From, To: e.To}] = alpha
	}

	if len(cells) > 0 {
		return values, &LoadError{Input: "alpha", Cells: cells}
	}
	return values, nil
}

func readRows(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	return cr.ReadAll()
}

// stringCell returns the trimmed cell or the default name, collecting an
// out-of-bounds error.
func stringCell(row []string, y, x int, cells *[]*CellError) string {
	if x >= len(row) {
		*cells = append(*cells, &CellError{Row: y, Col: x})
		return DefaultNodeName
	}
	return strings.TrimSpace(row[x])
}

// idCell parses the cell as a node ID or returns the default ID, collecting
// the failure.
func idCell(row []string, y, x int, cells *[]*CellError) graph.NodeID {
	if x >= len(row) {
		*cells = append(*cells, &CellError{Row: y, Col: x})
		return DefaultNodeID
	}
	raw := strings.TrimSpace(row[x])
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		*cells = append(*cells, &CellError{Row: y, Col: x, Value: raw, Err: err})
		return DefaultNodeID
	}
	return graph.NodeID(id)
}
