package engine

import (
	"bytes"
	"encoding/json"
	"io"
)

// Node is one endpoint in the traffic graph.
type Node struct {
	name    string
	imports []string
	seen    map[string]bool
}

// addImport appends dst to the node's neighbor list if not already
// present. Duplicates are no-ops; first-addition order is preserved.
func (n *Node) addImport(dst string) {
	if n.seen[dst] {
		return
	}
	n.seen[dst] = true
	n.imports = append(n.imports, dst)
}

// Graph accumulates directed edges from RECV records into a deduplicated
// adjacency list. Nodes are held in a map keyed by name for O(1)
// membership, with a separate slice preserving first-encounter insertion
// order for output. A node seen as both source and destination exists
// exactly once; its neighbor list reflects only outbound edges.
type Graph struct {
	nodes map[string]*Node
	order []string
}

// NewGraph creates an empty Graph.
func NewGraph() *Graph {
	return &Graph{nodes: make(map[string]*Node)}
}

// RecordEdge registers one directed edge from src to dst, both already
// normalized node names. The source node gains dst as a neighbor unless
// it already has it; the destination node is created with an empty
// neighbor list if it has never been seen under either role.
func (g *Graph) RecordEdge(src, dst string) {
	s := g.ensure(src)
	if src == dst {
		g.recordSelfLoop(s)
		return
	}
	s.addImport(dst)
	g.ensure(dst)
}

// recordSelfLoop handles a record whose source and destination collapse
// to the same node: the node lists itself as a neighbor and its size
// grows by one, matching how mgen loopback flows have always been
// rendered.
func (g *Graph) recordSelfLoop(n *Node) {
	n.addImport(n.name)
}

// ensure returns the node of the given name, creating and appending it to
// the insertion order if it does not exist yet.
func (g *Graph) ensure(name string) *Node {
	if n, ok := g.nodes[name]; ok {
		return n
	}
	n := &Node{name: name, seen: make(map[string]bool)}
	g.nodes[name] = n
	g.order = append(g.order, name)
	return n
}

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int {
	return len(g.order)
}

// EdgeCount returns the number of distinct directed edges.
func (g *Graph) EdgeCount() int {
	total := 0
	for _, n := range g.nodes {
		total += len(n.imports)
	}
	return total
}

// NodeRecord is the JSON projection of one node, in the shape consumed by
// force-directed layouts: size always equals len(imports).
type NodeRecord struct {
	Name    string   `json:"name"`
	Size    int      `json:"size"`
	Imports []string `json:"imports"`
}

// Export returns the node records in first-encounter insertion order.
// Imports slices are copies; mutating them does not affect the graph.
func (g *Graph) Export() []NodeRecord {
	records := make([]NodeRecord, 0, len(g.order))
	for _, name := range g.order {
		n := g.nodes[name]
		records = append(records, NodeRecord{
			Name:    n.name,
			Size:    len(n.imports),
			Imports: append([]string{}, n.imports...),
		})
	}
	return records
}

// WriteJSON encodes the graph as a single JSON array and writes it to w.
func (g *Graph) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(g.Export())
}

// MarshalJSON renders the graph as its exported node array.
func (g *Graph) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := g.WriteJSON(&buf); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
