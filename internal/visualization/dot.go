// Package visualization renders community networks in various output formats.
package visualization

import (
	"fmt"
	"strings"

	"github.com/HeinDuijf/MajorityVotingCollectiveAccuracy/internal/community"
	"github.com/HeinDuijf/MajorityVotingCollectiveAccuracy/internal/models"
)

// Format specifies the output format for network rendering.
type Format string

const (
	FormatDOT  Format = "dot"
	FormatJSON Format = "json"
)

// ParseFormat converts a flag value into a Format.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatDOT, FormatJSON:
		return Format(s), nil
	default:
		return "", fmt.Errorf("unknown format %q (must be dot or json)", s)
	}
}

// nodeColors maps partitions to DOT colors.
var nodeColors = map[models.Partition]string{
	models.Elite: "tomato",
	models.Mass:  "steelblue",
}

// EnrichmentData provides optional per-node data to augment the rendering.
type EnrichmentData struct {
	// PageRank holds one score per node, indexed by node.
	PageRank []float64
}

func (e *EnrichmentData) pageRank(node int) (float64, bool) {
	if e == nil || node >= len(e.PageRank) {
		return 0, false
	}
	return e.PageRank[node], true
}

// RenderDOT produces a Graphviz DOT representation of the community network.
// Elites are drawn as filled red circles, mass nodes in blue. The node
// tooltip carries competence, in-degree and PageRank when available.
func RenderDOT(c *community.Community, name string, enrichment *EnrichmentData) string {
	var b strings.Builder
	fmt.Fprintf(&b, "digraph %q {\n", name)
	b.WriteString("  node [shape=circle, style=filled, fontname=\"Helvetica\"];\n")
	b.WriteString("  edge [arrowsize=0.5];\n\n")

	n := c.Network()
	for node := 0; node < n.NumberOfNodes(); node++ {
		partition := c.Partition(node)
		tooltip := fmt.Sprintf("%s competence=%.3f in=%d", partition, c.Competence(node), n.InDegree(node))
		if pr, ok := enrichment.pageRank(node); ok {
			tooltip += fmt.Sprintf(" pagerank=%.4f", pr)
		}
		fmt.Fprintf(&b, "  %d [fillcolor=%q, tooltip=%q];\n", node, nodeColors[partition], tooltip)
	}
	b.WriteString("\n")

	for _, e := range c.Edges() {
		style := "solid"
		if c.Partition(e.Source) != c.Partition(e.Target) {
			style = "dashed"
		}
		fmt.Fprintf(&b, "  %d -> %d [style=%s];\n", e.Source, e.Target, style)
	}

	b.WriteString("}\n")
	return b.String()
}

// RenderJSON produces a JSON graph representation with nodes and edges arrays.
func RenderJSON(c *community.Community, name string, enrichment *EnrichmentData) map[string]interface{} {
	n := c.Network()

	jsonNodes := make([]map[string]interface{}, 0, n.NumberOfNodes())
	for node := 0; node < n.NumberOfNodes(); node++ {
		entry := map[string]interface{}{
			"id":         node,
			"partition":  string(c.Partition(node)),
			"competence": c.Competence(node),
			"in_degree":  n.InDegree(node),
			"out_degree": n.OutDegree(node),
		}
		if pr, ok := enrichment.pageRank(node); ok {
			entry["pagerank"] = pr
		}
		jsonNodes = append(jsonNodes, entry)
	}

	edges := c.Edges()
	jsonEdges := make([]map[string]interface{}, 0, len(edges))
	for _, e := range edges {
		jsonEdges = append(jsonEdges, map[string]interface{}{
			"source": e.Source,
			"target": e.Target,
			"cross":  c.Partition(e.Source) != c.Partition(e.Target),
		})
	}

	return map[string]interface{}{
		"name":       name,
		"nodes":      jsonNodes,
		"edges":      jsonEdges,
		"node_count": len(jsonNodes),
		"edge_count": len(jsonEdges),
	}
}
