package renderer

import (
	"bytes"

	"github.com/etnz/rebalance"
	md "github.com/nao1215/markdown"
)

// FlowsMarkdown renders a flow graph as a table followed by a mermaid
// sankey diagram.
func FlowsMarkdown(g *rebalance.FlowGraph, currency string) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignLeft, md.AlignRight},
		Header:    []string{"From", "To", "Amount"},
	}
	for _, f := range g.Flows {
		table.Rows = append(table.Rows, []string{g.Label(f.Source), g.Label(f.Target), rebalance.M(f.Value, currency).String()})
	}
	doc.Table(table)
	doc.PlainText(Sankey(g))
	return doc.String()
}

// Sankey renders a flow graph as a mermaid sankey-beta code block.
func Sankey(g *rebalance.FlowGraph) string {
	return renderTemplate("sankey.md", g)
}
