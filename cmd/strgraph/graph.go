package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ravi-parthasarathy/strgraph/pkg/graph"
)

func graphCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "graph <graph.json|graph.dot>",
		Short: "Print a human-readable summary of a graph",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			doc, err := loadDocument(args[0])
			if err != nil {
				return err
			}
			g, err := doc.Build()
			if err != nil {
				return fmt.Errorf("build graph: %w", err)
			}
			fmt.Print(renderText(g))
			return nil
		},
	}
	return cmd
}

// renderText lists every node with its kind, operation, and wiring.
func renderText(g *graph.Graph) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "graph: %d nodes", g.Len())
	if t := g.DefaultTarget(); t != "" {
		fmt.Fprintf(&sb, ", target %q", t)
	}
	sb.WriteString("\n")

	for _, id := range g.IDs() {
		n, _ := g.Node(id)
		switch n.Kind {
		case graph.KindOperation:
			fmt.Fprintf(&sb, "  %-20s %s %s", id, n.Kind, n.Op)
			if len(n.Inputs) > 0 {
				fmt.Fprintf(&sb, " <- %s", strings.Join(n.Inputs, ", "))
			}
			if len(n.Constants) > 0 {
				fmt.Fprintf(&sb, " [%s]", strings.Join(n.Constants, ", "))
			}
		case graph.KindPlaceholder:
			fmt.Fprintf(&sb, "  %-20s %s", id, n.Kind)
		default:
			fmt.Fprintf(&sb, "  %-20s %s", id, n.Kind)
			if n.Initial != nil {
				fmt.Fprintf(&sb, " %q", *n.Initial)
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
