package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ravi-parthasarathy/strgraph/pkg/graph"

	// Register the llm_generate operation via its init() function.
	_ "github.com/ravi-parthasarathy/strgraph/pkg/graph/llmops"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "strgraph",
		Short: "strgraph — string dataflow engine",
		Long: `Strgraph evaluates string-valued dataflow graphs.

A graph document (JSON or Graphviz DOT) declares constant, placeholder,
variable, and operation nodes; the engine resolves dependencies and
returns the value of a target node, optionally addressed as "id:k" for
multi-output operations such as split.`,
	}
	root.AddCommand(runCmd())
	root.AddCommand(lintCmd())
	root.AddCommand(graphCmd())
	root.AddCommand(opsCmd())
	return root
}

// ─── run ──────────────────────────────────────────────────────────────────────

func runCmd() *cobra.Command {
	var (
		target   string
		strategy string
		binds    []string
	)

	cmd := &cobra.Command{
		Use:   "run <graph.json|graph.dot>",
		Short: "Evaluate a graph and print the target's value",
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

			bindings, err := parseBindings(binds)
			if err != nil {
				return err
			}

			exec := graph.NewExecutor(g)
			var result string
			switch strategy {
			case "recursive":
				result, err = exec.EvaluateRecursive(target, bindings)
			case "iterative":
				result, err = exec.EvaluateIterative(target, bindings)
			case "parallel":
				result, err = exec.EvaluateParallel(target, bindings)
			case "auto", "":
				result, err = exec.EvaluateAuto(target, bindings)
			default:
				return fmt.Errorf("unknown strategy %q: use recursive, iterative, parallel or auto", strategy)
			}
			if err != nil {
				return err
			}
			fmt.Println(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&target, "target", "", `target reference, "id" or "id:k" (defaults to the document target)`)
	cmd.Flags().StringVar(&strategy, "strategy", "auto", "evaluation strategy: recursive, iterative, parallel or auto")
	cmd.Flags().StringArrayVar(&binds, "bind", nil, "placeholder binding key=value (repeatable)")
	return cmd
}

// ─── lint ─────────────────────────────────────────────────────────────────────

func lintCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lint <graph.json|graph.dot>",
		Short: "Validate a graph document without evaluating it",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			doc, err := loadDocument(args[0])
			if err != nil {
				return err
			}
			errs := graph.Lint(doc)
			if len(errs) > 0 {
				msgs := make([]string, len(errs))
				for i := range errs {
					msgs[i] = errs[i].Error()
				}
				return fmt.Errorf("graph validation failed:\n  %s", strings.Join(msgs, "\n  "))
			}
			fmt.Printf("OK: %d nodes, target %q\n", len(doc.Nodes), doc.Target)
			return nil
		},
	}
	return cmd
}

// ─── ops ──────────────────────────────────────────────────────────────────────

func opsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ops",
		Short: "List registered operations",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			for _, name := range graph.Operations() {
				fmt.Println(name)
			}
			return nil
		},
	}
	return cmd
}

// ─── helpers ─────────────────────────────────────────────────────────────────

// loadDocument reads a graph document, choosing the parser by extension:
// .dot/.gv for Graphviz, anything else for JSON.
func loadDocument(path string) (*graph.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	if strings.HasSuffix(path, ".dot") || strings.HasSuffix(path, ".gv") {
		doc, err := graph.ParseDOT(string(data))
		if err != nil {
			return nil, fmt.Errorf("parse dot: %w", err)
		}
		return doc, nil
	}
	doc, err := graph.ParseJSON(data)
	if err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}
	return doc, nil
}

// parseBindings turns repeated key=value flags into a bindings map.
func parseBindings(binds []string) (map[string]string, error) {
	bindings := make(map[string]string, len(binds))
	for _, b := range binds {
		k, v, ok := strings.Cut(b, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("bad --bind %q: want key=value", b)
		}
		bindings[k] = v
	}
	return bindings, nil
}
