package commands

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/softmesh/graphql/ast"
	"github.com/softmesh/graphql/parser"
	"github.com/softmesh/graphql/symbol"
)

// NewInspectCommand creates the inspect command.
func NewInspectCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "Summarize the definitions of a GraphQL document",
		Long: `Parse a GraphQL document and print one table row per definition with
its kind, name, and member count, followed by document totals.

Members are fields for type, interface, and input definitions, values
for enums, member types for unions, and top-level selections for
operations and fragments.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd, args[0])
		},
	}
	return cmd
}

func runInspect(cmd *cobra.Command, path string) error {
	source, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	doc, err := parser.Parse(source)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	defs := doc.Definitions()

	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Kind", "Name", "Members", "Directives"})

	for _, def := range defs {
		switch d := def.(type) {
		case *ast.ScalarDefinition:
			t.AppendRow(table.Row{"scalar", doc.Resolve(d.Name), 0, len(d.Directives)})
		case *ast.ObjectDefinition:
			t.AppendRow(table.Row{"type", doc.Resolve(d.Name), len(d.Fields), len(d.Directives)})
		case *ast.InterfaceDefinition:
			t.AppendRow(table.Row{"interface", doc.Resolve(d.Name), len(d.Fields), len(d.Directives)})
		case *ast.UnionDefinition:
			t.AppendRow(table.Row{"union", doc.Resolve(d.Name), len(d.Types), len(d.Directives)})
		case *ast.EnumDefinition:
			t.AppendRow(table.Row{"enum", doc.Resolve(d.Name), len(d.Values), len(d.Directives)})
		case *ast.InputObjectDefinition:
			t.AppendRow(table.Row{"input", doc.Resolve(d.Name), len(d.Fields), len(d.Directives)})
		case *ast.Fragment:
			t.AppendRow(table.Row{"fragment", doc.Resolve(d.Name), len(d.SelectionSet), len(d.Directives)})
		case *ast.Operation:
			name := doc.Resolve(d.Name)
			if d.Name == symbol.None {
				name = "(anonymous)"
			}
			t.AppendRow(table.Row{d.Kind.String(), name, len(d.SelectionSet), len(d.Directives)})
		}
	}
	t.Render()

	var fields, selections, arguments int
	ast.Inspect(doc, func(n ast.Node) bool {
		switch n.(type) {
		case *ast.FieldDefinition:
			fields++
		case *ast.Field:
			selections++
		case *ast.Argument:
			arguments++
		}
		return true
	})

	fmt.Fprintf(cmd.OutOrStdout(), "%d definitions, %d field definitions, %d selections, %d arguments\n",
		len(defs), fields, selections, arguments)

	return nil
}
