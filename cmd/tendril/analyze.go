package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jward/tendril"
	"github.com/jward/tendril/ast"
	"github.com/jward/tendril/parser"
)

var flagSourceType string

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Classify reactivity references in one file",
	Long:  "Parses the file, runs both extractors, and prints every classified reference.",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&flagSourceType, "source-type", "module", "how factory calls resolve: module (ESM imports) or script (Vue global)")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	records, err := analyzeFile(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	return printRecords(os.Stdout, records)
}

// record is the CLI/store-facing flattening of both reference kinds.
type record struct {
	Extractor  string `json:"extractor"`
	Kind       string `json:"kind"`
	Role       string `json:"role,omitempty"`
	Method     string `json:"method"`
	Name       string `json:"name,omitempty"`
	Escape     bool   `json:"escape,omitempty"`
	StartLine  int    `json:"startLine"`
	StartCol   int    `json:"startCol"`
	EndLine    int    `json:"endLine"`
	EndCol     int    `json:"endCol"`
	DefineLine int    `json:"defineLine"`
	DefineCol  int    `json:"defineCol"`
}

func analyzeFile(ctx context.Context, path string) ([]record, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return analyzeSource(ctx, src)
}

func analyzeSource(ctx context.Context, src []byte) ([]record, error) {
	program, err := parser.Parse(ctx, src, parser.WithSourceType(flagSourceType))
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	actx := tendril.NewContext(program)

	var records []record
	for _, r := range tendril.ExtractRefObjectReferences(actx).All() {
		rec := record{
			Extractor: "ref_object",
			Kind:      r.Kind.String(),
			Role:      r.Role.String(),
			Method:    r.Method,
		}
		if id, ok := r.Node.(*ast.Identifier); ok {
			rec.Name = id.Name
		}
		fillPositions(&rec, r.Node, r.Define)
		records = append(records, rec)
	}
	for _, r := range tendril.ExtractReactiveVariableReferences(actx).All() {
		rec := record{
			Extractor: "reactive_variable",
			Kind:      "identifier",
			Method:    r.Method,
			Name:      r.Node.Name,
			Escape:    r.Escape,
		}
		fillPositions(&rec, r.Node, r.Define)
		records = append(records, rec)
	}
	return records, nil
}

func fillPositions(rec *record, node, define ast.Node) {
	span := node.Span()
	rec.StartLine, rec.StartCol = span.Start.Line, span.Start.Column
	rec.EndLine, rec.EndCol = span.End.Line, span.End.Column
	if define != nil {
		d := define.Span()
		rec.DefineLine, rec.DefineCol = d.Start.Line, d.Start.Column
	}
}

func printRecords(out *os.File, records []record) error {
	if flagFormat == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if records == nil {
			records = []record{}
		}
		return enc.Encode(records)
	}
	for _, r := range records {
		line := fmt.Sprintf("%d:%d %s %s %s", r.StartLine, r.StartCol, r.Extractor, r.Kind, r.Method)
		if r.Name != "" {
			line += " " + r.Name
		}
		if r.Role != "" {
			line += " (" + r.Role + ")"
		}
		if r.Escape {
			line += " [escaped]"
		}
		fmt.Fprintln(out, line)
	}
	return nil
}
