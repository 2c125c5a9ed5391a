package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jward/tendril/internal/store"
)

var (
	flagListMethod    string
	flagListExtractor string
	flagListFile      string
	flagListSummary   bool
)

var listCmd = &cobra.Command{
	Use:   "list [path]",
	Short: "List indexed reactivity records",
	Long:  "Queries the SQLite index written by `tendril index`. Filters combine as AND; --summary prints per-method counts instead of rows.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runList,
}

func init() {
	listCmd.Flags().StringVar(&flagListMethod, "method", "", "only records for this factory or macro (e.g. ref, $computed)")
	listCmd.Flags().StringVar(&flagListExtractor, "extractor", "", "only records from one extractor: ref_object|reactive_variable")
	listCmd.Flags().StringVar(&flagListFile, "file", "", "only records from this indexed file path")
	listCmd.Flags().BoolVar(&flagListSummary, "summary", false, "print per-method record counts")
}

func runList(cmd *cobra.Command, args []string) error {
	root := "."
	if len(args) == 1 {
		root = args[0]
	}
	dbPath := resolveDBPath(root)
	if _, err := os.Stat(dbPath); err != nil {
		return fmt.Errorf("no index at %s (run `tendril index` first)", dbPath)
	}

	s, err := store.NewStore(dbPath)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer s.Close()

	if flagListSummary {
		return printSummary(s)
	}

	records, err := queryRecords(s)
	if err != nil {
		return err
	}
	return printStoredRecords(records)
}

func queryRecords(s *store.Store) ([]*store.Record, error) {
	var records []*store.Record
	var err error
	switch {
	case flagListFile != "":
		f, ferr := s.FileByPath(flagListFile)
		if ferr != nil {
			return nil, ferr
		}
		if f == nil {
			return nil, fmt.Errorf("file not indexed: %s", flagListFile)
		}
		records, err = s.RecordsByFile(f.ID)
	case flagListMethod != "":
		records, err = s.RecordsByMethod(flagListMethod)
	case flagListExtractor != "":
		records, err = s.RecordsByExtractor(flagListExtractor)
	default:
		files, ferr := s.Files()
		if ferr != nil {
			return nil, ferr
		}
		for _, f := range files {
			rs, rerr := s.RecordsByFile(f.ID)
			if rerr != nil {
				return nil, rerr
			}
			records = append(records, rs...)
		}
	}
	if err != nil {
		return nil, err
	}
	// Secondary filters narrow whichever primary query ran.
	filtered := records[:0]
	for _, r := range records {
		if flagListMethod != "" && r.Method != flagListMethod {
			continue
		}
		if flagListExtractor != "" && r.Extractor != flagListExtractor {
			continue
		}
		filtered = append(filtered, r)
	}
	return filtered, nil
}

func printSummary(s *store.Store) error {
	counts, err := s.MethodCounts()
	if err != nil {
		return err
	}
	if flagFormat == "json" {
		type count struct {
			Method string `json:"method"`
			Count  int    `json:"count"`
		}
		out := make([]count, 0, len(counts))
		for _, c := range counts {
			out = append(out, count{Method: c.Method, Count: c.Count})
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}
	for _, c := range counts {
		fmt.Printf("%6d  %s\n", c.Count, c.Method)
	}
	return nil
}

func printStoredRecords(records []*store.Record) error {
	if flagFormat == "json" {
		out := make([]record, 0, len(records))
		for _, r := range records {
			out = append(out, record{
				Extractor:  r.Extractor,
				Kind:       r.Kind,
				Role:       r.Role,
				Method:     r.Method,
				Name:       r.Name,
				Escape:     r.Escape,
				StartLine:  r.StartLine,
				StartCol:   r.StartCol,
				EndLine:    r.EndLine,
				EndCol:     r.EndCol,
				DefineLine: r.DefineLine,
				DefineCol:  r.DefineCol,
			})
		}
		return printRecords(os.Stdout, out)
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
		fmt.Println(line)
	}
	return nil
}
