package main

import (
	"context"
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/jward/tendril/internal/discover"
	"github.com/jward/tendril/internal/store"
)

var flagForce bool

var indexCmd = &cobra.Command{
	Use:   "index [path]",
	Short: "Index a directory's reactivity references",
	Long:  "Discovers JavaScript files (honoring .gitignore), classifies their reactivity references, and writes the records to the SQLite index. Unchanged files are skipped by content hash.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runIndex,
}

func init() {
	indexCmd.Flags().BoolVar(&flagForce, "force", false, "delete the database and reindex from scratch")
	indexCmd.Flags().StringVar(&flagSourceType, "source-type", "module", "how factory calls resolve: module (ESM imports) or script (Vue global)")
}

func runIndex(cmd *cobra.Command, args []string) error {
	start := time.Now()
	root := "."
	if len(args) == 1 {
		root = args[0]
	}

	dbPath := resolveDBPath(root)
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(dbPath), err)
	}
	if flagForce {
		if err := os.Remove(dbPath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("removing database for --force: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Cleared database: %s\n", dbPath)
	}

	s, err := store.NewStore(dbPath)
	if err != nil {
		return fmt.Errorf("creating store: %w", err)
	}
	defer s.Close()
	if err := s.Migrate(); err != nil {
		return err
	}

	paths, err := discover.Files(root)
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}

	indexed, skipped := 0, 0
	for _, path := range paths {
		changed, err := indexFile(cmd.Context(), s, path)
		if err != nil {
			// Individual file failures are reported and skipped.
			fmt.Fprintf(os.Stderr, "  skip %s: %s\n", path, err)
			continue
		}
		if changed {
			indexed++
		} else {
			skipped++
		}
	}

	fmt.Fprintf(os.Stderr, "Indexed %d file(s), %d unchanged in %s\n",
		indexed, skipped, time.Since(start).Round(time.Millisecond))
	return nil
}

// resolveDBPath returns --db when set, else .tendril/index.db under root.
func resolveDBPath(root string) string {
	if flagDB != "" {
		return flagDB
	}
	return filepath.Join(root, ".tendril", "index.db")
}

// indexFile analyzes one file and replaces its rows. Returns false when the
// stored content hash matches and nothing was done.
func indexFile(ctx context.Context, s *store.Store, path string) (bool, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("read file: %w", err)
	}
	hash := fmt.Sprintf("%x", sha256.Sum256(content))

	existing, err := s.FileByPath(path)
	if err != nil {
		return false, fmt.Errorf("lookup file: %w", err)
	}
	if existing != nil && existing.Hash == hash {
		return false, nil // unchanged
	}
	if existing != nil {
		if err := s.DeleteFile(existing.ID); err != nil {
			return false, fmt.Errorf("delete old data: %w", err)
		}
	}

	records, err := analyzeSource(ctx, content)
	if err != nil {
		return false, err
	}

	lineCount := 1
	for _, b := range content {
		if b == '\n' {
			lineCount++
		}
	}
	fileID, err := s.InsertFile(&store.File{
		Path:        path,
		Hash:        hash,
		LineCount:   lineCount,
		LastIndexed: time.Now(),
	})
	if err != nil {
		return false, fmt.Errorf("insert file: %w", err)
	}

	for _, r := range records {
		_, err := s.InsertRecord(&store.Record{
			FileID:     fileID,
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
		if err != nil {
			return false, fmt.Errorf("insert record: %w", err)
		}
	}
	return true, nil
}
