package main

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/jward/tendril/internal/discover"
	"github.com/jward/tendril/internal/store"
)

var flagDebounce time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch [path]",
	Short: "Watch a directory and reindex changed files",
	Long:  "Runs a full index, then watches the tree and reindexes JavaScript files as they change. Events are debounced so editor save bursts reindex once.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&flagDebounce, "debounce", 250*time.Millisecond, "quiet period before reindexing after a change")
	watchCmd.Flags().StringVar(&flagSourceType, "source-type", "module", "how factory calls resolve: module (ESM imports) or script (Vue global)")
}

func runWatch(cmd *cobra.Command, args []string) error {
	root := "."
	if len(args) == 1 {
		root = args[0]
	}

	if err := runIndex(cmd, args); err != nil {
		return err
	}

	dbPath := resolveDBPath(root)
	s, err := store.NewStore(dbPath)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer s.Close()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := addRecursive(watcher, root); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Watching %s (debounce %s)\n", root, flagDebounce)

	pending := make(map[string]struct{})
	timer := time.NewTimer(flagDebounce)
	if !timer.Stop() {
		<-timer.C
	}

	ctx := cmd.Context()
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					// New subtree: watch it too.
					_ = addRecursive(watcher, event.Name)
					continue
				}
			}
			if !discover.Supported(event.Name) {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			pending[event.Name] = struct{}{}
			timer.Reset(flagDebounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "watch error: %s\n", err)

		case <-timer.C:
			for path := range pending {
				delete(pending, path)
				reindexPath(ctx, s, path)
			}
		}
	}
}

// reindexPath refreshes one file's rows, dropping them when the file is gone.
func reindexPath(ctx context.Context, s *store.Store, path string) {
	if _, err := os.Stat(path); err != nil {
		if f, ferr := s.FileByPath(path); ferr == nil && f != nil {
			if derr := s.DeleteFile(f.ID); derr == nil {
				fmt.Fprintf(os.Stderr, "  removed %s\n", path)
			}
		}
		return
	}
	changed, err := indexFile(ctx, s, path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "  skip %s: %s\n", path, err)
		return
	}
	if changed {
		fmt.Fprintf(os.Stderr, "  reindexed %s\n", path)
	}
}

// addRecursive watches root and every subdirectory the indexer would visit.
func addRecursive(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		name := d.Name()
		if path != root && (strings.HasPrefix(name, ".") || name == "node_modules" || name == "vendor" || name == "dist" || name == "build") {
			return filepath.SkipDir
		}
		if werr := watcher.Add(path); werr != nil {
			fmt.Fprintf(os.Stderr, "cannot watch %s: %s\n", path, werr)
		}
		return nil
	})
}
