package vault

import (
	"context"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// Watcher drops cached notes when their files change on disk
type Watcher struct {
	vault   *FSVault
	watcher *fsnotify.Watcher
}

// NewWatcher registers every folder of the vault with fsnotify
func NewWatcher(v *FSVault) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	w := &Watcher{vault: v, watcher: watcher}
	if err := w.addRecursive(v.root); err != nil {
		_ = watcher.Close()
		return nil, err
	}
	return w, nil
}

// addRecursive watches dir and its sub-folders, skipping hidden ones
func (w *Watcher) addRecursive(dir string) error {
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if p != dir && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(p); err != nil {
			return fmt.Errorf("watch %s: %w", p, err)
		}
		return nil
	})
}

// Run processes events until ctx is done, then closes the watcher
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher events channel closed")
			}
			w.handle(ctx, event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher errors channel closed")
			}
			// events may have been dropped
			log.Printf("[WATCH] fsnotify error: %v", err)
			w.vault.invalidateAll(ctx)
		}
	}
}

func (w *Watcher) handle(ctx context.Context, event fsnotify.Event) {
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addRecursive(event.Name); err != nil {
				log.Printf("[WATCH] %v", err)
			}
			w.vault.invalidateIndexes(ctx)
			return
		}
	}

	if strings.HasPrefix(filepath.Base(event.Name), tempFilePrefix) {
		return
	}
	if !strings.EqualFold(filepath.Ext(event.Name), ".md") {
		// a removed or renamed folder takes its notes with it
		if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
			if dirID, err := w.vault.noteID(event.Name); err == nil {
				w.vault.invalidateFolder(ctx, dirID)
			}
		}
		return
	}

	noteID, err := w.vault.noteID(event.Name)
	if err != nil {
		return
	}

	structural := event.Has(fsnotify.Create) || event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)
	w.vault.invalidate(ctx, noteID, structural)
	w.vault.debugLog("%s %s", event.Op, noteID)
}
