package cmd

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/go-drift/liststore/pkg/errors"
)

// watchDebounce coalesces the bursts of events editors emit on save.
const watchDebounce = 100 * time.Millisecond

func init() {
	RegisterCommand(&Command{
		Name:  "watch",
		Short: "Replay a diff script whenever it changes",
		Long: `Replay a diff script, then replay it again every time the file is
saved. Stop with Ctrl+C.`,
		Usage: "liststore watch <script.yaml>",
		Run:   runWatch,
	})
}

func runWatch(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("exactly one script is required\n\nUsage: liststore watch <script.yaml>")
	}
	path := args[0]
	if _, err := resolveConfig(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return watchScript(ctx, path, func() { replayAndReport(path) })
}

// replayAndReport replays the script at path and prints the rows. Failures
// go to the error handler so watching continues after a bad save.
func replayAndReport(path string) {
	fmt.Fprintf(stdout, "--- %s\n", path)
	store, err := replay(stdout, path, false, nil)
	if err != nil {
		var le *errors.ListError
		if !stderrors.As(err, &le) {
			le = &errors.ListError{Op: "liststore.watch", Kind: errors.KindUnknown, Index: errors.NoIndex, Err: err}
		}
		errors.Report(le)
		return
	}
	printRows(stdout, store)
	store.Release()
}

// watchScript calls onChange once immediately and again after every
// write to path, until ctx is done. The parent directory is watched so
// editors that save by renaming a new file into place are seen too.
func watchScript(ctx context.Context, path string, onChange func()) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", path, err)
	}

	onChange()

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs || !(event.Has(fsnotify.Write) || event.Has(fsnotify.Create)) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(watchDebounce)
			} else {
				timer.Reset(watchDebounce)
			}
			fire = timer.C
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watch error: %w", err)
		case <-fire:
			fire = nil
			onChange()
		}
	}
}
