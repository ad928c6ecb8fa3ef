package main

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const watchDebounce = 300 * time.Millisecond

func newWatchCmd(opts *buildOptions) *cobra.Command {
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Rebuild and print the chart model every time the history file changes",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()
			return watchHistory(ctx, opts, cmd, cmd.OutOrStdout(), debounce)
		},
	}
	cmd.Flags().DurationVar(&debounce, "debounce", watchDebounce, "quiet period before a rebuild")

	return cmd
}

// watchHistory prints one model right away and another after every burst of
// writes to the history file. Build errors are logged and the watch goes on.
func watchHistory(ctx context.Context, opts *buildOptions, cmd *cobra.Command, out io.Writer, debounce time.Duration) error {
	historyPath, err := filepath.Abs(opts.historyPath)
	if err != nil {
		return fmt.Errorf("resolve history path: %w", err)
	}

	rebuild := func() {
		in, err := opts.input(ctx, cmd.Flags().Changed("target"), cmd.Flags().Changed("current"))
		if err == nil {
			err = buildAndWrite(out, in, opts.format)
		}
		if err != nil {
			log.Errorf("rebuild chart from %s: %s", historyPath, err)
		}
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	// editors often replace the file, so the directory is watched instead
	if err := watcher.Add(filepath.Dir(historyPath)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(historyPath), err)
	}

	rebuild()
	log.Debugf("watching %s", historyPath)

	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != historyPath {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				timer.Reset(debounce)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Errorf("history watcher: %s", err)
		case <-timer.C:
			rebuild()
		}
	}
}
