package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ariel-frischer/blurbs/internal/blurb"
	clierrors "github.com/ariel-frischer/blurbs/internal/errors"
	"github.com/ariel-frischer/blurbs/internal/progress"
	"github.com/ariel-frischer/blurbs/internal/release"
	"github.com/fatih/color"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// watchDebounce is how long the input directory must be quiet before a
// regeneration starts. Editors often write a file in several steps.
const watchDebounce = 300 * time.Millisecond

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Regenerate the documents whenever a blurb file changes",
	Long: `Generate once, then watch the input directory and regenerate after every
change to a blurb file. Each regeneration is a complete, fresh run; a
malformed blurb is reported and leaves the previous documents in place.

Stop with Ctrl-C.`,
	Example: `  blurbs watch
  blurbs watch -i blurbs -o preview`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWatch(cmd)
	},
}

func init() {
	watchCmd.GroupID = GroupRelease
	rootCmd.AddCommand(watchCmd)
	addReleaseFlags(watchCmd)
}

func runWatch(cmd *cobra.Command) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	ctx, log := withLogger(cmd, cfg)
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts, err := releaseOptions(cfg)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating file watcher: %w", err)
	}
	if err := watcher.Add(cfg.InputDir); err != nil {
		watcher.Close()
		return fmt.Errorf("watching %s: %w", cfg.InputDir, err)
	}

	regenerate := func() {
		res, err := release.Run(ctx, opts)
		if err != nil {
			symbols := progress.SelectSymbols(progress.DetectTerminalCapabilities())
			fmt.Fprintf(cmd.ErrOrStderr(), "%s Regeneration failed; previous documents kept\n", color.RedString(symbols.Failure))
			printError(cmd.ErrOrStderr(), clierrors.FromBlurbError(err))
			return
		}
		printGenerated(cmd.OutOrStdout(), cfg, res)
	}

	regenerate()
	log.Info().Str("dir", cfg.InputDir).Msg("watching for blurb changes")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		<-gctx.Done()
		return watcher.Close()
	})
	g.Go(func() error {
		return watchLoop(gctx, watcher, regenerate)
	})

	if err := g.Wait(); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

// watchLoop calls regenerate once events for blurb files have settled.
// It returns when ctx is cancelled or the watcher is closed.
func watchLoop(ctx context.Context, watcher *fsnotify.Watcher, regenerate func()) error {
	timer := time.NewTimer(watchDebounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !blurb.IsBlurbFile(ev.Name) || !ev.Has(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) {
				continue
			}
			timer.Reset(watchDebounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watching blurb directory: %w", err)
		case <-timer.C:
			regenerate()
		}
	}
}
