package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"retenet/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch --facts and reload it on every settled write",
	Long: `Starts a fsnotify watcher on the fact file named by --facts and
reloads it with Environment.LoadFacts every time a write settles.
Reload always happens on this command's own goroutine, never inside
the watcher itself, since an Environment is not safe to touch from
more than one goroutine.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if factsPath == "" {
			return fmt.Errorf("watch requires --facts")
		}

		s, err := newSession()
		if err != nil {
			return err
		}
		defer s.Close()

		w, err := watch.New(factsPath, watch.DefaultDebounce)
		if err != nil {
			return fmt.Errorf("start watcher: %w", err)
		}

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()
		if err := w.Start(ctx); err != nil {
			return fmt.Errorf("start watcher: %w", err)
		}
		defer w.Stop()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

		fmt.Printf("watching %s, ctrl-c to stop\n", factsPath)
		for {
			select {
			case <-w.Settled():
				n, err := s.env.LoadFacts(s.env.MainModule(), factsPath)
				if err != nil {
					fmt.Fprintf(os.Stderr, "reload failed: %v\n", err)
					continue
				}
				fmt.Printf("reloaded %d facts\n", n)
			case <-sigCh:
				return nil
			}
		}
	},
}
