package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"retenet/internal/inspector"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Launch the bubbletea diagnostic browser over the engine's working memory",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireDeveloperMode(); err != nil {
			return err
		}
		s, err := newSession()
		if err != nil {
			return err
		}
		defer s.Close()

		m := inspector.New(s.env, s.env.MainModule())
		p := tea.NewProgram(m)
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("inspect: %w", err)
		}
		return nil
	},
}
