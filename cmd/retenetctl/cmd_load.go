package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"retenet/internal/config"
	"retenet/internal/wire"
)

var loadCmd = &cobra.Command{
	Use:   "load <fact-file>",
	Short: "Load a fact literal file and report how many facts were asserted",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		s, err := newSession()
		if err != nil {
			return err
		}
		defer s.Close()

		n, err := s.env.LoadFacts(s.env.MainModule(), path)
		if err != nil {
			return fmt.Errorf("load-facts: %w", err)
		}
		fmt.Printf("loaded %d facts from %s\n", n, path)
		return nil
	},
}

var saveFactsCmd = &cobra.Command{
	Use:   "save-facts <output-file>",
	Short: "Write every live fact as a literal, one per line",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession()
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.env.SaveFacts(s.env.MainModule(), args[0], wire.ScopeVisible, nil); err != nil {
			return fmt.Errorf("save-facts: %w", err)
		}
		fmt.Printf("saved facts to %s\n", args[0])
		return nil
	},
}

var loadTemplatesCmd = &cobra.Command{
	Use:   "load-templates <template-file>",
	Short: "Register a YAML template-definitions file and list what was defined",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tf, err := config.LoadTemplateFile(args[0])
		if err != nil {
			return err
		}

		s, err := newSession()
		if err != nil {
			return err
		}
		defer s.Close()

		defined, err := tf.Register(s.env.Atoms, s.env.Templates, s.env.MainModule())
		if err != nil {
			return fmt.Errorf("register templates: %w", err)
		}
		for _, t := range defined {
			fmt.Printf("defined %s (%d slots)\n", t.Name.Lexeme(), t.NumberOfSlots())
		}
		return nil
	},
}
