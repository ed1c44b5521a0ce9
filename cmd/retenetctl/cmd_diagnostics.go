package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// requireDeveloperMode enforces config.Settings.DeveloperMode before a
// dev command runs — the gate the field names but that nothing
// previously checked.
func requireDeveloperMode() error {
	if settings != nil && !settings.DeveloperMode {
		return fmt.Errorf("this command requires developer_mode: true (or RETENET_DEVELOPER_MODE=1)")
	}
	return nil
}

var showFPNCmd = &cobra.Command{
	Use:   "show-fpn",
	Short: "Print alpha-network discrimination paths per template",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireDeveloperMode(); err != nil {
			return err
		}
		s, err := newSession()
		if err != nil {
			return err
		}
		defer s.Close()

		for _, tmpl := range s.env.Templates.ListTemplates(s.env.MainModule()) {
			lines := s.env.ShowFPN(tmpl)
			if len(lines) == 0 {
				fmt.Printf("%s: no alpha paths\n", tmpl.Name.Lexeme())
				continue
			}
			for _, l := range lines {
				fmt.Println(l)
			}
		}
		return nil
	},
}

var showFHTCmd = &cobra.Command{
	Use:   "show-fht",
	Short: "Print fact hash table bucket occupancy",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireDeveloperMode(); err != nil {
			return err
		}
		s, err := newSession()
		if err != nil {
			return err
		}
		defer s.Close()

		for i, n := range s.env.ShowFHT() {
			fmt.Printf("bucket %4d: %d\n", i, n)
		}
		return nil
	},
}

var validateIntegrityCmd = &cobra.Command{
	Use:   "validate-fact-integrity",
	Short: "Check every live fact against its store invariants",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireDeveloperMode(); err != nil {
			return err
		}
		s, err := newSession()
		if err != nil {
			return err
		}
		defer s.Close()

		violations := s.env.ValidateFactIntegrity()
		if len(violations) == 0 {
			fmt.Println("no integrity violations")
			return nil
		}
		for _, v := range violations {
			fmt.Println(v.Error())
		}
		return fmt.Errorf("%d integrity violations found", len(violations))
	},
}

var primitivesInfoCmd = &cobra.Command{
	Use:   "primitives-info",
	Short: "Show assert/retract/modify counters",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireDeveloperMode(); err != nil {
			return err
		}
		s, err := newSession()
		if err != nil {
			return err
		}
		defer s.Close()

		info := s.env.PrimitivesInfo()
		fmt.Printf("asserts:  %d\nretracts: %d\nmodifies: %d\n", info.Asserts, info.Retracts, info.Modifies)
		return nil
	},
}

var primitivesUsageCmd = &cobra.Command{
	Use:   "primitives-usage",
	Short: "Show assert/retract/modify counters as a flat list",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireDeveloperMode(); err != nil {
			return err
		}
		s, err := newSession()
		if err != nil {
			return err
		}
		defer s.Close()

		for _, line := range s.env.PrimitivesUsage() {
			fmt.Println(line)
		}
		return nil
	},
}
