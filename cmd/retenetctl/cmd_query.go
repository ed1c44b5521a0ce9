package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"retenet/internal/mangle"
)

var schemaPath string

var queryCmd = &cobra.Command{
	Use:   "query <predicate-query>",
	Short: "Evaluate a Datalog query over a snapshot of working memory",
	Long: `Projects every live fact visible from the main module into the
wm_fact(Template, Slot, Value) relation and evaluates query against a
Mangle schema loaded from --schema. The schema must declare wm_fact
(see mangle.WMFactSchema) and any derived predicates the query names.

Example:
  retenetctl query --schema overlay.mg "wm_fact(/item, Slot, Value)"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if schemaPath == "" {
			return fmt.Errorf("query requires --schema")
		}

		s, err := newSession()
		if err != nil {
			return err
		}
		defer s.Close()

		cfg := mangle.DefaultConfig()
		cfg.SchemaPath = schemaPath
		engine, err := mangle.NewEngine(cfg, nil)
		if err != nil {
			return fmt.Errorf("build mangle engine: %w", err)
		}
		defer engine.Close()

		if err := engine.LoadSchema(schemaPath); err != nil {
			return fmt.Errorf("load schema: %w", err)
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		if err := engine.LoadProjectedFacts(ctx, s.env.Store, s.env.Templates, s.env.MainModule()); err != nil {
			return fmt.Errorf("project facts: %w", err)
		}

		result, err := engine.Query(ctx, args[0])
		if err != nil {
			return fmt.Errorf("query: %w", err)
		}

		if len(result.Bindings) == 0 {
			fmt.Println("no bindings")
			return nil
		}
		for _, binding := range result.Bindings {
			fmt.Println(binding)
		}
		fmt.Printf("(%d bindings in %s)\n", len(result.Bindings), result.Duration)
		return nil
	},
}

func init() {
	queryCmd.Flags().StringVar(&schemaPath, "schema", "", "Path to the Mangle schema/rules file declaring wm_fact and any derived predicates")
}
