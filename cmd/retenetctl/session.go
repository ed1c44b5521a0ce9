package main

import (
	"fmt"

	"retenet/internal/audit"
	"retenet/internal/config"
	"retenet/internal/env"
)

// session bundles the engine and the optional audit logger a command
// needs to tear down cleanly.
type session struct {
	env   *env.Environment
	audit *audit.Logger
}

// newSession builds an Environment against the --templates/--facts/
// --audit-db flags shared by every subcommand.
func newSession() (*session, error) {
	e := env.New()
	mod := e.MainModule()

	if templatesPath != "" {
		tf, err := config.LoadTemplateFile(templatesPath)
		if err != nil {
			return nil, fmt.Errorf("load templates: %w", err)
		}
		if _, err := tf.Register(e.Atoms, e.Templates, mod); err != nil {
			return nil, fmt.Errorf("register templates: %w", err)
		}
	}

	s := &session{env: e}

	if auditPath != "" {
		l, err := audit.Open(auditPath)
		if err != nil {
			return nil, fmt.Errorf("open audit log: %w", err)
		}
		e.AttachObserver(l)
		s.audit = l
	}

	if factsPath != "" {
		n, err := e.LoadFacts(mod, factsPath)
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("load facts: %w", err)
		}
		logger.Sugar().Infow("loaded facts", "count", n, "path", factsPath)
	}

	return s, nil
}

func (s *session) Close() {
	if s.audit != nil {
		_ = s.audit.Close()
	}
}
