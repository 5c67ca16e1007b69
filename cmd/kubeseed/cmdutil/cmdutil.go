// Package cmdutil wires the pieces every kubeseed subcommand needs:
// configuration, the checkpoint journal, and an installer bound to the
// local host.
package cmdutil

import (
	"log/slog"

	"kubeseed/config"
	"kubeseed/internal/converge"
	"kubeseed/internal/hostrun"
	"kubeseed/internal/install"
	"kubeseed/internal/journal"
)

// Session holds the wired dependencies for one command invocation.
type Session struct {
	Config    *config.Config
	Installer *install.Installer
	Journal   *journal.Journal // nil when the journal could not be opened
}

// Open loads the config and builds an installer. The journal records the
// run under command; an empty command opens the journal read-only without
// starting a run. A journal that fails to open degrades to no history
// rather than blocking the installation.
func Open(configPath, command string) (*Session, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	var rec converge.Recorder
	jnl, err := journal.Open(cfg.JournalPath)
	if err != nil {
		slog.Warn("Journal unavailable, continuing without history.", "path", cfg.JournalPath, "error", err)
		jnl = nil
	} else if command != "" {
		if err := jnl.Begin(command); err != nil {
			slog.Warn("Journal run not recorded, continuing without history.", "error", err)
			_ = jnl.Close()
			jnl = nil
		}
	}
	if jnl != nil {
		rec = jnl
	}

	runner := hostrun.ExecRunner{}
	return &Session{
		Config:    cfg,
		Installer: install.New(runner, converge.NewDriver(rec), cfg),
		Journal:   jnl,
	}, nil
}

// Close releases the session's journal, if any.
func (s *Session) Close() {
	if s.Journal != nil {
		_ = s.Journal.Close()
	}
}
