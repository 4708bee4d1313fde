package harness

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/certa-dev/certa/internal/registry"
)

// Dispatcher resolves a test identity to its registered hooks and invokes
// them at the correct lifecycle points: the pre-check at the start of setup,
// the post-check at the end of teardown, unconditionally.
type Dispatcher struct {
	reg    *registry.Registry
	logger *slog.Logger
}

// NewDispatcher creates a Dispatcher over reg. A nil logger suppresses log
// output.
func NewDispatcher(reg *registry.Registry, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Dispatcher{reg: reg, logger: logger}
}

// RunPreCheck invokes the pre-check registered for identity, if any.
// A missing registration or missing hook is a no-op. A hook error or panic
// is returned as "PreCheck failed: ..." so the caller can record it as an
// assertion failure and continue.
func (d *Dispatcher) RunPreCheck(identity registry.TestIdentity) error {
	return d.runHook(identity, "PreCheck", func(e registry.Entry) registry.Hook { return e.PreCheck })
}

// RunPostCheck invokes the post-check registered for identity, if any.
// Callers run it once per test regardless of whether the body or pre-check
// failed, mirroring guaranteed-cleanup semantics.
func (d *Dispatcher) RunPostCheck(identity registry.TestIdentity) error {
	return d.runHook(identity, "PostCheck", func(e registry.Entry) registry.Hook { return e.PostCheck })
}

func (d *Dispatcher) runHook(identity registry.TestIdentity, phase string, pick func(registry.Entry) registry.Hook) error {
	entry, ok := d.reg.Lookup(identity)
	if !ok {
		return nil
	}
	hook := pick(entry)
	if hook == nil {
		return nil
	}

	d.logger.Info("executing check",
		"phase", phase,
		"test", identity.String(),
		"function", entry.Tag.String(),
	)

	if err := runGuarded(hook); err != nil {
		return fmt.Errorf("%s failed: %w", phase, err)
	}
	return nil
}
