package provision

import (
	"context"
	"fmt"
	"log/slog"
)

// Outcome is the typed result of applying one reconciliation step.
type Outcome int

const (
	// Satisfied means the host already matched the desired state.
	Satisfied Outcome = iota
	// Changed means the step mutated the host to reach the desired state.
	Changed
	// Failed means the step could not reach the desired state.
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Satisfied:
		return "satisfied"
	case Changed:
		return "changed"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Step is one named reconciliation. Apply must be safe to re-run.
type Step struct {
	Name  string
	Apply func(ctx context.Context) (Outcome, error)
}

// Plan is an ordered sequence of steps. Execution is strictly sequential
// and aborts at the first failure; completed steps are not rolled back.
type Plan struct {
	Steps []Step
}

// Execute runs every step in order, narrating each outcome. A canceled
// context stops between steps; in-flight external commands also observe it.
func (p *Plan) Execute(ctx context.Context, log *slog.Logger) error {
	for _, s := range p.Steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		log.Info("step starting", "step", s.Name)
		outcome, err := s.Apply(ctx)
		if err != nil {
			log.Error("step failed", "step", s.Name, "error", err)
			return fmt.Errorf("step %q: %w", s.Name, err)
		}
		log.Info("step done", "step", s.Name, "outcome", outcome.String())
	}
	return nil
}
