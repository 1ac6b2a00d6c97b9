package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/hastakala/hastakala-api/internal/api/metrics"
)

// sagaStep is one action of a saga. compensate undoes a successful action
// and may be nil when there is nothing to undo.
type sagaStep struct {
	name       string
	action     func(ctx context.Context) error
	compensate func(ctx context.Context)
}

// saga runs steps across systems that share no commit protocol (the content
// store and the document store). When a step fails, every previously
// completed step is compensated in reverse order and the step's error is
// returned.
type saga struct {
	name  string
	steps []sagaStep
	log   zerolog.Logger
}

func newSaga(name string, log zerolog.Logger) *saga {
	return &saga{name: name, log: log}
}

func (s *saga) step(name string, action func(ctx context.Context) error, compensate func(ctx context.Context)) *saga {
	s.steps = append(s.steps, sagaStep{name: name, action: action, compensate: compensate})
	return s
}

func (s *saga) run(ctx context.Context) error {
	for i, st := range s.steps {
		if err := st.action(ctx); err != nil {
			s.log.Debug().Err(err).Str("saga", s.name).Str("step", st.name).Msg("saga step failed")
			s.rollback(ctx, i)
			return err
		}
	}
	return nil
}

// rollback compensates steps [0, failed) on a context that survives request
// cancellation, so an aborted client still gets its files cleaned up.
func (s *saga) rollback(ctx context.Context, failed int) {
	ctx = context.WithoutCancel(ctx)
	for i := failed - 1; i >= 0; i-- {
		st := s.steps[i]
		if st.compensate == nil {
			continue
		}
		st.compensate(ctx)
		metrics.SagaCompensationsTotal.WithLabelValues(s.name, st.name).Inc()
		s.log.Info().Str("saga", s.name).Str("step", st.name).Msg("compensated")
	}
}
