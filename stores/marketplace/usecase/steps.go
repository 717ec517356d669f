package usecase

import (
	"github.com/x-xyz/marketplace/base/ctx"
	"github.com/x-xyz/marketplace/base/log"
)

type undoFunc func(c ctx.Ctx) error

type undoStep struct {
	name string
	undo undoFunc
}

// steps records what a call has done so far, rollback reverts it newest first
type steps struct {
	c     ctx.Ctx
	undos []undoStep
}

func newSteps(c ctx.Ctx) *steps {
	return &steps{c: c}
}

// run executes do and, on success, remembers undo. A nil undo marks a step
// that leaves nothing to revert.
func (s *steps) run(name string, do func() error, undo undoFunc) error {
	if err := do(); err != nil {
		s.c.WithFields(log.Fields{"err": err, "step": name}).Warn("step failed, rolling back")
		s.rollback()
		return err
	}
	if undo != nil {
		s.undos = append(s.undos, undoStep{name, undo})
	}
	return nil
}

func (s *steps) rollback() {
	for i := len(s.undos) - 1; i >= 0; i-- {
		u := s.undos[i]
		if err := u.undo(s.c); err != nil {
			s.c.WithFields(log.Fields{"err": err, "step": u.name}).Error("failed to undo step")
		}
	}
	s.undos = nil
}
