package diosmodel

import (
	"path/filepath"
	"strings"

	"example.com/diosgen/internal/diosdiag"
)

// Program is the complete, read-only-after-parse description of one
// DiOS-generated firmware image (spec §3).
type Program struct {
	SrcName   string
	Includes  []string
	Modules   []Module
	Consts    []Constant
	Phases    []Phase
	IRQs      []IRQBinding
	Events    *EventSet
	Queues    []*Queue
	WakeSrcs  []WakeSource
	Sleepable bool
}

// NewProgram returns an empty Program for srcName, ready for the parser
// to populate.
func NewProgram(srcName string) *Program {
	if srcName == "" {
		srcName = "-"
	}
	return &Program{SrcName: srcName, Events: NewEventSet()}
}

// PhaseHasPriorities reports whether more than one queue is owned by
// phase, which puts every one of those queues' drain handlers into
// priority mode (spec §4.3, §4.4).
func (p *Program) PhaseHasPriorities(phase string) bool {
	n := 0
	for _, q := range p.Queues {
		if q.Phase == phase {
			n++
		}
	}
	return n > 1
}

// knownPhaseNames returns the set of phase names a queue may legally
// claim: unassigned ("" is represented separately by callers), the four
// built-ins, every declared user phase, and every IRQ binding's phase
// (spec §3: "Owning phase must be one of: unassigned, init, idle, sleep,
// a declared user phase, or a declared IRQ phase").
func (p *Program) knownPhaseNames() map[string]bool {
	known := map[string]bool{
		PhaseInit:  true,
		PhaseIdle:  true,
		PhaseIRQ:   true,
		PhaseSleep: true,
	}
	for _, ph := range p.Phases {
		known[ph.Name] = true
	}
	for _, irq := range p.IRQs {
		known[irq.Phase] = true
	}
	return known
}

// Validate runs the cross-entity checks of spec §3 and returns every
// violation found (not just the first). Parsing itself fails fast on
// lexical/arity/domain errors as each line is read; these cross-entity
// checks only make sense once the whole Program has been built, and are
// independent of each other, so collecting all of them in one pass is
// strictly more useful to a description author than stopping at the
// first (see DESIGN.md for this deliberate deviation from the original
// single-error-at-a-time Python implementation).
func (p *Program) Validate(dios, wakeAlways bool, lastLine int) []*diosdiag.Error {
	var errs []*diosdiag.Error

	if !dios {
		errs = append(errs, diosdiag.Errorf(p.SrcName, 0, "No 'dios' marker found in file"))
	}

	if wakeAlways && len(p.WakeSrcs) > 0 {
		errs = append(errs, diosdiag.Errorf(p.SrcName, lastLine,
			"Both 'wake always' and %d explicit source(s) specified", len(p.WakeSrcs)))
	}

	known := p.knownPhaseNames()
	for _, q := range p.Queues {
		if q.Phase != "" && !known[q.Phase] {
			errs = append(errs, diosdiag.Errorf(p.SrcName, lastLine,
				"Unknown phase requested for evqueue %s: %s", q.Name, q.Phase))
		}
		if q.Size() > 256 {
			errs = append(errs, diosdiag.Errorf(p.SrcName, lastLine,
				"Queue %s has %d events, exceeding the 256 maximum", q.Name, q.Size()))
		}
	}

	// Using the same event at different priorities in the same phase
	// makes no sense: check every phase key present among the queues,
	// including the unassigned ("") bucket, treated as its own phase key.
	phaseKeys := map[string]bool{}
	for _, q := range p.Queues {
		phaseKeys[q.Phase] = true
	}
	for phase := range phaseKeys {
		seen := map[string]*Queue{}
		for _, q := range p.Queues {
			if q.Phase != phase {
				continue
			}
			for _, e := range q.Events {
				if other, ok := seen[e.Name]; ok {
					errs = append(errs, diosdiag.Errorf(p.SrcName, lastLine,
						"Both queue %s and %s in phase %q contain event %s", other.Name, q.Name, phase, e.Name))
				}
				seen[e.Name] = q
			}
		}
	}

	return errs
}

// moduleBaseName returns path's basename without extension (spec §3:
// "module name is the file's basename without extension").
func moduleBaseName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
