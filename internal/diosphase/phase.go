// Package diosphase implements phase codegen (spec §4.4): the entry
// label, module weaving around a phase's own body, and draining every
// queue the phase owns — the built-in init/idle/irq/sleep phases and
// every user-declared phase all share this one shape.
package diosphase

import (
	"example.com/diosgen/internal/diosemit"
	"example.com/diosgen/internal/diosmodel"
	"example.com/diosgen/internal/diosqueue"
	"example.com/diosgen/internal/diosweave"
)

// Label returns phase name's entry label.
func Label(name string) string {
	return "phase_" + name
}

// Emit writes a phase's complete code: entry label, the phase's
// main-pass module weave, body (the phase's own instructions, or nil
// for phases that are nothing but their owned queues' drain handlers),
// a drain handler for every queue owned by name in declaration order,
// and the phase's post-pass module weave.
//
// Grounded on the original generator's phase_code context manager,
// which opens the label and main weave before yielding control to the
// caller and closes with the queue handlers and post weave after.
func Emit(name string, prog *diosmodel.Program, out *diosemit.Sink, body func()) {
	label := Label(name)
	out.Label(label)
	diosweave.Weave(name, prog, out.MainWriter(), true, false)

	if body != nil {
		body()
	}

	for _, q := range prog.Queues {
		if q.Phase != name {
			continue
		}
		out.Blank()
		diosqueue.EmitDrainHandler(q, prog, label, out)
	}

	diosweave.Weave(name, prog, out.MainWriter(), false, true)
}
