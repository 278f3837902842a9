// Package diosprogram assembles one complete generated .asm file (spec
// §4.4, §4.6): data regions, queue macros, the constant-post dispatch
// macro, the code region (reset vector, interrupt handler, entry,
// built-in and custom phases, unassigned-queue handlers), grounded on
// the original generator's generate_main.
package diosprogram

import (
	"io"
	"strings"

	"example.com/diosgen/internal/diosconst"
	"example.com/diosgen/internal/diosemit"
	"example.com/diosgen/internal/diosmodel"
	"example.com/diosgen/internal/diosphase"
	"example.com/diosgen/internal/diosqueue"
	"example.com/diosgen/internal/diosweave"
)

// Generate writes prog's complete generated assembly to w.
func Generate(prog *diosmodel.Program, w io.Writer) error {
	out := diosemit.New()

	out.P("\t; Generated by diosgen from %q. Do not modify directly.", prog.SrcName)

	if len(prog.Includes) > 0 {
		out.Blank()
		for _, path := range prog.Includes {
			out.P("\tinclude\t%q", path)
		}
	}

	out.Blank()
	out.P("\tudata")
	emitConsts(prog, out)
	for qid, q := range prog.Queues {
		out.Blank()
		diosqueue.EmitUdata(q, out)
		diosqueue.EmitBitConsts(q, qid, out)
	}

	for _, c := range prog.Consts {
		out.Blank()
		diosconst.Emit(c, prog, out.MainWriter())
	}

	if len(prog.Modules) > 0 {
		out.Blank()
		diosweave.Weave("udata", prog, out.MainWriter(), true, false)
	}

	out.Blank()
	out.P("\tudata_shr")
	out.P("dios_irqsave_w\tres\t1")
	out.P("dios_irqsave_status\tres\t1")
	out.P("dios_irqsave_pclath\tres\t1")
	diosweave.Weave("udata_shr", prog, out.MainWriter(), true, false)

	if len(prog.Modules) > 0 {
		out.Blank()
		out.P("\tidata")
		diosweave.Weave("idata", prog, out.MainWriter(), true, false)
	}

	for _, q := range prog.Queues {
		out.Blank()
		diosqueue.EmitPostMacro(q, out)
		diosqueue.EmitPredicateMacro(q, out)
		diosqueue.EmitDispatchMacro(q, out)
	}

	if prog.Events.Len() > 0 {
		out.Blank()
		emitPostDispatch(prog, out)
	}

	out.Blank()
	out.P("\tcode")

	if len(prog.Modules) > 0 {
		out.Blank()
		out.P("\torg\t0x2100")
		diosweave.Weave("eedata", prog, out.MainWriter(), true, false)
	}

	out.Blank()
	out.P("\torg\t0")
	out.Pagesel("_start")
	out.Goto("_start")

	emitISR(prog, out)

	out.Blank()
	out.Label("_start")
	for _, q := range prog.Queues {
		out.Blank()
		diosqueue.EmitInit(q, out)
	}

	out.Blank()
	diosphase.Emit(diosmodel.PhaseInit, prog, out, nil)

	out.Blank()
	diosphase.Emit(diosmodel.PhaseIdle, prog, out, nil)

	if prog.Sleepable {
		out.Blank()
		diosphase.EmitSleep(prog, out)
	}

	out.Blank()
	out.Pagesel("phase_idle")
	out.Goto("phase_idle")

	out.FlushImpl()

	if len(prog.Modules) > 0 {
		out.Blank()
		diosweave.Weave("code", prog, out.MainWriter(), true, false)
	}

	for _, ph := range prog.Phases {
		out.Blank()
		diosphase.Emit(ph.Name, prog, out, nil)
		out.P("\treturn")
		out.FlushImpl()
	}

	for _, q := range prog.Queues {
		if q.Phase != "" {
			continue
		}
		out.Blank()
		startLabel := "handle_" + strings.ToLower(q.Name)
		out.Label(startLabel)
		diosqueue.EmitDrainHandler(q, prog, startLabel, out)
		out.P("\treturn")
		out.FlushImpl()
	}

	out.Blank()
	out.P("\tend")

	_, err := io.WriteString(w, out.Main.String())
	return err
}

// emitConsts emits the event and queue id cblocks (spec §4.1 "Identity
// cblocks").
func emitConsts(prog *diosmodel.Program, out *diosemit.Sink) {
	if prog.Events.Len() > 0 {
		names := make([]string, 0, prog.Events.Len())
		for _, e := range prog.Events.List() {
			names = append(names, e.Name)
		}
		out.P("\tcblock\t0\t; Events")
		out.P("\t\t%s", strings.Join(names, ", "))
		out.P("\tendc")
	}

	if len(prog.Queues) > 0 {
		if prog.Events.Len() > 0 {
			out.Blank()
		}
		names := make([]string, len(prog.Queues))
		for i, q := range prog.Queues {
			names[i] = q.Name
		}
		out.P("\tcblock\t0\t; Queues")
		out.P("\t\t%s", strings.Join(names, ", "))
		out.P("\tendc")
	}
}

// emitPostDispatch emits diospost, the macro a module uses to post an
// event by name: it resolves to whichever queues' diospost_<queue>
// macro the event was actually declared into, each guarded by an `if
// event == <name>` so only one arm survives assembly for any given
// invocation (spec §4.1 "Post dispatch macro").
func emitPostDispatch(prog *diosmodel.Program, out *diosemit.Sink) {
	out.P("diospost\tmacro\tevent")
	for _, e := range prog.Events.List() {
		out.P("\tif\tevent == %s", e.Name)
		for _, q := range prog.Queues {
			if !queueHasEvent(q, e) {
				continue
			}
			out.P("\tdiospost_%s\t%s_%s", strings.ToLower(q.Name), q.Name, e.Name)
		}
		out.P("\tendif")
	}
	out.P("\tendm")
}

func queueHasEvent(q *diosmodel.Queue, e *diosmodel.Event) bool {
	for _, qe := range q.Events {
		if qe == e {
			return true
		}
	}
	return false
}

// emitISR emits the interrupt vector and handler: save W/STATUS/PCLATH,
// the "irq" system phase (module weave plus any queues assigned
// directly to that phase), one dispatch-and-out-of-line-body pair per
// declared `irq` binding — each binding's body is itself a nested
// phase, whose own event bodies are nested once more — then restore
// and retfie (spec §4.4 "Interrupt handler").
func emitISR(prog *diosmodel.Program, out *diosemit.Sink) {
	out.Blank()
	out.P("\torg\t4")
	out.Label("_irq")
	out.P("\tmovwf\tdios_irqsave_w")
	out.P("\tswapf\tSTATUS, W")
	out.P("\tmovwf\tdios_irqsave_status")
	out.P("\tmovf\tPCLATH, W")
	out.P("\tmovwf\tdios_irqsave_pclath")
	out.Blank()

	diosphase.Emit(diosmodel.PhaseIRQ, prog, out, func() {
		for _, b := range prog.IRQs {
			implLabel := "dios_irqimpl_" + b.Phase
			endLabel := "dios_irqend_" + b.Phase

			out.Pagesel(implLabel)
			out.Banksel(b.FlagFile)
			out.BtfscSym(b.FlagFile, b.FlagBit)
			out.Goto(implLabel)

			out.ILabel(implLabel)
			out.IBcfSym(b.FlagFile, b.FlagBit)

			// The bound phase's own code is out-of-line relative to the
			// ISR; its event bodies are out-of-line again relative to it.
			sub := diosemit.New()
			diosphase.Emit(b.Phase, prog, sub, nil)
			sub.P("\tpagesel\t%s", endLabel)
			sub.P("\tgoto\t%s", endLabel)

			out.IPln(sub.Main.String())
			if sub.Impl.Len() > 0 {
				out.IBlank()
				out.IPln(sub.Impl.String())
			}

			out.Label(endLabel)
		}
	})

	out.Blank()
	out.P("\tmovf\tdios_irqsave_pclath, W")
	out.P("\tmovwf\tPCLATH")
	out.P("\tswapf\tdios_irqsave_status, W")
	out.P("\tmovwf\tSTATUS")
	out.P("\tswapf\tdios_irqsave_w, F")
	out.P("\tswapf\tdios_irqsave_w, W")
	out.P("\tretfie")

	out.FlushImpl()
}
