package diosphase

import (
	"example.com/diosgen/internal/diosemit"
	"example.com/diosgen/internal/diosmodel"
	"example.com/diosgen/internal/diosqueue"
)

// EmitSleep emits the sleep gate and the sleep phase itself (spec §4.4
// "Sleep"), only ever called when the description declared at least
// one `wake` line (Program.Sleepable):
//
//  1. Seed STATUS,C with whether any wake source is already armed: if
//     none were declared, assume the hardware default is adequate and
//     start armed; otherwise start disarmed and let each declared
//     source arm it.
//  2. Inhibit (clear C) if interrupts are globally disabled — without
//     GIE set, nothing can ever bring the device out of sleep.
//  3. Inhibit if any idle-phase queue still has pending work.
//  4. Skip the sleep phase entirely unless C survived all of the
//     above still set.
func EmitSleep(prog *diosmodel.Program, out *diosemit.Sink) {
	if len(prog.WakeSrcs) > 0 {
		out.P("\tbcf\tSTATUS, C")
	} else {
		out.P("\tbsf\tSTATUS, C")
	}

	for _, w := range prog.WakeSrcs {
		out.Banksel(w.EnFile)
		out.BtfscSym(w.EnFile, w.EnBit)
		out.P("\tbsf\tSTATUS, C")
	}

	out.Banksel("INTCON")
	out.BtfssSym("INTCON", "GIE")
	out.P("\tbcf\tSTATUS, C")

	out.Blank()
	for _, q := range prog.Queues {
		if q.Phase != diosmodel.PhaseIdle {
			continue
		}
		diosqueue.EmitPredicateInvoke(q, out)
		out.P("\tbcf\tSTATUS, C")
	}

	out.Blank()
	out.Pagesel("phase_sleep_done")
	out.BtfssSym("STATUS", "C")
	out.Goto("phase_sleep_done")

	Emit(diosmodel.PhaseSleep, prog, out, func() {
		out.P("\tsleep")
	})

	out.Label("phase_sleep_done")
}
