package diosqueue

import (
	"strconv"

	"example.com/diosgen/internal/diosemit"
	"example.com/diosgen/internal/diosmodel"
	"example.com/diosgen/internal/diosweave"
)

// EmitDrainHandler emits the inline scan for q into out's primary
// stream and each event's out-of-line body into out's secondary stream
// (spec §4.3 "Drain handler"). startLabel is the label priority mode
// restarts to (the phase's start label, or handle_<queue> for an
// unassigned queue). Call out.FlushImpl() after every queue owned by
// the same phase/handler has been drained, so each out-of-line body
// lands right after the inline scan that reaches it.
//
// The algorithm (spec §4.3 steps 1-6):
//
//  1. If in priority mode, clear state bit 1.
//  2. For large queues: skip to queue-end if state bit 0 is clear,
//     otherwise clear it; in priority mode, set state bit 1 now (we're
//     committed to doing work this pass).
//  3. Scan each bitmap byte; tiny queues skip the byte-level zero test
//     (at N<4 the test costs more than just checking every bit).
//     Each set bit branches to an out-of-line body that clears the
//     bit, weaves the event_<queue>_<event> aspect in, and returns
//     inline.
//  4. Small/large queues in priority mode set state bit 1 once a
//     non-empty byte is confirmed; tiny queues skip that byte-level
//     test, so each tiny event body sets the bit itself instead.
//  5. In priority mode, branch back to startLabel: conditionally on
//     state bit 1 for non-large queues, unconditionally for large
//     queues (which signal residual work through state bit 0 on the
//     next pass instead).
//  6. Large queues emit the queue-end label.
func EmitDrainHandler(q *diosmodel.Queue, prog *diosmodel.Program, startLabel string, out *diosemit.Sink) {
	hasPrios := prog.PhaseHasPriorities(q.Phase)
	class := q.Class()

	out.P("\t; Drain handler for queue %s", q.Name)

	qendLabel := "dios_qend_" + q.Name

	switch {
	case class == diosmodel.QueueLarge:
		if hasPrios {
			out.Banksel("dios_qstate_" + q.Name)
			out.Bcf("dios_qstate_"+q.Name, stateBitProcessed)
		}
		out.Pagesel(qendLabel)
		out.Banksel("dios_qstate_" + q.Name)
		out.Btfss("dios_qstate_"+q.Name, stateBitAnyPosted)
		out.Goto(qendLabel)
		out.Bcf("dios_qstate_"+q.Name, stateBitAnyPosted)
		if hasPrios {
			// Open Question #1 (spec §9): the state-bit-1 set here
			// targets the queue's own state byte; there is no stray
			// per-byte index to banksel against.
			out.Bsf("dios_qstate_"+q.Name, stateBitProcessed)
		}
	case hasPrios:
		out.Banksel("dios_qstate_" + q.Name)
		out.Bcf("dios_qstate_"+q.Name, stateBitProcessed)
	}

	nbytes := q.BitmapBytes()
	for i := 0; i < nbytes; i++ {
		wendLabel := byteEndLabel(q, i)

		if class != diosmodel.QueueTiny {
			reg := bitmapByteRef(q, i)
			out.Pagesel(wendLabel)
			out.Banksel(reg)
			out.P("\tmovf\t%s, F", reg)
			out.P("\tbtfsc\tSTATUS, Z")
			out.Goto(wendLabel)
			if hasPrios {
				out.Banksel("dios_qstate_" + q.Name)
				out.Bsf("dios_qstate_"+q.Name, stateBitProcessed)
				out.Banksel(reg)
			}
		}

		endBit := i*8 + 8
		if endBit > q.Size() {
			endBit = q.Size()
		}
		for j := i * 8; j < endBit; j++ {
			emitBitDispatch(q, prog, i, j, out)
		}

		if class != diosmodel.QueueTiny {
			out.Label(wendLabel)
		}
	}

	if hasPrios {
		out.Pagesel(startLabel)
		if class != diosmodel.QueueLarge {
			out.Banksel("dios_qstate_" + q.Name)
			out.Btfsc("dios_qstate_"+q.Name, stateBitProcessed)
		}
		out.Goto(startLabel)
	}

	if class == diosmodel.QueueLarge {
		out.Label(qendLabel)
	}
}

// emitBitDispatch emits the inline "is event j posted" test and branch
// (primary stream) plus that event's implementation body (secondary
// stream).
func emitBitDispatch(q *diosmodel.Queue, prog *diosmodel.Program, byteIdx, j int, out *diosemit.Sink) {
	bitInByte := j - byteIdx*8
	implLabel := bitImplLabel(q, j)

	reg := bitmapByteRef(q, byteIdx)
	out.Pagesel(implLabel)
	out.Btfsc(reg, bitInByte)
	out.Goto(implLabel)

	emitBitImpl(q, prog, byteIdx, j, bitInByte, implLabel, out)
}

// emitBitImpl emits the out-of-line implementation for event bit j:
// clear the bit, weave in the event_<queue>_<event> aspect, then (tiny
// queues only) set state bit 1 — non-tiny queues already set it at the
// byte level before entering the per-bit loop, so doing it again here
// would be redundant. No banksel precedes the bcf: bank selection rides
// in from whichever inline test branched here (the byte-zero test for
// non-tiny queues; none at all for tiny, matching the original
// generator). If another bit in the same byte still needs testing,
// re-banksel back to the bitmap byte before returning, since the module
// weave in between may have switched banks.
func emitBitImpl(q *diosmodel.Queue, prog *diosmodel.Program, byteIdx, j, bitInByte int, implLabel string, out *diosemit.Sink) {
	hasPrios := prog.PhaseHasPriorities(q.Phase)
	class := q.Class()
	reg := bitmapByteRef(q, byteIdx)
	bendLabel := bitEndLabel(q, j)
	ev := q.Events[j]

	out.ILabel(implLabel)
	out.IBcf(reg, bitInByte)

	aspect := "event_" + q.Name + "_" + ev.Name
	diosweave.Weave(aspect, prog, out.ImplWriter(), true, true)

	if class == diosmodel.QueueTiny && hasPrios {
		out.IBanksel("dios_qstate_" + q.Name)
		out.IBsf("dios_qstate_"+q.Name, stateBitProcessed)
	}

	endBit := byteIdx*8 + 8
	if endBit > q.Size() {
		endBit = q.Size()
	}
	if j != endBit-1 {
		out.IBanksel(reg)
	}

	out.IPagesel(bendLabel)
	out.IGoto(bendLabel)
	out.Label(bendLabel)
}

func byteEndLabel(q *diosmodel.Queue, byteIdx int) string {
	return "dios_qwend_" + q.Name + "_" + strconv.Itoa(byteIdx)
}

func bitImplLabel(q *diosmodel.Queue, bit int) string {
	return "dios_qimpl_" + q.Name + "_" + strconv.Itoa(bit)
}

func bitEndLabel(q *diosmodel.Queue, bit int) string {
	return "dios_qbend_" + q.Name + "_" + strconv.Itoa(bit)
}
