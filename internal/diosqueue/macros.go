package diosqueue

import (
	"strings"

	"example.com/diosgen/internal/diosemit"
	"example.com/diosgen/internal/diosmodel"
)

// lowerName is the macro-name form of a queue name: diospost_<name>,
// diosqsc_<name>, process_<name> are all lower-cased (spec §4.3).
func lowerName(q *diosmodel.Queue) string {
	return strings.ToLower(q.Name)
}

// EmitPostMacro emits diospost_<queue>, a macro taking a bit index that
// sets the corresponding bitmap bit, and for large queues additionally
// sets state bit 0. bit carries the queue ordinal in its top byte
// (§4.3: "the top byte of a bit-index identifies the queue, the bottom
// byte the bit position"), so the byte offset masks that off with
// `& 0xFF` before dividing by 8 (floor, matching the drain handler's own
// byte index ⌊j/8⌋) — an unmasked bit would drift into a following
// queue's reservation, and a ceiling division would target a byte the
// drain handler never scans.
//
// Interrupt safety (spec §4.3, §5): the mainline drain clears state bit
// 0 *before* scanning the bitmap. If an interrupt posts an event between
// the clear and the scan, the scan still observes the freshly-set
// bitmap bit. If an interrupt posts during the scan into a byte already
// scanned, state bit 0 is left set by this macro and the next priority
// pass (or next phase entry, for non-priority large queues) revisits.
func EmitPostMacro(q *diosmodel.Queue, out *diosemit.Sink) {
	out.P("diospost_%s\tmacro\tbit", lowerName(q))
	out.Banksel("dios_q_" + q.Name + " + ((bit) & 0xFF) / 8")
	out.P("\tbsf\tdios_q_%s + ((bit) & 0xFF) / 8, (bit) %% 8", q.Name)
	if q.Class() == diosmodel.QueueLarge {
		out.Banksel("dios_qstate_" + q.Name)
		out.Bsf("dios_qstate_"+q.Name, stateBitAnyPosted)
	}
	out.P("\tendm")
}

// EmitPredicateMacro emits diosqsc_<queue>, a "skip next instruction if
// empty" macro: large queues test state bit 0; small queues with N<=8
// test the single bitmap byte; small queues with 8<N<=16 OR all bitmap
// bytes into W and test Z (spec §4.3 "Queue-has-work predicate").
func EmitPredicateMacro(q *diosmodel.Queue, out *diosemit.Sink) {
	out.P("diosqsc_%s\tmacro", lowerName(q))
	switch {
	case q.Class() == diosmodel.QueueLarge:
		out.Banksel("dios_qstate_" + q.Name)
		out.Btfsc("dios_qstate_"+q.Name, stateBitAnyPosted)
	case q.Size() <= 8:
		out.Banksel("dios_q_" + q.Name)
		out.P("\tmovf\tdios_q_%s, F", q.Name)
	default:
		out.P("\tclrw")
		for i := 0; i < q.BitmapBytes(); i++ {
			reg := bitmapByteRef(q, i)
			out.Banksel(reg)
			out.P("\tiorwf\t%s, W", reg)
		}
	}
	if q.Class() != diosmodel.QueueLarge {
		out.P("\tbtfss\tSTATUS, Z")
	}
	out.P("\tendm")
}

// EmitPredicateInvoke emits a bare invocation of q's diosqsc_<queue>
// macro, as used by the sleep gate to fold each idle-phase queue's
// pending-work state into STATUS,C (spec §4.4 "Sleep").
func EmitPredicateInvoke(q *diosmodel.Queue, out *diosemit.Sink) {
	out.P("\tdiosqsc_%s", lowerName(q))
}

// EmitDispatchMacro emits process_<queue> for a queue with no owning
// phase: a page-select plus call to the out-of-line handle_<queue>
// entrypoint (spec §4.3 "Dispatch macro").
func EmitDispatchMacro(q *diosmodel.Queue, out *diosemit.Sink) {
	if q.Phase != "" {
		return
	}
	out.Blank()
	out.P("process_%s\tmacro", lowerName(q))
	out.P("\tpagesel\thandle_%s", lowerName(q))
	out.P("\tcall\thandle_%s", lowerName(q))
	out.P("\tendm")
}
