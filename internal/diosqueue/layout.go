// Package diosqueue implements per-queue code generation (spec §4.3):
// data layout, event-bit constants, post/predicate macros,
// initialization, the out-of-line dispatch macro for unassigned queues,
// and the drain handler itself. This is the core of the generator —
// three distinct strategies (tiny/small/large) selected by
// diosmodel.Queue.Class, chosen to keep code size down on a part with
// no hardware multiply and a handful of banks of RAM.
package diosqueue

import (
	"strconv"
	"strings"

	"example.com/diosgen/internal/diosemit"
	"example.com/diosgen/internal/diosmodel"
)

// state byte bit assignments, shared by every queue regardless of size
// class (spec §4.3 "Data layout"):
const (
	stateBitAnyPosted = 0 // large queues: whether any event is posted.
	stateBitProcessed = 1 // prioritized queues: whether any event was processed this pass.
)

// EmitUdata reserves q's state byte and ceil(N/8) bitmap bytes.
func EmitUdata(q *diosmodel.Queue, out *diosemit.Sink) {
	out.P("dios_qsz_%s\tequ\t%d", q.Name, q.Size())
	out.P("dios_qstate_%s\tres\t1", q.Name)
	out.P("dios_q_%s\tres\t(dios_qsz_%s + 7) / 8", q.Name, q.Name)
}

// EmitBitConsts names each event bit <QueueName>_<EventName> in a cblock
// starting at (qid << 8): the top byte of the bit index identifies the
// queue, the bottom byte the bit position within that queue's bitmap
// (spec §4.3 "Event-bit constants").
func EmitBitConsts(q *diosmodel.Queue, qid int, out *diosemit.Sink) {
	out.P("\tcblock\t%d << 8\t; Queue event bits", qid)
	names := make([]string, len(q.Events))
	for i, e := range q.Events {
		names[i] = q.Name + "_" + e.Name
	}
	out.P("\t\t%s", strings.Join(names, ", "))
	out.P("\tendc")
}

// EmitInit zeroes q's state byte and every bitmap byte, in bank-select
// order (spec §4.3 "Initializer").
func EmitInit(q *diosmodel.Queue, out *diosemit.Sink) {
	out.Banksel("dios_qstate_" + q.Name)
	out.P("\tclrf\tdios_qstate_%s", q.Name)
	for i := 0; i < q.BitmapBytes(); i++ {
		reg := bitmapByteRef(q, i)
		out.Banksel(reg)
		out.P("\tclrf\t%s", reg)
	}
}

// bitmapByteRef names bitmap byte i of q's bitmap reservation.
func bitmapByteRef(q *diosmodel.Queue, i int) string {
	if i == 0 {
		return "dios_q_" + q.Name
	}
	return "dios_q_" + q.Name + " + " + strconv.Itoa(i)
}
