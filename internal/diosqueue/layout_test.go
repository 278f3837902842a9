package diosqueue

import (
	"strings"
	"testing"

	"example.com/diosgen/internal/diosemit"
	"example.com/diosgen/internal/diosmodel"
)

func events(n int) []*diosmodel.Event {
	evs := make([]*diosmodel.Event, n)
	for i := range evs {
		evs[i] = &diosmodel.Event{Name: "E"}
	}
	return evs
}

func TestEmitUdataSizesBitmapByEventCount(t *testing.T) {
	q := &diosmodel.Queue{Name: "Q", Events: events(9)}
	out := diosemit.New()
	EmitUdata(q, out)
	got := out.Main.String()
	if !strings.Contains(got, "dios_qsz_Q\tequ\t9") {
		t.Errorf("EmitUdata output missing size constant: %q", got)
	}
	if !strings.Contains(got, "dios_qstate_Q\tres\t1") {
		t.Errorf("EmitUdata output missing state byte: %q", got)
	}
	if !strings.Contains(got, "dios_q_Q\tres\t(dios_qsz_Q + 7) / 8") {
		t.Errorf("EmitUdata output missing bitmap reservation: %q", got)
	}
}

func TestEmitBitConstsNamesEveryEvent(t *testing.T) {
	q := &diosmodel.Queue{Name: "Q", Events: []*diosmodel.Event{{Name: "Tick"}, {Name: "Tock"}}}
	out := diosemit.New()
	EmitBitConsts(q, 3, out)
	got := out.Main.String()
	if !strings.Contains(got, "cblock\t3 << 8") {
		t.Errorf("EmitBitConsts missing queue-id shift: %q", got)
	}
	if !strings.Contains(got, "Q_Tick, Q_Tock") {
		t.Errorf("EmitBitConsts missing event bit names: %q", got)
	}
}

func TestEmitInitClearsEveryBitmapByte(t *testing.T) {
	q := &diosmodel.Queue{Name: "Q", Events: events(20)}
	out := diosemit.New()
	EmitInit(q, out)
	got := out.Main.String()
	for _, want := range []string{"clrf\tdios_qstate_Q", "clrf\tdios_q_Q\n", "clrf\tdios_q_Q + 1\n", "clrf\tdios_q_Q + 2\n"} {
		if !strings.Contains(got, want) {
			t.Errorf("EmitInit missing %q in:\n%s", want, got)
		}
	}
}

func TestBitmapByteRef(t *testing.T) {
	q := &diosmodel.Queue{Name: "Q"}
	if got := bitmapByteRef(q, 0); got != "dios_q_Q" {
		t.Errorf("bitmapByteRef(0) = %q, want dios_q_Q", got)
	}
	if got := bitmapByteRef(q, 2); got != "dios_q_Q + 2" {
		t.Errorf("bitmapByteRef(2) = %q, want \"dios_q_Q + 2\"", got)
	}
}
