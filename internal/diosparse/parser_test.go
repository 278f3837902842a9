package diosparse_test

import (
	"strings"
	"testing"

	"example.com/diosgen/internal/diosmodel"
	"example.com/diosgen/internal/diosparse"
)

func TestParseMinimalProgram(t *testing.T) {
	src := "\tdios\n"
	prog, err := diosparse.Parse(strings.NewReader(src), "minimal.asm")
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if len(prog.Queues) != 0 || len(prog.Modules) != 0 {
		t.Fatalf("Parse() = %+v, want an empty program", prog)
	}
}

func TestParseMissingDiosMarker(t *testing.T) {
	src := "\tmodule \"foo.asm\"\n"
	if _, err := diosparse.Parse(strings.NewReader(src), "nomarker.asm"); err == nil {
		t.Fatalf("Parse() succeeded on a file with no 'dios' marker")
	}
}

func TestParseQueueAndEvents(t *testing.T) {
	src := `	dios
	evqueue Timers, idle
	event Tick
	event Tock
`
	prog, err := diosparse.Parse(strings.NewReader(src), "queue.asm")
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if len(prog.Queues) != 1 {
		t.Fatalf("Parse() produced %d queues, want 1", len(prog.Queues))
	}
	q := prog.Queues[0]
	if q.Name != "Timers" || q.Phase != diosmodel.PhaseIdle {
		t.Fatalf("queue = %+v, want Name=Timers Phase=idle", q)
	}
	if len(q.Events) != 2 || q.Events[0].Name != "Tick" || q.Events[1].Name != "Tock" {
		t.Fatalf("queue events = %+v, want [Tick Tock] in order", q.Events)
	}
}

func TestParseEventWithoutQueueFails(t *testing.T) {
	src := "\tdios\n\tevent Tick\n"
	if _, err := diosparse.Parse(strings.NewReader(src), "orphan.asm"); err == nil {
		t.Fatalf("Parse() succeeded on 'event' with no preceding 'evqueue'")
	}
}

func TestParseLargeQueueClassification(t *testing.T) {
	var b strings.Builder
	b.WriteString("\tdios\n\tevqueue Big\n")
	for i := 0; i < 17; i++ {
		b.WriteString("\tevent E")
		b.WriteString(string(rune('A' + i)))
		b.WriteString("\n")
	}
	prog, err := diosparse.Parse(strings.NewReader(b.String()), "big.asm")
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if got := prog.Queues[0].Class(); got != diosmodel.QueueLarge {
		t.Fatalf("Queue with 17 events classified as %s, want large", got)
	}
}

func TestParseIRQBindingRequiresPrefix(t *testing.T) {
	src := "\tdios\n\tphase handler\n\tirq handler, PIR1, TMR1IF\n"
	if _, err := diosparse.Parse(strings.NewReader(src), "irq.asm"); err == nil {
		t.Fatalf("Parse() accepted an irq binding whose phase lacks the 'irq_' prefix")
	}
}

func TestParseIRQBindingAccepted(t *testing.T) {
	src := "\tdios\n\tphase irq_timer1\n\tirq irq_timer1, PIR1, TMR1IF\n"
	prog, err := diosparse.Parse(strings.NewReader(src), "irq.asm")
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if len(prog.IRQs) != 1 || prog.IRQs[0].FlagFile != "PIR1" || prog.IRQs[0].FlagBit != "TMR1IF" {
		t.Fatalf("IRQs = %+v, want one binding to PIR1/TMR1IF", prog.IRQs)
	}
}

func TestParseWakeAlwaysConflictsWithExplicitSources(t *testing.T) {
	src := "\tdios\n\twake always\n\twake PIE1, TMR0IE\n"
	if _, err := diosparse.Parse(strings.NewReader(src), "wake.asm"); err == nil {
		t.Fatalf("Parse() accepted both 'wake always' and an explicit wake source")
	}
}

func TestParseConstReduction(t *testing.T) {
	src := "\tdios\n\tconst NeedsBank1, or\n"
	prog, err := diosparse.Parse(strings.NewReader(src), "const.asm")
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if len(prog.Consts) != 1 || prog.Consts[0].Op != diosmodel.ReduceOr {
		t.Fatalf("Consts = %+v, want one 'or' reduction", prog.Consts)
	}
}

func TestParseUnknownConstReduction(t *testing.T) {
	src := "\tdios\n\tconst X, frobnicate\n"
	if _, err := diosparse.Parse(strings.NewReader(src), "badconst.asm"); err == nil {
		t.Fatalf("Parse() accepted an unknown const reduction keyword")
	}
}

func TestParseModuleOrderPreserved(t *testing.T) {
	src := "\tdios\n\tmodule \"a.asm\"\n\tmodule \"b.asm\"\n\tmodule \"c.asm\"\n"
	prog, err := diosparse.Parse(strings.NewReader(src), "mods.asm")
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	want := []string{"a.asm", "b.asm", "c.asm"}
	for i, m := range prog.Modules {
		if m.Path != want[i] {
			t.Errorf("Modules[%d] = %q, want %q", i, m.Path, want[i])
		}
	}
}
