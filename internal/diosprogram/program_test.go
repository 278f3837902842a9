package diosprogram_test

import (
	"strings"
	"testing"

	"example.com/diosgen/internal/diosmodel"
	"example.com/diosgen/internal/diosprogram"
)

// buildProgram constructs a small but representative Program exercising
// a user phase, an IRQ binding, an unassigned queue, a wake source, and
// a merged constant — enough to drive every section of Generate.
func buildProgram() *diosmodel.Program {
	p := diosmodel.NewProgram("blink.asm")
	p.Includes = []string{"p16f887.inc"}
	p.Consts = []diosmodel.Constant{{Name: "NeedsBank1", Op: diosmodel.ReduceOr}}
	p.Phases = []diosmodel.Phase{{Name: "irq_timer"}}
	p.IRQs = []diosmodel.IRQBinding{{Phase: "irq_timer", FlagFile: "INTCON", FlagBit: "T0IF"}}
	p.Sleepable = true
	p.WakeSrcs = []diosmodel.WakeSource{{EnFile: "PIE1", EnBit: "TMR1IE"}}

	blink := p.Events.GetOrCreate("Blink")

	owned := &diosmodel.Queue{Name: "Timer", Phase: "irq_timer", Events: []*diosmodel.Event{blink}}
	unassigned := &diosmodel.Queue{Name: "Work", Events: []*diosmodel.Event{blink}}
	p.Queues = []*diosmodel.Queue{owned, unassigned}

	return p
}

func TestGenerateProducesWellFormedAssembly(t *testing.T) {
	p := buildProgram()
	var buf strings.Builder
	if err := diosprogram.Generate(p, &buf); err != nil {
		t.Fatalf("Generate returned an error: %v", err)
	}
	got := buf.String()

	for _, want := range []string{
		`include\t"p16f887.inc"`,
		"cblock\t0\t; Events",
		"cblock\t0\t; Queues",
		"NeedsBank1\tset\t0",
		"diospost_timer\tmacro",
		"diospost_work\tmacro",
		"diospost\tmacro\tevent",
		"process_work\tmacro",
		"org\t0",
		"_start:",
		"org\t4",
		"_irq:",
		"retfie",
		"phase_init:",
		"phase_idle:",
		"phase_sleep",
		"handle_work:",
		"\tend\n",
	} {
		if !strings.Contains(got, strings.ReplaceAll(want, `\t`, "\t")) {
			t.Errorf("generated assembly missing %q", want)
		}
	}
}

func TestGenerateOrdersSectionsDataThenCode(t *testing.T) {
	p := buildProgram()
	var buf strings.Builder
	if err := diosprogram.Generate(p, &buf); err != nil {
		t.Fatalf("Generate returned an error: %v", err)
	}
	got := buf.String()

	udataIdx := strings.Index(got, "\tudata\n")
	codeIdx := strings.Index(got, "\tcode\n")
	startIdx := strings.Index(got, "_start:")
	if udataIdx < 0 || codeIdx < 0 || startIdx < 0 || !(udataIdx < codeIdx && codeIdx < startIdx) {
		t.Fatalf("sections out of order: udata=%d code=%d start=%d", udataIdx, codeIdx, startIdx)
	}
}

func TestGenerateOmitsSleepPhaseWhenNotSleepable(t *testing.T) {
	p := buildProgram()
	p.Sleepable = false
	var buf strings.Builder
	if err := diosprogram.Generate(p, &buf); err != nil {
		t.Fatalf("Generate returned an error: %v", err)
	}
	if strings.Contains(buf.String(), "phase_sleep:") {
		t.Errorf("Generate emitted the sleep phase despite Sleepable=false")
	}
}

func TestGenerateUnassignedQueueGetsOwnHandler(t *testing.T) {
	p := buildProgram()
	var buf strings.Builder
	if err := diosprogram.Generate(p, &buf); err != nil {
		t.Fatalf("Generate returned an error: %v", err)
	}
	got := buf.String()
	if !strings.Contains(got, "handle_work:") {
		t.Fatalf("unassigned queue did not get its own handle_<queue> label: %q", got)
	}
}
