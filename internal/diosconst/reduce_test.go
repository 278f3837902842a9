package diosconst_test

import (
	"strings"
	"testing"

	"example.com/diosgen/internal/diosconst"
	"example.com/diosgen/internal/diosemit"
	"example.com/diosgen/internal/diosmodel"
)

func TestEmitSeedsIdentityThenFoldsEachModule(t *testing.T) {
	prog := diosmodel.NewProgram("t.asm")
	prog.Modules = []diosmodel.Module{{Path: "modules/timer0.asm"}, {Path: "modules/wdt.asm"}}
	c := diosmodel.Constant{Name: "NeedsBank1", Op: diosmodel.ReduceOr}

	out := diosemit.New()
	diosconst.Emit(c, prog, out.MainWriter())
	got := out.Main.String()

	if !strings.Contains(got, "NeedsBank1\tset\t0") {
		t.Fatalf("Emit did not seed the 'or' identity (0): %q", got)
	}
	if !strings.Contains(got, "ifdef\ttimer0_NeedsBank1") || !strings.Contains(got, "ifdef\twdt_NeedsBank1") {
		t.Fatalf("Emit missing per-module ifdef guards: %q", got)
	}
	if !strings.Contains(got, "NeedsBank1\tset\tNeedsBank1 | (timer0_NeedsBank1)") {
		t.Fatalf("Emit did not fold timer0's contribution with the declared operator: %q", got)
	}
}

func TestEmitAndIdentityIsMinusOne(t *testing.T) {
	prog := diosmodel.NewProgram("t.asm")
	c := diosmodel.Constant{Name: "Mask", Op: diosmodel.ReduceAnd}

	out := diosemit.New()
	diosconst.Emit(c, prog, out.MainWriter())
	got := out.Main.String()
	if !strings.Contains(got, "Mask\tset\t-1") {
		t.Fatalf("Emit did not seed the 'and' identity (-1): %q", got)
	}
}
