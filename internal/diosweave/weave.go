// Package diosweave implements the module weaver (spec §4.2): the
// repeated `include` blocks that inject each module's source under a
// named aspect gate, letting one module file contribute data
// reservations, init code, idle code, IRQ handlers, custom-phase code,
// event handlers, and post-phase code, each gated by a distinct guard
// symbol.
package diosweave

import (
	"example.com/diosgen/internal/diosemit"
	"example.com/diosgen/internal/diosmodel"
)

// Weave emits, for aspect A:
//
//   - if main: `#define diosh_A 1`, one `include "<path>"` per module in
//     declaration order, then `#undefine diosh_A`.
//   - if post: `#define diosph_A 1`, one `include "<path>"` per module in
//     REVERSE declaration order, then `#undefine diosph_A`.
//
// Nothing is emitted if the program has no modules at all, and a pass is
// skipped entirely if its flag is false — both main and post are
// independent and either may be elided by the caller (spec §4.2).
func Weave(aspect string, prog *diosmodel.Program, out diosemit.Writer, main, post bool) {
	if len(prog.Modules) == 0 {
		return
	}

	if main {
		out.P("\t#define\tdiosh_%s\t1", aspect)
		for _, m := range prog.Modules {
			out.P("\tinclude\t%q", m.Path)
		}
		out.P("\t#undefine\tdiosh_%s", aspect)
	}

	if post {
		out.P("\t#define\tdiosph_%s\t1", aspect)
		for i := len(prog.Modules) - 1; i >= 0; i-- {
			out.P("\tinclude\t%q", prog.Modules[i].Path)
		}
		out.P("\t#undefine\tdiosph_%s", aspect)
	}
}
