// Package diosconst implements the constant reducer (spec §4.5): each
// program-wide constant starts at its reduction operator's identity
// value, and every module may contribute a value that gets folded in
// with that operator, gated on the module having defined its own
// contribution symbol.
package diosconst

import (
	"example.com/diosgen/internal/diosemit"
	"example.com/diosgen/internal/diosmodel"
)

// Emit writes, for constant c:
//
//	K set <identity>
//	  ifdef <Mname>_K
//	K set K <op> (<Mname>_K)
//	  endif
//
// repeated once per module in declaration order.
func Emit(c diosmodel.Constant, prog *diosmodel.Program, out diosemit.Writer) {
	out.P("%s\tset\t%d", c.Name, c.Op.Identity())
	for _, m := range prog.Modules {
		mname := m.Name()
		out.P("\tifdef\t%s_%s", mname, c.Name)
		out.P("%s\tset\t%s %s (%s_%s)", c.Name, c.Name, c.Op, mname, c.Name)
		out.P("\tendif")
	}
}
