package diosparse

import (
	"strconv"
	"strings"

	"example.com/diosgen/internal/diosmodel"
)

// op is the tagged-sum of recognized ops (Design Note §9: "dynamic
// dispatch on op name ... model as a tagged sum of op variants with a
// single constructor per op"). Each variant implements apply, mutating
// the in-progress Program and parser state. apply returns a plain
// message string on domain failure (arity/domain checks specific to the
// op); the caller attaches path:line.
type op interface {
	apply(st *state) (msg string)
}

// state is the parser's running state while walking one description
// file: the Program under construction plus the flags that only make
// sense mid-parse (dios marker seen, wake-always seen).
type state struct {
	prog       *diosmodel.Program
	dios       bool
	wakeAlways bool
}

type opDios struct{}

func (opDios) apply(st *state) string {
	st.dios = true
	return ""
}

type opInclude struct{ path string }

func (o opInclude) apply(st *state) string {
	st.prog.Includes = append(st.prog.Includes, o.path)
	return ""
}

type opModule struct{ path string }

func (o opModule) apply(st *state) string {
	st.prog.Modules = append(st.prog.Modules, diosmodel.Module{Path: o.path})
	return ""
}

type opPhase struct{ name string }

func (o opPhase) apply(st *state) string {
	st.prog.Phases = append(st.prog.Phases, diosmodel.Phase{Name: o.name})
	return ""
}

type opIRQ struct{ phase, flagFile, flagBit string }

func (o opIRQ) apply(st *state) string {
	if !strings.HasPrefix(o.phase, "irq_") {
		return "Phase names used for IRQ must start with 'irq_': " + o.phase
	}
	st.prog.IRQs = append(st.prog.IRQs, diosmodel.IRQBinding{
		Phase: o.phase, FlagFile: o.flagFile, FlagBit: o.flagBit,
	})
	return ""
}

type opEvQueue struct {
	name  string
	phase string // "" if omitted
}

func (o opEvQueue) apply(st *state) string {
	st.prog.Queues = append(st.prog.Queues, &diosmodel.Queue{Name: o.name, Phase: o.phase})
	return ""
}

type opEvent struct{ name string }

func (o opEvent) apply(st *state) string {
	if len(st.prog.Queues) == 0 {
		return "'event' with no preceding 'evqueue'"
	}
	e := st.prog.Events.GetOrCreate(o.name)
	q := st.prog.Queues[len(st.prog.Queues)-1]
	q.Events = append(q.Events, e)
	return ""
}

type opWake struct {
	always        bool
	enFile, enBit string
}

func (o opWake) apply(st *state) string {
	st.prog.Sleepable = true
	if o.always {
		st.wakeAlways = true
		return ""
	}
	st.prog.WakeSrcs = append(st.prog.WakeSrcs, diosmodel.WakeSource{EnFile: o.enFile, EnBit: o.enBit})
	return ""
}

type opConst struct {
	name      string
	reduction string
}

func (o opConst) apply(st *state) string {
	rop, ok := diosmodel.ReduceOpByKeyword(o.reduction)
	if !ok {
		return "Unknown const reduction: " + o.reduction
	}
	st.prog.Consts = append(st.prog.Consts, diosmodel.Constant{Name: o.name, Op: rop})
	return ""
}

// parseOp builds the tagged-sum op for opName/opArgs, or returns an
// error message for an unknown op name or wrong argument arity/shape
// (spec §4.1, §7 "Op-arity"/"Op-domain").
func parseOp(opName string, args []string) (op, string) {
	switch opName {
	case "dios":
		return opDios{}, ""

	case "include":
		if len(args) != 1 {
			return nil, unexpectedArgs("include", 1, args)
		}
		return opInclude{path: unquote(args[0])}, ""

	case "module":
		if len(args) != 1 {
			return nil, unexpectedArgs("module", 1, args)
		}
		return opModule{path: unquote(args[0])}, ""

	case "evqueue":
		if len(args) != 1 && len(args) != 2 {
			return nil, "Expected one or two arguments to 'evqueue'"
		}
		phase := ""
		if len(args) > 1 {
			phase = args[1]
		}
		return opEvQueue{name: args[0], phase: phase}, ""

	case "event":
		if len(args) != 1 {
			return nil, unexpectedArgs("event", 1, args)
		}
		return opEvent{name: args[0]}, ""

	case "phase":
		if len(args) != 1 {
			return nil, unexpectedArgs("phase", 1, args)
		}
		return opPhase{name: args[0]}, ""

	case "irq":
		if len(args) != 3 {
			return nil, unexpectedArgs("irq", 3, args)
		}
		return opIRQ{phase: args[0], flagFile: args[1], flagBit: args[2]}, ""

	case "wake":
		if len(args) == 1 && args[0] == "always" {
			return opWake{always: true}, ""
		}
		if len(args) == 2 {
			return opWake{enFile: args[0], enBit: args[1]}, ""
		}
		return nil, "Expected two arguments to 'wake'"

	case "const":
		if len(args) != 2 {
			return nil, unexpectedArgs("const", 2, args)
		}
		return opConst{name: args[0], reduction: args[1]}, ""

	default:
		return nil, "Unknown op: " + opName
	}
}

func unexpectedArgs(op string, want int, got []string) string {
	return "Expected " + strconv.Itoa(want) + " argument(s) to '" + op + "'"
}

// unquote strips the surrounding quotes and resolves backslash escapes
// of a string lexeme produced by splitArgs (spec §4.1: "supporting
// backslash-escapes").
func unquote(tok string) string {
	if len(tok) < 2 || tok[0] != '"' || tok[len(tok)-1] != '"' {
		return tok
	}
	inner := tok[1 : len(tok)-1]
	var b strings.Builder
	for i := 0; i < len(inner); i++ {
		if inner[i] == '\\' && i+1 < len(inner) {
			i++
			b.WriteByte(inner[i])
			continue
		}
		b.WriteByte(inner[i])
	}
	return b.String()
}
