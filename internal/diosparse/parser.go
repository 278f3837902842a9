package diosparse

import (
	"bufio"
	"errors"
	"io"
	"os"

	"example.com/diosgen/internal/diosdiag"
	"example.com/diosgen/internal/diosmodel"
)

// Parse reads a sequence of lines from r and builds a Program, citing
// path:line on failure (spec §4.1). Lexical, arity, and domain errors
// fail fast, line by line, exactly as in the original; only the
// cross-entity checks of spec §3 (run once the whole file has been
// read) can report more than one problem, in which case the returned
// error wraps every one of them (errors.Join) rather than just the
// first — see diosmodel.Program.Validate.
func Parse(r io.Reader, path string) (*diosmodel.Program, error) {
	prog := diosmodel.NewProgram(path)
	st := &state{prog: prog}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lno := 0
	for sc.Scan() {
		lno++
		text := sc.Text()

		ln, ok := splitLine(text)
		if !ok {
			continue
		}
		if ln.op == "" {
			continue
		}

		var args []string
		if ln.args != "" {
			var err error
			args, err = splitArgs(ln.args)
			if err != nil {
				return nil, diosdiag.Errorf(path, lno, "%s", err.Error())
			}
		}

		o, msg := parseOp(ln.op, args)
		if msg != "" {
			return nil, diosdiag.Errorf(path, lno, "%s", msg)
		}

		if msg := o.apply(st); msg != "" {
			return nil, diosdiag.Errorf(path, lno, "%s", msg)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	if errs := prog.Validate(st.dios, st.wakeAlways, lno); len(errs) > 0 {
		wrapped := make([]error, len(errs))
		for i, e := range errs {
			wrapped[i] = e
		}
		return nil, errors.Join(wrapped...)
	}

	return prog, nil
}

// ParseFile opens path and parses it, using path itself as the source
// name threaded through diagnostics (spec §6).
func ParseFile(path string) (*diosmodel.Program, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f, path)
}
