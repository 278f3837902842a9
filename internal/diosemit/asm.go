package diosemit

// Banksel emits a `banksel` directive selecting the bank of reg into the
// primary stream. PIC14/16 registers are bank-switched; almost every
// register access in generated code is preceded by one of these (spec
// §4.3, §4.4).
func (s *Sink) Banksel(reg string) {
	s.P("\tbanksel\t%s", reg)
}

// Pagesel emits a `pagesel` directive selecting the page of label into
// the primary stream. Needed before any `call`/`goto` that might cross
// a program-memory page boundary (spec §1, §4.3).
func (s *Sink) Pagesel(label string) {
	s.P("\tpagesel\t%s", label)
}

// Label emits a bare label line.
func (s *Sink) Label(name string) {
	s.P("%s:", name)
}

// Bsf emits a `bsf reg, bit` (bit-set) instruction.
func (s *Sink) Bsf(reg string, bit int) {
	s.P("\tbsf\t%s, %d", reg, bit)
}

// Bcf emits a `bcf reg, bit` (bit-clear) instruction.
func (s *Sink) Bcf(reg string, bit int) {
	s.P("\tbcf\t%s, %d", reg, bit)
}

// Btfsc emits a `btfsc reg, bit` (skip-if-clear) instruction.
func (s *Sink) Btfsc(reg string, bit int) {
	s.P("\tbtfsc\t%s, %d", reg, bit)
}

// Btfss emits a `btfss reg, bit` (skip-if-set) instruction.
func (s *Sink) Btfss(reg string, bit int) {
	s.P("\tbtfss\t%s, %d", reg, bit)
}

// Goto emits a `goto label` instruction.
func (s *Sink) Goto(label string) {
	s.P("\tgoto\t%s", label)
}

// BsfSym, BcfSym, BtfscSym and BtfssSym are the same four bit
// instructions for bit arguments that came from the description
// language as raw text (an IRQ flag bit, a wake-source enable bit) and
// so may be a symbolic assembler constant (GIE, TMR0IF, ...) rather
// than a literal bit index.
func (s *Sink) BsfSym(reg, bit string)   { s.P("\tbsf\t%s, %s", reg, bit) }
func (s *Sink) BcfSym(reg, bit string)   { s.P("\tbcf\t%s, %s", reg, bit) }
func (s *Sink) BtfscSym(reg, bit string) { s.P("\tbtfsc\t%s, %s", reg, bit) }
func (s *Sink) BtfssSym(reg, bit string) { s.P("\tbtfss\t%s, %s", reg, bit) }

// The I-prefixed variants below are identical except they target the
// secondary (out-of-line implementation) stream instead of the primary
// stream — used while emitting the out-of-line body of a drain handler
// or interrupt dispatch (see diosemit.Sink.IP).

func (s *Sink) IBanksel(reg string) { s.IP("\tbanksel\t%s", reg) }
func (s *Sink) IPagesel(label string) { s.IP("\tpagesel\t%s", label) }
func (s *Sink) ILabel(name string) { s.IP("%s:", name) }
func (s *Sink) IBsf(reg string, bit int) { s.IP("\tbsf\t%s, %d", reg, bit) }
func (s *Sink) IBcf(reg string, bit int) { s.IP("\tbcf\t%s, %d", reg, bit) }
func (s *Sink) IBtfsc(reg string, bit int) { s.IP("\tbtfsc\t%s, %d", reg, bit) }
func (s *Sink) IBtfss(reg string, bit int) { s.IP("\tbtfss\t%s, %d", reg, bit) }
func (s *Sink) IGoto(label string) { s.IP("\tgoto\t%s", label) }

func (s *Sink) IBsfSym(reg, bit string)   { s.IP("\tbsf\t%s, %s", reg, bit) }
func (s *Sink) IBcfSym(reg, bit string)   { s.IP("\tbcf\t%s, %s", reg, bit) }
func (s *Sink) IBtfscSym(reg, bit string) { s.IP("\tbtfsc\t%s, %s", reg, bit) }
func (s *Sink) IBtfssSym(reg, bit string) { s.IP("\tbtfss\t%s, %s", reg, bit) }
