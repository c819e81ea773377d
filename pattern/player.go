package pattern

// Player walks a pattern one tick at a time and reports the events due on
// each tick. Ticks are abstract; nothing here knows about wall time.
type Player struct {
	events AbsBuffer
	length uint16
	phase  uint16
	ticks  uint32
}

// Load replaces the pattern. Times are wrapped into [0, length) and the
// events stable-sorted, so the caller may pass a shifted, unsorted buffer.
// The play position is rewound.
func (p *Player) Load(events []AbsEvent, length uint16) error {
	if length == 0 {
		return ErrZeroLength
	}
	if err := p.events.Set(events); err != nil {
		return err
	}
	if err := p.events.Shift(0, length); err != nil {
		return err
	}
	if err := p.events.SortStable(); err != nil {
		return err
	}
	p.length = length
	p.Reset()
	return nil
}

// Reset rewinds to tick 0.
func (p *Player) Reset() {
	p.phase = 0
	p.ticks = 0
}

// Phase is the current position in [0, length).
func (p *Player) Phase() uint16 { return p.phase }

// Ticks counts Tick calls since the last Reset.
func (p *Player) Ticks() uint32 { return p.ticks }

// Length is the loaded pattern length, 0 before Load.
func (p *Player) Length() uint16 { return p.length }

// Events returns the loaded events in play order.
func (p *Player) Events() []AbsEvent { return p.events.Events() }

// Tick replaces out's contents with the events due at the current phase,
// then advances by one tick. The phase wraps at the pattern length rather
// than at the counter width, so the loop never drifts.
func (p *Player) Tick(out *AbsBuffer) error {
	if out == nil {
		return ErrNilBuffer
	}
	if p.length == 0 {
		return ErrZeroLength
	}
	out.Reset()
	for _, ev := range p.events.Events() {
		if ev.Time > p.phase {
			break
		}
		if ev.Time == p.phase {
			if err := out.Append(ev); err != nil {
				return err
			}
		}
	}
	p.phase++
	if p.phase == p.length {
		p.phase = 0
	}
	p.ticks++
	return nil
}
