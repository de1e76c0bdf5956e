package pattern

// Meter converts musical time to seconds.
type Meter struct {
	BPM           float64
	TimeSigTop    int
	TimeSigBottom int
}

// NewMeter falls back to 100 bpm in 4/4 for unset fields.
func NewMeter(bpm float64, top, bottom int) Meter {
	if bpm <= 0 {
		bpm = 100
	}
	if top <= 0 {
		top = 4
	}
	if bottom <= 0 {
		bottom = 4
	}
	return Meter{BPM: bpm, TimeSigTop: top, TimeSigBottom: bottom}
}

func (m Meter) SecondsPerMeasure() float64 {
	if m.BPM <= 0 {
		return 0
	}
	return 60 * float64(m.TimeSigBottom) / m.BPM
}

// NoteSeconds is how long count notes of value note last; note 4 is a
// quarter note, 8 an eighth.
func (m Meter) NoteSeconds(note, count int) float64 {
	if note <= 0 || count <= 0 {
		return 0
	}
	return m.SecondsPerMeasure() * float64(count) / float64(note)
}

func (m Meter) EventsPerSecond(note, count int) float64 {
	s := m.NoteSeconds(note, count)
	if s <= 0 {
		return 0
	}
	return 1 / s
}

// Pulse fires every Period seconds of accumulated time.
type Pulse struct {
	Period float64
	acc    float64
	count  int
}

func NewPulse(period float64) *Pulse {
	return &Pulse{Period: period}
}

// Advance adds dt and returns how many periods completed. Ticks counts
// every completed period since creation.
func (p *Pulse) Advance(dt float64) int {
	if p == nil || p.Period <= 0 || dt <= 0 {
		return 0
	}
	p.acc += dt
	n := 0
	for p.acc >= p.Period {
		p.acc -= p.Period
		n++
	}
	p.count += n
	return n
}

func (p *Pulse) Ticks() int {
	if p == nil {
		return 0
	}
	return p.count
}

func (p *Pulse) Reset() {
	if p != nil {
		p.acc = 0
		p.count = 0
	}
}
