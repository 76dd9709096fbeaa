package models

// CardProgress is the persisted status of a standard card.
type CardProgress struct {
	ID     int        `json:"id"`
	Status CardStatus `json:"status"`
}

// SpecialCardProgress is the persisted status of a terminal (special) card.
type SpecialCardProgress struct {
	ID     string     `json:"id"`
	Status CardStatus `json:"status"`
}

// GameProgress хранит прогресс игрока между запусками: прожитые дни, рекорд и статусы карт.
type GameProgress struct {
	DaysPassed          float64                `json:"daysPassed"`
	LongestRunDays      float64                `json:"longestRunDays"`
	CardProgress        []*CardProgress        `json:"cardProgress"`
	SpecialCardProgress []*SpecialCardProgress `json:"specialCardProgress"`
}

// NewGameProgress returns empty progress for a player without a save record.
func NewGameProgress() *GameProgress {
	return &GameProgress{
		CardProgress:        []*CardProgress{},
		SpecialCardProgress: []*SpecialCardProgress{},
	}
}

// AddDays advances the survived time and raises the longest-run record when the
// current run (everything after daysPassedPreviously) beats it.
func (p *GameProgress) AddDays(days, daysPassedPreviously float64) {
	p.DaysPassed += days
	daysPassedThisRun := p.DaysPassed - daysPassedPreviously
	if daysPassedThisRun > p.LongestRunDays {
		p.LongestRunDays = daysPassedThisRun
	}
}

// Clone returns a deep copy, safe to hand to a background writer.
func (p *GameProgress) Clone() *GameProgress {
	if p == nil {
		return nil
	}
	c := &GameProgress{
		DaysPassed:          p.DaysPassed,
		LongestRunDays:      p.LongestRunDays,
		CardProgress:        make([]*CardProgress, 0, len(p.CardProgress)),
		SpecialCardProgress: make([]*SpecialCardProgress, 0, len(p.SpecialCardProgress)),
	}
	for _, e := range p.CardProgress {
		if e != nil {
			entry := *e
			c.CardProgress = append(c.CardProgress, &entry)
		}
	}
	for _, e := range p.SpecialCardProgress {
		if e != nil {
			entry := *e
			c.SpecialCardProgress = append(c.SpecialCardProgress, &entry)
		}
	}
	return c
}
