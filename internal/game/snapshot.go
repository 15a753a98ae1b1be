package game

import "bigtwo/internal/domain"

// SeatView is one player's slice of a Snapshot.
type SeatView struct {
	ID        string
	Name      string
	Hand      []domain.Card
	CardCount int
}

// Snapshot is a point-in-time copy of a game, safe to read after the live
// state moves on. Consumers that act on it (bots, fan-out) must tolerate it
// going stale.
type Snapshot struct {
	Seats      []SeatView
	Turn       string
	LastPlayed *domain.Hand
	Passes     int
	Opening    *domain.Card
	Winner     string
}

// Snapshot copies the current state. Hands are copied, never aliased.
func (g *Game) Snapshot() *Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()

	snap := &Snapshot{
		Turn:   g.seats[g.turn].id,
		Passes: g.passes,
		Winner: g.winner,
	}
	for _, s := range g.seats {
		snap.Seats = append(snap.Seats, SeatView{
			ID:        s.id,
			Name:      s.name,
			Hand:      append([]domain.Card{}, s.hand...),
			CardCount: len(s.hand),
		})
	}
	if g.lastPlayed != nil {
		last := *g.lastPlayed
		last.Cards = append([]domain.Card{}, g.lastPlayed.Cards...)
		snap.LastPlayed = &last
	}
	if g.opening != nil {
		opening := *g.opening
		snap.Opening = &opening
	}
	return snap
}

// HandOf returns the copied hand of the given player, or nil if unseated.
func (s *Snapshot) HandOf(id string) []domain.Card {
	for _, seat := range s.Seats {
		if seat.ID == id {
			return seat.Hand
		}
	}
	return nil
}

// OnTurn reports whether the given player holds the turn pointer.
func (s *Snapshot) OnTurn(id string) bool {
	return s.Turn == id && s.Winner == ""
}
