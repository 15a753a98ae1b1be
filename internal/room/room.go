// Package room owns room membership: capacity-bounded join, deterministic
// host handoff, ready flags and idle cleanup. All per-room operations are
// serialized through a keyed mutex so independent rooms never contend.
package room

import "time"

// Capacity is the fixed number of seats per room.
const Capacity = 4

// Participant is one member of a room.
type Participant struct {
	ID    string
	Name  string
	IsBot bool
	Ready bool
}

// Room is the authoritative membership record for one room. Fields are
// mutated only by the Manager under the room's lock; consumers receive
// copies via View.
type Room struct {
	ID           string
	Participants []Participant // join order
	HostID       string
	CreatedAt    time.Time
	LastActive   time.Time
}

// View is a point-in-time copy of a room, safe to use without locks.
type View struct {
	ID           string
	Participants []Participant
	HostID       string
	CreatedAt    time.Time
	LastActive   time.Time
}

func (r *Room) view() *View {
	return &View{
		ID:           r.ID,
		Participants: append([]Participant{}, r.Participants...),
		HostID:       r.HostID,
		CreatedAt:    r.CreatedAt,
		LastActive:   r.LastActive,
	}
}

func (r *Room) indexOf(id string) int {
	for i, p := range r.Participants {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// Full reports whether every seat is taken.
func (v *View) Full() bool {
	return len(v.Participants) >= Capacity
}

// Has reports whether the identity is a participant.
func (v *View) Has(id string) bool {
	for _, p := range v.Participants {
		if p.ID == id {
			return true
		}
	}
	return false
}

// Participant returns the participant record for id.
func (v *View) Participant(id string) (Participant, bool) {
	for _, p := range v.Participants {
		if p.ID == id {
			return p, true
		}
	}
	return Participant{}, false
}

// Humans counts non-bot participants.
func (v *View) Humans() int {
	n := 0
	for _, p := range v.Participants {
		if !p.IsBot {
			n++
		}
	}
	return n
}
