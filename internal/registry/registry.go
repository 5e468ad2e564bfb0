// Package registry tracks waiting rooms: hosts that created a room and are
// still waiting for an opponent. It is plain in-memory state owned by the
// hub goroutine and is not safe for concurrent use on its own. Room ids are
// process-local; running multiple instances needs an external coordinator.
package registry

import "fmt"

type Room struct {
	ID           int64
	HostUserID   uint
	HostUsername string
	HostConnID   string
	DeckID       uint
	Channel      string
}

// Summary is the wire shape of one room in the public rooms list.
type Summary struct {
	ID           int64  `json:"id"`
	HostUsername string `json:"hostUsername"`
	DeckID       uint   `json:"deckId"`
}

type Registry struct {
	nextID int64
	rooms  map[int64]*Room
}

func New() *Registry {
	return &Registry{rooms: make(map[int64]*Room)}
}

// NextID returns a strictly increasing room id, starting at 1. Ids are never
// reused within the process lifetime, even after a room is removed.
func (r *Registry) NextID() int64 {
	r.nextID++
	return r.nextID
}

func (r *Registry) Create(id int64, hostUserID uint, hostUsername, hostConnID string, deckID uint) *Room {
	room := &Room{
		ID:           id,
		HostUserID:   hostUserID,
		HostUsername: hostUsername,
		HostConnID:   hostConnID,
		DeckID:       deckID,
		Channel:      fmt.Sprintf("room-%d", id),
	}
	r.rooms[id] = room
	return room
}

func (r *Registry) Get(id int64) *Room {
	return r.rooms[id]
}

func (r *Registry) Remove(id int64) {
	delete(r.rooms, id)
}

func (r *Registry) List() []Summary {
	out := make([]Summary, 0, len(r.rooms))
	for _, room := range r.rooms {
		out = append(out, Summary{ID: room.ID, HostUsername: room.HostUsername, DeckID: room.DeckID})
	}
	return out
}

// RemoveByHost drops every room hosted by the given connection and reports
// whether anything was removed. Used on disconnect.
func (r *Registry) RemoveByHost(connID string) bool {
	removed := false
	for id, room := range r.rooms {
		if room.HostConnID == connID {
			delete(r.rooms, id)
			removed = true
		}
	}
	return removed
}
