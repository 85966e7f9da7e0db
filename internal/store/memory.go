package store

import (
	"context"
	"sort"
	"sync"

	"poke-draft-be/internal/service/dto"
)

// MemoryStore 是进程内实现，适合单机部署和测试。
// 所有返回值都是副本，调用方拿到的数据不会被后续写入影响。
type MemoryStore struct {
	mu sync.RWMutex

	rooms   map[string]dto.Room
	players map[string]dto.Player
	offers  map[string]dto.Offer
	rosters map[string][]dto.RosterEntry
	feeds   map[string][]dto.FeedEvent
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		rooms:   make(map[string]dto.Room),
		players: make(map[string]dto.Player),
		offers:  make(map[string]dto.Offer),
		rosters: make(map[string][]dto.RosterEntry),
		feeds:   make(map[string][]dto.FeedEvent),
	}
}

func (ms *MemoryStore) GetRoom(_ context.Context, roomCode string) (*dto.Room, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	room, ok := ms.rooms[roomCode]
	if !ok {
		return nil, nil
	}

	room.TurnOrder = append([]string(nil), room.TurnOrder...)

	return &room, nil
}

func (ms *MemoryStore) PutRoom(_ context.Context, room *dto.Room) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	stored := *room
	stored.TurnOrder = append([]string(nil), room.TurnOrder...)
	ms.rooms[room.Code] = stored

	return nil
}

func (ms *MemoryStore) DeleteRoom(_ context.Context, roomCode string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	delete(ms.rooms, roomCode)
	delete(ms.offers, roomCode)
	delete(ms.rosters, roomCode)
	delete(ms.feeds, roomCode)

	for id, p := range ms.players {
		if p.RoomCode == roomCode {
			delete(ms.players, id)
		}
	}

	return nil
}

func (ms *MemoryStore) ListRooms(_ context.Context) ([]dto.Room, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	rooms := make([]dto.Room, 0, len(ms.rooms))
	for _, room := range ms.rooms {
		room.TurnOrder = append([]string(nil), room.TurnOrder...)
		rooms = append(rooms, room)
	}

	return rooms, nil
}

func (ms *MemoryStore) ListPlayers(_ context.Context, roomCode string) ([]dto.Player, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	players := make([]dto.Player, 0, 4)

	for _, p := range ms.players {
		if p.RoomCode == roomCode {
			players = append(players, p)
		}
	}

	sort.Slice(players, func(i, j int) bool {
		if players[i].JoinedAt.Equal(players[j].JoinedAt) {
			return players[i].ID < players[j].ID
		}

		return players[i].JoinedAt.Before(players[j].JoinedAt)
	})

	return players, nil
}

func (ms *MemoryStore) GetPlayer(_ context.Context, playerID string) (*dto.Player, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	player, ok := ms.players[playerID]
	if !ok {
		return nil, nil
	}

	return &player, nil
}

func (ms *MemoryStore) AddPlayer(_ context.Context, player *dto.Player) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.players[player.ID] = *player

	return nil
}

func (ms *MemoryStore) UpdatePlayer(_ context.Context, player *dto.Player) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.players[player.ID] = *player

	return nil
}

func (ms *MemoryStore) DeletePlayer(_ context.Context, playerID string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	delete(ms.players, playerID)

	return nil
}

func (ms *MemoryStore) GetOffer(_ context.Context, roomCode string) (*dto.Offer, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	offer, ok := ms.offers[roomCode]
	if !ok {
		return nil, nil
	}

	return &offer, nil
}

func (ms *MemoryStore) PutOffer(_ context.Context, offer *dto.Offer) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.offers[offer.RoomCode] = *offer

	return nil
}

func (ms *MemoryStore) AddRosterEntry(_ context.Context, entry *dto.RosterEntry) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.rosters[entry.RoomCode] = append(ms.rosters[entry.RoomCode], *entry)

	return nil
}

func (ms *MemoryStore) CountRosterEntries(_ context.Context, roomCode, playerID string) (int, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	count := 0

	for _, e := range ms.rosters[roomCode] {
		if e.PlayerID == playerID {
			count++
		}
	}

	return count, nil
}

func (ms *MemoryStore) ListRosterEntries(_ context.Context, roomCode string) ([]dto.RosterEntry, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	return append([]dto.RosterEntry(nil), ms.rosters[roomCode]...), nil
}

func (ms *MemoryStore) AppendFeedEvent(_ context.Context, event *dto.FeedEvent) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.feeds[event.RoomCode] = append(ms.feeds[event.RoomCode], *event)

	return nil
}

func (ms *MemoryStore) ListFeedEvents(_ context.Context, roomCode string, limit int) ([]dto.FeedEvent, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	feed := ms.feeds[roomCode]

	events := make([]dto.FeedEvent, 0, limit)

	// 倒序取最近 limit 条
	for i := len(feed) - 1; i >= 0 && len(events) < limit; i-- {
		events = append(events, feed[i])
	}

	return events, nil
}
