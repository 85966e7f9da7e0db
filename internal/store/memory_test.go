package store

import (
	"context"
	"testing"
	"time"

	"poke-draft-be/internal/service/dto"
)

func TestMemoryStoreMissingRecordsAreNilNil(t *testing.T) {
	ms := NewMemoryStore()
	ctx := context.Background()

	room, err := ms.GetRoom(ctx, "NOPE1")
	if err != nil || room != nil {
		t.Fatalf("missing room should be (nil, nil), got (%v, %v)", room, err)
	}

	player, err := ms.GetPlayer(ctx, "ghost")
	if err != nil || player != nil {
		t.Fatalf("missing player should be (nil, nil), got (%v, %v)", player, err)
	}

	offer, err := ms.GetOffer(ctx, "NOPE1")
	if err != nil || offer != nil {
		t.Fatalf("missing offer should be (nil, nil), got (%v, %v)", offer, err)
	}
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	ms := NewMemoryStore()
	ctx := context.Background()

	room := &dto.Room{
		Code:      "ABCDE",
		Status:    dto.STATUS_DRAFTING,
		TurnOrder: []string{"p1", "p2"},
	}

	if err := ms.PutRoom(ctx, room); err != nil {
		t.Fatalf("PutRoom failed: %v", err)
	}

	// 调用方改自己手里的切片不能影响存储里的数据
	room.TurnOrder[0] = "mutated"

	got, err := ms.GetRoom(ctx, "ABCDE")
	if err != nil {
		t.Fatalf("GetRoom failed: %v", err)
	}

	if got.TurnOrder[0] != "p1" {
		t.Fatalf("store leaked a shared slice, got %v", got.TurnOrder)
	}

	got.TurnOrder[1] = "mutated-too"

	again, err := ms.GetRoom(ctx, "ABCDE")
	if err != nil {
		t.Fatalf("GetRoom failed: %v", err)
	}

	if again.TurnOrder[1] != "p2" {
		t.Fatalf("returned slice aliases the stored one, got %v", again.TurnOrder)
	}
}

func TestMemoryStorePlayersSortedByJoinTime(t *testing.T) {
	ms := NewMemoryStore()
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	players := []dto.Player{
		{ID: "c", RoomCode: "ABCDE", Name: "Brock", JoinedAt: base.Add(2 * time.Second)},
		{ID: "a", RoomCode: "ABCDE", Name: "Ash", JoinedAt: base},
		{ID: "b", RoomCode: "ABCDE", Name: "Misty", JoinedAt: base.Add(time.Second)},
		{ID: "z", RoomCode: "OTHER", Name: "Gary", JoinedAt: base},
	}

	for i := range players {
		if err := ms.AddPlayer(ctx, &players[i]); err != nil {
			t.Fatalf("AddPlayer failed: %v", err)
		}
	}

	got, err := ms.ListPlayers(ctx, "ABCDE")
	if err != nil {
		t.Fatalf("ListPlayers failed: %v", err)
	}

	if len(got) != 3 {
		t.Fatalf("want 3 players in ABCDE, got %d", len(got))
	}

	for i, want := range []string{"a", "b", "c"} {
		if got[i].ID != want {
			t.Fatalf("players out of join order: index %d want %s got %s", i, want, got[i].ID)
		}
	}
}

func TestMemoryStoreFeedNewestFirstWithLimit(t *testing.T) {
	ms := NewMemoryStore()
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	messages := []string{"first", "second", "third", "fourth"}
	for i, msg := range messages {
		event := &dto.FeedEvent{
			RoomCode: "ABCDE",
			At:       base.Add(time.Duration(i) * time.Second),
			Message:  msg,
		}
		if err := ms.AppendFeedEvent(ctx, event); err != nil {
			t.Fatalf("AppendFeedEvent failed: %v", err)
		}
	}

	got, err := ms.ListFeedEvents(ctx, "ABCDE", 2)
	if err != nil {
		t.Fatalf("ListFeedEvents failed: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("limit 2 should return 2 events, got %d", len(got))
	}

	if got[0].Message != "fourth" || got[1].Message != "third" {
		t.Fatalf("feed should be newest first, got %q then %q", got[0].Message, got[1].Message)
	}
}

func TestMemoryStoreRosterCounts(t *testing.T) {
	ms := NewMemoryStore()
	ctx := context.Background()

	entries := []dto.RosterEntry{
		{RoomCode: "ABCDE", PlayerID: "p1", Slot: 1, Pokemon: "pikachu"},
		{RoomCode: "ABCDE", PlayerID: "p1", Slot: 2, Pokemon: "eevee"},
		{RoomCode: "ABCDE", PlayerID: "p2", Slot: 1, Pokemon: "snorlax"},
	}

	for i := range entries {
		if err := ms.AddRosterEntry(ctx, &entries[i]); err != nil {
			t.Fatalf("AddRosterEntry failed: %v", err)
		}
	}

	count, err := ms.CountRosterEntries(ctx, "ABCDE", "p1")
	if err != nil {
		t.Fatalf("CountRosterEntries failed: %v", err)
	}
	if count != 2 {
		t.Fatalf("p1 should have 2 entries, got %d", count)
	}

	all, err := ms.ListRosterEntries(ctx, "ABCDE")
	if err != nil {
		t.Fatalf("ListRosterEntries failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("want 3 entries total, got %d", len(all))
	}
}

func TestMemoryStoreDeleteRoomCascades(t *testing.T) {
	ms := NewMemoryStore()
	ctx := context.Background()

	if err := ms.PutRoom(ctx, &dto.Room{Code: "ABCDE"}); err != nil {
		t.Fatalf("PutRoom failed: %v", err)
	}
	if err := ms.AddPlayer(ctx, &dto.Player{ID: "p1", RoomCode: "ABCDE"}); err != nil {
		t.Fatalf("AddPlayer failed: %v", err)
	}
	if err := ms.PutOffer(ctx, &dto.Offer{RoomCode: "ABCDE"}); err != nil {
		t.Fatalf("PutOffer failed: %v", err)
	}
	if err := ms.AppendFeedEvent(ctx, &dto.FeedEvent{RoomCode: "ABCDE", Message: "hi"}); err != nil {
		t.Fatalf("AppendFeedEvent failed: %v", err)
	}

	if err := ms.DeleteRoom(ctx, "ABCDE"); err != nil {
		t.Fatalf("DeleteRoom failed: %v", err)
	}

	if room, _ := ms.GetRoom(ctx, "ABCDE"); room != nil {
		t.Fatalf("room should be gone")
	}
	if player, _ := ms.GetPlayer(ctx, "p1"); player != nil {
		t.Fatalf("players should be cascaded")
	}
	if offer, _ := ms.GetOffer(ctx, "ABCDE"); offer != nil {
		t.Fatalf("offer should be cascaded")
	}

	feed, _ := ms.ListFeedEvents(ctx, "ABCDE", 10)
	if len(feed) != 0 {
		t.Fatalf("feed should be cascaded, got %d events", len(feed))
	}
}
