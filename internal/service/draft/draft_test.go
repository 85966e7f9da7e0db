package draft

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"poke-draft-be/internal/catalog"
	"poke-draft-be/internal/config"
	"poke-draft-be/internal/service/dto"
	"poke-draft-be/internal/store"
)

type stubCatalog struct {
	names []string
	attrs map[string]catalog.Attributes

	listCalls atomic.Int64
}

func (c *stubCatalog) ListNames(_ context.Context) ([]string, error) {
	c.listCalls.Add(1)
	return c.names, nil
}

func (c *stubCatalog) AttributesOf(_ context.Context, name string) (catalog.Attributes, error) {
	return c.attrs[name], nil
}

func testCatalog() *stubCatalog {
	names := []string{
		"bulbasaur", "charmander", "squirtle", "pikachu", "eevee", "snorlax",
		"gengar", "lapras", "dragonite", "mewtwo", "ditto", "onix",
		"vulpix", "psyduck", "machop", "geodude", "magikarp", "jigglypuff",
	}

	attrs := make(map[string]catalog.Attributes, len(names))
	for _, n := range names {
		attrs[n] = catalog.Attributes{
			Types:    []string{"normal"},
			HeightM:  1.0,
			WeightKg: 10.0,
			Color:    "gray",
		}
	}

	attrs["bulbasaur"] = catalog.Attributes{
		Types: []string{"grass", "poison"}, HeightM: 0.7, WeightKg: 6.9, Color: "green",
	}
	attrs["pikachu"] = catalog.Attributes{
		Types: []string{"electric"}, HeightM: 0.4, WeightKg: 6.0, Color: "yellow",
	}

	return &stubCatalog{names: names, attrs: attrs}
}

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time { return c.now }

func (c *testClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func testDraftConfig() config.DraftConfig {
	return config.DraftConfig{
		GoalPerPlayer:    2,
		RevealWindowSec:  5,
		DisguiseRequired: true,
	}
}

func newTestService(t *testing.T, cfg config.DraftConfig) (*Service, *store.MemoryStore, *stubCatalog, *testClock) {
	t.Helper()

	st := store.NewMemoryStore()
	cat := testCatalog()

	svc := NewService(st, cat, cfg)
	t.Cleanup(svc.Close)

	clock := &testClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	svc.now = clock.Now

	return svc, st, cat, clock
}

// startRoom 建房、拉人、开局，返回房间码和按加入顺序排列的玩家 ID
func startRoom(t *testing.T, svc *Service, mode string, names ...string) (string, []string) {
	t.Helper()

	ctx := context.Background()

	created, err := svc.CreateRoom(ctx, dto.CreateRoomRequest{
		HostName: names[0],
		HostIcon: "🎲",
		Mode:     mode,
	})
	if err != nil {
		t.Fatalf("CreateRoom failed: %v", err)
	}

	ids := []string{created.Host.ID}

	for _, name := range names[1:] {
		joined, err := svc.JoinRoom(ctx, dto.JoinRoomRequest{
			RoomCode:   created.RoomCode,
			JoinerName: name,
		})
		if err != nil {
			t.Fatalf("JoinRoom(%s) failed: %v", name, err)
		}

		ids = append(ids, joined.Joiner.ID)
	}

	if err := svc.StartDraft(ctx, dto.StartDraftRequest{
		RoomCode: created.RoomCode,
		PlayerID: created.Host.ID,
	}); err != nil {
		t.Fatalf("StartDraft failed: %v", err)
	}

	return created.RoomCode, ids
}

func getRoom(t *testing.T, st store.RoomStore, code string) *dto.Room {
	t.Helper()

	room, err := st.GetRoom(context.Background(), code)
	if err != nil {
		t.Fatalf("GetRoom failed: %v", err)
	}
	if room == nil {
		t.Fatalf("room %s not found", code)
	}

	return room
}

func getOffer(t *testing.T, st store.RoomStore, code string) *dto.Offer {
	t.Helper()

	offer, err := st.GetOffer(context.Background(), code)
	if err != nil {
		t.Fatalf("GetOffer failed: %v", err)
	}
	if offer == nil {
		t.Fatalf("no offer in room %s", code)
	}

	return offer
}

func TestCreateRoomGeneratesCodeAndHost(t *testing.T) {
	svc, st, _, _ := newTestService(t, testDraftConfig())
	ctx := context.Background()

	resp, err := svc.CreateRoom(ctx, dto.CreateRoomRequest{HostName: "Ash", HostIcon: "⚡"})
	if err != nil {
		t.Fatalf("CreateRoom failed: %v", err)
	}

	if len(resp.RoomCode) != 5 {
		t.Fatalf("room code should have 5 chars, got %q", resp.RoomCode)
	}

	for _, r := range resp.RoomCode {
		if r < 'A' || r > 'Z' {
			t.Fatalf("room code should be uppercase letters only, got %q", resp.RoomCode)
		}
	}

	room := getRoom(t, st, resp.RoomCode)

	if room.Status != dto.STATUS_LOBBY {
		t.Fatalf("new room should be in lobby, got %q", room.Status)
	}

	if room.Mode != dto.MODE_CLASSIC {
		t.Fatalf("default mode should be classic, got %q", room.Mode)
	}

	if room.HostPlayerID != resp.Host.ID {
		t.Fatalf("host mismatch: room has %q, response has %q", room.HostPlayerID, resp.Host.ID)
	}

	if !resp.Host.IsHost {
		t.Fatalf("creator should be flagged as host")
	}
}

func TestCreateRoomRejectsBlankNameAndBadMode(t *testing.T) {
	svc, _, _, _ := newTestService(t, testDraftConfig())
	ctx := context.Background()

	if _, err := svc.CreateRoom(ctx, dto.CreateRoomRequest{HostName: "   "}); !errors.Is(err, ErrInvalidName) {
		t.Fatalf("blank name should fail with ErrInvalidName, got %v", err)
	}

	if _, err := svc.CreateRoom(ctx, dto.CreateRoomRequest{HostName: "Ash", Mode: "Speedrun"}); !errors.Is(err, ErrInvalidMode) {
		t.Fatalf("unknown mode should fail with ErrInvalidMode, got %v", err)
	}
}

func TestJoinAfterStartRejected(t *testing.T) {
	svc, st, _, _ := newTestService(t, testDraftConfig())
	ctx := context.Background()

	code, _ := startRoom(t, svc, dto.MODE_CLASSIC, "Ash", "Misty")

	_, err := svc.JoinRoom(ctx, dto.JoinRoomRequest{RoomCode: code, JoinerName: "Brock"})
	if !errors.Is(err, ErrAlreadyStarted) {
		t.Fatalf("join after start should fail with ErrAlreadyStarted, got %v", err)
	}

	players, err := st.ListPlayers(ctx, code)
	if err != nil {
		t.Fatalf("ListPlayers failed: %v", err)
	}

	if len(players) != 2 {
		t.Fatalf("rejected join must not add a player, want 2 got %d", len(players))
	}
}

func TestRejoinUpdatesExistingPlayer(t *testing.T) {
	svc, st, _, _ := newTestService(t, testDraftConfig())
	ctx := context.Background()

	code, ids := startRoom(t, svc, dto.MODE_CLASSIC, "Ash", "Misty")

	// 开局后重连也要放行，只更新展示信息
	resp, err := svc.JoinRoom(ctx, dto.JoinRoomRequest{
		RoomCode:   code,
		JoinerName: "Misty!",
		JoinerIcon: "🌊",
		PlayerID:   ids[1],
	})
	if err != nil {
		t.Fatalf("rejoin failed: %v", err)
	}

	if resp.Joiner.ID != ids[1] {
		t.Fatalf("rejoin must keep the player ID, want %s got %s", ids[1], resp.Joiner.ID)
	}

	players, err := st.ListPlayers(ctx, code)
	if err != nil {
		t.Fatalf("ListPlayers failed: %v", err)
	}

	if len(players) != 2 {
		t.Fatalf("rejoin must not add a player, want 2 got %d", len(players))
	}
}

func TestStartDraftGuards(t *testing.T) {
	svc, _, _, _ := newTestService(t, testDraftConfig())
	ctx := context.Background()

	created, err := svc.CreateRoom(ctx, dto.CreateRoomRequest{HostName: "Ash"})
	if err != nil {
		t.Fatalf("CreateRoom failed: %v", err)
	}

	err = svc.StartDraft(ctx, dto.StartDraftRequest{RoomCode: created.RoomCode, PlayerID: created.Host.ID})
	if !errors.Is(err, ErrInsufficientPlayers) {
		t.Fatalf("solo start should fail with ErrInsufficientPlayers, got %v", err)
	}

	joined, err := svc.JoinRoom(ctx, dto.JoinRoomRequest{RoomCode: created.RoomCode, JoinerName: "Misty"})
	if err != nil {
		t.Fatalf("JoinRoom failed: %v", err)
	}

	err = svc.StartDraft(ctx, dto.StartDraftRequest{RoomCode: created.RoomCode, PlayerID: joined.Joiner.ID})
	if !errors.Is(err, ErrNotHost) {
		t.Fatalf("non-host start should fail with ErrNotHost, got %v", err)
	}

	if err := svc.StartDraft(ctx, dto.StartDraftRequest{RoomCode: created.RoomCode, PlayerID: created.Host.ID}); err != nil {
		t.Fatalf("host start failed: %v", err)
	}

	err = svc.StartDraft(ctx, dto.StartDraftRequest{RoomCode: created.RoomCode, PlayerID: created.Host.ID})
	if !errors.Is(err, ErrAlreadyStarted) {
		t.Fatalf("double start should fail with ErrAlreadyStarted, got %v", err)
	}
}

func TestStartDraftFixesTurnOrder(t *testing.T) {
	svc, st, _, _ := newTestService(t, testDraftConfig())

	code, ids := startRoom(t, svc, dto.MODE_CLASSIC, "Ash", "Misty", "Brock")

	room := getRoom(t, st, code)

	if room.Status != dto.STATUS_DRAFTING {
		t.Fatalf("started room should be drafting, got %q", room.Status)
	}

	if len(room.TurnOrder) != len(ids) {
		t.Fatalf("turn order should cover all players, want %d got %d", len(ids), len(room.TurnOrder))
	}

	seen := make(map[string]bool, len(ids))
	for _, pid := range room.TurnOrder {
		seen[pid] = true
	}

	for _, pid := range ids {
		if !seen[pid] {
			t.Fatalf("player %s missing from turn order", pid)
		}
	}

	offer := getOffer(t, st, code)

	if offer.Phase != dto.PHASE_AWAITING_DISGUISE {
		t.Fatalf("classic first offer should await disguise, got %q", offer.Phase)
	}

	if offer.ActorPlayerID != room.TurnOrder[0] {
		t.Fatalf("first actor should be turn_order[0]")
	}

	if offer.PickerPlayerID != room.TurnOrder[1] {
		t.Fatalf("first picker should be turn_order[1]")
	}
}

func TestSetModeHostOnlyInLobby(t *testing.T) {
	svc, st, _, _ := newTestService(t, testDraftConfig())
	ctx := context.Background()

	created, err := svc.CreateRoom(ctx, dto.CreateRoomRequest{HostName: "Ash"})
	if err != nil {
		t.Fatalf("CreateRoom failed: %v", err)
	}

	joined, err := svc.JoinRoom(ctx, dto.JoinRoomRequest{RoomCode: created.RoomCode, JoinerName: "Misty"})
	if err != nil {
		t.Fatalf("JoinRoom failed: %v", err)
	}

	err = svc.SetMode(ctx, dto.SetModeRequest{RoomCode: created.RoomCode, PlayerID: joined.Joiner.ID, Mode: dto.MODE_MYSTERY_TYPE})
	if !errors.Is(err, ErrNotHost) {
		t.Fatalf("non-host mode change should fail with ErrNotHost, got %v", err)
	}

	if err := svc.SetMode(ctx, dto.SetModeRequest{RoomCode: created.RoomCode, PlayerID: created.Host.ID, Mode: dto.MODE_MYSTERY_TYPE}); err != nil {
		t.Fatalf("host mode change failed: %v", err)
	}

	if got := getRoom(t, st, created.RoomCode).Mode; got != dto.MODE_MYSTERY_TYPE {
		t.Fatalf("mode not persisted, got %q", got)
	}

	if err := svc.StartDraft(ctx, dto.StartDraftRequest{RoomCode: created.RoomCode, PlayerID: created.Host.ID}); err != nil {
		t.Fatalf("StartDraft failed: %v", err)
	}

	err = svc.SetMode(ctx, dto.SetModeRequest{RoomCode: created.RoomCode, PlayerID: created.Host.ID, Mode: dto.MODE_CLASSIC})
	if !errors.Is(err, ErrAlreadyStarted) {
		t.Fatalf("mode change after start should fail with ErrAlreadyStarted, got %v", err)
	}
}

func TestLeaveRoomRemovesPlayer(t *testing.T) {
	svc, st, _, _ := newTestService(t, testDraftConfig())
	ctx := context.Background()

	created, err := svc.CreateRoom(ctx, dto.CreateRoomRequest{HostName: "Ash"})
	if err != nil {
		t.Fatalf("CreateRoom failed: %v", err)
	}

	joined, err := svc.JoinRoom(ctx, dto.JoinRoomRequest{RoomCode: created.RoomCode, JoinerName: "Misty"})
	if err != nil {
		t.Fatalf("JoinRoom failed: %v", err)
	}

	if err := svc.LeaveRoom(ctx, dto.LeaveRoomRequest{RoomCode: created.RoomCode, PlayerID: joined.Joiner.ID}); err != nil {
		t.Fatalf("LeaveRoom failed: %v", err)
	}

	players, err := st.ListPlayers(ctx, created.RoomCode)
	if err != nil {
		t.Fatalf("ListPlayers failed: %v", err)
	}

	if len(players) != 1 || players[0].ID != created.Host.ID {
		t.Fatalf("only the host should remain, got %d players", len(players))
	}

	// 离开不存在的玩家是无副作用的空操作
	if err := svc.LeaveRoom(ctx, dto.LeaveRoomRequest{RoomCode: created.RoomCode, PlayerID: "ghost"}); err != nil {
		t.Fatalf("leaving with unknown player should be a no-op, got %v", err)
	}
}

func TestCleanupSparesActiveRooms(t *testing.T) {
	svc, st, _, clock := newTestService(t, testDraftConfig())
	ctx := context.Background()

	stale := clock.Now().Add(-25 * time.Hour)

	// 过期且已收官：应当被清理
	if err := st.PutRoom(ctx, &dto.Room{Code: "DONEX", Status: dto.STATUS_DONE, CreatedAt: stale}); err != nil {
		t.Fatalf("PutRoom failed: %v", err)
	}

	// 过期且空无一人：应当被清理
	if err := st.PutRoom(ctx, &dto.Room{Code: "EMPTX", Status: dto.STATUS_LOBBY, CreatedAt: stale}); err != nil {
		t.Fatalf("PutRoom failed: %v", err)
	}

	// 过期但还在抽选且有人：不能动
	if err := st.PutRoom(ctx, &dto.Room{Code: "LIVEX", Status: dto.STATUS_DRAFTING, CreatedAt: stale}); err != nil {
		t.Fatalf("PutRoom failed: %v", err)
	}
	if err := st.AddPlayer(ctx, &dto.Player{ID: "p1", RoomCode: "LIVEX", Name: "Ash", JoinedAt: stale}); err != nil {
		t.Fatalf("AddPlayer failed: %v", err)
	}

	// 未过期：不能动
	if err := st.PutRoom(ctx, &dto.Room{Code: "FRESH", Status: dto.STATUS_DONE, CreatedAt: clock.Now()}); err != nil {
		t.Fatalf("PutRoom failed: %v", err)
	}

	svc.cleanupExpiredRooms()

	if room, _ := st.GetRoom(ctx, "DONEX"); room != nil {
		t.Fatalf("expired finished room should be cleaned up")
	}

	if room, _ := st.GetRoom(ctx, "EMPTX"); room != nil {
		t.Fatalf("expired empty room should be cleaned up")
	}

	if room, _ := st.GetRoom(ctx, "LIVEX"); room == nil {
		t.Fatalf("an active drafting room must survive cleanup")
	}

	if room, _ := st.GetRoom(ctx, "FRESH"); room == nil {
		t.Fatalf("a room within the TTL must survive cleanup")
	}
}

func TestFeedRecordsLifecycle(t *testing.T) {
	svc, st, _, _ := newTestService(t, testDraftConfig())
	ctx := context.Background()

	code, _ := startRoom(t, svc, dto.MODE_CLASSIC, "Ash", "Misty")

	feed, err := st.ListFeedEvents(ctx, code, 10)
	if err != nil {
		t.Fatalf("ListFeedEvents failed: %v", err)
	}

	var haveCreated, haveJoined, haveStarted bool
	for _, e := range feed {
		switch {
		case strings.Contains(e.Message, "created the room"):
			haveCreated = true
		case strings.Contains(e.Message, "joined the room"):
			haveJoined = true
		case strings.Contains(e.Message, "Game started"):
			haveStarted = true
		}
	}

	if !haveCreated || !haveJoined || !haveStarted {
		t.Fatalf("feed missing lifecycle events: created=%v joined=%v started=%v",
			haveCreated, haveJoined, haveStarted)
	}
}
