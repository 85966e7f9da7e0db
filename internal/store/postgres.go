package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"poke-draft-be/internal/service/dto"
)

var ErrDatabase = errors.New("数据库操作失败")

// PostgresStore 把房间状态落到 Postgres，
// 报价表对每个房间只保留一行，靠 upsert 实现整体覆盖。
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, connString string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDatabase, err)
	}

	return &PostgresStore{pool: pool}, nil
}

func (ps *PostgresStore) Close() {
	ps.pool.Close()
}

func (ps *PostgresStore) GetRoom(ctx context.Context, roomCode string) (*dto.Room, error) {
	room := dto.Room{Code: roomCode}

	row := ps.pool.QueryRow(ctx,
		`SELECT status, mode, host_player_id, turn_order, goal_per_player, created_at
		 FROM rooms WHERE room_code = $1`, roomCode)

	err := row.Scan(&room.Status, &room.Mode, &room.HostPlayerID,
		&room.TurnOrder, &room.GoalPerPlayer, &room.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("%w: %w", ErrDatabase, err)
	}

	return &room, nil
}

func (ps *PostgresStore) PutRoom(ctx context.Context, room *dto.Room) error {
	_, err := ps.pool.Exec(ctx,
		`INSERT INTO rooms(room_code, status, mode, host_player_id, turn_order, goal_per_player, created_at)
		 VALUES($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (room_code) DO UPDATE SET
		   status = excluded.status,
		   mode = excluded.mode,
		   host_player_id = excluded.host_player_id,
		   turn_order = excluded.turn_order,
		   goal_per_player = excluded.goal_per_player`,
		room.Code, room.Status, room.Mode, room.HostPlayerID,
		room.TurnOrder, room.GoalPerPlayer, room.CreatedAt)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDatabase, err)
	}

	return nil
}

func (ps *PostgresStore) DeleteRoom(ctx context.Context, roomCode string) error {
	// 级联清理依赖外键上的 ON DELETE CASCADE
	_, err := ps.pool.Exec(ctx, `DELETE FROM rooms WHERE room_code = $1`, roomCode)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDatabase, err)
	}

	return nil
}

func (ps *PostgresStore) ListRooms(ctx context.Context) ([]dto.Room, error) {
	rows, err := ps.pool.Query(ctx,
		`SELECT room_code, status, mode, host_player_id, turn_order, goal_per_player, created_at
		 FROM rooms`)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDatabase, err)
	}
	defer rows.Close()

	rooms := make([]dto.Room, 0, 16)

	for rows.Next() {
		var room dto.Room

		err := rows.Scan(&room.Code, &room.Status, &room.Mode, &room.HostPlayerID,
			&room.TurnOrder, &room.GoalPerPlayer, &room.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrDatabase, err)
		}

		rooms = append(rooms, room)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDatabase, err)
	}

	return rooms, nil
}

func (ps *PostgresStore) ListPlayers(ctx context.Context, roomCode string) ([]dto.Player, error) {
	rows, err := ps.pool.Query(ctx,
		`SELECT player_id, name, icon, is_host, joined_at
		 FROM players WHERE room_code = $1 ORDER BY joined_at ASC, player_id ASC`, roomCode)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDatabase, err)
	}
	defer rows.Close()

	players := make([]dto.Player, 0, 4)

	for rows.Next() {
		p := dto.Player{RoomCode: roomCode}

		if err := rows.Scan(&p.ID, &p.Name, &p.Icon, &p.IsHost, &p.JoinedAt); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrDatabase, err)
		}

		players = append(players, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDatabase, err)
	}

	return players, nil
}

func (ps *PostgresStore) GetPlayer(ctx context.Context, playerID string) (*dto.Player, error) {
	p := dto.Player{ID: playerID}

	row := ps.pool.QueryRow(ctx,
		`SELECT room_code, name, icon, is_host, joined_at FROM players WHERE player_id = $1`,
		playerID)

	err := row.Scan(&p.RoomCode, &p.Name, &p.Icon, &p.IsHost, &p.JoinedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("%w: %w", ErrDatabase, err)
	}

	return &p, nil
}

func (ps *PostgresStore) AddPlayer(ctx context.Context, player *dto.Player) error {
	_, err := ps.pool.Exec(ctx,
		`INSERT INTO players(player_id, room_code, name, icon, is_host, joined_at)
		 VALUES($1, $2, $3, $4, $5, $6)`,
		player.ID, player.RoomCode, player.Name, player.Icon, player.IsHost, player.JoinedAt)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDatabase, err)
	}

	return nil
}

func (ps *PostgresStore) UpdatePlayer(ctx context.Context, player *dto.Player) error {
	_, err := ps.pool.Exec(ctx,
		`UPDATE players SET name = $1, icon = $2 WHERE player_id = $3`,
		player.Name, player.Icon, player.ID)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDatabase, err)
	}

	return nil
}

func (ps *PostgresStore) DeletePlayer(ctx context.Context, playerID string) error {
	_, err := ps.pool.Exec(ctx, `DELETE FROM players WHERE player_id = $1`, playerID)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDatabase, err)
	}

	return nil
}

func (ps *PostgresStore) GetOffer(ctx context.Context, roomCode string) (*dto.Offer, error) {
	offer := dto.Offer{RoomCode: roomCode}

	row := ps.pool.QueryRow(ctx,
		`SELECT phase, actor_player_id, picker_player_id,
		        true1, true2, true3, shown1, shown2, shown3,
		        disguised_slot, disguised_label, mystery_kind,
		        picked_slot, picked_true, picked_public, outcome,
		        reveal_deadline, next_actor_id, next_picker_id, created_at
		 FROM offers WHERE room_code = $1`, roomCode)

	err := row.Scan(&offer.Phase, &offer.ActorPlayerID, &offer.PickerPlayerID,
		&offer.TrueOptions[0], &offer.TrueOptions[1], &offer.TrueOptions[2],
		&offer.PublicView[0], &offer.PublicView[1], &offer.PublicView[2],
		&offer.DisguisedSlot, &offer.DisguisedLabel, &offer.MysteryKind,
		&offer.PickedSlot, &offer.PickedTrue, &offer.PickedPublic, &offer.Outcome,
		&offer.RevealDeadline, &offer.NextActorID, &offer.NextPickerID, &offer.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("%w: %w", ErrDatabase, err)
	}

	return &offer, nil
}

func (ps *PostgresStore) PutOffer(ctx context.Context, offer *dto.Offer) error {
	_, err := ps.pool.Exec(ctx,
		`INSERT INTO offers(room_code, phase, actor_player_id, picker_player_id,
		        true1, true2, true3, shown1, shown2, shown3,
		        disguised_slot, disguised_label, mystery_kind,
		        picked_slot, picked_true, picked_public, outcome,
		        reveal_deadline, next_actor_id, next_picker_id, created_at)
		 VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
		        $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
		 ON CONFLICT (room_code) DO UPDATE SET
		   phase = excluded.phase,
		   actor_player_id = excluded.actor_player_id,
		   picker_player_id = excluded.picker_player_id,
		   true1 = excluded.true1, true2 = excluded.true2, true3 = excluded.true3,
		   shown1 = excluded.shown1, shown2 = excluded.shown2, shown3 = excluded.shown3,
		   disguised_slot = excluded.disguised_slot,
		   disguised_label = excluded.disguised_label,
		   mystery_kind = excluded.mystery_kind,
		   picked_slot = excluded.picked_slot,
		   picked_true = excluded.picked_true,
		   picked_public = excluded.picked_public,
		   outcome = excluded.outcome,
		   reveal_deadline = excluded.reveal_deadline,
		   next_actor_id = excluded.next_actor_id,
		   next_picker_id = excluded.next_picker_id,
		   created_at = excluded.created_at`,
		offer.RoomCode, offer.Phase, offer.ActorPlayerID, offer.PickerPlayerID,
		offer.TrueOptions[0], offer.TrueOptions[1], offer.TrueOptions[2],
		offer.PublicView[0], offer.PublicView[1], offer.PublicView[2],
		offer.DisguisedSlot, offer.DisguisedLabel, offer.MysteryKind,
		offer.PickedSlot, offer.PickedTrue, offer.PickedPublic, offer.Outcome,
		offer.RevealDeadline, offer.NextActorID, offer.NextPickerID, offer.CreatedAt)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDatabase, err)
	}

	return nil
}

func (ps *PostgresStore) AddRosterEntry(ctx context.Context, entry *dto.RosterEntry) error {
	_, err := ps.pool.Exec(ctx,
		`INSERT INTO rosters(room_code, player_id, slot, pokemon) VALUES($1, $2, $3, $4)`,
		entry.RoomCode, entry.PlayerID, entry.Slot, entry.Pokemon)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDatabase, err)
	}

	return nil
}

func (ps *PostgresStore) CountRosterEntries(ctx context.Context, roomCode, playerID string) (int, error) {
	var count int

	row := ps.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM rosters WHERE room_code = $1 AND player_id = $2`,
		roomCode, playerID)

	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrDatabase, err)
	}

	return count, nil
}

func (ps *PostgresStore) ListRosterEntries(ctx context.Context, roomCode string) ([]dto.RosterEntry, error) {
	rows, err := ps.pool.Query(ctx,
		`SELECT player_id, slot, pokemon FROM rosters
		 WHERE room_code = $1 ORDER BY player_id ASC, slot ASC`, roomCode)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDatabase, err)
	}
	defer rows.Close()

	entries := make([]dto.RosterEntry, 0, 12)

	for rows.Next() {
		e := dto.RosterEntry{RoomCode: roomCode}

		if err := rows.Scan(&e.PlayerID, &e.Slot, &e.Pokemon); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrDatabase, err)
		}

		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDatabase, err)
	}

	return entries, nil
}

func (ps *PostgresStore) AppendFeedEvent(ctx context.Context, event *dto.FeedEvent) error {
	_, err := ps.pool.Exec(ctx,
		`INSERT INTO feed(room_code, at, message) VALUES($1, $2, $3)`,
		event.RoomCode, event.At, event.Message)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDatabase, err)
	}

	return nil
}

func (ps *PostgresStore) ListFeedEvents(ctx context.Context, roomCode string, limit int) ([]dto.FeedEvent, error) {
	rows, err := ps.pool.Query(ctx,
		`SELECT at, message FROM feed
		 WHERE room_code = $1 ORDER BY at DESC, id DESC LIMIT $2`, roomCode, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDatabase, err)
	}
	defer rows.Close()

	events := make([]dto.FeedEvent, 0, limit)

	for rows.Next() {
		e := dto.FeedEvent{RoomCode: roomCode}

		if err := rows.Scan(&e.At, &e.Message); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrDatabase, err)
		}

		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDatabase, err)
	}

	return events, nil
}
