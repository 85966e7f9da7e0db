package store

import (
	"context"

	"poke-draft-be/internal/service/dto"
)

// RoomStore 是房间状态的唯一持久化入口。
// Get 类方法在记录不存在时返回 (nil, nil)，由调用方决定如何处理；
// 存储自身的故障通过 error 返回。
type RoomStore interface {
	GetRoom(ctx context.Context, roomCode string) (*dto.Room, error)
	PutRoom(ctx context.Context, room *dto.Room) error
	DeleteRoom(ctx context.Context, roomCode string) error
	// 仅供后台清理扫描使用
	ListRooms(ctx context.Context) ([]dto.Room, error)

	// 按加入时间升序返回
	ListPlayers(ctx context.Context, roomCode string) ([]dto.Player, error)
	GetPlayer(ctx context.Context, playerID string) (*dto.Player, error)
	AddPlayer(ctx context.Context, player *dto.Player) error
	UpdatePlayer(ctx context.Context, player *dto.Player) error
	DeletePlayer(ctx context.Context, playerID string) error

	// 每个房间同时只存在一条报价，PutOffer 是整体覆盖语义
	GetOffer(ctx context.Context, roomCode string) (*dto.Offer, error)
	PutOffer(ctx context.Context, offer *dto.Offer) error

	AddRosterEntry(ctx context.Context, entry *dto.RosterEntry) error
	CountRosterEntries(ctx context.Context, roomCode, playerID string) (int, error)
	ListRosterEntries(ctx context.Context, roomCode string) ([]dto.RosterEntry, error)

	AppendFeedEvent(ctx context.Context, event *dto.FeedEvent) error
	// 按时间倒序返回最近 limit 条
	ListFeedEvents(ctx context.Context, roomCode string, limit int) ([]dto.FeedEvent, error)
}
