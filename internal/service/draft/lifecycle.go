package draft

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"poke-draft-be/internal/service/dto"
)

// CreateRoom 创建一个新房间，创建者自动成为房主兼首位玩家
func (s *Service) CreateRoom(ctx context.Context, req dto.CreateRoomRequest) (dto.CreateRoomResponse, error) {
	hostName := strings.TrimSpace(req.HostName)
	if hostName == "" {
		return dto.CreateRoomResponse{}, ErrInvalidName
	}

	mode := req.Mode
	if mode == "" {
		mode = dto.MODE_CLASSIC
	}

	if !dto.IsValidMode(mode) {
		return dto.CreateRoomResponse{}, ErrInvalidMode
	}

	roomCode, err := s.genRoomCode(ctx)
	if err != nil {
		return dto.CreateRoomResponse{}, err
	}

	host := dto.Player{
		ID:       genPlayerID(),
		RoomCode: roomCode,
		Name:     hostName,
		Icon:     req.HostIcon,
		IsHost:   true,
		JoinedAt: s.now(),
	}

	room := dto.Room{
		Code:          roomCode,
		Status:        dto.STATUS_LOBBY,
		Mode:          mode,
		HostPlayerID:  host.ID,
		GoalPerPlayer: s.cfg.GoalPerPlayer,
		CreatedAt:     s.now(),
	}

	if err := s.store.PutRoom(ctx, &room); err != nil {
		return dto.CreateRoomResponse{}, err
	}

	if err := s.store.AddPlayer(ctx, &host); err != nil {
		return dto.CreateRoomResponse{}, err
	}

	s.addFeed(ctx, roomCode, fmt.Sprintf("%s %s created the room.", host.Icon, host.Name))

	zap.S().Infof("房间 %s 由 %s 创建，模式 %s", roomCode, hostName, mode)

	return dto.CreateRoomResponse{
		RoomCode: roomCode,
		Host:     host,
	}, nil
}

// JoinRoom 在大厅阶段加入房间；
// 带着已有 PlayerID 重复加入时只更新展示信息
func (s *Service) JoinRoom(ctx context.Context, req dto.JoinRoomRequest) (dto.JoinRoomResponse, error) {
	joinerName := strings.TrimSpace(req.JoinerName)
	if joinerName == "" {
		return dto.JoinRoomResponse{}, ErrInvalidName
	}

	lock := s.roomLock(req.RoomCode)
	lock.Lock()
	defer lock.Unlock()

	room, err := s.store.GetRoom(ctx, req.RoomCode)
	if err != nil {
		return dto.JoinRoomResponse{}, err
	}
	if room == nil {
		return dto.JoinRoomResponse{}, ErrRoomNotFound
	}

	// 同一会话重连：只更新名字和图标，不追加新玩家
	if req.PlayerID != "" {
		existing, err := s.store.GetPlayer(ctx, req.PlayerID)
		if err != nil {
			return dto.JoinRoomResponse{}, err
		}

		if existing != nil && existing.RoomCode == req.RoomCode {
			existing.Name = joinerName
			existing.Icon = req.JoinerIcon

			if err := s.store.UpdatePlayer(ctx, existing); err != nil {
				return dto.JoinRoomResponse{}, err
			}

			return dto.JoinRoomResponse{Joiner: *existing}, nil
		}
	}

	// 中途加入会破坏已固定的抽选顺序，开局后一律拒绝
	if room.Status != dto.STATUS_LOBBY {
		return dto.JoinRoomResponse{}, ErrAlreadyStarted
	}

	joiner := dto.Player{
		ID:       genPlayerID(),
		RoomCode: req.RoomCode,
		Name:     joinerName,
		Icon:     req.JoinerIcon,
		JoinedAt: s.now(),
	}

	if err := s.store.AddPlayer(ctx, &joiner); err != nil {
		return dto.JoinRoomResponse{}, err
	}

	s.addFeed(ctx, req.RoomCode, fmt.Sprintf("%s %s joined the room.", joiner.Icon, joiner.Name))

	zap.S().Infof("房间 %s 接纳玩家 %s", req.RoomCode, joinerName)

	return dto.JoinRoomResponse{Joiner: joiner}, nil
}

// LeaveRoom 尽力而为地删除玩家，不保证和进行中的回合一致
func (s *Service) LeaveRoom(ctx context.Context, req dto.LeaveRoomRequest) error {
	lock := s.roomLock(req.RoomCode)
	lock.Lock()
	defer lock.Unlock()

	player, err := s.store.GetPlayer(ctx, req.PlayerID)
	if err != nil {
		return err
	}

	if player == nil || player.RoomCode != req.RoomCode {
		return nil
	}

	if err := s.store.DeletePlayer(ctx, req.PlayerID); err != nil {
		return err
	}

	s.addFeed(ctx, req.RoomCode, fmt.Sprintf("%s %s left the room.", player.Icon, player.Name))

	return nil
}

// SetMode 在大厅阶段由房主切换游戏模式
func (s *Service) SetMode(ctx context.Context, req dto.SetModeRequest) error {
	if !dto.IsValidMode(req.Mode) {
		return ErrInvalidMode
	}

	lock := s.roomLock(req.RoomCode)
	lock.Lock()
	defer lock.Unlock()

	room, err := s.store.GetRoom(ctx, req.RoomCode)
	if err != nil {
		return err
	}
	if room == nil {
		return ErrRoomNotFound
	}

	if room.HostPlayerID != req.PlayerID {
		return ErrNotHost
	}

	if room.Status != dto.STATUS_LOBBY {
		return ErrAlreadyStarted
	}

	room.Mode = req.Mode

	return s.store.PutRoom(ctx, room)
}

// StartDraft 固定抽选顺序并进入抽选阶段。
// 顺序是当前玩家的均匀随机排列，之后不再变动。
func (s *Service) StartDraft(ctx context.Context, req dto.StartDraftRequest) error {
	lock := s.roomLock(req.RoomCode)
	lock.Lock()
	defer lock.Unlock()

	room, err := s.store.GetRoom(ctx, req.RoomCode)
	if err != nil {
		return err
	}
	if room == nil {
		return ErrRoomNotFound
	}

	if room.HostPlayerID != req.PlayerID {
		return ErrNotHost
	}

	if room.Status != dto.STATUS_LOBBY {
		return ErrAlreadyStarted
	}

	players, err := s.store.ListPlayers(ctx, req.RoomCode)
	if err != nil {
		return err
	}

	if len(players) < 2 {
		return ErrInsufficientPlayers
	}

	order := make([]string, 0, len(players))
	for _, p := range players {
		order = append(order, p.ID)
	}

	rand.Shuffle(len(order), func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})

	room.TurnOrder = order
	room.Status = dto.STATUS_DRAFTING

	if err := s.store.PutRoom(ctx, room); err != nil {
		return err
	}

	s.addFeed(ctx, req.RoomCode, fmt.Sprintf("Game started — Mode: %s", room.Mode))

	zap.S().Infof("房间 %s 开局，%d 名玩家，模式 %s", req.RoomCode, len(order), room.Mode)

	actor, picker := s.firstTurn(room)

	return s.createOffer(ctx, room, actor, picker)
}

// firstTurn 计算开局第一回合的伪装者和抽选者
func (s *Service) firstTurn(room *dto.Room) (actorID, pickerID string) {
	order := room.TurnOrder

	if room.Mode != dto.MODE_CLASSIC || s.cfg.ActorAlsoPicks {
		return order[0], order[0]
	}

	return order[0], order[1%len(order)]
}

// IsComplete 报告房间里的每名玩家是否都已抽满配额
func (s *Service) IsComplete(ctx context.Context, roomCode string) (bool, error) {
	room, err := s.store.GetRoom(ctx, roomCode)
	if err != nil {
		return false, err
	}
	if room == nil {
		return false, ErrRoomNotFound
	}

	return s.isComplete(ctx, room)
}

func genPlayerID() string {
	id, err := uuid.NewV7()
	if err != nil {
		panic("生成 UUID 失败: " + err.Error())
	}

	return id.String()
}
