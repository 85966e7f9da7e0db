package draft

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"go.uber.org/zap"

	"poke-draft-be/internal/catalog"
	"poke-draft-be/internal/config"
	"poke-draft-be/internal/service/dto"
	"poke-draft-be/internal/store"
)

const roomCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// 已收官或已空的房间在创建这么久之后会被清理掉
const roomTTL = 24 * time.Hour

// Service 驱动单个房间的抽选状态机。
// 所有命令都是"读取-校验-写回"，并且每个房间由一把锁串行化，
// 跨房间的命令互不影响。
type Service struct {
	store   store.RoomStore
	catalog catalog.Provider
	cfg     config.DraftConfig

	// 可在测试中替换以控制时间
	now func() time.Time

	mu    sync.Mutex
	locks map[string]*sync.Mutex

	cleanUpDone chan struct{}
}

func NewService(st store.RoomStore, cat catalog.Provider, cfg config.DraftConfig) *Service {
	svc := &Service{
		store:       st,
		catalog:     cat,
		cfg:         cfg,
		now:         time.Now,
		locks:       make(map[string]*sync.Mutex),
		cleanUpDone: make(chan struct{}),
	}

	// 定期清理过期房间
	go svc.startCleanupLoop()

	return svc
}

func (s *Service) Close() {
	close(s.cleanUpDone)
}

// roomLock 返回某个房间的串行化锁，按需创建
func (s *Service) roomLock(roomCode string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.locks[roomCode]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[roomCode] = lock
	}

	return lock
}

func (s *Service) startCleanupLoop() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-s.cleanUpDone:
			return

		case <-ticker.C:
			s.cleanupExpiredRooms()
		}
	}
}

func (s *Service) cleanupExpiredRooms() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	rooms, err := s.store.ListRooms(ctx)
	if err != nil {
		zap.S().Warnf("清理扫描失败: %v", err)
		return
	}

	for _, room := range rooms {
		if s.now().Sub(room.CreatedAt) < roomTTL {
			continue
		}

		// 只清理已收官或已空的房间，进行中的房间无论多旧都不动
		if room.Status != dto.STATUS_DONE {
			players, err := s.store.ListPlayers(ctx, room.Code)
			if err != nil {
				zap.S().Warnf("清理扫描房间 %s 的玩家失败: %v", room.Code, err)
				continue
			}

			if len(players) > 0 {
				continue
			}
		}

		zap.S().Infof("房间 %s 已过期，开始清理", room.Code)

		if err := s.store.DeleteRoom(ctx, room.Code); err != nil {
			zap.S().Warnf("清理房间 %s 失败: %v", room.Code, err)
			continue
		}

		s.mu.Lock()
		delete(s.locks, room.Code)
		s.mu.Unlock()
	}
}

// genRoomCode 生成一个未被占用的 5 位大写字母房间码
func (s *Service) genRoomCode(ctx context.Context) (string, error) {
	for attempt := 0; attempt < 100; attempt++ {
		buf := make([]byte, 5)
		for i := range buf {
			buf[i] = roomCodeAlphabet[rand.IntN(len(roomCodeAlphabet))]
		}

		code := string(buf)

		existing, err := s.store.GetRoom(ctx, code)
		if err != nil {
			return "", err
		}

		if existing == nil {
			return code, nil
		}
	}

	return "", fmt.Errorf("无法生成未占用的房间码")
}

// addFeed 写一条房间动态；动态只用于展示，
// 写入失败不影响命令本身的结果
func (s *Service) addFeed(ctx context.Context, roomCode, message string) {
	event := &dto.FeedEvent{
		RoomCode: roomCode,
		At:       s.now(),
		Message:  message,
	}

	if err := s.store.AppendFeedEvent(ctx, event); err != nil {
		zap.S().Warnf("房间 %s 写入动态失败: %v", roomCode, err)
	}
}

// isComplete 判断每名玩家是否都抽满了配额
func (s *Service) isComplete(ctx context.Context, room *dto.Room) (bool, error) {
	players, err := s.store.ListPlayers(ctx, room.Code)
	if err != nil {
		return false, err
	}

	if len(players) == 0 {
		return false, nil
	}

	for _, p := range players {
		count, err := s.store.CountRosterEntries(ctx, room.Code, p.ID)
		if err != nil {
			return false, err
		}

		if count < room.GoalPerPlayer {
			return false, nil
		}
	}

	return true, nil
}
