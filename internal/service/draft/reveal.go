package draft

import (
	"context"

	"go.uber.org/zap"

	"poke-draft-be/internal/service/dto"
)

// Tick 推进到期的揭示阶段，任何客户端的轮询都可以触发。
// 幂等：阶段守卫加上房间锁保证截止后多次调用只会生成一份新报价。
// 这是整个状态机里唯一由墙钟驱动的转换。
func (s *Service) Tick(ctx context.Context, roomCode string) error {
	lock := s.roomLock(roomCode)
	lock.Lock()
	defer lock.Unlock()

	room, offer, err := s.loadRoomAndOffer(ctx, roomCode)
	if err != nil {
		return err
	}

	if offer == nil || offer.Phase != dto.PHASE_REVEALING {
		return nil
	}

	if s.now().Before(offer.RevealDeadline) {
		return nil
	}

	// 没有下一回合就是收官信号；LockPick 可能已经把房间置为 Done，
	// finishRoom 对重复调用免疫
	if offer.NextPickerID == "" {
		return s.finishRoom(ctx, room)
	}

	if room.Status == dto.STATUS_DONE {
		return nil
	}

	zap.S().Debugf("房间 %s 揭示窗口结束，进入下一回合", roomCode)

	return s.createOffer(ctx, room, offer.NextActorID, offer.NextPickerID)
}
