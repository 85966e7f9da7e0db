package draft

import (
	"context"

	"poke-draft-be/internal/service/dto"
)

// computeNext 计算下一回合的伪装者和抽选者。
// 经典模式：刚抽完的玩家成为伪装者，顺位的下一名玩家抽选；
// 神秘模式（或开启 actor_also_picks）：顺位的下一名玩家自己抽。
// 任何情况下都会循环跳过已抽满的玩家，跳过的步数以顺序长度为上限。
// 所有玩家（连同这次还未落库的抽选）都抽满时返回 hasNext=false，
// 这是收官信号。
func (s *Service) computeNext(ctx context.Context, room *dto.Room, justPickedID string) (nextActorID, nextPickerID string, hasNext bool, err error) {
	order := room.TurnOrder
	if len(order) == 0 {
		return "", "", false, nil
	}

	full := make(map[string]bool, len(order))
	allFull := true

	for _, pid := range order {
		count, err := s.store.CountRosterEntries(ctx, room.Code, pid)
		if err != nil {
			return "", "", false, err
		}

		// 触发本次计算的抽选在花名册写入之前，这里补记一笔
		if pid == justPickedID {
			count++
		}

		full[pid] = count >= room.GoalPerPlayer
		if !full[pid] {
			allFull = false
		}
	}

	if allFull {
		return "", "", false, nil
	}

	if room.Mode == dto.MODE_CLASSIC && !s.cfg.ActorAlsoPicks {
		// 伪装者不受配额限制，抽满的玩家仍然可以伪装
		actor := justPickedID

		picker, ok := nextNotFull(order, actor, full)
		if !ok {
			return "", "", false, nil
		}

		return actor, picker, true, nil
	}

	next, ok := nextNotFull(order, justPickedID, full)
	if !ok {
		return "", "", false, nil
	}

	return next, next, true, nil
}

// nextNotFull 从 after 的下一位开始环形查找第一个未抽满的玩家，
// 最多走一圈，保证循环有界
func nextNotFull(order []string, after string, full map[string]bool) (string, bool) {
	start := indexOf(order, after)

	for step := 1; step <= len(order); step++ {
		candidate := order[(start+step)%len(order)]
		if !full[candidate] {
			return candidate, true
		}
	}

	return "", false
}

func indexOf(order []string, playerID string) int {
	for i, pid := range order {
		if pid == playerID {
			return i
		}
	}

	// 找不到时从 order[0] 开始数，已离开房间的玩家会走到这里
	return -1
}
