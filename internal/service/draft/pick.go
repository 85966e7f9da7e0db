package draft

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"poke-draft-be/internal/service/dto"
)

// LockPick 是一次抽选的提交点：
// 写入一条花名册记录（拿到的永远是真实候选，伪装只影响展示），
// 判定结果，然后把报价切到揭示阶段并预先算好下一回合的人选。
func (s *Service) LockPick(ctx context.Context, req dto.LockPickRequest) (dto.LockPickResponse, error) {
	lock := s.roomLock(req.RoomCode)
	lock.Lock()
	defer lock.Unlock()

	room, offer, err := s.loadRoomAndOffer(ctx, req.RoomCode)
	if err != nil {
		return dto.LockPickResponse{}, err
	}

	// 阶段守卫同时挡住并发的重复提交：
	// 第二次提交看到的阶段已经不是 Public
	if offer == nil || offer.Phase != dto.PHASE_PUBLIC {
		return dto.LockPickResponse{}, ErrWrongPhase
	}

	if offer.PickerPlayerID != req.PlayerID {
		return dto.LockPickResponse{}, ErrNotYourTurn
	}

	if req.Slot < 0 || req.Slot > 2 {
		return dto.LockPickResponse{}, ErrInvalidSlot
	}

	count, err := s.store.CountRosterEntries(ctx, req.RoomCode, req.PlayerID)
	if err != nil {
		return dto.LockPickResponse{}, err
	}

	if count >= room.GoalPerPlayer {
		return dto.LockPickResponse{}, ErrRosterFull
	}

	pickedTrue := offer.TrueOptions[req.Slot]
	pickedPublic := offer.PublicView[req.Slot]

	outcome := resolveOutcome(room, offer, req.Slot)

	// 此时本次抽选还没落库，computeNext 会把它一并计入；全员抽满即收官
	nextActor, nextPicker, hasNext, err := s.computeNext(ctx, room, req.PlayerID)
	if err != nil {
		return dto.LockPickResponse{}, err
	}

	offer.Phase = dto.PHASE_REVEALING
	offer.PickedSlot = req.Slot
	offer.PickedTrue = pickedTrue
	offer.PickedPublic = pickedPublic
	offer.Outcome = outcome
	offer.RevealDeadline = s.now().Add(s.cfg.RevealWindow())
	offer.NextActorID = nextActor
	offer.NextPickerID = nextPicker

	// 先写报价再写花名册：报价写入失败时本回合等于没有发生过，
	// 重试也不会因为残留的花名册记录而重复入账
	if err := s.store.PutOffer(ctx, offer); err != nil {
		return dto.LockPickResponse{}, err
	}

	entry := dto.RosterEntry{
		RoomCode: req.RoomCode,
		PlayerID: req.PlayerID,
		Slot:     count + 1,
		Pokemon:  pickedTrue,
	}

	if err := s.store.AddRosterEntry(ctx, &entry); err != nil {
		return dto.LockPickResponse{}, err
	}

	s.feedPickResult(ctx, room, req.PlayerID, pickedTrue, pickedPublic, outcome)

	if !hasNext {
		if err := s.finishRoom(ctx, room); err != nil {
			return dto.LockPickResponse{}, err
		}
	}

	zap.S().Infof("房间 %s 玩家 %s 抽选槽位 %d，结果 %s",
		req.RoomCode, req.PlayerID, req.Slot, outcome)

	return dto.LockPickResponse{
		Outcome:      outcome,
		PickedTrue:   pickedTrue,
		PickedPublic: pickedPublic,
	}, nil
}

// resolveOutcome 判定本次抽选的真话/谎话。
// 经典模式下选中的槽位展示名与真实名一致即为真话，
// 碰巧伪装成了同名也算真话；神秘模式没有真假概念。
func resolveOutcome(room *dto.Room, offer *dto.Offer, slot int) string {
	if room.Mode != dto.MODE_CLASSIC {
		return dto.OUTCOME_SELECTED
	}

	if offer.TrueOptions[slot] == offer.PublicView[slot] {
		return dto.OUTCOME_TRUTH
	}

	return dto.OUTCOME_LIE
}

func (s *Service) feedPickResult(ctx context.Context, room *dto.Room, pickerID, pickedTrue, pickedPublic, outcome string) {
	picker, err := s.store.GetPlayer(ctx, pickerID)
	if err != nil || picker == nil {
		return
	}

	switch outcome {
	case dto.OUTCOME_TRUTH:
		s.addFeed(ctx, room.Code, fmt.Sprintf("%s %s picked %s — TRUTH.",
			picker.Icon, picker.Name, prettyOrRaw(pickedPublic)))

	case dto.OUTCOME_LIE:
		s.addFeed(ctx, room.Code, fmt.Sprintf("%s %s picked %s — LIE REVEALED (was %s).",
			picker.Icon, picker.Name, prettyOrRaw(pickedPublic), prettyOrRaw(pickedTrue)))

	default:
		// 神秘模式公示阶段不剧透另外两个候选
		s.addFeed(ctx, room.Code, fmt.Sprintf("%s %s made a selection.",
			picker.Icon, picker.Name))
	}
}
