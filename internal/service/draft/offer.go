package draft

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"

	"go.uber.org/zap"

	"poke-draft-be/internal/catalog"
	"poke-draft-be/internal/service/dto"
)

// sampleOptions 从目录中均匀随机抽出 3 个互不相同的候选。
// 开启 exclude_picked 时会剔除本房间已被抽走的；
// 剔除后不足 3 个就退回完整名单（目录足够大，这只是兜底）。
func (s *Service) sampleOptions(ctx context.Context, room *dto.Room) ([3]string, error) {
	var options [3]string

	names, err := s.catalog.ListNames(ctx)
	if err != nil {
		return options, err
	}

	pool := names

	if s.cfg.ExcludePicked {
		entries, err := s.store.ListRosterEntries(ctx, room.Code)
		if err != nil {
			return options, err
		}

		taken := make(map[string]struct{}, len(entries))
		for _, e := range entries {
			taken[e.Pokemon] = struct{}{}
		}

		filtered := make([]string, 0, len(names))
		for _, n := range names {
			if _, ok := taken[n]; !ok {
				filtered = append(filtered, n)
			}
		}

		if len(filtered) >= 3 {
			pool = filtered
		}
	}

	if len(pool) < 3 {
		return options, fmt.Errorf("候选池不足 3 个，无法生成报价")
	}

	for i, idx := range rand.Perm(len(pool))[:3] {
		options[i] = pool[idx]
	}

	return options, nil
}

// createOffer 为下一回合生成全新报价并整体覆盖旧报价。
// 如果所有玩家都已抽满，则把房间置为 Done 并不再生成。
// 调用方必须已持有房间锁。
func (s *Service) createOffer(ctx context.Context, room *dto.Room, actorID, pickerID string) error {
	done, err := s.isComplete(ctx, room)
	if err != nil {
		return err
	}

	if done {
		return s.finishRoom(ctx, room)
	}

	options, err := s.sampleOptions(ctx, room)
	if err != nil {
		return err
	}

	offer := dto.Offer{
		RoomCode:       room.Code,
		ActorPlayerID:  actorID,
		PickerPlayerID: pickerID,
		TrueOptions:    options,
		DisguisedSlot:  dto.SLOT_NONE,
		PickedSlot:     dto.SLOT_NONE,
		CreatedAt:      s.now(),
	}

	if room.Mode == dto.MODE_CLASSIC {
		// 经典模式：先展示真实选项给伪装者，等待伪装
		offer.Phase = dto.PHASE_AWAITING_DISGUISE
		offer.PublicView = options
	} else {
		// 神秘模式：直接公示派生线索，没有伪装环节
		kind := dto.MysteryKind(room.Mode)
		offer.Phase = dto.PHASE_PUBLIC
		offer.MysteryKind = kind

		for i, name := range options {
			attrs, err := s.catalog.AttributesOf(ctx, name)
			if err != nil {
				return err
			}

			offer.PublicView[i] = attrs.Clue(kind)
		}
	}

	if err := s.store.PutOffer(ctx, &offer); err != nil {
		return err
	}

	zap.S().Debugf("房间 %s 生成新报价，伪装者 %s，抽选者 %s", room.Code, actorID, pickerID)

	return nil
}

// finishRoom 把房间置为 Done；重复调用无副作用。
// 调用方必须已持有房间锁。
func (s *Service) finishRoom(ctx context.Context, room *dto.Room) error {
	if room.Status == dto.STATUS_DONE {
		return nil
	}

	room.Status = dto.STATUS_DONE

	if err := s.store.PutRoom(ctx, room); err != nil {
		return err
	}

	s.addFeed(ctx, room.Code, "Draft complete.")

	zap.S().Infof("房间 %s 抽选完成", room.Code)

	return nil
}

// ApplyDisguise 由伪装者替换恰好一个槽位的展示名并公示。
// 每份报价最多只有一个槽位被伪装过。
func (s *Service) ApplyDisguise(ctx context.Context, req dto.ApplyDisguiseRequest) error {
	label := strings.ToLower(strings.TrimSpace(req.Label))
	if label == "" {
		return ErrInvalidLabel
	}

	lock := s.roomLock(req.RoomCode)
	lock.Lock()
	defer lock.Unlock()

	room, offer, err := s.loadRoomAndOffer(ctx, req.RoomCode)
	if err != nil {
		return err
	}

	if offer == nil || offer.Phase != dto.PHASE_AWAITING_DISGUISE {
		return ErrWrongPhase
	}

	if offer.ActorPlayerID != req.PlayerID {
		return ErrNotYourTurn
	}

	if req.Slot < 0 || req.Slot > 2 {
		return ErrInvalidSlot
	}

	offer.PublicView[req.Slot] = label
	offer.DisguisedSlot = req.Slot
	offer.DisguisedLabel = label
	offer.Phase = dto.PHASE_PUBLIC

	if err := s.store.PutOffer(ctx, offer); err != nil {
		return err
	}

	s.feedActorDisplayed(ctx, room, offer.ActorPlayerID)

	return nil
}

// PublishOffer 不做伪装直接公示，只在关闭 disguise_required 时允许
func (s *Service) PublishOffer(ctx context.Context, req dto.PublishOfferRequest) error {
	if s.cfg.DisguiseRequired {
		return ErrWrongPhase
	}

	lock := s.roomLock(req.RoomCode)
	lock.Lock()
	defer lock.Unlock()

	room, offer, err := s.loadRoomAndOffer(ctx, req.RoomCode)
	if err != nil {
		return err
	}

	if offer == nil || offer.Phase != dto.PHASE_AWAITING_DISGUISE {
		return ErrWrongPhase
	}

	if offer.ActorPlayerID != req.PlayerID {
		return ErrNotYourTurn
	}

	offer.Phase = dto.PHASE_PUBLIC

	if err := s.store.PutOffer(ctx, offer); err != nil {
		return err
	}

	s.feedActorDisplayed(ctx, room, offer.ActorPlayerID)

	return nil
}

func (s *Service) feedActorDisplayed(ctx context.Context, room *dto.Room, actorID string) {
	actor, err := s.store.GetPlayer(ctx, actorID)
	if err != nil || actor == nil {
		s.addFeed(ctx, room.Code, "The selections are displayed.")
		return
	}

	s.addFeed(ctx, room.Code,
		fmt.Sprintf("%s %s displayed the selections.", actor.Icon, actor.Name))
}

// loadRoomAndOffer 读取房间和它当前的报价；房间不存在时报错
func (s *Service) loadRoomAndOffer(ctx context.Context, roomCode string) (*dto.Room, *dto.Offer, error) {
	room, err := s.store.GetRoom(ctx, roomCode)
	if err != nil {
		return nil, nil, err
	}
	if room == nil {
		return nil, nil, ErrRoomNotFound
	}

	offer, err := s.store.GetOffer(ctx, roomCode)
	if err != nil {
		return nil, nil, err
	}

	return room, offer, nil
}

// prettyOrRaw 展示目录名，目录帮助函数对空串也安全
func prettyOrRaw(name string) string {
	if name == "" {
		return name
	}

	return catalog.PrettyName(name)
}
