package draft

import (
	"context"

	"poke-draft-be/internal/service/dto"
)

const feedViewLimit = 30

// View 组装一次轮询返回的房间状态，按观察者过滤：
// 公示前真实选项只对伪装者可见；
// 神秘模式的揭示阶段会亮出全部三个真实候选（和原版展示一致）。
func (s *Service) View(ctx context.Context, roomCode, viewerID string) (dto.RoomView, error) {
	room, err := s.store.GetRoom(ctx, roomCode)
	if err != nil {
		return dto.RoomView{}, err
	}
	if room == nil {
		return dto.RoomView{}, ErrRoomNotFound
	}

	players, err := s.store.ListPlayers(ctx, roomCode)
	if err != nil {
		return dto.RoomView{}, err
	}

	entries, err := s.store.ListRosterEntries(ctx, roomCode)
	if err != nil {
		return dto.RoomView{}, err
	}

	byPlayer := make(map[string][]dto.RosterEntry, len(players))
	for _, e := range entries {
		byPlayer[e.PlayerID] = append(byPlayer[e.PlayerID], e)
	}

	rosters := make([]dto.RosterView, 0, len(players))
	for _, p := range players {
		rosters = append(rosters, dto.RosterView{
			Player:  p,
			Entries: byPlayer[p.ID],
		})
	}

	feed, err := s.store.ListFeedEvents(ctx, roomCode, feedViewLimit)
	if err != nil {
		return dto.RoomView{}, err
	}

	view := dto.RoomView{
		Room:    *room,
		Players: players,
		Rosters: rosters,
		Feed:    feed,
	}

	offer, err := s.store.GetOffer(ctx, roomCode)
	if err != nil {
		return dto.RoomView{}, err
	}

	if offer != nil && room.Status != dto.STATUS_LOBBY {
		view.Offer = s.offerView(room, offer, viewerID)
	}

	return view, nil
}

func (s *Service) offerView(room *dto.Room, offer *dto.Offer, viewerID string) *dto.OfferView {
	ov := &dto.OfferView{
		Phase:          offer.Phase,
		ActorPlayerID:  offer.ActorPlayerID,
		PickerPlayerID: offer.PickerPlayerID,
		PublicView:     offer.PublicView,
		MysteryKind:    offer.MysteryKind,
		PickedSlot:     offer.PickedSlot,
	}

	// 等待伪装时名单还没公示，只有伪装者本人能看到；
	// 此阶段 PublicView 就是真实选项，对其他人必须整体隐藏
	if offer.Phase == dto.PHASE_AWAITING_DISGUISE {
		if viewerID == offer.ActorPlayerID {
			ov.TrueOptions = offer.TrueOptions[:]
		} else {
			ov.PublicView = [3]string{}
		}
	}

	if offer.Phase == dto.PHASE_REVEALING {
		ov.PickedTrue = offer.PickedTrue
		ov.PickedPublic = offer.PickedPublic
		ov.Outcome = offer.Outcome

		if remaining := offer.RevealDeadline.Sub(s.now()); remaining > 0 {
			ov.RevealRemainingMS = remaining.Milliseconds()
		}

		// 神秘模式收尾时亮出全部真实候选
		if room.Mode != dto.MODE_CLASSIC {
			ov.TrueOptions = offer.TrueOptions[:]
		}
	}

	return ov
}
