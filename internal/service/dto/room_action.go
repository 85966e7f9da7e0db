package dto

// 伪装请求只在经典模式的 AwaitingDisguise 阶段有效
type ApplyDisguiseRequest struct {
	RoomCode string `json:"room_code"`
	PlayerID string `json:"player_id"`
	// 0..2
	Slot  int    `json:"slot"`
	Label string `json:"label"`
}

// 不做任何伪装直接公示，仅在关闭 disguise_required 时允许
type PublishOfferRequest struct {
	RoomCode string `json:"room_code"`
	PlayerID string `json:"player_id"`
}

type LockPickRequest struct {
	RoomCode string `json:"room_code"`
	PlayerID string `json:"player_id"`
	// 0..2
	Slot int `json:"slot"`
}

type LockPickResponse struct {
	Outcome      string `json:"outcome"`
	PickedTrue   string `json:"picked_true"`
	PickedPublic string `json:"picked_public"`
}

// RosterView 是某个玩家到目前为止抽到的队伍
type RosterView struct {
	Player  Player        `json:"player"`
	Entries []RosterEntry `json:"entries"`
}

// OfferView 是按观察者过滤后的报价视图，
// 公示前真实选项只会出现在伪装者的视图里
type OfferView struct {
	Phase          string    `json:"phase"`
	ActorPlayerID  string    `json:"actor_player_id"`
	PickerPlayerID string    `json:"picker_player_id"`
	PublicView     [3]string `json:"public_view"`
	// 仅伪装者在 AwaitingDisguise 阶段可见
	TrueOptions []string `json:"true_options,omitempty"`
	MysteryKind string   `json:"mystery_kind,omitempty"`

	PickedSlot   int    `json:"picked_slot"`
	PickedTrue   string `json:"picked_true,omitempty"`
	PickedPublic string `json:"picked_public,omitempty"`
	Outcome      string `json:"outcome,omitempty"`
	// 揭示阶段剩余的毫秒数，供客户端展示倒计时
	RevealRemainingMS int64 `json:"reveal_remaining_ms,omitempty"`
}

// RoomView 是一次轮询拿到的完整房间状态
type RoomView struct {
	Room    Room         `json:"room"`
	Players []Player     `json:"players"`
	Rosters []RosterView `json:"rosters"`
	Offer   *OfferView   `json:"offer,omitempty"`
	Feed    []FeedEvent  `json:"feed"`
}
