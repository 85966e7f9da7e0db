package dto

import "time"

// 每回合的报价阶段：
// 1. 等待伪装（AwaitingDisguise）：仅经典模式，伪装者可以看到真实选项
// 2. 公示（Public）：三个选项对所有人可见，轮到的玩家抽选
// 3. 揭示（Revealing）：结果公示一段固定时间，然后进入下一回合
const (
	PHASE_AWAITING_DISGUISE = "AwaitingDisguise"
	PHASE_PUBLIC            = "Public"
	PHASE_REVEALING         = "Revealing"
)

const (
	OUTCOME_TRUTH    = "Truth"
	OUTCOME_LIE      = "Lie"
	OUTCOME_SELECTED = "Selected"
)

// 表示槽位尚未被伪装或抽选
const SLOT_NONE = -1

// Offer 是某个房间当前回合的报价，每个房间同时只有一条，
// 每回合由新报价整体覆盖；历史只保留在 Feed 和 Roster 里
type Offer struct {
	RoomCode       string `json:"room_code"`
	Phase          string `json:"phase"`
	ActorPlayerID  string `json:"actor_player_id"`
	PickerPlayerID string `json:"picker_player_id"`

	// 真实的三个候选，只有伪装者在公示前可见
	TrueOptions [3]string `json:"-"`
	// 对外展示的三个条目：经典模式是（可能被伪装过的）名字，
	// 神秘模式是派生出的线索文本
	PublicView [3]string `json:"public_view"`

	DisguisedSlot  int    `json:"disguised_slot"`
	DisguisedLabel string `json:"disguised_label,omitempty"`
	MysteryKind    string `json:"mystery_kind,omitempty"`

	PickedSlot   int    `json:"picked_slot"`
	PickedTrue   string `json:"picked_true,omitempty"`
	PickedPublic string `json:"picked_public,omitempty"`
	Outcome      string `json:"outcome,omitempty"`

	RevealDeadline time.Time `json:"reveal_deadline,omitempty"`
	NextActorID    string    `json:"-"`
	NextPickerID   string    `json:"-"`

	CreatedAt time.Time `json:"created_at"`
}

// RosterEntry 只追加不修改，一次成功抽选写入一条
type RosterEntry struct {
	RoomCode string `json:"room_code"`
	PlayerID string `json:"player_id"`
	// 1..GoalPerPlayer
	Slot    int    `json:"slot"`
	Pokemon string `json:"pokemon"`
}

// FeedEvent 是房间的公共动态，只用于展示，不参与游戏逻辑判断
type FeedEvent struct {
	RoomCode string    `json:"room_code"`
	At       time.Time `json:"at"`
	Message  string    `json:"message"`
}
