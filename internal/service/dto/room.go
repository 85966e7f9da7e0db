package dto

import "time"

// 房间状态只会单向流转：Lobby -> Drafting -> Done
const (
	STATUS_LOBBY    = "Lobby"
	STATUS_DRAFTING = "Drafting"
	STATUS_DONE     = "Done"
)

// 游戏模式，经典模式带伪装环节，神秘模式只展示线索
const (
	MODE_CLASSIC        = "Classic"
	MODE_MYSTERY_TYPE   = "MysteryType"
	MODE_MYSTERY_HEIGHT = "MysteryHeight"
	MODE_MYSTERY_WEIGHT = "MysteryWeight"
	MODE_MYSTERY_COLOR  = "MysteryColor"
)

func IsValidMode(mode string) bool {
	switch mode {
	case MODE_CLASSIC, MODE_MYSTERY_TYPE, MODE_MYSTERY_HEIGHT,
		MODE_MYSTERY_WEIGHT, MODE_MYSTERY_COLOR:
		return true
	}

	return false
}

// MysteryKind 返回神秘模式对应的线索种类，经典模式返回空串
func MysteryKind(mode string) string {
	switch mode {
	case MODE_MYSTERY_TYPE:
		return "type"
	case MODE_MYSTERY_HEIGHT:
		return "height"
	case MODE_MYSTERY_WEIGHT:
		return "weight"
	case MODE_MYSTERY_COLOR:
		return "color"
	}

	return ""
}

type Room struct {
	Code         string `json:"code"`
	Status       string `json:"status"`
	Mode         string `json:"mode"`
	HostPlayerID string `json:"host_player_id"`
	// 开局时固定的随机顺序，之后不再变动
	TurnOrder     []string  `json:"turn_order"`
	GoalPerPlayer int       `json:"goal_per_player"`
	CreatedAt     time.Time `json:"created_at"`
}

type CreateRoomRequest struct {
	HostName string `json:"host_name"`
	HostIcon string `json:"host_icon"`
	Mode     string `json:"mode,omitempty"`
}

type CreateRoomResponse struct {
	RoomCode string `json:"room_code"`
	Host     Player `json:"host"`
}

type JoinRoomRequest struct {
	RoomCode   string `json:"room_code"`
	JoinerName string `json:"joiner_name"`
	JoinerIcon string `json:"joiner_icon"`
	// 可空；重连时带上自己的 ID，只更新展示信息
	PlayerID string `json:"player_id,omitempty"`
}

type JoinRoomResponse struct {
	Joiner Player `json:"joiner"`
}

type SetModeRequest struct {
	RoomCode string `json:"room_code"`
	PlayerID string `json:"player_id"`
	Mode     string `json:"mode"`
}

type StartDraftRequest struct {
	RoomCode string `json:"room_code"`
	PlayerID string `json:"player_id"`
}

type LeaveRoomRequest struct {
	RoomCode string `json:"room_code"`
	PlayerID string `json:"player_id"`
}
