package dto

import "time"

// 抽选房间中的玩家信息，在加入房间后有效
type Player struct {
	ID       string `json:"id"`
	RoomCode string `json:"room_code"`
	Name     string `json:"name"`
	Icon     string `json:"icon"`
	IsHost   bool   `json:"is_host"`
	// 用于确定加入顺序
	JoinedAt time.Time `json:"joined_at"`
}
