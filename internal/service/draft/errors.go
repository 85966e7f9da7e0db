package draft

import "errors"

// 命令校验失败都以这些哨兵错误返回，
// 校验失败不会改动任何已持久化的房间状态
var (
	ErrRoomNotFound        = errors.New("房间不存在")
	ErrAlreadyStarted      = errors.New("房间已经开局，无法加入")
	ErrInsufficientPlayers = errors.New("至少需要 2 名玩家才能开局")
	ErrNotYourTurn         = errors.New("还没轮到你操作")
	ErrWrongPhase          = errors.New("当前阶段不允许该操作")
	ErrInvalidSlot         = errors.New("槽位编号无效")
	ErrRosterFull          = errors.New("你的队伍已经满了")

	ErrNotHost      = errors.New("只有房主可以执行该操作")
	ErrInvalidMode  = errors.New("未知的游戏模式")
	ErrInvalidLabel = errors.New("伪装名字不能为空")
	ErrInvalidName  = errors.New("玩家名字不能为空")
)
