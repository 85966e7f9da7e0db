package http

import (
	"errors"
	"fmt"

	"poke-draft-be/internal/api/http/websocket"
	"poke-draft-be/internal/service/draft"
	"poke-draft-be/internal/state"

	"github.com/kataras/iris/v12"
)

func RunServer(appState *state.AppState) {
	app := newApp(appState)

	addr := fmt.Sprintf(
		"%s:%d",
		appState.Cfg.Host,
		appState.Cfg.Port,
	)

	app.Listen(addr)
}

func newApp(appState *state.AppState) *iris.Application {
	app := iris.Default()

	api := app.Party("/api/v1")

	api.Post("/rooms/create", CreateRoom(appState))
	api.Post("/rooms/{code}/join", JoinRoom(appState))
	api.Post("/rooms/{code}/leave", LeaveRoom(appState))
	api.Post("/rooms/{code}/mode", SetMode(appState))
	api.Post("/rooms/{code}/start", StartDraft(appState))

	api.Post("/rooms/{code}/disguise", ApplyDisguise(appState))
	api.Post("/rooms/{code}/publish", PublishOffer(appState))
	api.Post("/rooms/{code}/pick", LockPick(appState))
	api.Get("/rooms/{code}/state", RoomState(appState))
	api.Get("/rooms/{code}/qr", RoomQR(appState))

	// WebSocket 推送不挂在 /api/v1 前缀下
	app.Get("/ws/rooms/{code}", websocket.WatchRoom(appState))

	return app
}

// writeError 把服务层的哨兵错误翻译成响应；
// 校验类失败对客户端只是"重新渲染当前状态"的信号，不算服务器故障
func writeError(ctx iris.Context, err error) {
	switch {
	case errors.Is(err, draft.ErrRoomNotFound):
		ctx.StatusCode(iris.StatusNotFound)
	case errors.Is(err, draft.ErrNotYourTurn),
		errors.Is(err, draft.ErrWrongPhase),
		errors.Is(err, draft.ErrAlreadyStarted),
		errors.Is(err, draft.ErrRosterFull):
		ctx.StatusCode(iris.StatusConflict)
	case errors.Is(err, draft.ErrInsufficientPlayers),
		errors.Is(err, draft.ErrInvalidSlot),
		errors.Is(err, draft.ErrInvalidMode),
		errors.Is(err, draft.ErrInvalidLabel),
		errors.Is(err, draft.ErrInvalidName),
		errors.Is(err, draft.ErrNotHost):
		ctx.StatusCode(iris.StatusBadRequest)
	default:
		ctx.StatusCode(iris.StatusInternalServerError)
	}

	ctx.JSON(iris.Map{
		"error": err.Error(),
	})
}
