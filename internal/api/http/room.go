package http

import (
	"strings"

	"poke-draft-be/internal/service/dto"
	"poke-draft-be/internal/state"

	"github.com/kataras/iris/v12"
)

func CreateRoom(appState *state.AppState) iris.Handler {
	return func(ctx iris.Context) {
		var req dto.CreateRoomRequest

		if err := ctx.ReadJSON(&req); err != nil {
			ctx.StatusCode(iris.StatusBadRequest)
			ctx.JSON(iris.Map{
				"error": "请求参数无效",
			})
			return
		}

		resp, err := appState.DraftSvc.CreateRoom(ctx.Request().Context(), req)
		if err != nil {
			writeError(ctx, err)
			return
		}

		ctx.JSON(resp)
	}
}

func JoinRoom(appState *state.AppState) iris.Handler {
	return func(ctx iris.Context) {
		var req dto.JoinRoomRequest

		if err := ctx.ReadJSON(&req); err != nil {
			ctx.StatusCode(iris.StatusBadRequest)
			ctx.JSON(iris.Map{
				"error": "请求参数无效",
			})
			return
		}

		req.RoomCode = roomCodeParam(ctx)

		resp, err := appState.DraftSvc.JoinRoom(ctx.Request().Context(), req)
		if err != nil {
			writeError(ctx, err)
			return
		}

		ctx.JSON(resp)
	}
}

func LeaveRoom(appState *state.AppState) iris.Handler {
	return func(ctx iris.Context) {
		var req dto.LeaveRoomRequest

		if err := ctx.ReadJSON(&req); err != nil {
			ctx.StatusCode(iris.StatusBadRequest)
			ctx.JSON(iris.Map{
				"error": "请求参数无效",
			})
			return
		}

		req.RoomCode = roomCodeParam(ctx)

		if err := appState.DraftSvc.LeaveRoom(ctx.Request().Context(), req); err != nil {
			writeError(ctx, err)
			return
		}

		ctx.JSON(iris.Map{"ok": true})
	}
}

func SetMode(appState *state.AppState) iris.Handler {
	return func(ctx iris.Context) {
		var req dto.SetModeRequest

		if err := ctx.ReadJSON(&req); err != nil {
			ctx.StatusCode(iris.StatusBadRequest)
			ctx.JSON(iris.Map{
				"error": "请求参数无效",
			})
			return
		}

		req.RoomCode = roomCodeParam(ctx)

		if err := appState.DraftSvc.SetMode(ctx.Request().Context(), req); err != nil {
			writeError(ctx, err)
			return
		}

		ctx.JSON(iris.Map{"ok": true})
	}
}

func StartDraft(appState *state.AppState) iris.Handler {
	return func(ctx iris.Context) {
		var req dto.StartDraftRequest

		if err := ctx.ReadJSON(&req); err != nil {
			ctx.StatusCode(iris.StatusBadRequest)
			ctx.JSON(iris.Map{
				"error": "请求参数无效",
			})
			return
		}

		req.RoomCode = roomCodeParam(ctx)

		if err := appState.DraftSvc.StartDraft(ctx.Request().Context(), req); err != nil {
			writeError(ctx, err)
			return
		}

		ctx.JSON(iris.Map{"ok": true})
	}
}

// 房间码不区分大小写，统一转成大写再查
func roomCodeParam(ctx iris.Context) string {
	return strings.ToUpper(strings.TrimSpace(ctx.Params().Get("code")))
}
