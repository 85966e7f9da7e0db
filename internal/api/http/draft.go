package http

import (
	"poke-draft-be/internal/service/dto"
	"poke-draft-be/internal/state"

	"github.com/kataras/iris/v12"
)

func ApplyDisguise(appState *state.AppState) iris.Handler {
	return func(ctx iris.Context) {
		var req dto.ApplyDisguiseRequest

		if err := ctx.ReadJSON(&req); err != nil {
			ctx.StatusCode(iris.StatusBadRequest)
			ctx.JSON(iris.Map{
				"error": "请求参数无效",
			})
			return
		}

		req.RoomCode = roomCodeParam(ctx)

		if err := appState.DraftSvc.ApplyDisguise(ctx.Request().Context(), req); err != nil {
			writeError(ctx, err)
			return
		}

		ctx.JSON(iris.Map{"ok": true})
	}
}

func PublishOffer(appState *state.AppState) iris.Handler {
	return func(ctx iris.Context) {
		var req dto.PublishOfferRequest

		if err := ctx.ReadJSON(&req); err != nil {
			ctx.StatusCode(iris.StatusBadRequest)
			ctx.JSON(iris.Map{
				"error": "请求参数无效",
			})
			return
		}

		req.RoomCode = roomCodeParam(ctx)

		if err := appState.DraftSvc.PublishOffer(ctx.Request().Context(), req); err != nil {
			writeError(ctx, err)
			return
		}

		ctx.JSON(iris.Map{"ok": true})
	}
}

func LockPick(appState *state.AppState) iris.Handler {
	return func(ctx iris.Context) {
		var req dto.LockPickRequest

		if err := ctx.ReadJSON(&req); err != nil {
			ctx.StatusCode(iris.StatusBadRequest)
			ctx.JSON(iris.Map{
				"error": "请求参数无效",
			})
			return
		}

		req.RoomCode = roomCodeParam(ctx)

		resp, err := appState.DraftSvc.LockPick(ctx.Request().Context(), req)
		if err != nil {
			writeError(ctx, err)
			return
		}

		ctx.JSON(resp)
	}
}

// RoomState 是轮询入口：先推进到期的揭示转换，再返回过滤后的视图。
// 推进是幂等的，多个客户端同时轮询也只会前进一回合。
func RoomState(appState *state.AppState) iris.Handler {
	return func(ctx iris.Context) {
		roomCode := roomCodeParam(ctx)
		viewerID := ctx.URLParam("player_id")

		reqCtx := ctx.Request().Context()

		if err := appState.DraftSvc.Tick(reqCtx, roomCode); err != nil {
			writeError(ctx, err)
			return
		}

		view, err := appState.DraftSvc.View(reqCtx, roomCode, viewerID)
		if err != nil {
			writeError(ctx, err)
			return
		}

		ctx.JSON(view)
	}
}
