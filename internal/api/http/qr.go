package http

import (
	"fmt"

	"poke-draft-be/internal/state"

	"github.com/kataras/iris/v12"
	qrcode "github.com/skip2/go-qrcode"
)

// RoomQR 返回房间加入链接的二维码 PNG，方便同屏玩家扫码进房。
func RoomQR(appState *state.AppState) iris.Handler {
	return func(ctx iris.Context) {
		roomCode := roomCodeParam(ctx)

		// 先确认房间存在，避免给不存在的房间发二维码。
		if _, err := appState.DraftSvc.View(ctx.Request().Context(), roomCode, ""); err != nil {
			writeError(ctx, err)
			return
		}

		joinURL := ctx.URLParam("join_url")
		if joinURL == "" {
			scheme := "http"
			if ctx.Request().TLS != nil {
				scheme = "https"
			}
			joinURL = fmt.Sprintf("%s://%s/join/%s", scheme, ctx.Host(), roomCode)
		}

		png, err := qrcode.Encode(joinURL, qrcode.Medium, 256)
		if err != nil {
			ctx.StatusCode(iris.StatusInternalServerError)
			ctx.JSON(iris.Map{
				"error": "二维码生成失败",
			})
			return
		}

		ctx.ContentType("image/png")
		ctx.Write(png)
	}
}
