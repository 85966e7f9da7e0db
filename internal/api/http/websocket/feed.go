package websocket

import (
	"bytes"
	"encoding/json"
	"time"

	"poke-draft-be/internal/state"

	"github.com/gorilla/websocket"
	"github.com/kataras/iris/v12"
	"go.uber.org/zap"
)

// 房间视图的推送间隔
const PUSH_INTERVAL = 1 * time.Second

// WatchRoom 将房间视图通过 WebSocket 持续推送给客户端。
// 每个推送周期先推进到期的揭示转换，再读取视图；
// 只有视图发生变化时才下发，避免刷屏。
func WatchRoom(appState *state.AppState) iris.Handler {
	return func(ctx iris.Context) {
		roomCode := ctx.Params().Get("code")
		viewerID := ctx.URLParam("player_id")

		conn, err := upgrader.Upgrade(
			ctx.ResponseWriter(),
			ctx.Request(),
			nil,
		)
		if err != nil {
			zap.L().Error("升级到WebSocket失败", zap.Error(err))
			ctx.StatusCode(iris.StatusBadRequest)
			return
		}

		defer conn.Close()

		conn.SetReadDeadline(time.Now().Add(HEARTBEAT_TIMEOUT))
		conn.SetPongHandler(heartbeatHandler(conn))

		clientIP := ctx.RemoteAddr()

		zap.L().Info(
			"开始推送房间视图",
			zap.String("client_ip", clientIP),
			zap.String("room_code", roomCode),
			zap.String("viewer_id", viewerID),
		)

		// 读取协程：消费 pong 帧并检测客户端断开
		readDoneCh := make(chan struct{})

		go func() {
			defer close(readDoneCh)

			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					if websocket.IsUnexpectedCloseError(
						err,
						websocket.CloseGoingAway,
						websocket.CloseNormalClosure,
						websocket.CloseAbnormalClosure,
					) {
						zap.L().Error(
							"读取消息失败",
							zap.String("client_ip", clientIP),
							zap.Error(err),
						)
					}

					return
				}
			}
		}()

		pushTicker := time.NewTicker(PUSH_INTERVAL)
		defer pushTicker.Stop()

		pingTicker := time.NewTicker(HEARTBEAT_INTERVAL)
		defer pingTicker.Stop()

		var lastPayload []byte

		for {
			select {
			case <-readDoneCh:
				zap.L().Info(
					"客户端连接断开，停止推送",
					zap.String("client_ip", clientIP),
					zap.String("room_code", roomCode),
				)
				return

			case <-pingTicker.C:
				conn.SetWriteDeadline(time.Now().Add(HEARTBEAT_TIMEOUT))

				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					zap.L().Error(
						"发送心跳失败",
						zap.String("client_ip", clientIP),
						zap.Error(err),
					)
					return
				}

			case <-pushTicker.C:
				reqCtx := ctx.Request().Context()

				if err := appState.DraftSvc.Tick(reqCtx, roomCode); err != nil {
					zap.L().Warn(
						"推进房间状态失败，停止推送",
						zap.String("room_code", roomCode),
						zap.Error(err),
					)
					writeClose(conn, err.Error())
					return
				}

				view, err := appState.DraftSvc.View(reqCtx, roomCode, viewerID)
				if err != nil {
					zap.L().Warn(
						"读取房间视图失败，停止推送",
						zap.String("room_code", roomCode),
						zap.Error(err),
					)
					writeClose(conn, err.Error())
					return
				}

				payload, err := json.Marshal(view)
				if err != nil {
					zap.L().Error("序列化房间视图失败", zap.Error(err))
					return
				}

				if bytes.Equal(payload, lastPayload) {
					continue
				}

				conn.SetWriteDeadline(time.Now().Add(HEARTBEAT_TIMEOUT))

				if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
					zap.L().Error(
						"发送房间视图失败",
						zap.String("client_ip", clientIP),
						zap.Error(err),
					)
					return
				}

				lastPayload = payload
			}
		}
	}
}

func writeClose(conn *websocket.Conn, reason string) {
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, reason)
	conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
}
