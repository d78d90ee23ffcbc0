package websocket

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/princekumarofficial/expressions-service/internal/category"
	"github.com/princekumarofficial/expressions-service/internal/utils/response"
	wsClient "github.com/princekumarofficial/expressions-service/internal/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WebSocketHandler subscribes the caller to catalog events
// @Summary Subscribe to catalog events
// @Description Streams video.uploaded and video.deleted events. Pass category to receive a single expression type.
// @Tags events
// @Param category query string false "Expression type filter"
// @Success 101 "Switching Protocols"
// @Failure 400 {object} response.Response "Invalid category"
// @Router /ws [get]
func WebSocketHandler(hub *wsClient.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := r.URL.Query().Get("category")
		if filter != "" && !category.IsValid(filter) {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(errors.New("Invalid category")))
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			slog.Error("Failed to upgrade WebSocket connection", slog.String("error", err.Error()))
			return
		}

		client := wsClient.NewClient(conn, filter, hub)
		hub.RegisterClient(client)
		client.Start()
	}
}
