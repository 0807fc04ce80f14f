package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/pedalpost/pedalpost-api/config"
	"github.com/pedalpost/pedalpost-api/services"
)

// The dashboard frontend connects from its own origin, so the upgrader does
// not restrict origins; auth (when configured) happens on the HTTP request
// before the upgrade.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// ServeWS handles GET /api/v1/ws - upgrades the connection, registers the
// client and immediately sends the full data-update snapshot. The read loop
// only watches for the client going away; the protocol is server-push only.
func ServeWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		config.GetLogger().WithError(err).Warn("websocket upgrade failed")
		return
	}

	hub := services.GetHub()
	id := hub.Register(conn)
	hub.Send(id, services.EventDataUpdate, services.GetLedger().DataSnapshot())

	go func() {
		defer hub.Unregister(id)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
