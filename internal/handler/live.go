package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/zeph-ai-dev/starpulse/internal/dto"
)

// liveFeed handles GET /live
// @Summary Live event feed
// @Description WebSocket upgrade; every subsequently accepted event is pushed as a tagged message. No backlog replay.
// @Tags events
// @Success 101 {string} string "Switching Protocols"
// @Router /live [get]
func (h *Handler) liveFeed(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	sub := h.broadcaster.Subscribe()
	defer h.broadcaster.Unsubscribe(sub)

	// Drain client frames so close and transport errors surface.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case ev, ok := <-sub.C:
			if !ok {
				return
			}
			if err := conn.WriteJSON(dto.LiveMessage{Type: "event", Event: ev}); err != nil {
				h.log.Debug("Subscriber write failed, dropping connection",
					zap.Error(err))
				return
			}
		case <-done:
			return
		}
	}
}
