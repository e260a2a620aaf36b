package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func (h *Handler) GetPrices(c *gin.Context) {
	wrapOkJSON(c, map[string]interface{}{
		"data":       h.service.Pricing.Snapshot(),
		"updated_at": h.service.Pricing.UpdatedAt(),
	})
}

// StreamPrices upgrades to a websocket that receives every refreshed
// snapshot, starting with the current one.
func (h *Handler) StreamPrices(c *gin.Context) {
	if err := h.hub.Serve(c.Writer, c.Request, h.service.Pricing.Snapshot()); err != nil {
		logrus.WithError(err).Warn("price stream upgrade failed")
	}
}
