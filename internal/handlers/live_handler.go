package handlers

import (
	"io"
	"time"

	"event-portal/internal/services"

	"github.com/gin-gonic/gin"
)

const liveKeepAlive = 15 * time.Second

type LiveHandler struct {
	live      *services.LiveService
	keepAlive time.Duration
}

func NewLiveHandler(live *services.LiveService) *LiveHandler {
	return &LiveHandler{live: live, keepAlive: liveKeepAlive}
}

// Get returns the current live state for polling clients
// GET /api/live
func (h *LiveHandler) Get(c *gin.Context) {
	respondOK(c, h.live.Get())
}

// Stream pushes every state change as a server-sent event
// GET /api/live/stream
func (h *LiveHandler) Stream(c *gin.Context) {
	updates, cancel := h.live.Subscribe()
	defer cancel()

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	c.SSEvent("state", h.live.Get())
	c.Writer.Flush()

	keepAlive := time.NewTicker(h.keepAlive)
	defer keepAlive.Stop()

	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case st, ok := <-updates:
			if !ok {
				return false
			}
			c.SSEvent("state", st)
			return true
		case <-keepAlive.C:
			c.SSEvent("ping", time.Now().Unix())
			return true
		case <-ctx.Done():
			return false
		}
	})
}

// Update changes the live state
// POST /api/admin/live
func (h *LiveHandler) Update(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req services.LiveUpdate
	if !bindJSON(c, &req) {
		return
	}

	st, err := h.live.Update(c.Request.Context(), user.ID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, st)
}
