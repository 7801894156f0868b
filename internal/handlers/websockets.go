package handlers

import (
	"context"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Send/receive timing configuration and message size limits.
const (
	writeWait        = 10 * time.Second
	pongWait         = 60 * time.Second
	pingPeriod       = (pongWait * 9) / 10
	maxMsgSize       = 1 << 12 // 4 KB
	defaultInterval  = 5 * time.Second
	minInterval      = 100 * time.Millisecond
	maxInterval      = time.Minute
	maxIntervalMilli = 60_000 // 1m in ms
)

// Envelope used for WebSocket messages.
type wsEnvelope struct {
	Type  string      `json:"type"`
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}

// Upgrader for HTTP -> WebSocket. The default CheckOrigin rejects cross-origin browsers.
var upgrader = websocket.Upgrader{}

// @Summary      Summary stream
// @Description  WebSocket that pushes {"type":"summary","data":{...}} every interval (?interval=5s or ?interval_ms=5000).
// @Tags         expenses
// @Param        interval     query  string  false  "Push period, e.g. 2s"
// @Param        interval_ms  query  int     false  "Push period in milliseconds"
// @Router       /api/v1/ws [get]
// @Security     BearerAuth
func (h *Handler) wsConnect(c *gin.Context) {
	interval := h.parseInterval(c)

	uid := userID(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Errorw("ws_upgrade_failed", "err", err)
		return
	}
	defer func() { _ = conn.Close() }()

	// Configure read limits and pong handler to extend read deadline.
	conn.SetReadLimit(maxMsgSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	// Reader goroutine to handle control frames and detect disconnects.
	done := make(chan struct{})
	go h.startReader(conn, done)

	// Prepare periodic writers: summary updates and pings.
	ticker := time.NewTicker(interval)
	ping := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		ping.Stop()
	}()

	// Send initial summary immediately.
	if err := h.sendSummary(c.Request.Context(), conn, uid); err != nil {
		h.log.Infow("ws_write_failed_initial", "err", err, "user_id", uid)
		return
	}

	// Writer/select loop.
	for {
		select {
		case <-done:
			return
		case <-c.Request.Context().Done():
			return
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				h.log.Infow("ws_ping_failed", "err", err)
				return
			}
		case <-ticker.C:
			if err := h.sendSummary(c.Request.Context(), conn, uid); err != nil {
				h.log.Infow("ws_write_failed", "err", err, "user_id", uid)
				return
			}
		}
	}
}

// Helper: parseInterval reads ?interval=2s or ?interval_ms=2000 with bounds.
func (h *Handler) parseInterval(c *gin.Context) time.Duration {
	interval := defaultInterval

	if s := c.Query("interval"); s != "" {
		if d, err := time.ParseDuration(s); err == nil && d >= minInterval && d <= maxInterval {
			return d
		}
	}

	if ms := c.Query("interval_ms"); ms != "" {
		if v, err := strconv.Atoi(ms); err == nil && time.Duration(v)*time.Millisecond >= minInterval && v <= maxIntervalMilli {
			return time.Duration(v) * time.Millisecond
		}
	}

	return interval
}

// Helper: startReader drains incoming messages to handle control frames and detect closure.
func (h *Handler) startReader(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			h.log.Debugw("ws_read_closed", "err", err)
			return
		}
	}
}

// Helper: sendSummary fetches and writes the user's summary with a write deadline.
// A failed lookup is reported to the client before the connection is dropped.
func (h *Handler) sendSummary(ctx context.Context, conn *websocket.Conn, uid int64) error {
	sum, err := h.services.Summaries.Summary(ctx, uid)
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err != nil {
		h.log.Errorw("ws_summary_failed", "err", err, "user_id", uid)
		_ = conn.WriteJSON(wsEnvelope{Type: "error", Error: errInternal})
		return err
	}
	return conn.WriteJSON(wsEnvelope{Type: "summary", Data: sum})
}
