package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/Harisharivananthan/AI-Learning-Platform/internal/metrics"
)

type MetricsHandler struct {
	collector *metrics.Collector
	hub       *metrics.Hub
	logger    *logrus.Logger
	upgrader  websocket.Upgrader
}

func NewMetricsHandler(collector *metrics.Collector, hub *metrics.Hub, logger *logrus.Logger) *MetricsHandler {
	return &MetricsHandler{
		collector: collector,
		hub:       hub,
		logger:    logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:   1024,
			WriteBufferSize:  1024,
			HandshakeTimeout: 10 * time.Second,
			CheckOrigin:      func(r *http.Request) bool { return true },
		},
	}
}

// Snapshot returns the current metric sample without waiting for the next
// collector tick.
func (h *MetricsHandler) Snapshot(c *gin.Context) {
	sample, err := h.collector.Sample(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to take metric sample")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{
				"code":    "METRICS_FAILED",
				"message": "Failed to take metric sample",
			},
		})
		return
	}
	c.JSON(http.StatusOK, sample)
}

// Stream upgrades the connection and subscribes it to collector broadcasts.
// The read loop exists only to observe the close handshake.
func (h *MetricsHandler) Stream(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.WithError(err).Warn("Websocket upgrade failed")
		return
	}

	// First frame before registering: once registered, the hub owns all
	// writes to this connection, and gorilla forbids concurrent writers.
	if sample, err := h.collector.Sample(c.Request.Context()); err == nil {
		if err := conn.WriteJSON(sample); err != nil {
			conn.Close()
			return
		}
	}

	h.hub.Register(conn)
	metrics.SubscriberConnected()
	defer func() {
		h.hub.Unregister(conn)
		metrics.SubscriberDisconnected()
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
