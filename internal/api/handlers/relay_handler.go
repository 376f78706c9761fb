package handlers

import (
	"context"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/yoockh/halte-concierge/internal/services"
)

// DefaultReadLimit caps a single guest frame.
const DefaultReadLimit = 4 << 20

type RelayHandler struct {
	svc       services.RelayService
	upgrader  websocket.Upgrader
	readLimit int64

	// http.Server.Shutdown does not track hijacked connections, so live
	// sessions are counted here and cancelled through base.
	base     context.Context
	stopAll  context.CancelFunc
	mu       sync.Mutex
	draining bool
	sessions sync.WaitGroup
}

func NewRelayHandler(svc services.RelayService, readLimit int64) *RelayHandler {
	if readLimit <= 0 {
		readLimit = DefaultReadLimit
	}
	base, stopAll := context.WithCancel(context.Background())
	return &RelayHandler{
		svc:       svc,
		readLimit: readLimit,
		base:      base,
		stopAll:   stopAll,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  32 << 10,
			WriteBufferSize: 32 << 10,
			// Browsers do not apply CORS to websockets; the guest app is
			// served from another origin.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Relay upgrades the request and runs one duplex session until it ends.
func (h *RelayHandler) Relay(c *gin.Context) {
	h.mu.Lock()
	if h.draining {
		h.mu.Unlock()
		c.AbortWithStatus(http.StatusServiceUnavailable)
		return
	}
	h.sessions.Add(1)
	h.mu.Unlock()
	defer h.sessions.Done()

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// upgrader already wrote the failure response
		_ = c.Error(err)
		return
	}
	conn.SetReadLimit(h.readLimit)

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()
	stop := context.AfterFunc(h.base, cancel)
	defer stop()

	h.svc.Serve(ctx, conn)
}

// Shutdown refuses new sessions, cancels the live ones and waits for them to
// close both sides, or for ctx to expire.
func (h *RelayHandler) Shutdown(ctx context.Context) error {
	h.mu.Lock()
	h.draining = true
	h.mu.Unlock()
	h.stopAll()

	done := make(chan struct{})
	go func() {
		h.sessions.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
