package console

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/BruksfildServices01/barber-manager/internal/httpresp"
	"github.com/BruksfildServices01/barber-manager/internal/state"
)

const (
	pingEvery    = 30 * time.Second
	writeTimeout = 5 * time.Second
)

type StateHandler struct {
	store    *state.Store
	platform Platform
	upgrader websocket.Upgrader
}

// NewStateHandler: allowedOrigins vazio aceita qualquer origem no websocket.
func NewStateHandler(store *state.Store, platform Platform, allowedOrigins []string) *StateHandler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}
	return &StateHandler{
		store:    store,
		platform: platform,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return len(allowed) == 0 || allowed[r.Header.Get("Origin")]
			},
		},
	}
}

func (h *StateHandler) State(c *gin.Context) {
	httpresp.OK(c, h.store.Snapshot())
}

func (h *StateHandler) Refresh(c *gin.Context) {
	if err := h.store.Refresh(c.Request.Context(), platformFor(c, h.platform)); err != nil {
		respondError(c, err)
		return
	}
	httpresp.OK(c, h.store.Snapshot())
}

func (h *StateHandler) Stats(c *gin.Context) {
	httpresp.OK(c, state.ComputeStats(h.store.Snapshot()))
}

// Notifications lista as pendentes do actor; ?drain=true limpa o anel dele.
func (h *StateHandler) Notifications(c *gin.Context) {
	actor := actorOf(c, h.store)
	httpresp.List(c, h.store.Notifications(actor.ID, c.Query("drain") == "true"))
}

// Stream empurra cada notificação nova pelo websocket até o cliente fechar.
func (h *StateHandler) Stream(c *gin.Context) {
	actor := actorOf(c, h.store)

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	notes, cancel := h.store.Subscribe(actor.ID)
	defer cancel()

	// leitura só para perceber o fechamento
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingEvery)
	defer ticker.Stop()

	for {
		select {
		case <-closed:
			return
		case n, ok := <-notes:
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteJSON(n); err != nil {
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout)); err != nil {
				return
			}
		}
	}
}
