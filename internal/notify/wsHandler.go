package notify

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/ritvikra/PDFEmbedder/internal/config"
	"github.com/ritvikra/PDFEmbedder/pkg/logger_i"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  config.WsReadBufferSize,
	WriteBufferSize: config.WsWriteBufferSize,
	//observers are the job UI, same-origin checks belong to the proxy in front
	CheckOrigin: func(r *http.Request) bool { return true },
}

// clientMessage is what an observer sends over the wire:
// {"type":"subscribe","jobId":"..."} or {"type":"unsubscribe","jobId":"..."}.
type clientMessage struct {
	Type  string `json:"type"`
	JobId string `json:"jobId"`
}

// wsObserver adapts one websocket connection to the Observer interface.
// gorilla allows a single concurrent writer, so sends are serialized.
type wsObserver struct {
	conn      *websocket.Conn
	writeMu   sync.Mutex
	closeOnce sync.Once
	closed    chan struct{}
}

func newWsObserver(conn *websocket.Conn) *wsObserver {
	return &wsObserver{
		conn:   conn,
		closed: make(chan struct{}),
	}
}

func (o *wsObserver) IsOpen() bool {
	select {
	case <-o.closed:
		return false
	default:
		return true
	}
}

func (o *wsObserver) Send(payload []byte) error {
	o.writeMu.Lock()
	defer o.writeMu.Unlock()
	o.conn.SetWriteDeadline(time.Now().Add(config.WsWriteTimeout))
	return o.conn.WriteMessage(websocket.TextMessage, payload)
}

func (o *wsObserver) markClosed() {
	o.closeOnce.Do(func() { close(o.closed) })
}

// WsHandler upgrades the connection and runs its read loop, feeding
// subscribe/unsubscribe messages into the registry until the peer drops.
type WsHandler struct {
	registry *Registry
	logger   *logger_i.Logger
}

func NewWsHandler(registry *Registry) *WsHandler {
	return &WsHandler{
		registry: registry,
		logger:   logger_i.NewLogger("WsHandler"),
	}
}

func (h *WsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	obs := newWsObserver(conn)
	h.logger.Debug("observer connected", "remote", conn.RemoteAddr().String())

	defer func() {
		obs.markClosed()
		h.registry.OnDisconnect(obs)
		conn.Close()
		h.logger.Debug("observer disconnected", "remote", conn.RemoteAddr().String())
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var msg clientMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			h.logger.Warn("bad websocket message", "error", err)
			continue
		}

		switch {
		case msg.Type == "subscribe" && msg.JobId != "":
			h.registry.Subscribe(msg.JobId, obs)
		case msg.Type == "unsubscribe" && msg.JobId != "":
			h.registry.Unsubscribe(msg.JobId, obs)
		}
	}
}
