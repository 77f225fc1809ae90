package ws

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/m04kA/SMC-VenueBooking/internal/domain"
)

const (
	sendBufferSize = 16
	writeWait      = 5 * time.Second
)

// Logger интерфейс для логирования
type Logger interface {
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

type client struct {
	conn       *websocket.Conn
	resourceID string
	send       chan []byte
}

// Hub рассылает события изменения доступности подписанным клиентам
type Hub struct {
	mu             sync.Mutex
	clients        map[*client]struct{}
	allowedOrigins []string
	upgrader       websocket.Upgrader
	log            Logger
}

// NewHub создает хаб подписок; allowedOrigins те же, что и для CORS ("*" разрешает все)
func NewHub(allowedOrigins []string, log Logger) *Hub {
	h := &Hub{
		clients:        make(map[*client]struct{}),
		allowedOrigins: allowedOrigins,
		log:            log,
	}
	h.upgrader = websocket.Upgrader{CheckOrigin: h.checkOrigin}
	return h
}

// checkOrigin пропускает клиентов без Origin (не браузер) и origin из списка
func (h *Hub) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, allowed := range h.allowedOrigins {
		if allowed == "*" || strings.EqualFold(allowed, origin) {
			return true
		}
	}
	h.log.Warn("Hub: rejected websocket origin %q", origin)
	return false
}

// ServeHTTP подключает клиента; resourceId в query ограничивает события одним ресурсом
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("Hub: websocket upgrade failed: %v", err)
		return
	}

	c := &client{
		conn:       conn,
		resourceID: r.URL.Query().Get("resourceId"),
		send:       make(chan []byte, sendBufferSize),
	}

	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	go h.writeLoop(c)

	// Чтение нужно только для обнаружения отключения
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.remove(c)
}

// Publish отправляет событие подписчикам, не блокируясь на медленных клиентах
func (h *Hub) Publish(event domain.AvailabilityEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		h.log.Error("Hub: marshal event: %v", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.clients {
		if c.resourceID != "" && c.resourceID != event.ResourceID {
			continue
		}
		select {
		case c.send <- data:
		default:
			h.log.Warn("Hub: dropping event for slow client, resource=%s", event.ResourceID)
		}
	}
}

// Clients возвращает число подключенных клиентов
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) writeLoop(c *client) {
	for data := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			c.conn.Close()
			return
		}
	}
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()

	c.conn.Close()
}
