package notify

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/UsagiiTsukino/medchain-api/internal/api/metrics"
)

const sendBuffer = 16

// Conn is the subset of a websocket connection the hub needs.
type Conn interface {
	WriteJSON(v any) error
	Close() error
}

// Client is one registered connection. It owns its socket exclusively: the
// hub never writes to the Conn directly, only through the client's send
// channel and writer goroutine.
type Client struct {
	wallet    string
	conn      Conn
	send      chan Notification
	done      chan struct{}
	closeOnce sync.Once
}

func (c *Client) close() {
	c.closeOnce.Do(func() {
		close(c.done)
		_ = c.conn.Close()
	})
}

func (c *Client) writeLoop(log zerolog.Logger) {
	for {
		select {
		case <-c.done:
			return
		case n := <-c.send:
			if err := c.conn.WriteJSON(n); err != nil {
				log.Debug().Err(err).Str("wallet", c.wallet).Msg("notification write failed")
				c.close()
				return
			}
		}
	}
}

// Hub tracks at most one live connection per wallet identity.
type Hub struct {
	mu      sync.Mutex
	clients map[string]*Client
	log     zerolog.Logger
}

func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		clients: make(map[string]*Client),
		log:     log,
	}
}

// Register binds a connection to the wallet, closing and replacing any
// previous connection for the same identity.
func (h *Hub) Register(wallet string, conn Conn) *Client {
	cl := &Client{
		wallet: wallet,
		conn:   conn,
		send:   make(chan Notification, sendBuffer),
		done:   make(chan struct{}),
	}

	h.mu.Lock()
	if prev, ok := h.clients[wallet]; ok {
		prev.close()
		metrics.NotificationConnections.Dec()
		h.log.Debug().Str("wallet", wallet).Msg("replaced existing notification connection")
	}
	h.clients[wallet] = cl
	h.mu.Unlock()

	metrics.NotificationConnections.Inc()
	go cl.writeLoop(h.log)
	return cl
}

// Unregister removes the client if it is still the wallet's current
// connection. A client replaced by a newer registration is a no-op here.
func (h *Hub) Unregister(wallet string, cl *Client) {
	h.mu.Lock()
	if cur, ok := h.clients[wallet]; ok && cur == cl {
		delete(h.clients, wallet)
		metrics.NotificationConnections.Dec()
	}
	h.mu.Unlock()
	cl.close()
}

// Push delivers a notification to the wallet's connection, if one is
// registered. Delivery is at-most-once: with no connection, or a full send
// buffer, the notification is dropped.
func (h *Hub) Push(wallet string, n Notification) bool {
	h.mu.Lock()
	cl, ok := h.clients[wallet]
	h.mu.Unlock()
	if !ok {
		metrics.NotificationsPushedTotal.WithLabelValues("dropped").Inc()
		return false
	}

	select {
	case cl.send <- n:
		metrics.NotificationsPushedTotal.WithLabelValues("delivered").Inc()
		return true
	default:
		metrics.NotificationsPushedTotal.WithLabelValues("dropped").Inc()
		return false
	}
}
