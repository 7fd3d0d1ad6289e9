package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	// renderers are served from other origins in development
	CheckOrigin: func(r *http.Request) bool { return true },
}

type client struct {
	conn    *websocket.Conn
	send    chan []byte
	version uint64 // newest scene queued on send; owned by the hub once registered
}

// frame is an encoded scene and the server version it was built at
type frame struct {
	version uint64
	data    []byte
}

type hub struct {
	clients    map[*client]bool
	register   chan *client
	unregister chan *client
	broadcast  chan frame
	done       chan struct{}
	stopOnce   sync.Once
}

func newHub() *hub {
	return &hub{
		clients:    map[*client]bool{},
		register:   make(chan *client),
		unregister: make(chan *client),
		broadcast:  make(chan frame, 256),
		done:       make(chan struct{}),
	}
}

func (h *hub) run() {
	for {
		select {
		case c := <-h.register:
			h.clients[c] = true
		case c := <-h.unregister:
			if h.clients[c] {
				delete(h.clients, c)
				close(c.send)
			}
		case f := <-h.broadcast:
			for c := range h.clients {
				if f.version <= c.version {
					// the client already holds this scene or a newer one
					continue
				}
				select {
				case c.send <- f.data:
					c.version = f.version
				default:
					// slow consumer
					delete(h.clients, c)
					close(c.send)
				}
			}
		case <-h.done:
			for c := range h.clients {
				delete(h.clients, c)
				close(c.send)
			}
			return
		}
	}
}

// publish queues v for every client without blocking. Callers hold the game
// lock so frames enter the queue in version order.
func (h *hub) publish(version uint64, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Printf("ws: encode message: %v", err)
		return
	}
	select {
	case h.broadcast <- frame{version: version, data: b}:
	default:
		log.Printf("ws: broadcast queue full, dropping message")
	}
}

func (h *hub) stop() {
	h.stopOnce.Do(func() { close(h.done) })
}

// wsMessage is a command sent by a socket client
type wsMessage struct {
	Command string `json:"command"`
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("ws upgrade:", err)
		return
	}
	c := &client{conn: conn, send: make(chan []byte, 64)}

	// the first scene and the registration happen under the game lock, so
	// no change can be published in between
	s.mu.Lock()
	msg, err := s.sceneMessageLocked()
	if err != nil {
		s.mu.Unlock()
		log.Printf("ws: %v", err)
		_ = conn.Close()
		return
	}
	if b, err := json.Marshal(msg); err == nil {
		c.send <- b
		c.version = msg.Version
	}
	select {
	case s.hub.register <- c:
		s.mu.Unlock()
	case <-s.hub.done:
		s.mu.Unlock()
		_ = conn.Close()
		return
	}
	go c.writer()
	go c.reader(s)
}

func (c *client) reader(s *Server) {
	defer func() {
		select {
		case s.hub.unregister <- c:
		case <-s.hub.done:
		}
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(1 << 16)
	_ = c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		_ = c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		var msg wsMessage
		if json.Unmarshal(data, &msg) != nil {
			continue
		}
		if _, err := s.tick(msg.Command); err != nil {
			log.Printf("ws command %q: %v", msg.Command, err)
		}
	}
}

func (c *client) writer() {
	ticker := time.NewTicker(25 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, nil)
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
