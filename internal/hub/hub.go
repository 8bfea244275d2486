package hub

import "sync"

type Writer interface {
	Write(message []byte) error
	Close() error
}

type Connection struct {
	Writer Writer
}

// Hub fans command events out to every connected subscriber. The bridge
// serves a single account, so there is one broadcast set rather than a
// per-user registry.
type Hub struct {
	mu          sync.RWMutex
	connections map[*Connection]struct{}
}

func New() *Hub {
	return &Hub{connections: make(map[*Connection]struct{})}
}

func (h *Hub) Register(conn *Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.connections[conn] = struct{}{}
}

func (h *Hub) Unregister(conn *Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.connections, conn)
}

func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections)
}

func (h *Hub) Broadcast(message []byte) {
	h.mu.RLock()
	conns := make([]*Connection, 0, len(h.connections))
	for c := range h.connections {
		conns = append(conns, c)
	}
	h.mu.RUnlock()

	var failed []*Connection
	for _, c := range conns {
		if err := c.Writer.Write(message); err != nil {
			failed = append(failed, c)
		}
	}
	for _, c := range failed {
		_ = c.Writer.Close()
		h.Unregister(c)
	}
}
