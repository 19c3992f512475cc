package websocket

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Event is the envelope pushed to connected clients.
type Event struct {
	Type      string          `json:"type"`
	Message   string          `json:"message"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// Manager routes notification events to connected clients. Connections are
// keyed by company so an event for a company reaches every signed-in user of
// that company.
type Manager struct {
	connections map[string]*Connection
	mu          sync.RWMutex
	hub         *hub
	upgrader    websocket.Upgrader
	logger      *zap.Logger
}

// Connection is one authenticated websocket client.
type Connection struct {
	ID        string
	UserID    uuid.UUID
	CompanyID uuid.UUID
	Conn      *websocket.Conn
	Send      chan Event
}

type hub struct {
	connections map[*Connection]bool
	broadcast   chan Event
	register    chan *Connection
	unregister  chan *Connection
	stop        chan struct{}
}

func NewManager(logger *zap.Logger) *Manager {
	h := &hub{
		connections: make(map[*Connection]bool),
		broadcast:   make(chan Event, 256),
		register:    make(chan *Connection),
		unregister:  make(chan *Connection),
		stop:        make(chan struct{}),
	}

	m := &Manager{
		connections: make(map[string]*Connection),
		hub:         h,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				// The API sits behind the portal's own origin.
				return true
			},
		},
		logger: logger,
	}

	go m.run()

	return m
}

// HandleConnection upgrades an already-authenticated request. The caller is
// responsible for validating the token and passing the resolved identity in.
func (m *Manager) HandleConnection(w http.ResponseWriter, r *http.Request, userID, companyID uuid.UUID) (*Connection, error) {
	conn, err := m.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to upgrade connection: %w", err)
	}

	connection := &Connection{
		ID:        uuid.New().String(),
		UserID:    userID,
		CompanyID: companyID,
		Conn:      conn,
		Send:      make(chan Event, 256),
	}

	m.hub.register <- connection

	m.mu.Lock()
	m.connections[connection.ID] = connection
	m.mu.Unlock()

	go m.readPump(connection)
	go m.writePump(connection)

	return connection, nil
}

func (m *Manager) readPump(conn *Connection) {
	defer func() {
		m.hub.unregister <- conn
		conn.Conn.Close()
	}()

	conn.Conn.SetReadLimit(512)
	conn.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.Conn.SetPongHandler(func(string) error {
		conn.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	// Clients only listen; inbound frames just keep the connection alive.
	for {
		if _, _, err := conn.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				m.logger.Warn("websocket read failed", zap.Error(err))
			}
			return
		}
	}
}

func (m *Manager) writePump(conn *Connection) {
	ticker := time.NewTicker(54 * time.Second)
	defer func() {
		ticker.Stop()
		conn.Conn.Close()
	}()

	for {
		select {
		case event, ok := <-conn.Send:
			conn.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				conn.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.Conn.WriteJSON(event); err != nil {
				return
			}

		case <-ticker.C:
			conn.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (m *Manager) run() {
	for {
		select {
		case conn := <-m.hub.register:
			m.hub.connections[conn] = true
			m.logger.Debug("websocket connected",
				zap.String("connection_id", conn.ID),
				zap.String("company_id", conn.CompanyID.String()))

		case conn := <-m.hub.unregister:
			if _, ok := m.hub.connections[conn]; ok {
				delete(m.hub.connections, conn)
				m.mu.Lock()
				delete(m.connections, conn.ID)
				m.mu.Unlock()
				close(conn.Send)
				m.logger.Debug("websocket disconnected", zap.String("connection_id", conn.ID))
			}

		case event := <-m.hub.broadcast:
			for conn := range m.hub.connections {
				select {
				case conn.Send <- event:
				default:
					close(conn.Send)
					delete(m.hub.connections, conn)
				}
			}

		case <-m.hub.stop:
			for conn := range m.hub.connections {
				close(conn.Send)
				delete(m.hub.connections, conn)
			}
			return
		}
	}
}

// SendToCompany delivers an event to every connection of one company.
func (m *Manager) SendToCompany(companyID uuid.UUID, event Event) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, conn := range m.connections {
		if conn.CompanyID == companyID {
			select {
			case conn.Send <- event:
			default:
				// Buffer full, the client catches up via the in-app list.
			}
		}
	}
}

// Broadcast delivers an event to every connected client.
func (m *Manager) Broadcast(event Event) error {
	select {
	case m.hub.broadcast <- event:
		return nil
	default:
		return fmt.Errorf("broadcast channel full")
	}
}

// ConnectionCount reports active connections, exposed on the health endpoint.
func (m *Manager) ConnectionCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.connections)
}

func (m *Manager) Close() {
	close(m.hub.stop)

	m.mu.Lock()
	for _, conn := range m.connections {
		conn.Conn.Close()
	}
	m.connections = make(map[string]*Connection)
	m.mu.Unlock()
}
