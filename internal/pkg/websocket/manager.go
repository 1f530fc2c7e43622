package websocket

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/piresc/fraudguard/internal/pkg/constants"
	"github.com/piresc/fraudguard/internal/pkg/logger"
	"github.com/piresc/fraudguard/internal/pkg/models"
)

const closeWriteWait = time.Second

// Manager upgrades connections and keeps at most one live connection per
// key. Registering a key again closes the connection it replaces.
type Manager struct {
	sync.Mutex
	conns    map[string]*websocket.Conn
	upgrader websocket.Upgrader
}

// NewManager creates a new WebSocket manager
func NewManager() *Manager {
	return &Manager{
		conns: make(map[string]*websocket.Conn),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Upgrade switches the request to the websocket protocol and registers the
// connection under key
func (m *Manager) Upgrade(c echo.Context, key string) (*websocket.Conn, error) {
	conn, err := m.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return nil, err
	}

	m.Lock()
	previous := m.conns[key]
	m.conns[key] = conn
	m.Unlock()

	if previous != nil {
		logger.Info("Replacing websocket connection", logger.String("key", key))
		closeConn(previous, websocket.CloseNormalClosure, "replaced by a newer connection")
	}
	return conn, nil
}

// Release unregisters conn if it is still the connection registered for key
func (m *Manager) Release(key string, conn *websocket.Conn) {
	m.Lock()
	defer m.Unlock()
	if m.conns[key] == conn {
		delete(m.conns, key)
	}
}

// Owns reports whether conn is the connection registered for key
func (m *Manager) Owns(key string, conn *websocket.Conn) bool {
	m.Lock()
	defer m.Unlock()
	return m.conns[key] == conn
}

// Count returns the number of registered connections
func (m *Manager) Count() int {
	m.Lock()
	defer m.Unlock()
	return len(m.conns)
}

// CloseAll closes every registered connection
func (m *Manager) CloseAll() {
	m.Lock()
	conns := m.conns
	m.conns = make(map[string]*websocket.Conn)
	m.Unlock()

	for _, conn := range conns {
		closeConn(conn, websocket.CloseGoingAway, "server shutting down")
	}
}

// SendMessage writes an event envelope to conn
func (m *Manager) SendMessage(conn *websocket.Conn, event string, data interface{}) error {
	if conn == nil {
		return nil
	}

	rawData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("error marshaling message data: %v", err)
	}

	return conn.WriteJSON(models.WSMessage{
		Event: event,
		Data:  rawData,
	})
}

// SendErrorMessage sends an error event to conn
func (m *Manager) SendErrorMessage(conn *websocket.Conn, code string, message string) error {
	return m.SendMessage(conn, constants.EventError, models.WSErrorMessage{
		Code:    code,
		Message: message,
	})
}

// Close sends a close frame with reason and closes conn
func (m *Manager) Close(conn *websocket.Conn, reason string) {
	closeConn(conn, websocket.CloseNormalClosure, reason)
}

func closeConn(conn *websocket.Conn, code int, reason string) {
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(code, reason),
		time.Now().Add(closeWriteWait))
	_ = conn.Close()
}
