package ws

import (
	"sync"

	"aichat_backend/internal/logger"
)

// WebSocketManager держит активные соединения по user ID
// и рассылает события участникам бесед.
type WebSocketManager struct {
	clients    map[string][]*Client
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
}

func NewWebSocketManager() *WebSocketManager {
	return &WebSocketManager{
		clients:    make(map[string][]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run обрабатывает регистрацию и отключение клиентов
func (m *WebSocketManager) Run() {
	for {
		select {
		case client := <-m.register:
			m.mu.Lock()
			m.clients[client.UserID] = append(m.clients[client.UserID], client)
			m.mu.Unlock()
			logger.Debug("ws client registered", "user_id", client.UserID)

		case client := <-m.unregister:
			m.mu.Lock()
			conns := m.clients[client.UserID]
			for i, c := range conns {
				if c == client {
					m.clients[client.UserID] = append(conns[:i], conns[i+1:]...)
					break
				}
			}
			if len(m.clients[client.UserID]) == 0 {
				delete(m.clients, client.UserID)
			}
			m.mu.Unlock()
			close(client.Send)
			logger.Debug("ws client unregistered", "user_id", client.UserID)
		}
	}
}

// BroadcastToUsers отправляет payload всем соединениям перечисленных пользователей
func (m *WebSocketManager) BroadcastToUsers(userIDs []string, payload any) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, userID := range userIDs {
		for _, client := range m.clients[userID] {
			select {
			case client.Send <- payload:
			default:
				// Медленный клиент: пропускаем, соединение закроет writePump
			}
		}
	}
}
