package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/wfunc/char-sheet/internal/models"
	"go.uber.org/zap"
)

// Hub WebSocket连接管理中心
type Hub struct {
	// 客户端连接池
	clients   map[string]*Client
	clientsMu sync.RWMutex

	// 角色ID到订阅客户端的映射
	characterClients map[uint][]*Client
	characterMu      sync.RWMutex

	// 消息广播通道
	broadcast chan *Message

	// 注册/注销通道
	register   chan *Client
	unregister chan *Client

	// 日志
	logger *zap.Logger
}

// Message WebSocket消息
type Message struct {
	Type        string          `json:"type"`
	CharacterID uint            `json:"characterId,omitempty"`
	Data        json.RawMessage `json:"data,omitempty"`
	Timestamp   int64           `json:"timestamp"`
}

// MessageType 消息类型
const (
	// 系统消息
	MessageTypeConnected    = "connected"
	MessageTypeDisconnected = "disconnected"
	MessageTypePing         = "ping"
	MessageTypePong         = "pong"
	MessageTypeError        = "error"

	// 角色卡消息
	MessageTypeCharacterUpdate = "character_update"
)

// NewHub 创建Hub
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients:          make(map[string]*Client),
		characterClients: make(map[uint][]*Client),
		broadcast:        make(chan *Message, 256),
		register:         make(chan *Client),
		unregister:       make(chan *Client),
		logger:           logger,
	}
}

// Run 运行Hub
func (h *Hub) Run() {
	go h.runHeartbeat()

	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case message := <-h.broadcast:
			h.broadcastMessage(message)
		}
	}
}

// PublishCharacter 向订阅该角色的所有客户端推送最新角色卡
func (h *Hub) PublishCharacter(character *models.Character) {
	data, err := json.Marshal(character)
	if err != nil {
		h.logger.Error("序列化角色卡失败",
			zap.Uint("character_id", character.ID),
			zap.Error(err))
		return
	}

	msg := &Message{
		Type:        MessageTypeCharacterUpdate,
		CharacterID: character.ID,
		Data:        data,
		Timestamp:   time.Now().Unix(),
	}

	if err := h.SendToCharacter(character.ID, msg); err != nil {
		// 没有订阅者不算错误
		h.logger.Debug("角色卡更新无订阅者",
			zap.Uint("character_id", character.ID))
	}
}

// registerClient 注册客户端
func (h *Hub) registerClient(client *Client) {
	h.clientsMu.Lock()
	h.clients[client.ID] = client
	h.clientsMu.Unlock()

	if client.CharacterID > 0 {
		h.characterMu.Lock()
		h.characterClients[client.CharacterID] = append(h.characterClients[client.CharacterID], client)
		h.characterMu.Unlock()
	}

	h.logger.Info("WebSocket客户端连接",
		zap.String("client_id", client.ID),
		zap.Uint("user_id", client.UserID),
		zap.Uint("character_id", client.CharacterID))

	msg := &Message{
		Type:        MessageTypeConnected,
		CharacterID: client.CharacterID,
		Timestamp:   time.Now().Unix(),
	}
	h.SendToClient(client.ID, msg)
}

// unregisterClient 注销客户端
func (h *Hub) unregisterClient(client *Client) {
	h.clientsMu.Lock()
	if _, ok := h.clients[client.ID]; ok {
		delete(h.clients, client.ID)
		close(client.Send)
	}
	h.clientsMu.Unlock()

	if client.CharacterID > 0 {
		h.characterMu.Lock()
		clients := h.characterClients[client.CharacterID]
		for i, c := range clients {
			if c.ID == client.ID {
				h.characterClients[client.CharacterID] = append(clients[:i], clients[i+1:]...)
				break
			}
		}
		if len(h.characterClients[client.CharacterID]) == 0 {
			delete(h.characterClients, client.CharacterID)
		}
		h.characterMu.Unlock()
	}

	h.logger.Info("WebSocket客户端断开",
		zap.String("client_id", client.ID),
		zap.Uint("user_id", client.UserID))
}

// broadcastMessage 广播消息
func (h *Hub) broadcastMessage(message *Message) {
	data, err := json.Marshal(message)
	if err != nil {
		h.logger.Error("序列化消息失败", zap.Error(err))
		return
	}

	h.clientsMu.RLock()
	for _, client := range h.clients {
		select {
		case client.Send <- data:
		default:
			// 发送缓冲区满，跳过
			h.logger.Warn("客户端发送缓冲区满",
				zap.String("client_id", client.ID))
		}
	}
	h.clientsMu.RUnlock()
}

// SendToClient 发送消息给指定客户端
func (h *Hub) SendToClient(clientID string, message *Message) error {
	data, err := json.Marshal(message)
	if err != nil {
		return err
	}

	h.clientsMu.RLock()
	client, ok := h.clients[clientID]
	h.clientsMu.RUnlock()

	if !ok {
		return ErrClientNotFound
	}

	select {
	case client.Send <- data:
		return nil
	default:
		return ErrSendBufferFull
	}
}

// SendToCharacter 发送消息给订阅指定角色的所有客户端
func (h *Hub) SendToCharacter(characterID uint, message *Message) error {
	data, err := json.Marshal(message)
	if err != nil {
		return err
	}

	h.characterMu.RLock()
	clients := h.characterClients[characterID]
	h.characterMu.RUnlock()

	if len(clients) == 0 {
		return ErrNoSubscribers
	}

	for _, client := range clients {
		select {
		case client.Send <- data:
		default:
			h.logger.Warn("订阅客户端发送缓冲区满",
				zap.String("client_id", client.ID),
				zap.Uint("character_id", characterID))
		}
	}

	return nil
}

// GetOnlineCount 获取在线连接数
func (h *Hub) GetOnlineCount() int {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	return len(h.clients)
}

// GetSubscriberCount 获取指定角色的订阅数
func (h *Hub) GetSubscriberCount(characterID uint) int {
	h.characterMu.RLock()
	defer h.characterMu.RUnlock()
	return len(h.characterClients[characterID])
}

// runHeartbeat 运行心跳检测
func (h *Hub) runHeartbeat() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		<-ticker.C
		ping := &Message{
			Type:      MessageTypePing,
			Timestamp: time.Now().Unix(),
		}
		h.broadcast <- ping
	}
}

// Broadcast 广播消息（公开方法）
func (h *Hub) Broadcast(message *Message) {
	h.broadcast <- message
}

// Register 注册客户端（公开方法）
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister 注销客户端（公开方法）
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}
