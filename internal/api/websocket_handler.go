package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	gorilla "github.com/gorilla/websocket"
	"github.com/wfunc/char-sheet/internal/middleware"
	"github.com/wfunc/char-sheet/internal/service"
	"github.com/wfunc/char-sheet/internal/websocket"
	"go.uber.org/zap"
)

// WebSocketHandler 角色卡实时订阅处理器
type WebSocketHandler struct {
	hub              *websocket.Hub
	characterService service.CharacterService
	upgrader         gorilla.Upgrader
	log              *zap.Logger
	dev              bool
}

// NewWebSocketHandler 创建实时订阅处理器
func NewWebSocketHandler(hub *websocket.Hub, characterService service.CharacterService, allowOrigins []string, log *zap.Logger, dev bool) *WebSocketHandler {
	origins := make(map[string]bool, len(allowOrigins))
	for _, origin := range allowOrigins {
		origins[origin] = true
	}

	return &WebSocketHandler{
		hub:              hub,
		characterService: characterService,
		upgrader: gorilla.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				// 同源请求没有Origin头
				return origin == "" || origins[origin]
			},
		},
		log: log,
		dev: dev,
	}
}

// Live 订阅角色卡的实时更新
func (h *WebSocketHandler) Live(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	characterID, err := parseUintParam(c, "characterId")
	if err != nil {
		respondError(c, err, h.dev)
		return
	}

	// 升级前先做所有权校验
	if _, err := h.characterService.Get(c.Request.Context(), userID, characterID); err != nil {
		respondError(c, err, h.dev)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error("WebSocket升级失败",
			zap.Uint("character_id", characterID),
			zap.Error(err))
		return
	}

	client := websocket.NewClient(h.hub, conn, userID, characterID)
	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}
