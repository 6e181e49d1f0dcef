package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wfunc/char-sheet/internal/errors"
	"github.com/wfunc/char-sheet/internal/middleware"
	"github.com/wfunc/char-sheet/internal/service"
)

// CharacterHandler 角色卡处理器
type CharacterHandler struct {
	characterService service.CharacterService
	dev              bool
}

// NewCharacterHandler 创建角色卡处理器
func NewCharacterHandler(characterService service.CharacterService, dev bool) *CharacterHandler {
	return &CharacterHandler{
		characterService: characterService,
		dev:              dev,
	}
}

// Create 创建角色卡
func (h *CharacterHandler) Create(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var payload map[string]any
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, errors.New(errors.ErrInvalidParam).
			WithMessage("Invalid request body").WithCause(err), h.dev)
		return
	}

	character, err := h.characterService.Create(c.Request.Context(), userID, payload)
	if err != nil {
		respondError(c, err, h.dev)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":   true,
		"character": character,
	})
}

// Get 读取单个角色卡
func (h *CharacterHandler) Get(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	characterID, err := parseUintParam(c, "characterId")
	if err != nil {
		respondError(c, err, h.dev)
		return
	}

	character, err := h.characterService.Get(c.Request.Context(), userID, characterID)
	if err != nil {
		respondError(c, err, h.dev)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"character": character,
	})
}

// List 列出用户的全部角色卡
func (h *CharacterHandler) List(c *gin.Context) {
	callerID, _ := middleware.GetUserID(c)

	userID, err := parseUintParam(c, "userId")
	if err != nil {
		respondError(c, err, h.dev)
		return
	}

	characters, err := h.characterService.ListByUser(c.Request.Context(), callerID, userID)
	if err != nil {
		respondError(c, err, h.dev)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(characters),
		"data":    characters,
	})
}

// Update 整卡更新
func (h *CharacterHandler) Update(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	characterID, err := parseUintParam(c, "characterId")
	if err != nil {
		respondError(c, err, h.dev)
		return
	}

	var payload map[string]any
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, errors.New(errors.ErrInvalidParam).
			WithMessage("Invalid request body").WithCause(err), h.dev)
		return
	}

	character, err := h.characterService.Update(c.Request.Context(), userID, characterID, payload)
	if err != nil {
		respondError(c, err, h.dev)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"character": character,
	})
}

// Delete 删除角色卡
func (h *CharacterHandler) Delete(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	characterID, err := parseUintParam(c, "characterId")
	if err != nil {
		respondError(c, err, h.dev)
		return
	}

	if err := h.characterService.Delete(c.Request.Context(), userID, characterID); err != nil {
		respondError(c, err, h.dev)
		return
	}

	respondMessage(c, http.StatusOK, "Character deleted successfully")
}
