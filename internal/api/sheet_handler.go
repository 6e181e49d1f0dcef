package api

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wfunc/char-sheet/internal/errors"
	"github.com/wfunc/char-sheet/internal/middleware"
	"github.com/wfunc/char-sheet/internal/service"
)

// SheetHandler 角色卡资源变更处理器
type SheetHandler struct {
	sheetService service.SheetService
	dev          bool
}

// NewSheetHandler 创建资源变更处理器
func NewSheetHandler(sheetService service.SheetService, dev bool) *SheetHandler {
	return &SheetHandler{
		sheetService: sheetService,
		dev:          dev,
	}
}

// spellSlotRequest 法术位变更请求
type spellSlotRequest struct {
	SpellSlotLevel *int `json:"spellSlotLevel"`
}

// shortRestRequest 短休请求
type shortRestRequest struct {
	HitDiceExpended *int `json:"hitDiceExpended"`
}

// ExpendFeature 消耗一次特性使用
func (h *SheetHandler) ExpendFeature(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	characterID, err := parseUintParam(c, "characterId")
	if err != nil {
		respondError(c, err, h.dev)
		return
	}

	result, err := h.sheetService.ExpendFeature(c.Request.Context(), userID, characterID, c.Param("featureId"))
	if err != nil {
		respondError(c, err, h.dev)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"feature":   result.Feature,
		"character": result.Character,
	})
}

// GainFeature 恢复一次特性使用
func (h *SheetHandler) GainFeature(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	characterID, err := parseUintParam(c, "characterId")
	if err != nil {
		respondError(c, err, h.dev)
		return
	}

	result, err := h.sheetService.GainFeature(c.Request.Context(), userID, characterID, c.Param("featureId"))
	if err != nil {
		respondError(c, err, h.dev)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"feature":   result.Feature,
		"character": result.Character,
	})
}

// GainItem 获得物品
func (h *SheetHandler) GainItem(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	characterID, err := parseUintParam(c, "characterId")
	if err != nil {
		respondError(c, err, h.dev)
		return
	}

	amount, err := parseOptionalQueryInt(c, "gainAmount")
	if err != nil {
		respondError(c, err, h.dev)
		return
	}

	result, err := h.sheetService.GainItem(c.Request.Context(), userID, characterID, c.Param("itemId"), amount)
	if err != nil {
		respondError(c, err, h.dev)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"item":      result.Item,
		"character": result.Character,
	})
}

// UseItem 使用物品
func (h *SheetHandler) UseItem(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	characterID, err := parseUintParam(c, "characterId")
	if err != nil {
		respondError(c, err, h.dev)
		return
	}

	amount, err := parseOptionalQueryInt(c, "amountToUse")
	if err != nil {
		respondError(c, err, h.dev)
		return
	}

	result, err := h.sheetService.UseItem(c.Request.Context(), userID, characterID, c.Param("itemId"), amount)
	if err != nil {
		respondError(c, err, h.dev)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"item":      result.Item,
		"character": result.Character,
	})
}

// ExpendSpellSlot 消耗法术位
func (h *SheetHandler) ExpendSpellSlot(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	characterID, err := parseUintParam(c, "characterId")
	if err != nil {
		respondError(c, err, h.dev)
		return
	}

	amount, err := parseOptionalQueryInt(c, "customAmount")
	if err != nil {
		respondError(c, err, h.dev)
		return
	}

	var req spellSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.SpellSlotLevel == nil {
		respondError(c, errors.New(errors.ErrInvalidParam).
			WithMessage("spellSlotLevel must be a number"), h.dev)
		return
	}

	result, err := h.sheetService.ExpendSpellSlot(c.Request.Context(), userID, characterID, *req.SpellSlotLevel, amount)
	if err != nil {
		respondError(c, err, h.dev)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"spellSlot": result.SpellSlot,
		"character": result.Character,
	})
}

// GainSpellSlot 恢复法术位
func (h *SheetHandler) GainSpellSlot(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	characterID, err := parseUintParam(c, "characterId")
	if err != nil {
		respondError(c, err, h.dev)
		return
	}

	amount, err := parseOptionalQueryInt(c, "customAmount")
	if err != nil {
		respondError(c, err, h.dev)
		return
	}

	var req spellSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.SpellSlotLevel == nil {
		respondError(c, errors.New(errors.ErrInvalidParam).
			WithMessage("spellSlotLevel must be a number"), h.dev)
		return
	}

	result, err := h.sheetService.GainSpellSlot(c.Request.Context(), userID, characterID, *req.SpellSlotLevel, amount)
	if err != nil {
		respondError(c, err, h.dev)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"spellSlot": result.SpellSlot,
		"character": result.Character,
	})
}

// ShortRest 短休
func (h *SheetHandler) ShortRest(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	characterID, err := parseUintParam(c, "characterId")
	if err != nil {
		respondError(c, err, h.dev)
		return
	}

	// 请求体可以为空，但给了就必须合法
	var req shortRestRequest
	if err := c.ShouldBindJSON(&req); err != nil && err != io.EOF {
		respondError(c, errors.New(errors.ErrInvalidParam).
			WithMessage("hitDiceExpended must be a number"), h.dev)
		return
	}

	result, err := h.sheetService.ShortRest(c.Request.Context(), userID, characterID, req.HitDiceExpended)
	if err != nil {
		respondError(c, err, h.dev)
		return
	}

	resp := gin.H{
		"success":   true,
		"character": result.Character,
	}
	if result.RestoredHitpoints > 0 {
		resp["restoredHitpoints"] = result.RestoredHitpoints
	}
	c.JSON(http.StatusOK, resp)
}

// LongRest 长休
func (h *SheetHandler) LongRest(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	characterID, err := parseUintParam(c, "characterId")
	if err != nil {
		respondError(c, err, h.dev)
		return
	}

	character, err := h.sheetService.LongRest(c.Request.Context(), userID, characterID)
	if err != nil {
		respondError(c, err, h.dev)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"character": character,
	})
}
