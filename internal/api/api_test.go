package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/wfunc/char-sheet/internal/config"
	"github.com/wfunc/char-sheet/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// testConfig 测试用配置
func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Mode: "development"},
		Security: config.SecurityConfig{
			JWT: config.JWTConfig{
				Secret:      "test-secret",
				ExpireHours: 1,
				CookieName:  "token",
			},
		},
		CORS: config.CORSConfig{
			AllowOrigins:     []string{"http://localhost:3000"},
			AllowCredentials: true,
		},
	}
}

// sheetPayload 合法的角色卡载荷
func sheetPayload() map[string]any {
	skills := map[string]any{}
	for _, name := range []string{
		"acrobatics", "animalHandling", "arcana", "athletics",
		"deception", "history", "insight", "intimidation",
		"investigation", "medicine", "nature", "perception",
		"performance", "persuasion", "religion", "sleightOfHand",
		"stealth", "survival",
	} {
		skills[name] = map[string]any{"value": 1, "ability": "dexterity"}
	}

	return map[string]any{
		"basicInfo": map[string]any{
			"name": "Bruenor", "race": "Dwarf", "class": "Fighter",
			"level": 5, "alignment": "Lawful Good", "background": "Soldier",
			"playerName": "Bob",
		},
		"abilities": map[string]any{
			"strength": 16, "dexterity": 12, "constitution": 15,
			"intelligence": 10, "wisdom": 13, "charisma": 8,
		},
		"stats": map[string]any{
			"ac": 17, "initiative": 1, "speed": 25, "armorClass": 17,
			"hitPointsCurrent": 30, "hitPointsTotal": 44,
			"hitDice":      map[string]any{"remaining": 5, "diceType": 10, "total": 5},
			"hitDiceTotal": 5,
		},
		"savingThrows": map[string]any{
			"strength":     map[string]any{"value": 6, "hasProficiency": true},
			"dexterity":    map[string]any{"value": 1},
			"constitution": map[string]any{"value": 5},
			"intelligence": map[string]any{"value": 0},
			"wisdom":       map[string]any{"value": 1},
		},
		"skills": skills,
		"spellSlots": map[string]any{
			"level1": map[string]any{"current": 2, "total": 4},
		},
		"featuresAndTraits": []any{
			map[string]any{
				"name":         "Second Wind",
				"description":  "Regain hit points equal to 1d10 + fighter level.",
				"isExpendable": true,
				"usesTotal":    1,
				"usesLeft":     1,
				"rechargeOn":   "shortRest",
			},
		},
		"inventory": map[string]any{
			"gold": 25,
			"items": []any{
				map[string]any{
					"name":         "Potion of Healing",
					"amount":       3,
					"isConsumable": true,
				},
			},
		},
	}
}

// APITestSuite 接口层测试套件
type APITestSuite struct {
	suite.Suite
	db     *gorm.DB
	router *Router
	token  string
	userID uint
}

// SetupTest 每个测试前执行
func (suite *APITestSuite) SetupTest() {
	suite.db = repository.SetupTestDB()
	suite.router = NewRouter(suite.db, testConfig(), zap.NewNop())

	// 注册并登录
	resp := suite.request(http.MethodPost, "/api/v1/auth/signup", map[string]any{
		"username": "alice",
		"password": "secret",
	}, "")
	suite.Equal(http.StatusCreated, resp.Code)

	resp = suite.request(http.MethodPost, "/api/v1/auth/login", map[string]any{
		"username": "alice",
		"password": "secret",
	}, "")
	suite.Equal(http.StatusOK, resp.Code)

	var body struct {
		Token string `json:"token"`
		User  struct {
			ID uint `json:"id"`
		} `json:"user"`
	}
	suite.NoError(json.Unmarshal(resp.Body.Bytes(), &body))
	suite.NotEmpty(body.Token)
	suite.token = body.Token
	suite.userID = body.User.ID

	// 登录必须设置httpOnly cookie
	cookies := resp.Result().Cookies()
	suite.NotEmpty(cookies)
	suite.Equal("token", cookies[0].Name)
	suite.True(cookies[0].HttpOnly)
}

// TearDownTest 每个测试后执行
func (suite *APITestSuite) TearDownTest() {
	repository.CleanupTestDB(suite.db)
}

// request 发送测试请求
func (suite *APITestSuite) request(method, path string, payload any, token string) *httptest.ResponseRecorder {
	var body *bytes.Buffer
	if payload != nil {
		raw, err := json.Marshal(payload)
		suite.NoError(err)
		body = bytes.NewBuffer(raw)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	recorder := httptest.NewRecorder()
	suite.router.GetEngine().ServeHTTP(recorder, req)
	return recorder
}

// createCharacter 创建测试角色并返回ID
func (suite *APITestSuite) createCharacter() uint {
	resp := suite.request(http.MethodPost, "/api/v1/create-character", sheetPayload(), suite.token)
	suite.Equal(http.StatusCreated, resp.Code)

	var body struct {
		Character struct {
			ID uint `json:"id"`
		} `json:"character"`
	}
	suite.NoError(json.Unmarshal(resp.Body.Bytes(), &body))
	suite.NotZero(body.Character.ID)
	return body.Character.ID
}

// TestUnauthenticated 测试未登录访问被拒绝
func (suite *APITestSuite) TestUnauthenticated() {
	resp := suite.request(http.MethodPost, "/api/v1/create-character", sheetPayload(), "")
	suite.Equal(http.StatusUnauthorized, resp.Code)

	resp = suite.request(http.MethodGet, "/api/v1/auth/echo", nil, "garbage-token")
	suite.Equal(http.StatusUnauthorized, resp.Code)
}

// TestEcho 测试登录状态探测
func (suite *APITestSuite) TestEcho() {
	resp := suite.request(http.MethodGet, "/api/v1/auth/echo", nil, suite.token)
	suite.Equal(http.StatusOK, resp.Code)
	suite.Contains(resp.Body.String(), "You are logged in")
}

// TestLogout 测试登出清除cookie
func (suite *APITestSuite) TestLogout() {
	resp := suite.request(http.MethodPost, "/api/v1/auth/logout", nil, suite.token)
	suite.Equal(http.StatusOK, resp.Code)
	suite.Contains(resp.Body.String(), "Logged out successfully")

	cookies := resp.Result().Cookies()
	suite.NotEmpty(cookies)
	suite.Equal("token", cookies[0].Name)
	suite.Less(cookies[0].MaxAge, 0)
}

// TestLoginInvalidCredentials 测试登录失败
func (suite *APITestSuite) TestLoginInvalidCredentials() {
	resp := suite.request(http.MethodPost, "/api/v1/auth/login", map[string]any{
		"username": "alice",
		"password": "wrong",
	}, "")
	suite.Equal(http.StatusUnauthorized, resp.Code)
	suite.Contains(resp.Body.String(), "Invalid credentials")
}

// TestCharacterCRUD 测试角色卡增删改查
func (suite *APITestSuite) TestCharacterCRUD() {
	characterID := suite.createCharacter()

	// 读取
	resp := suite.request(http.MethodGet, fmt.Sprintf("/api/v1/characters/%d", characterID), nil, suite.token)
	suite.Equal(http.StatusOK, resp.Code)
	suite.Contains(resp.Body.String(), "Bruenor")
	suite.Contains(resp.Body.String(), "proficiencyBonus")

	// 列表
	resp = suite.request(http.MethodGet, fmt.Sprintf("/api/v1/users/%d/characters", suite.userID), nil, suite.token)
	suite.Equal(http.StatusOK, resp.Code)
	suite.Contains(resp.Body.String(), `"count":1`)

	// 更新
	payload := sheetPayload()
	payload["basicInfo"].(map[string]any)["level"] = 6
	resp = suite.request(http.MethodPut, fmt.Sprintf("/api/v1/characters/%d/update", characterID), payload, suite.token)
	suite.Equal(http.StatusOK, resp.Code)
	suite.Contains(resp.Body.String(), `"level":6`)

	// 删除
	resp = suite.request(http.MethodDelete, fmt.Sprintf("/api/v1/characters/%d/delete", characterID), nil, suite.token)
	suite.Equal(http.StatusOK, resp.Code)
	suite.Contains(resp.Body.String(), "Character deleted successfully")

	resp = suite.request(http.MethodGet, fmt.Sprintf("/api/v1/characters/%d", characterID), nil, suite.token)
	suite.Equal(http.StatusNotFound, resp.Code)
}

// TestCreateCharacterMissingFields 测试缺少必填字段
func (suite *APITestSuite) TestCreateCharacterMissingFields() {
	payload := sheetPayload()
	delete(payload, "abilities")

	resp := suite.request(http.MethodPost, "/api/v1/create-character", payload, suite.token)
	suite.Equal(http.StatusBadRequest, resp.Code)
	suite.Contains(resp.Body.String(), "Missing required group: abilities")
}

// TestOwnership 测试跨用户访问被拒绝
func (suite *APITestSuite) TestOwnership() {
	characterID := suite.createCharacter()

	// 第二个用户
	resp := suite.request(http.MethodPost, "/api/v1/auth/signup", map[string]any{
		"username": "mallory",
		"password": "secret",
	}, "")
	suite.Equal(http.StatusCreated, resp.Code)

	resp = suite.request(http.MethodPost, "/api/v1/auth/login", map[string]any{
		"username": "mallory",
		"password": "secret",
	}, "")
	suite.Equal(http.StatusOK, resp.Code)

	var body struct {
		Token string `json:"token"`
	}
	suite.NoError(json.Unmarshal(resp.Body.Bytes(), &body))

	resp = suite.request(http.MethodGet, fmt.Sprintf("/api/v1/characters/%d", characterID), nil, body.Token)
	suite.Equal(http.StatusForbidden, resp.Code)
	suite.Contains(resp.Body.String(), "You are not authorized to access this character")

	// 不存在的角色优先返回404
	resp = suite.request(http.MethodGet, "/api/v1/characters/9999", nil, body.Token)
	suite.Equal(http.StatusNotFound, resp.Code)
}

// TestFeatureFlow 测试特性消耗与恢复
func (suite *APITestSuite) TestFeatureFlow() {
	characterID := suite.createCharacter()

	// 拿到服务端分配的特性id
	resp := suite.request(http.MethodGet, fmt.Sprintf("/api/v1/characters/%d", characterID), nil, suite.token)
	suite.Equal(http.StatusOK, resp.Code)

	var body struct {
		Character struct {
			FeaturesAndTraits []struct {
				ID string `json:"id"`
			} `json:"featuresAndTraits"`
		} `json:"character"`
	}
	suite.NoError(json.Unmarshal(resp.Body.Bytes(), &body))
	suite.NotEmpty(body.Character.FeaturesAndTraits)
	featureID := body.Character.FeaturesAndTraits[0].ID

	base := fmt.Sprintf("/api/v1/characters/%d", characterID)

	resp = suite.request(http.MethodPut, base+"/expendFeature/"+featureID, nil, suite.token)
	suite.Equal(http.StatusOK, resp.Code)
	suite.Contains(resp.Body.String(), `"usesLeft":0`)

	resp = suite.request(http.MethodPut, base+"/expendFeature/"+featureID, nil, suite.token)
	suite.Equal(http.StatusBadRequest, resp.Code)
	suite.Contains(resp.Body.String(), "No uses left for this feature")

	resp = suite.request(http.MethodPut, base+"/gainFeature/"+featureID, nil, suite.token)
	suite.Equal(http.StatusOK, resp.Code)
	suite.Contains(resp.Body.String(), `"usesLeft":1`)

	resp = suite.request(http.MethodPut, base+"/expendFeature/missing", nil, suite.token)
	suite.Equal(http.StatusNotFound, resp.Code)
}

// TestItemFlow 测试物品获得与使用
func (suite *APITestSuite) TestItemFlow() {
	characterID := suite.createCharacter()

	resp := suite.request(http.MethodGet, fmt.Sprintf("/api/v1/characters/%d", characterID), nil, suite.token)
	suite.Equal(http.StatusOK, resp.Code)

	var body struct {
		Character struct {
			Inventory struct {
				Items []struct {
					ID string `json:"id"`
				} `json:"items"`
			} `json:"inventory"`
		} `json:"character"`
	}
	suite.NoError(json.Unmarshal(resp.Body.Bytes(), &body))
	suite.NotEmpty(body.Character.Inventory.Items)
	itemID := body.Character.Inventory.Items[0].ID

	base := fmt.Sprintf("/api/v1/characters/%d", characterID)

	resp = suite.request(http.MethodPut, base+"/useItem/"+itemID+"?amountToUse=2", nil, suite.token)
	suite.Equal(http.StatusOK, resp.Code)
	suite.Contains(resp.Body.String(), `"amount":1`)

	resp = suite.request(http.MethodPut, base+"/useItem/"+itemID+"?amountToUse=5", nil, suite.token)
	suite.Equal(http.StatusBadRequest, resp.Code)
	suite.Contains(resp.Body.String(), "Amount to use cannot be greater than the item's remaining count")

	resp = suite.request(http.MethodPut, base+"/gainItem/"+itemID+"?gainAmount=4", nil, suite.token)
	suite.Equal(http.StatusOK, resp.Code)
	suite.Contains(resp.Body.String(), `"amount":5`)

	resp = suite.request(http.MethodPut, base+"/gainItem/"+itemID+"?gainAmount=abc", nil, suite.token)
	suite.Equal(http.StatusBadRequest, resp.Code)
	suite.Contains(resp.Body.String(), "gainAmount must be a number")
}

// TestSpellSlotFlow 测试法术位消耗与恢复
func (suite *APITestSuite) TestSpellSlotFlow() {
	characterID := suite.createCharacter()
	base := fmt.Sprintf("/api/v1/characters/%d", characterID)

	resp := suite.request(http.MethodPut, base+"/expendSpellSlot", map[string]any{
		"spellSlotLevel": 1,
	}, suite.token)
	suite.Equal(http.StatusOK, resp.Code)
	suite.Contains(resp.Body.String(), `"current":1`)

	// 当前1、上限4，恢复4超过缺口
	resp = suite.request(http.MethodPut, base+"/gainSpellSlot?customAmount=4", map[string]any{
		"spellSlotLevel": 1,
	}, suite.token)
	suite.Equal(http.StatusBadRequest, resp.Code)
	suite.Contains(resp.Body.String(), "Custom amount exceeds the missing spell slots for this level")

	// 等级缺失
	resp = suite.request(http.MethodPut, base+"/expendSpellSlot", map[string]any{}, suite.token)
	suite.Equal(http.StatusBadRequest, resp.Code)
	suite.Contains(resp.Body.String(), "spellSlotLevel must be a number")

	// 不存在的等级
	resp = suite.request(http.MethodPut, base+"/expendSpellSlot", map[string]any{
		"spellSlotLevel": 9,
	}, suite.token)
	suite.Equal(http.StatusNotFound, resp.Code)
}

// TestRestFlow 测试短休与长休
func (suite *APITestSuite) TestRestFlow() {
	characterID := suite.createCharacter()
	base := fmt.Sprintf("/api/v1/characters/%d", characterID)

	resp := suite.request(http.MethodPut, base+"/shortRest", map[string]any{
		"hitDiceExpended": 2,
	}, suite.token)
	suite.Equal(http.StatusOK, resp.Code)
	suite.Contains(resp.Body.String(), "restoredHitpoints")

	resp = suite.request(http.MethodPut, base+"/shortRest", map[string]any{
		"hitDiceExpended": 99,
	}, suite.token)
	suite.Equal(http.StatusBadRequest, resp.Code)
	suite.Contains(resp.Body.String(), "Hit dice expended cannot be greater than the remaining hit dice")

	resp = suite.request(http.MethodPost, base+"/longRest", nil, suite.token)
	suite.Equal(http.StatusOK, resp.Code)
	suite.Contains(resp.Body.String(), `"hitPointsCurrent":44`)
}

// TestShortRestInvalidHitDice 测试非数字的生命骰参数
func (suite *APITestSuite) TestShortRestInvalidHitDice() {
	characterID := suite.createCharacter()
	base := fmt.Sprintf("/api/v1/characters/%d", characterID)

	// 先用掉短休特性，验证失败的短休不会把它重置
	resp := suite.request(http.MethodGet, base, nil, suite.token)
	suite.Equal(http.StatusOK, resp.Code)

	var body struct {
		Character struct {
			FeaturesAndTraits []struct {
				ID string `json:"id"`
			} `json:"featuresAndTraits"`
		} `json:"character"`
	}
	suite.NoError(json.Unmarshal(resp.Body.Bytes(), &body))
	featureID := body.Character.FeaturesAndTraits[0].ID

	resp = suite.request(http.MethodPut, base+"/expendFeature/"+featureID, nil, suite.token)
	suite.Equal(http.StatusOK, resp.Code)

	resp = suite.request(http.MethodPut, base+"/shortRest", map[string]any{
		"hitDiceExpended": "abc",
	}, suite.token)
	suite.Equal(http.StatusBadRequest, resp.Code)
	suite.Contains(resp.Body.String(), "hitDiceExpended must be a number")

	// 特性仍然是用掉的状态，生命值未变
	resp = suite.request(http.MethodGet, base, nil, suite.token)
	suite.Equal(http.StatusOK, resp.Code)
	suite.Contains(resp.Body.String(), `"usesLeft":0`)
	suite.Contains(resp.Body.String(), `"hitPointsCurrent":30`)
}

// TestShortRestWithoutHitDice 测试不消耗生命骰的短休不回血
func (suite *APITestSuite) TestShortRestWithoutHitDice() {
	characterID := suite.createCharacter()
	base := fmt.Sprintf("/api/v1/characters/%d", characterID)

	resp := suite.request(http.MethodPut, base+"/shortRest", map[string]any{}, suite.token)
	suite.Equal(http.StatusOK, resp.Code)
	// 没有回血时不输出恢复量字段
	suite.NotContains(resp.Body.String(), "restoredHitpoints")
	suite.Contains(resp.Body.String(), `"hitPointsCurrent":30`)
}

// TestHealthCheck 测试健康检查
func (suite *APITestSuite) TestHealthCheck() {
	resp := suite.request(http.MethodGet, "/health", nil, "")
	suite.Equal(http.StatusOK, resp.Code)
	suite.Contains(resp.Body.String(), "healthy")
}

// TestAPITestSuite 运行测试套件
func TestAPITestSuite(t *testing.T) {
	suite.Run(t, new(APITestSuite))
}
