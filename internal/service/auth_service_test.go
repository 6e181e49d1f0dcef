package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/wfunc/char-sheet/internal/errors"
	"github.com/wfunc/char-sheet/internal/repository"
	"github.com/wfunc/char-sheet/internal/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AuthServiceTestSuite 认证服务测试套件
type AuthServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service AuthService
	manager *utils.JWTManager
	ctx     context.Context
}

// SetupTest 每个测试前执行
func (suite *AuthServiceTestSuite) SetupTest() {
	suite.db = repository.SetupTestDB()
	suite.manager = utils.NewJWTManager("test-secret", time.Hour)
	suite.service = NewAuthService(
		repository.NewUserRepository(suite.db),
		suite.manager,
		zap.NewNop(),
	)
	suite.ctx = context.Background()
}

// TearDownTest 每个测试后执行
func (suite *AuthServiceTestSuite) TearDownTest() {
	repository.CleanupTestDB(suite.db)
}

// TestSignup 测试注册
func (suite *AuthServiceTestSuite) TestSignup() {
	user, err := suite.service.Signup(suite.ctx, &SignupRequest{
		Username: "alice",
		Password: "secret-password",
	})
	suite.NoError(err)
	suite.NotZero(user.ID)
	suite.Equal("alice", user.Username)
	// 密码必须以哈希形式入库
	suite.NotEqual("secret-password", user.Password)
	suite.Contains(user.Password, "$argon2id$")
}

// TestSignupMissingFields 测试缺少字段
func (suite *AuthServiceTestSuite) TestSignupMissingFields() {
	_, err := suite.service.Signup(suite.ctx, &SignupRequest{Username: "alice"})
	suite.True(errors.Is(err, errors.ErrInvalidParam))

	_, err = suite.service.Signup(suite.ctx, &SignupRequest{Password: "pw"})
	suite.True(errors.Is(err, errors.ErrInvalidParam))
}

// TestSignupDuplicate 测试重复注册
func (suite *AuthServiceTestSuite) TestSignupDuplicate() {
	_, err := suite.service.Signup(suite.ctx, &SignupRequest{
		Username: "bob",
		Password: "pw1",
	})
	suite.NoError(err)

	_, err = suite.service.Signup(suite.ctx, &SignupRequest{
		Username: "bob",
		Password: "pw2",
	})
	suite.True(errors.Is(err, errors.ErrAlreadyExists))
}

// TestLogin 测试登录
func (suite *AuthServiceTestSuite) TestLogin() {
	_, err := suite.service.Signup(suite.ctx, &SignupRequest{
		Username: "carol",
		Password: "correct-password",
	})
	suite.NoError(err)

	result, err := suite.service.Login(suite.ctx, &LoginRequest{
		Username: "carol",
		Password: "correct-password",
	})
	suite.NoError(err)
	suite.NotEmpty(result.Token)
	suite.Equal("carol", result.User.Username)

	// 签发的令牌必须可验证
	claims, err := suite.manager.ValidateToken(result.Token)
	suite.NoError(err)
	suite.Equal(result.User.ID, claims.UserID)
}

// TestLoginFailures 测试登录失败场景
func (suite *AuthServiceTestSuite) TestLoginFailures() {
	_, err := suite.service.Signup(suite.ctx, &SignupRequest{
		Username: "dave",
		Password: "right",
	})
	suite.NoError(err)

	// 缺少字段
	_, err = suite.service.Login(suite.ctx, &LoginRequest{Username: "dave"})
	suite.True(errors.Is(err, errors.ErrInvalidParam))

	// 密码错误
	_, err = suite.service.Login(suite.ctx, &LoginRequest{
		Username: "dave",
		Password: "wrong",
	})
	suite.True(errors.Is(err, errors.ErrAuthentication))

	// 用户不存在，与密码错误不可区分
	_, err = suite.service.Login(suite.ctx, &LoginRequest{
		Username: "nobody",
		Password: "whatever",
	})
	suite.True(errors.Is(err, errors.ErrAuthentication))
}

// TestAuthServiceTestSuite 运行测试套件
func TestAuthServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}
