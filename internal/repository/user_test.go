package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/wfunc/char-sheet/internal/models"
	"gorm.io/gorm"
)

// UserRepositoryTestSuite 用户仓储测试套件
type UserRepositoryTestSuite struct {
	suite.Suite
	db   *gorm.DB
	repo UserRepository
	ctx  context.Context
}

// SetupTest 每个测试前执行
func (suite *UserRepositoryTestSuite) SetupTest() {
	suite.db = SetupTestDB()
	suite.repo = NewUserRepository(suite.db)
	suite.ctx = context.Background()
}

// TearDownTest 每个测试后执行
func (suite *UserRepositoryTestSuite) TearDownTest() {
	CleanupTestDB(suite.db)
}

// TestCreate 测试创建用户
func (suite *UserRepositoryTestSuite) TestCreate() {
	user := &models.User{
		Username: "alice",
		Password: "hashed-password",
	}

	err := suite.repo.Create(suite.ctx, user)
	suite.NoError(err)
	suite.NotZero(user.ID)
}

// TestFindByID 测试按ID查找
func (suite *UserRepositoryTestSuite) TestFindByID() {
	user := &models.User{Username: "bob", Password: "hash"}
	suite.NoError(suite.repo.Create(suite.ctx, user))

	found, err := suite.repo.FindByID(suite.ctx, user.ID)
	suite.NoError(err)
	suite.Equal("bob", found.Username)

	_, err = suite.repo.FindByID(suite.ctx, 9999)
	suite.ErrorIs(err, ErrUserNotFound)
}

// TestFindByUsername 测试按用户名查找
func (suite *UserRepositoryTestSuite) TestFindByUsername() {
	user := &models.User{Username: "carol", Password: "hash"}
	suite.NoError(suite.repo.Create(suite.ctx, user))

	found, err := suite.repo.FindByUsername(suite.ctx, "carol")
	suite.NoError(err)
	suite.Equal(user.ID, found.ID)

	_, err = suite.repo.FindByUsername(suite.ctx, "missing")
	suite.ErrorIs(err, ErrUserNotFound)
}

// TestExistsByUsername 测试用户名占用检查
func (suite *UserRepositoryTestSuite) TestExistsByUsername() {
	exists, err := suite.repo.ExistsByUsername(suite.ctx, "dave")
	suite.NoError(err)
	suite.False(exists)

	suite.NoError(suite.repo.Create(suite.ctx, &models.User{Username: "dave", Password: "hash"}))

	exists, err = suite.repo.ExistsByUsername(suite.ctx, "dave")
	suite.NoError(err)
	suite.True(exists)
}

// TestDelete 测试软删除
func (suite *UserRepositoryTestSuite) TestDelete() {
	user := &models.User{Username: "erin", Password: "hash"}
	suite.NoError(suite.repo.Create(suite.ctx, user))

	suite.NoError(suite.repo.Delete(suite.ctx, user.ID))

	_, err := suite.repo.FindByID(suite.ctx, user.ID)
	suite.ErrorIs(err, ErrUserNotFound)
}

// TestUserRepositoryTestSuite 运行测试套件
func TestUserRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(UserRepositoryTestSuite))
}
