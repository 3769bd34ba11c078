package services

import (
	"context"
	"testing"
	"time"

	"mall/internal/apperrors"
	"mall/internal/authz"
	"mall/internal/models"
	"mall/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newAuthServiceFixture(t *testing.T) (*AuthService, *repositories.MockUserRepository, *repositories.MockCodeStore) {
	t.Helper()
	users := repositories.NewMockUserRepository()
	codes := repositories.NewMockCodeStore()
	service := NewAuthService(users, codes, "test-secret", zap.NewNop())
	return service, users, codes
}

func TestSendCode(t *testing.T) {
	service, _, _ := newAuthServiceFixture(t)

	code, err := service.SendCode(context.Background(), "13800138000")
	require.NoError(t, err)
	assert.Len(t, code, 6)
}

func TestSendCodeEmptyPhone(t *testing.T) {
	service, _, _ := newAuthServiceFixture(t)

	_, err := service.SendCode(context.Background(), "")
	var verr *apperrors.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestRegister(t *testing.T) {
	service, _, _ := newAuthServiceFixture(t)
	ctx := context.Background()

	code, err := service.SendCode(ctx, "13800138000")
	require.NoError(t, err)

	user, err := service.Register(ctx, "13800138000", code, models.UserTypeCustomer, "alice", "")
	require.NoError(t, err)
	assert.Equal(t, "13800138000", user.Phone)
	assert.Equal(t, "alice", user.Nickname)
	assert.Equal(t, models.UserTypeCustomer, user.UserType)
	assert.Equal(t, models.UserStatusActive, user.Status)
	assert.NotZero(t, user.ID)
}

func TestRegisterDuplicatePhone(t *testing.T) {
	service, _, _ := newAuthServiceFixture(t)
	ctx := context.Background()

	code, err := service.SendCode(ctx, "13800138000")
	require.NoError(t, err)
	_, err = service.Register(ctx, "13800138000", code, 0, "alice", "")
	require.NoError(t, err)

	code, err = service.SendCode(ctx, "13800138000")
	require.NoError(t, err)
	_, err = service.Register(ctx, "13800138000", code, 0, "bob", "")
	var verr *apperrors.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestRegisterWrongCodeDoesNotRevealPhone(t *testing.T) {
	service, users, _ := newAuthServiceFixture(t)
	ctx := context.Background()

	require.NoError(t, users.Create(&models.User{
		Phone:    "13800138000",
		UserType: models.UserTypeCustomer,
		Status:   models.UserStatusActive,
	}))

	// Without a valid code the response is the same for registered and
	// unregistered numbers.
	_, errRegistered := service.Register(ctx, "13800138000", "123456", 0, "", "")
	_, errUnknown := service.Register(ctx, "13899999999", "123456", 0, "", "")
	require.Error(t, errRegistered)
	require.Error(t, errUnknown)
	assert.Equal(t, errUnknown.Error(), errRegistered.Error())
}

func TestRegisterDuplicateCreateIsValidationError(t *testing.T) {
	users := repositories.NewMockUserRepository()
	require.NoError(t, users.Create(&models.User{Phone: "13800138000", UserType: models.UserTypeCustomer, Status: models.UserStatusActive}))

	// The unique-index path a racing registration hits.
	err := users.Create(&models.User{Phone: "13800138000", UserType: models.UserTypeCustomer, Status: models.UserStatusActive})
	var verr *apperrors.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestRegisterWrongCode(t *testing.T) {
	service, _, _ := newAuthServiceFixture(t)
	ctx := context.Background()

	_, err := service.SendCode(ctx, "13800138000")
	require.NoError(t, err)

	_, err = service.Register(ctx, "13800138000", "000000x", 0, "alice", "")
	var verr *apperrors.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestLoginAutoRegisters(t *testing.T) {
	service, users, _ := newAuthServiceFixture(t)
	ctx := context.Background()

	code, err := service.SendCode(ctx, "13912345678")
	require.NoError(t, err)

	token, user, err := service.Login(ctx, "13912345678", code)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "user5678", user.Nickname)
	assert.Equal(t, models.UserTypeCustomer, user.UserType)

	stored, err := users.GetByPhone("13912345678")
	require.NoError(t, err)
	assert.Equal(t, user.ID, stored.ID)
}

func TestLoginCodeSingleUse(t *testing.T) {
	service, _, _ := newAuthServiceFixture(t)
	ctx := context.Background()

	code, err := service.SendCode(ctx, "13800138000")
	require.NoError(t, err)

	_, _, err = service.Login(ctx, "13800138000", code)
	require.NoError(t, err)

	_, _, err = service.Login(ctx, "13800138000", code)
	var verr *apperrors.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestLoginExpiredCode(t *testing.T) {
	service, _, codes := newAuthServiceFixture(t)
	service.codeTTL = -time.Second
	ctx := context.Background()

	code, err := service.SendCode(ctx, "13800138000")
	require.NoError(t, err)

	_, err = codes.Get(ctx, "13800138000")
	var nfErr *apperrors.NotFoundError
	require.ErrorAs(t, err, &nfErr)

	_, _, err = service.Login(ctx, "13800138000", code)
	var verr *apperrors.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestLoginDisabledAccount(t *testing.T) {
	service, users, _ := newAuthServiceFixture(t)
	ctx := context.Background()

	require.NoError(t, users.Create(&models.User{
		Phone:    "13800138000",
		UserType: models.UserTypeCustomer,
		Status:   models.UserStatusDisabled,
	}))

	code, err := service.SendCode(ctx, "13800138000")
	require.NoError(t, err)

	_, _, err = service.Login(ctx, "13800138000", code)
	var ferr *apperrors.ForbiddenError
	assert.ErrorAs(t, err, &ferr)
}

func TestValidateToken(t *testing.T) {
	service, _, _ := newAuthServiceFixture(t)
	ctx := context.Background()

	code, err := service.SendCode(ctx, "13800138000")
	require.NoError(t, err)
	token, user, err := service.Login(ctx, "13800138000", code)
	require.NoError(t, err)

	claims, err := service.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), claims["user_id"])
	assert.Equal(t, float64(user.UserType), claims["user_type"])
}

func TestValidateTokenBadSignature(t *testing.T) {
	service, _, _ := newAuthServiceFixture(t)
	other := NewAuthService(repositories.NewMockUserRepository(), repositories.NewMockCodeStore(), "other-secret", zap.NewNop())
	ctx := context.Background()

	code, err := other.SendCode(ctx, "13800138000")
	require.NoError(t, err)
	token, _, err := other.Login(ctx, "13800138000", code)
	require.NoError(t, err)

	_, err = service.ValidateToken(token)
	assert.Error(t, err)
}

func TestUpdateProfile(t *testing.T) {
	service, users, _ := newAuthServiceFixture(t)

	user := &models.User{Phone: "13800138000", UserType: models.UserTypeCustomer, Status: models.UserStatusActive}
	require.NoError(t, users.Create(user))

	updated, err := service.UpdateProfile(user.ID, "new-nick", "http://cdn/avatar.png", nil)
	require.NoError(t, err)
	assert.Equal(t, "new-nick", updated.Nickname)
	assert.Equal(t, "http://cdn/avatar.png", updated.Avatar)

	bad := 7
	_, err = service.UpdateProfile(user.ID, "", "", &bad)
	var verr *apperrors.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestListUsersAdminOnly(t *testing.T) {
	service, users, _ := newAuthServiceFixture(t)
	require.NoError(t, users.Create(&models.User{Phone: "1", UserType: models.UserTypeCustomer, Status: models.UserStatusActive}))

	_, _, err := service.ListUsers(authz.Actor{UserID: 1, UserType: models.UserTypeCustomer}, 1, 10)
	var ferr *apperrors.ForbiddenError
	assert.ErrorAs(t, err, &ferr)

	list, total, err := service.ListUsers(authz.Actor{UserID: 2, UserType: models.UserTypeAdmin}, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, list, 1)
}

func TestDeleteUserAdminOnly(t *testing.T) {
	service, users, _ := newAuthServiceFixture(t)
	user := &models.User{Phone: "1", UserType: models.UserTypeCustomer, Status: models.UserStatusActive}
	require.NoError(t, users.Create(user))

	err := service.DeleteUser(authz.Actor{UserID: 1, UserType: models.UserTypeCustomer}, user.ID)
	var ferr *apperrors.ForbiddenError
	assert.ErrorAs(t, err, &ferr)

	require.NoError(t, service.DeleteUser(authz.Actor{UserID: 2, UserType: models.UserTypeAdmin}, user.ID))
	_, err = users.GetByID(user.ID)
	assert.Error(t, err)
}
