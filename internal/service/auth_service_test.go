package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"learnhub/internal/auth"
	"learnhub/internal/errors"
	"learnhub/internal/model"
)

func newAuthServiceForTest() (AuthService, *MockUserRepository, *MockTokenStore) {
	userRepo := new(MockUserRepository)
	tokenStore := new(MockTokenStore)
	jwtService := auth.NewJWTService("test-secret")
	return NewAuthService(userRepo, jwtService, tokenStore), userRepo, tokenStore
}

func hashedPassword(t *testing.T, plain string) string {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.MinCost)
	assert.NoError(t, err)
	return string(hashed)
}

func TestAuthService_Register(t *testing.T) {
	input := RegisterInput{
		Username:  "student5",
		Email:     "Student@Test.Local",
		Password:  "changeme123",
		FirstName: "Sam",
		LastName:  "Doe",
	}

	tests := []struct {
		name      string
		input     RegisterInput
		setupMock func(userRepo *MockUserRepository)
		wantKind  errors.Kind
	}{
		{
			name:  "registers with normalized email and default role",
			input: input,
			setupMock: func(userRepo *MockUserRepository) {
				userRepo.On("ExistsByEmail", mock.Anything, "student@test.local").Return(false, nil)
				userRepo.On("ExistsByUsername", mock.Anything, "student5").Return(false, nil)
				userRepo.On("Create", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
					return u.Email == "student@test.local" && u.Role == model.RoleStudent && u.Active
				})).Return(nil)
			},
		},
		{
			name:  "duplicate email rejected",
			input: input,
			setupMock: func(userRepo *MockUserRepository) {
				userRepo.On("ExistsByEmail", mock.Anything, "student@test.local").Return(true, nil)
			},
			wantKind: errors.KindDuplicate,
		},
		{
			name:  "duplicate username rejected",
			input: input,
			setupMock: func(userRepo *MockUserRepository) {
				userRepo.On("ExistsByEmail", mock.Anything, "student@test.local").Return(false, nil)
				userRepo.On("ExistsByUsername", mock.Anything, "student5").Return(true, nil)
			},
			wantKind: errors.KindDuplicate,
		},
		{
			name: "unknown role rejected",
			input: func() RegisterInput {
				in := input
				in.Role = model.Role("WIZARD")
				return in
			}(),
			setupMock: func(userRepo *MockUserRepository) {
				userRepo.On("ExistsByEmail", mock.Anything, "student@test.local").Return(false, nil)
				userRepo.On("ExistsByUsername", mock.Anything, "student5").Return(false, nil)
			},
			wantKind: errors.KindValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, userRepo, _ := newAuthServiceForTest()
			tt.setupMock(userRepo)

			user, err := svc.Register(context.Background(), tt.input)

			if tt.wantKind != "" {
				assert.Error(t, err)
				assert.True(t, errors.IsKind(err, tt.wantKind))
				assert.Nil(t, user)
			} else {
				assert.NoError(t, err)
				assert.NotEqual(t, "changeme123", user.Password)
			}
			userRepo.AssertExpectations(t)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	t.Run("returns both tokens and stores the refresh token", func(t *testing.T) {
		svc, userRepo, tokenStore := newAuthServiceForTest()
		user := studentUser(5)
		user.Password = hashedPassword(t, "changeme123")

		userRepo.On("FindByEmail", mock.Anything, "student@test.local").Return(user, nil)
		tokenStore.On("StoreRefreshToken", mock.Anything, mock.AnythingOfType("string"),
			uint(5), "student@test.local", auth.RefreshTokenExpiry).Return(nil)

		access, refresh, got, err := svc.Login(context.Background(), "Student@Test.Local", "changeme123")

		assert.NoError(t, err)
		assert.NotEmpty(t, access)
		assert.NotEmpty(t, refresh)
		assert.Equal(t, user, got)
		userRepo.AssertExpectations(t)
		tokenStore.AssertExpectations(t)
	})

	t.Run("wrong password", func(t *testing.T) {
		svc, userRepo, _ := newAuthServiceForTest()
		user := studentUser(5)
		user.Password = hashedPassword(t, "changeme123")

		userRepo.On("FindByEmail", mock.Anything, "student@test.local").Return(user, nil)

		_, _, _, err := svc.Login(context.Background(), "student@test.local", "wrong")

		assert.True(t, errors.IsKind(err, errors.KindAccessDenied))
		userRepo.AssertExpectations(t)
	})

	t.Run("unknown email gets the same error as a wrong password", func(t *testing.T) {
		svc, userRepo, _ := newAuthServiceForTest()
		userRepo.On("FindByEmail", mock.Anything, "ghost@test.local").Return(nil, gorm.ErrRecordNotFound)

		_, _, _, err := svc.Login(context.Background(), "ghost@test.local", "changeme123")

		assert.True(t, errors.IsKind(err, errors.KindAccessDenied))
		userRepo.AssertExpectations(t)
	})

	t.Run("inactive user cannot log in", func(t *testing.T) {
		svc, userRepo, _ := newAuthServiceForTest()
		user := studentUser(5)
		user.Password = hashedPassword(t, "changeme123")
		user.Active = false

		userRepo.On("FindByEmail", mock.Anything, "student@test.local").Return(user, nil)

		_, _, _, err := svc.Login(context.Background(), "student@test.local", "changeme123")

		assert.True(t, errors.IsKind(err, errors.KindInactive))
		userRepo.AssertExpectations(t)
	})
}

func TestAuthService_RefreshToken(t *testing.T) {
	jwtService := auth.NewJWTService("test-secret")

	mintRefresh := func(t *testing.T) (tokenID, token string) {
		t.Helper()
		tokenID, token, err := jwtService.GenerateRefreshToken(5, "student@test.local", string(model.RoleStudent))
		assert.NoError(t, err)
		return tokenID, token
	}

	t.Run("mints a fresh access token", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		tokenStore := new(MockTokenStore)
		svc := NewAuthService(userRepo, jwtService, tokenStore)
		tokenID, token := mintRefresh(t)

		tokenStore.On("GetRefreshToken", mock.Anything, tokenID).Return(uint(5), "student@test.local", nil)
		userRepo.On("FindByID", mock.Anything, uint(5)).Return(studentUser(5), nil)

		access, err := svc.RefreshToken(context.Background(), token)

		assert.NoError(t, err)
		assert.NotEmpty(t, access)
		userRepo.AssertExpectations(t)
		tokenStore.AssertExpectations(t)
	})

	t.Run("unknown token id rejected", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		tokenStore := new(MockTokenStore)
		svc := NewAuthService(userRepo, jwtService, tokenStore)
		tokenID, token := mintRefresh(t)

		tokenStore.On("GetRefreshToken", mock.Anything, tokenID).Return(uint(0), "", assert.AnError)

		_, err := svc.RefreshToken(context.Background(), token)

		assert.True(t, errors.IsKind(err, errors.KindAccessDenied))
		tokenStore.AssertExpectations(t)
	})

	t.Run("deactivated user cannot refresh", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		tokenStore := new(MockTokenStore)
		svc := NewAuthService(userRepo, jwtService, tokenStore)
		tokenID, token := mintRefresh(t)
		inactive := studentUser(5)
		inactive.Active = false

		tokenStore.On("GetRefreshToken", mock.Anything, tokenID).Return(uint(5), "student@test.local", nil)
		userRepo.On("FindByID", mock.Anything, uint(5)).Return(inactive, nil)

		_, err := svc.RefreshToken(context.Background(), token)

		assert.True(t, errors.IsKind(err, errors.KindAccessDenied))
		userRepo.AssertExpectations(t)
		tokenStore.AssertExpectations(t)
	})

	t.Run("garbage token rejected", func(t *testing.T) {
		svc, _, _ := newAuthServiceForTest()

		_, err := svc.RefreshToken(context.Background(), "not-a-token")

		assert.True(t, errors.IsKind(err, errors.KindAccessDenied))
	})
}

func TestAuthService_Logout(t *testing.T) {
	jwtService := auth.NewJWTService("test-secret")
	userRepo := new(MockUserRepository)
	tokenStore := new(MockTokenStore)
	svc := NewAuthService(userRepo, jwtService, tokenStore)

	tokenID, token, err := jwtService.GenerateRefreshToken(5, "student@test.local", string(model.RoleStudent))
	assert.NoError(t, err)

	tokenStore.On("DeleteRefreshToken", mock.Anything, tokenID).Return(nil)

	assert.NoError(t, svc.Logout(context.Background(), token))
	assert.Error(t, svc.Logout(context.Background(), "not-a-token"))
	tokenStore.AssertExpectations(t)
}
