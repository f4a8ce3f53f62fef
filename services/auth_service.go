package services

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/techagentng/wefixsa/config"
	"github.com/techagentng/wefixsa/db"
	apiError "github.com/techagentng/wefixsa/errors"
	"github.com/techagentng/wefixsa/models"
	"github.com/techagentng/wefixsa/services/jwt"
	"github.com/techagentng/wefixsa/services/utils"
)

// AuthService interface
type AuthService interface {
	SignupCitizen(ctx context.Context, request *models.SignupRequest) (*models.User, error)
	Login(ctx context.Context, request *models.LoginRequest) (*models.User, error)
	IssueToken(user *models.User) (*models.LoginResponse, error)
	FindUser(ctx context.Context, username, userType string) (*models.User, error)
	UpdateCitizen(ctx context.Context, username string, update *models.ProfileUpdate) (*models.User, error)
	GetCitizens(ctx context.Context) ([]models.User, error)
	StartSession(ctx context.Context, user *models.User) error
	CurrentSession(ctx context.Context) (*models.User, error)
	EndSession(ctx context.Context) error
	RevokeToken(ctx context.Context, token string, expiresAt time.Time) error
	IsTokenRevoked(ctx context.Context, token string) (bool, error)
}

// authService struct
type authService struct {
	Config   *config.Config
	userRepo db.UserRepository

	// mu guards read-modify-write of the citizen registry and the token blacklist
	mu sync.Mutex
}

// NewAuthService instantiate an authService
func NewAuthService(userRepo db.UserRepository, conf *config.Config) AuthService {
	return &authService{
		Config:   conf,
		userRepo: userRepo,
	}
}

func (a *authService) admin() *models.User {
	return &models.User{
		Type:     models.UserTypeAdmin,
		Username: a.Config.AdminUsername,
		Name:     a.Config.AdminName,
		Email:    a.Config.AdminEmail,
	}
}

func (a *authService) SignupCitizen(ctx context.Context, request *models.SignupRequest) (*models.User, error) {
	if request.Type == models.UserTypeAdmin {
		return nil, apiError.ErrAdminSignup
	}
	if err := models.ValidatePassword(request.Password); err != nil {
		return nil, apiError.New(err.Error(), http.StatusBadRequest)
	}
	if strings.EqualFold(request.Username, a.Config.AdminUsername) {
		return nil, apiError.ErrUsernameTaken
	}

	hashedPassword, err := utils.HashPassword(request.Password)
	if err != nil {
		zap.S().Errorw("error hashing password", "error", err)
		return nil, apiError.ErrInternalServerError
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	citizens, err := a.userRepo.GetCitizens(ctx)
	if err != nil {
		zap.S().Errorw("error reading citizens", "error", err)
		return nil, apiError.ErrInternalServerError
	}
	for _, c := range citizens {
		if c.Username == request.Username {
			return nil, apiError.ErrUsernameTaken
		}
	}

	user := models.User{
		Type:     models.UserTypeCitizen,
		Username: request.Username,
		Password: hashedPassword,
		Name:     request.Name,
		Email:    request.Email,
		Phone:    request.Phone,
	}
	if err := a.userRepo.SaveCitizens(ctx, append(citizens, user)); err != nil {
		zap.S().Errorw("error saving citizens", "error", err)
		return nil, apiError.ErrInternalServerError
	}

	zap.S().Infow("citizen signed up", "username", user.Username)
	return user.Public(), nil
}

// Login checks the admin credentials from config, then the citizen registry
func (a *authService) Login(ctx context.Context, request *models.LoginRequest) (*models.User, error) {
	if request.Type != models.UserTypeCitizen &&
		request.Username == a.Config.AdminUsername && request.Password == a.Config.AdminPassword {
		return a.admin(), nil
	}
	if request.Type == models.UserTypeAdmin {
		return nil, apiError.ErrInvalidCredentials
	}

	citizen, err := a.findCitizen(ctx, request.Username)
	if err != nil {
		return nil, err
	}
	if citizen == nil || !utils.CheckPasswordHash(request.Password, citizen.Password) {
		return nil, apiError.ErrInvalidCredentials
	}
	return citizen.Public(), nil
}

func (a *authService) IssueToken(user *models.User) (*models.LoginResponse, error) {
	accessToken, err := jwt.GenerateToken(user.Username, user.Type, a.Config.JWTSecret, a.Config.TokenTTL)
	if err != nil {
		zap.S().Errorw("error generating token", "error", err)
		return nil, apiError.ErrInternalServerError
	}
	return &models.LoginResponse{User: user.Public(), AccessToken: accessToken}, nil
}

// FindUser resolves the user a token was issued to
func (a *authService) FindUser(ctx context.Context, username, userType string) (*models.User, error) {
	if userType == models.UserTypeAdmin {
		if username != a.Config.AdminUsername {
			return nil, apiError.ErrUnauthorized
		}
		return a.admin(), nil
	}
	citizen, err := a.findCitizen(ctx, username)
	if err != nil {
		return nil, err
	}
	if citizen == nil {
		return nil, apiError.ErrUnauthorized
	}
	return citizen.Public(), nil
}

func (a *authService) UpdateCitizen(ctx context.Context, username string, update *models.ProfileUpdate) (*models.User, error) {
	utils.TrimPtr(update.Name)
	utils.TrimPtr(update.Email)
	utils.TrimPtr(update.Phone)

	a.mu.Lock()
	defer a.mu.Unlock()

	citizens, err := a.userRepo.GetCitizens(ctx)
	if err != nil {
		zap.S().Errorw("error reading citizens", "error", err)
		return nil, apiError.ErrInternalServerError
	}

	for i := range citizens {
		if citizens[i].Username != username {
			continue
		}
		if update.Name != nil {
			citizens[i].Name = *update.Name
		}
		if update.Email != nil {
			citizens[i].Email = strings.ToLower(*update.Email)
		}
		if update.Phone != nil {
			citizens[i].Phone = *update.Phone
		}
		if err := a.userRepo.SaveCitizens(ctx, citizens); err != nil {
			zap.S().Errorw("error saving citizens", "error", err)
			return nil, apiError.ErrInternalServerError
		}
		return citizens[i].Public(), nil
	}
	return nil, apiError.ErrNotFound
}

func (a *authService) GetCitizens(ctx context.Context) ([]models.User, error) {
	citizens, err := a.userRepo.GetCitizens(ctx)
	if err != nil {
		return nil, err
	}
	public := make([]models.User, 0, len(citizens))
	for _, c := range citizens {
		public = append(public, *c.Public())
	}
	return public, nil
}

func (a *authService) StartSession(ctx context.Context, user *models.User) error {
	return a.userRepo.SaveSessionUser(ctx, user)
}

// CurrentSession returns nil when nobody is logged in on this device
func (a *authService) CurrentSession(ctx context.Context) (*models.User, error) {
	return a.userRepo.GetSessionUser(ctx)
}

func (a *authService) EndSession(ctx context.Context) error {
	return a.userRepo.DeleteSessionUser(ctx)
}

func (a *authService) RevokeToken(ctx context.Context, token string, expiresAt time.Time) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.userRepo.AddTokenToBlacklist(ctx, token, expiresAt)
}

func (a *authService) IsTokenRevoked(ctx context.Context, token string) (bool, error) {
	return a.userRepo.IsTokenInBlacklist(ctx, token)
}

func (a *authService) findCitizen(ctx context.Context, username string) (*models.User, error) {
	citizens, err := a.userRepo.GetCitizens(ctx)
	if err != nil {
		zap.S().Errorw("error reading citizens", "error", err)
		return nil, apiError.ErrInternalServerError
	}
	for i := range citizens {
		if citizens[i].Username == username {
			return &citizens[i], nil
		}
	}
	return nil, nil
}
