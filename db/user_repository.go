package db

import (
	"context"
	"time"

	"github.com/techagentng/wefixsa/models"
)

type UserRepository interface {
	GetCitizens(ctx context.Context) ([]models.User, error)
	SaveCitizens(ctx context.Context, citizens []models.User) error
	SaveSessionUser(ctx context.Context, user *models.User) error
	GetSessionUser(ctx context.Context) (*models.User, error)
	DeleteSessionUser(ctx context.Context) error
	AddTokenToBlacklist(ctx context.Context, token string, expiresAt time.Time) error
	IsTokenInBlacklist(ctx context.Context, token string) (bool, error)
}

type userRepo struct {
	kv KeyValueStore
}

func NewUserRepo(kv KeyValueStore) UserRepository {
	return &userRepo{kv: kv}
}

func (u *userRepo) GetCitizens(ctx context.Context) ([]models.User, error) {
	citizens := []models.User{}
	if err := getJSON(ctx, u.kv, CitizensKey, &citizens); err != nil {
		return nil, err
	}
	return citizens, nil
}

func (u *userRepo) SaveCitizens(ctx context.Context, citizens []models.User) error {
	if citizens == nil {
		citizens = []models.User{}
	}
	return setJSON(ctx, u.kv, CitizensKey, citizens)
}

func (u *userRepo) SaveSessionUser(ctx context.Context, user *models.User) error {
	return setJSON(ctx, u.kv, SessionUserKey, user.Public())
}

// GetSessionUser returns nil when nobody is logged in
func (u *userRepo) GetSessionUser(ctx context.Context) (*models.User, error) {
	var user *models.User
	if err := getJSON(ctx, u.kv, SessionUserKey, &user); err != nil {
		return nil, err
	}
	return user, nil
}

func (u *userRepo) DeleteSessionUser(ctx context.Context) error {
	return u.kv.Delete(ctx, SessionUserKey)
}

// AddTokenToBlacklist records token until expiresAt and drops entries that already expired
func (u *userRepo) AddTokenToBlacklist(ctx context.Context, token string, expiresAt time.Time) error {
	blacklist, err := u.blacklist(ctx)
	if err != nil {
		return err
	}
	now := time.Now().Unix()
	for t, exp := range blacklist {
		if exp < now {
			delete(blacklist, t)
		}
	}
	blacklist[token] = expiresAt.Unix()
	return setJSON(ctx, u.kv, TokenBlacklistKey, blacklist)
}

func (u *userRepo) IsTokenInBlacklist(ctx context.Context, token string) (bool, error) {
	blacklist, err := u.blacklist(ctx)
	if err != nil {
		return false, err
	}
	_, ok := blacklist[token]
	return ok, nil
}

func (u *userRepo) blacklist(ctx context.Context) (map[string]int64, error) {
	blacklist := map[string]int64{}
	if err := getJSON(ctx, u.kv, TokenBlacklistKey, &blacklist); err != nil {
		return nil, err
	}
	return blacklist, nil
}
