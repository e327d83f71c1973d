package repository

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"github.com/rookgm/storefront/internal/models"
)

type userRecord struct {
	profile models.UserProfile
	hash    []byte
}

// UserRepository implements user storage
type UserRepository struct {
	db *DB
}

// NewUserRepository creates new UserRepository instance
func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

// CreateUser stores new user with password hash
func (ur *UserRepository) CreateUser(ctx context.Context, profile models.UserProfile, hash []byte) (*models.UserProfile, error) {
	ur.db.mu.Lock()
	defer ur.db.mu.Unlock()

	email := strings.ToLower(profile.Email)
	for _, rec := range ur.db.users {
		if strings.ToLower(rec.profile.Email) == email {
			return nil, models.ErrConflictData
		}
	}

	profile.ID = ur.db.nextID()
	ur.db.users[profile.ID] = userRecord{profile: profile, hash: hash}
	return &profile, nil
}

// GetUserByEmail returns user and password hash
func (ur *UserRepository) GetUserByEmail(ctx context.Context, email string) (*models.UserProfile, []byte, error) {
	ur.db.mu.RLock()
	defer ur.db.mu.RUnlock()

	email = strings.ToLower(email)
	for _, rec := range ur.db.users {
		if strings.ToLower(rec.profile.Email) == email {
			profile := rec.profile
			return &profile, rec.hash, nil
		}
	}
	return nil, nil, models.ErrDataNotFound
}

// GetUser returns user by id
func (ur *UserRepository) GetUser(ctx context.Context, id uint64) (*models.UserProfile, error) {
	ur.db.mu.RLock()
	defer ur.db.mu.RUnlock()

	rec, ok := ur.db.users[id]
	if !ok {
		return nil, models.ErrDataNotFound
	}
	profile := rec.profile
	return &profile, nil
}

// ListUsers returns page of users ordered by id
func (ur *UserRepository) ListUsers(ctx context.Context, q models.PageQuery) models.Page[models.UserProfile] {
	ur.db.mu.RLock()
	defer ur.db.mu.RUnlock()

	search := strings.ToLower(q.Search)
	users := make([]models.UserProfile, 0, len(ur.db.users))
	for _, rec := range ur.db.users {
		if search != "" &&
			!strings.Contains(strings.ToLower(rec.profile.Email), search) &&
			!strings.Contains(strings.ToLower(rec.profile.Name), search) {
			continue
		}
		users = append(users, rec.profile)
	}
	slices.SortFunc(users, func(a, b models.UserProfile) int {
		return cmp.Compare(a.ID, b.ID)
	})

	return paginate(users, q)
}

// UpdateUser applies set fields of patch
func (ur *UserRepository) UpdateUser(ctx context.Context, id uint64, patch models.UserPatch) (*models.UserProfile, error) {
	ur.db.mu.Lock()
	defer ur.db.mu.Unlock()

	rec, ok := ur.db.users[id]
	if !ok {
		return nil, models.ErrDataNotFound
	}
	if patch.Name != nil {
		rec.profile.Name = *patch.Name
	}
	if patch.Email != nil {
		for otherID, other := range ur.db.users {
			if otherID != id && strings.EqualFold(other.profile.Email, *patch.Email) {
				return nil, models.ErrConflictData
			}
		}
		rec.profile.Email = *patch.Email
	}
	if patch.Role != nil {
		rec.profile.Role = *patch.Role
	}
	ur.db.users[id] = rec

	profile := rec.profile
	return &profile, nil
}

// DeleteUser removes user
func (ur *UserRepository) DeleteUser(ctx context.Context, id uint64) error {
	ur.db.mu.Lock()
	defer ur.db.mu.Unlock()

	if _, ok := ur.db.users[id]; !ok {
		return models.ErrDataNotFound
	}
	delete(ur.db.users, id)
	return nil
}
