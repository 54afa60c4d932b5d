package repository

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/vfg2006/boutique-manager-api/internal/domain"
)

type UserRepository interface {
	CreateUser(ctx context.Context, user *domain.User) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)
	UpdatePassword(ctx context.Context, userID string, passwordHash string) error
}

type userRepository struct {
	store EntityStore
}

func NewUserRepository(store EntityStore) UserRepository {
	return &userRepository{
		store: store,
	}
}

func (r *userRepository) CreateUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	record, err := encodeRecord(user)
	if err != nil {
		return nil, err
	}
	delete(record, "id")

	id, err := r.store.Create(ctx, UsersCollection, record)
	if err != nil {
		return nil, err
	}

	user.ID = id
	return user, nil
}

// GetUserByEmail percorre a coleção de usuários, que é pequena
func (r *userRepository) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	records, err := r.store.ListAll(ctx, UsersCollection)
	if err != nil {
		return nil, err
	}

	for _, record := range records {
		var user domain.User
		if err := decodeRecord(record, &user); err != nil {
			return nil, err
		}

		if strings.EqualFold(user.Email, email) {
			return &user, nil
		}
	}

	return nil, nil
}

func (r *userRepository) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	record, err := r.store.Get(ctx, UsersCollection, userID)
	if errors.Is(err, ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var user domain.User
	if err := decodeRecord(record, &user); err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *userRepository) UpdatePassword(ctx context.Context, userID string, passwordHash string) error {
	return r.store.UpdatePartial(ctx, UsersCollection, userID, Record{"password_hash": passwordHash})
}
