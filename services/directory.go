package services

import (
	"context"
	"errors"
	"fmt"

	"canteen-api/models"
	"canteen-api/repository"

	"github.com/rs/zerolog"
)

// Directory maps verified identities to application users.
type Directory struct {
	users repository.UserRepository
}

func NewDirectory(users repository.UserRepository) *Directory {
	return &Directory{users: users}
}

// LoginOrRegister returns the user for email, creating a plain `user` on first sight.
// The lookup and insert are not atomic; a lost race surfaces as ErrDuplicateUser.
func (d *Directory) LoginOrRegister(ctx context.Context, email, name string) (*models.User, error) {
	u, err := d.users.FindByEmail(ctx, email)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	u = &models.User{Email: email, Name: name, Role: models.RoleUser}
	if err := d.users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateUser, email)
		}
		return nil, err
	}
	zerolog.Ctx(ctx).Info().Uint("user_id", u.ID).Str("email", email).Msg("directory: registered new user")
	return u, nil
}
