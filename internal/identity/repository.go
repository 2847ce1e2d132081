package identity

import "context"

// Repository is the user storage contract. Create returns
// common.ErrorAlreadyExists for a duplicate email; the getters return
// common.ErrorNotFound when no user matches.
type Repository interface {
	Create(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
}
