package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"notes-api/internals/models"
)

// CreateUser inserts a new user and returns it with its generated id.
// Returns ErrEmailTaken if the email is already registered. The password
// is stored verbatim; hashing is deliberately absent from this contract.
func (s *Store) CreateUser(ctx context.Context, email, password string) (*models.User, error) {
	var exists int
	err := s.db.GetContext(ctx, &exists,
		"SELECT COUNT(*) FROM users WHERE email = ?", email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if exists > 0 {
		return nil, ErrEmailTaken
	}

	res, err := s.db.ExecContext(ctx,
		"INSERT INTO users (email, password) VALUES (?, ?)", email, password)
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("user id: %w", err)
	}
	return &models.User{Id: id, Email: email, Password: password}, nil
}

// UserByEmail looks up a user by its login key. Returns ErrNotFound if no
// user has that email.
func (s *Store) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.db.GetContext(ctx, &user,
		"SELECT id, email, password FROM users WHERE email = ?", email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select user: %w", err)
	}
	return &user, nil
}
