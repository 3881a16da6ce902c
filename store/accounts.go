package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"
	"golang.org/x/crypto/bcrypt"
)

// account is the stored form of a user, including credentials.
type account struct {
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
}

func (a account) user() User {
	return User{ID: a.ID, Email: a.Email}
}

func validatePassword(password string) error {
	if len(strings.TrimSpace(password)) < MinPasswordLength {
		return ErrWeakPassword
	}

	return nil
}

func validEmail(email string) bool {
	at := strings.Index(email, "@")

	return at > 0 && at < len(email)-1 && !strings.ContainsAny(email, " \t")
}

func hashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	return string(b), nil
}

// CreateUser registers a new account.
func (b *Bolt) CreateUser(
	ctx context.Context,
	email, password string,
) (User, error) {
	email = NormalizeEmail(email)
	if !validEmail(email) {
		return User{}, ErrInvalidEmail
	}

	if err := validatePassword(password); err != nil {
		return User{}, err
	}

	hash, err := hashPassword(password)
	if err != nil {
		return User{}, err
	}

	now := b.now().UTC()

	a := account{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = b.update(ctx, func(tx *bolt.Tx) error {
		index := tx.Bucket([]byte(usersByEmail))
		if index.Get([]byte(email)) != nil {
			return ErrEmailTaken
		}

		if err := putJSON(tx, usersBucket, a.ID, a); err != nil {
			return err
		}

		return index.Put([]byte(email), []byte(a.ID))
	})
	if err != nil {
		return User{}, err
	}

	return a.user(), nil
}

// Authenticate verifies the credentials and returns the matching user.
func (b *Bolt) Authenticate(
	ctx context.Context,
	email, password string,
) (User, error) {
	email = NormalizeEmail(email)

	var a account

	err := b.view(ctx, func(tx *bolt.Tx) error {
		id := tx.Bucket([]byte(usersByEmail)).Get([]byte(email))
		if id == nil {
			return ErrInvalidCredentials
		}

		var err error

		a, err = getJSON[account](tx, usersBucket, string(id))
		if errors.Is(err, ErrNotFound) {
			return ErrInvalidCredentials
		}

		return err
	})
	if err != nil {
		return User{}, err
	}

	err = bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password))
	if err != nil {
		return User{}, ErrInvalidCredentials
	}

	return a.user(), nil
}

// GetUser retrieves an account by id.
func (b *Bolt) GetUser(ctx context.Context, id string) (User, error) {
	var a account

	err := b.view(ctx, func(tx *bolt.Tx) error {
		var err error

		a, err = getJSON[account](tx, usersBucket, id)

		return err
	})
	if err != nil {
		return User{}, err
	}

	return a.user(), nil
}

// SetPassword replaces the password of an account.
func (b *Bolt) SetPassword(ctx context.Context, id, password string) error {
	if err := validatePassword(password); err != nil {
		return err
	}

	hash, err := hashPassword(password)
	if err != nil {
		return err
	}

	return b.update(ctx, func(tx *bolt.Tx) error {
		a, err := getJSON[account](tx, usersBucket, id)
		if err != nil {
			return err
		}

		a.PasswordHash = hash
		a.UpdatedAt = b.now().UTC()

		return putJSON(tx, usersBucket, id, a)
	})
}
