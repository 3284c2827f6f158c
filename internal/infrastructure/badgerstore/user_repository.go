package badgerstore

import (
	"context"
	"fmt"
	"strings"

	"github.com/dgraph-io/badger/v4"

	"github.com/jhoicas/campus-store/internal/domain"
	"github.com/jhoicas/campus-store/internal/domain/entity"
	"github.com/jhoicas/campus-store/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

const (
	userPrefix      = "user/"
	userEmailPrefix = "idx/user_email/"
)

func userKey(id string) []byte { return []byte(userPrefix + id) }
func userEmailKey(email string) []byte {
	return []byte(userEmailPrefix + strings.ToLower(strings.TrimSpace(email)))
}

// UserRepo usuarios con índice único por email.
type UserRepo struct {
	q querier
}

// NewUserRepository construye el repositorio de usuarios.
func NewUserRepository(db *DB) *UserRepo {
	return &UserRepo{q: dbQuerier{db: db.db}}
}

// Create persiste el usuario. ErrEmailAlreadyExists si el email ya está registrado.
func (r *UserRepo) Create(_ context.Context, user *entity.User) error {
	return r.q.update(func(txn *badger.Txn) error {
		found, err := exists(txn, userEmailKey(user.Email))
		if err != nil {
			return fmt.Errorf("insert user: %w", err)
		}
		if found {
			return domain.ErrEmailAlreadyExists
		}
		if err := setJSON(txn, userKey(user.ID), user); err != nil {
			return fmt.Errorf("insert user: %w", err)
		}
		return txn.Set(userEmailKey(user.Email), []byte(user.ID))
	})
}

// GetByID obtiene un usuario; (nil, nil) si no existe.
func (r *UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	var out *entity.User
	err := r.q.view(func(txn *badger.Txn) error {
		var err error
		out, err = loadUser(txn, id)
		return err
	})
	return out, err
}

// GetByEmail obtiene un usuario por email (sin distinguir mayúsculas); (nil, nil) si no existe.
func (r *UserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	var out *entity.User
	err := r.q.view(func(txn *badger.Txn) error {
		id, err := getRef(txn, userEmailKey(email))
		if err != nil {
			return fmt.Errorf("get user by email: %w", err)
		}
		if id == "" {
			return nil
		}
		out, err = loadUser(txn, id)
		return err
	})
	return out, err
}

func loadUser(txn *badger.Txn, id string) (*entity.User, error) {
	var u entity.User
	found, err := getJSON(txn, userKey(id), &u)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if !found {
		return nil, nil
	}
	return &u, nil
}
