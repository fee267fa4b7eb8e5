package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	intdb "horizontravels/internal/db"
	"horizontravels/internal/domain"
	"horizontravels/internal/domain/models"
	"horizontravels/internal/repositories"
	"horizontravels/internal/utils"

	"golang.org/x/crypto/bcrypt"
)

// AdminUserInput is RegisterInput plus the admin flag.
type AdminUserInput struct {
	models.RegisterInput
	IsAdmin bool `json:"is_admin"`
}

type UserService struct {
	DB        *sql.DB
	RequestID string
}

func (s UserService) List(ctx context.Context, p domain.Pagination) (domain.Page[models.PublicUser], error) {
	users, total, err := repositories.UserRepository{DB: s.DB}.List(ctx, p)
	if err != nil {
		return domain.Page[models.PublicUser]{}, err
	}
	out := make([]models.PublicUser, 0, len(users))
	for i := range users {
		out = append(out, users[i].ToPublic())
	}
	return domain.NewPage(out, p, total), nil
}

func (s UserService) Get(ctx context.Context, id int64) (models.PublicUser, error) {
	u, err := repositories.UserRepository{DB: s.DB}.GetByID(ctx, id)
	if err != nil {
		return models.PublicUser{}, err
	}
	return u.ToPublic(), nil
}

func (s UserService) Create(ctx context.Context, in AdminUserInput) (models.PublicUser, error) {
	return createUser(ctx, s.DB, s.RequestID, in.RegisterInput, in.IsAdmin)
}

func (s UserService) Patch(ctx context.Context, id int64, p models.UserPatch) (models.PublicUser, error) {
	if p.Email != nil {
		e := strings.ToLower(strings.TrimSpace(*p.Email))
		p.Email = &e
	}
	if err := validateInput(p); err != nil {
		return models.PublicUser{}, err
	}
	hash := ""
	if p.Password != nil {
		b, err := bcrypt.GenerateFromPassword([]byte(*p.Password), bcrypt.DefaultCost)
		if err != nil {
			return models.PublicUser{}, domain.InternalError{Msg: "could not hash password", Err: err}
		}
		hash = string(b)
	}
	var out models.User
	err := intdb.WithinTx(ctx, s.DB, func(tx *sql.Tx) error {
		repo := repositories.UserRepository{DB: tx}
		if _, err := repo.GetByID(ctx, id); err != nil {
			return err
		}
		if err := repo.Update(ctx, id, p, hash); err != nil {
			return err
		}
		var err error
		out, err = repo.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return models.PublicUser{}, err
	}
	utils.LogEvent(s.RequestID, "users", "patch", fmt.Sprintf("user_id=%d", id))
	return out.ToPublic(), nil
}

func (s UserService) Delete(ctx context.Context, id int64) error {
	return intdb.WithinTx(ctx, s.DB, func(tx *sql.Tx) error {
		return repositories.UserRepository{DB: tx}.SoftDelete(ctx, id)
	})
}

type RoleService struct {
	DB *sql.DB
}

func (s RoleService) List(ctx context.Context, p domain.Pagination) (domain.Page[models.Role], error) {
	items, total, err := repositories.RoleRepository{DB: s.DB}.List(ctx, p)
	if err != nil {
		return domain.Page[models.Role]{}, err
	}
	return domain.NewPage(items, p, total), nil
}

func (s RoleService) Get(ctx context.Context, id int64) (models.Role, error) {
	return repositories.RoleRepository{DB: s.DB}.GetByID(ctx, id)
}

func (s RoleService) Create(ctx context.Context, in models.RoleInput) (models.Role, error) {
	in.RoleName = strings.ToLower(strings.TrimSpace(in.RoleName))
	if err := validateInput(in); err != nil {
		return models.Role{}, err
	}
	var out models.Role
	err := intdb.WithinTx(ctx, s.DB, func(tx *sql.Tx) error {
		repo := repositories.RoleRepository{DB: tx}
		id, err := repo.Create(ctx, in)
		if err != nil {
			return err
		}
		out, err = repo.GetByID(ctx, id)
		return err
	})
	return out, err
}

func (s RoleService) Update(ctx context.Context, id int64, in models.RoleInput) (models.Role, error) {
	in.RoleName = strings.ToLower(strings.TrimSpace(in.RoleName))
	if err := validateInput(in); err != nil {
		return models.Role{}, err
	}
	var out models.Role
	err := intdb.WithinTx(ctx, s.DB, func(tx *sql.Tx) error {
		repo := repositories.RoleRepository{DB: tx}
		if _, err := repo.GetByID(ctx, id); err != nil {
			return err
		}
		if err := repo.Rename(ctx, id, in); err != nil {
			return err
		}
		var err error
		out, err = repo.GetByID(ctx, id)
		return err
	})
	return out, err
}

func (s RoleService) Delete(ctx context.Context, id int64) error {
	return intdb.WithinTx(ctx, s.DB, func(tx *sql.Tx) error {
		return repositories.RoleRepository{DB: tx}.SoftDelete(ctx, id)
	})
}
