package models

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

type User struct {
	Base
	Name             string  `json:"name"`
	Contact          string  `json:"contact"`
	Username         string  `json:"username"`
	Email            string  `json:"email"`
	PasswordHash     string  `json:"-"`
	IsAdmin          bool    `json:"is_admin"`
	PasswordOTP      *string `json:"-"`
	PasswordVerified *bool   `json:"-"`
}

type PublicUser struct {
	Base
	Name     string `json:"name"`
	Contact  string `json:"contact"`
	Username string `json:"username"`
	Email    string `json:"email"`
	IsAdmin  bool   `json:"is_admin"`
}

func (u *User) ToPublic() PublicUser {
	return PublicUser{
		Base:     u.Base,
		Name:     u.Name,
		Contact:  u.Contact,
		Username: u.Username,
		Email:    u.Email,
		IsAdmin:  u.IsAdmin,
	}
}

// Role returns the role name used by the admin guard.
func (u *User) Role() string {
	if u.IsAdmin {
		return RoleAdmin
	}
	return RoleUser
}

type RegisterInput struct {
	Name     string `json:"name" validate:"required,max=255"`
	Contact  string `json:"contact" validate:"required,max=255"`
	Username string `json:"username" validate:"required,alphanum,max=255"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UserPatch is applied field by field; Password is hashed before storing.
type UserPatch struct {
	Name     *string `json:"name" validate:"omitempty,max=255"`
	Contact  *string `json:"contact" validate:"omitempty,max=255"`
	Username *string `json:"username" validate:"omitempty,alphanum,max=255"`
	Email    *string `json:"email" validate:"omitempty,email,max=255"`
	Password *string `json:"password" validate:"omitempty,min=8,max=72"`
	IsAdmin  *bool   `json:"is_admin"`
}

type Role struct {
	Base
	RoleName string `json:"role_name"`
}

type RoleInput struct {
	RoleName string `json:"role_name" validate:"required,oneof=admin user"`
}
