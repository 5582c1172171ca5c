package domain

// User пользователь платформы
type User struct {
	ID            ID     `json:"id"`
	Email         string `json:"email"`
	Username      string `json:"username,omitempty"`
	FirstName     string `json:"first_name,omitempty"`
	LastName      string `json:"last_name,omitempty"`
	IsEmployer    bool   `json:"is_employer"`
	EmailVerified bool   `json:"email_verified,omitempty"`
	UserType      string `json:"user_type,omitempty"`
	IsStaff       bool   `json:"is_staff,omitempty"`
	IsSuperuser   bool   `json:"is_superuser,omitempty"`
	Phone         string `json:"phone,omitempty"`
	CreatedAt     string `json:"created_at,omitempty"`
}

// Role роль пользователя для маршрутизации
type Role string

const (
	RoleJobseeker  Role = "jobseeker"
	RoleEmployer   Role = "employer"
	RoleSuperAdmin Role = "super_admin"
)

// IsSuperAdmin определяет супер-администратора только по флагам роли
func (u *User) IsSuperAdmin() bool {
	if u == nil {
		return false
	}
	return u.UserType == string(RoleSuperAdmin) || (u.IsStaff && u.IsSuperuser)
}

// Role возвращает роль пользователя
func (u *User) Role() Role {
	switch {
	case u == nil:
		return RoleJobseeker
	case u.IsSuperAdmin():
		return RoleSuperAdmin
	case u.IsEmployer:
		return RoleEmployer
	default:
		return RoleJobseeker
	}
}

// FullName возвращает имя и фамилию или email
func (u *User) FullName() string {
	if u == nil {
		return ""
	}
	name := u.FirstName
	if u.LastName != "" {
		if name != "" {
			name += " "
		}
		name += u.LastName
	}
	if name == "" {
		return u.Email
	}
	return name
}

// AuthResponse ответ на вход и регистрацию
type AuthResponse struct {
	User      *User    `json:"user"`
	Access    string   `json:"access"`
	Refresh   string   `json:"refresh"`
	ProfileID ID       `json:"profile_id,omitempty"`
	Profile   *Profile `json:"profile,omitempty"`
}

// RegisterRequest данные регистрации
type RegisterRequest struct {
	Email      string `json:"email"`
	Username   string `json:"username,omitempty"`
	Password   string `json:"password"`
	Password2  string `json:"password2"`
	FirstName  string `json:"first_name,omitempty"`
	LastName   string `json:"last_name,omitempty"`
	IsEmployer bool   `json:"is_employer"`
}
