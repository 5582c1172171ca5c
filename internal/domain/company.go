package domain

import (
	"bytes"
	"encoding/json"
)

// Company компания работодателя
type Company struct {
	ID          ID             `json:"id"`
	Name        string         `json:"name"`
	Logo        string         `json:"logo,omitempty"`
	Description string         `json:"description,omitempty"`
	Industry    string         `json:"industry,omitempty"`
	Location    string         `json:"location,omitempty"`
	Website     string         `json:"website,omitempty"`
	Email       string         `json:"email,omitempty"`
	Phone       string         `json:"phone,omitempty"`
	Size        string         `json:"size,omitempty"`
	IsVerified  bool           `json:"is_verified,omitempty"`
	Benefits    []Benefit      `json:"benefits,omitempty"`
	Images      []CompanyImage `json:"images,omitempty"`
	JobCount    int            `json:"job_count,omitempty"`
}

// Benefit льгота компании
type Benefit struct {
	ID          ID     `json:"id,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Icon        string `json:"icon,omitempty"`
}

// CompanyImage изображение компании
type CompanyImage struct {
	ID           ID     `json:"id,omitempty"`
	Image        string `json:"image"`
	Caption      string `json:"caption,omitempty"`
	DisplayOrder int    `json:"display_order,omitempty"`
}

// TeamMember участник команды компании
type TeamMember struct {
	ID        ID     `json:"id"`
	UserEmail string `json:"user_email"`
	UserName  string `json:"user_name,omitempty"`
	Role      string `json:"role"`
	IsActive  bool   `json:"is_active"`
}

// Invitation приглашение в команду
type Invitation struct {
	ID            ID     `json:"id"`
	CompanyName   string `json:"company_name,omitempty"`
	Email         string `json:"email"`
	Role          string `json:"role"`
	InvitedByName string `json:"invited_by_name,omitempty"`
	IsAccepted    bool   `json:"is_accepted"`
	ExpiresAt     string `json:"expires_at,omitempty"`
}

// CompanyRef ссылка на компанию внутри вакансии: объект или только идентификатор
type CompanyRef struct {
	ID   ID     `json:"id"`
	Name string `json:"name,omitempty"`
	Logo string `json:"logo,omitempty"`
}

// UnmarshalJSON принимает вложенный объект компании или ее идентификатор
func (c *CompanyRef) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '{' {
		type plain CompanyRef
		var p plain
		if err := json.Unmarshal(b, &p); err != nil {
			return err
		}
		*c = CompanyRef(p)
		return nil
	}
	return c.ID.UnmarshalJSON(b)
}
