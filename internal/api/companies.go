package api

import (
	"context"
	"io"
	"net/http"
	"net/url"

	"github.com/TechiHub-io/TechihubReact-sub000/internal/domain"
)

// MyCompanies возвращает компании, в которых состоит текущий пользователь
func (c *Client) MyCompanies(ctx context.Context) ([]domain.Company, error) {
	p, err := page[domain.Company](ctx, c, "companies/me/", nil, "Failed to fetch user companies")
	if err != nil {
		return nil, err
	}
	return p.Items, nil
}

// ListCompanies возвращает страницу компаний
func (c *Client) ListCompanies(ctx context.Context, query url.Values) (domain.PageView[domain.Company], error) {
	return page[domain.Company](ctx, c, "companies/", query, "Failed to fetch companies")
}

// GetCompany возвращает компанию
func (c *Client) GetCompany(ctx context.Context, id domain.ID) (*domain.Company, error) {
	var company domain.Company
	if err := c.do(ctx, http.MethodGet, pathf("companies/%s/", id), nil, nil, &company, "Failed to fetch company"); err != nil {
		return nil, err
	}
	return &company, nil
}

// CreateCompany создает компанию
func (c *Client) CreateCompany(ctx context.Context, company domain.Company) (*domain.Company, error) {
	var out domain.Company
	if err := c.do(ctx, http.MethodPost, "companies/", nil, company, &out, "Failed to create company"); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateCompany обновляет компанию
func (c *Client) UpdateCompany(ctx context.Context, id domain.ID, company domain.Company) (*domain.Company, error) {
	var out domain.Company
	if err := c.do(ctx, http.MethodPut, pathf("companies/%s/", id), nil, company, &out, "Failed to update company"); err != nil {
		return nil, err
	}
	return &out, nil
}

// AddBenefit добавляет льготу компании
func (c *Client) AddBenefit(ctx context.Context, id domain.ID, benefit domain.Benefit) (*domain.Benefit, error) {
	var out domain.Benefit
	if err := c.do(ctx, http.MethodPost, pathf("companies/%s/add_benefit/", id), nil, benefit, &out, "Failed to add benefit"); err != nil {
		return nil, err
	}
	return &out, nil
}

// UploadLogo загружает логотип компании
func (c *Client) UploadLogo(ctx context.Context, id domain.ID, filename string, content io.Reader) (*domain.Company, error) {
	var out domain.Company
	err := c.upload(ctx, http.MethodPost, pathf("companies/%s/upload_logo/", id), File{
		Field:    "logo",
		Name:     filename,
		Content:  content,
		Fallback: "Failed to upload logo",
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// AddImage загружает изображение в галерею компании
func (c *Client) AddImage(ctx context.Context, id domain.ID, filename string, content io.Reader, caption string) (*domain.CompanyImage, error) {
	var out domain.CompanyImage
	err := c.upload(ctx, http.MethodPost, pathf("companies/%s/add_image/", id), File{
		Field:    "image",
		Name:     filename,
		Content:  content,
		Extra:    map[string]string{"caption": caption},
		Fallback: "Failed to add image",
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ListMembers возвращает участников команды
func (c *Client) ListMembers(ctx context.Context, companyID domain.ID) ([]domain.TeamMember, error) {
	p, err := page[domain.TeamMember](ctx, c, pathf("companies/%s/members/", companyID), nil, "Failed to fetch team members")
	if err != nil {
		return nil, err
	}
	return p.Items, nil
}

// UpdateMemberRole меняет роль участника
func (c *Client) UpdateMemberRole(ctx context.Context, companyID, memberID domain.ID, role string) (*domain.TeamMember, error) {
	var out domain.TeamMember
	err := c.do(ctx, http.MethodPatch, pathf("companies/%s/members/%s/", companyID, memberID), nil,
		map[string]string{"role": role}, &out, "Failed to update member role")
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// RemoveMember удаляет участника из команды
func (c *Client) RemoveMember(ctx context.Context, companyID, memberID domain.ID) error {
	return c.do(ctx, http.MethodDelete, pathf("companies/%s/members/%s/", companyID, memberID), nil, nil, nil, "Failed to remove team member")
}

// ListInvitations возвращает приглашения компании
func (c *Client) ListInvitations(ctx context.Context, companyID domain.ID) ([]domain.Invitation, error) {
	p, err := page[domain.Invitation](ctx, c, pathf("companies/%s/invitations/", companyID), nil, "Failed to fetch invitations")
	if err != nil {
		return nil, err
	}
	return p.Items, nil
}

// SendInvitation приглашает пользователя в команду
func (c *Client) SendInvitation(ctx context.Context, companyID domain.ID, email, role string) (*domain.Invitation, error) {
	var out domain.Invitation
	err := c.do(ctx, http.MethodPost, pathf("companies/%s/invitations/", companyID), nil,
		map[string]string{"email": email, "role": role}, &out, "Failed to send invitation")
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// CancelInvitation отменяет приглашение
func (c *Client) CancelInvitation(ctx context.Context, companyID, invitationID domain.ID) error {
	return c.do(ctx, http.MethodDelete, pathf("companies/%s/invitations/%s/", companyID, invitationID), nil, nil, nil, "Failed to cancel invitation")
}
