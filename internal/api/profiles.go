package api

import (
	"context"
	"io"
	"net/http"

	"github.com/TechiHub-io/TechihubReact-sub000/internal/domain"
)

// ProfileSection вложенный ресурс профиля
type ProfileSection string

const (
	SectionExperiences    ProfileSection = "experiences"
	SectionEducation      ProfileSection = "education"
	SectionSkills         ProfileSection = "skills"
	SectionCertifications ProfileSection = "certifications"
	SectionPortfolio      ProfileSection = "portfolio"
)

// GetProfile возвращает профиль соискателя
func (c *Client) GetProfile(ctx context.Context, id domain.ID) (*domain.Profile, error) {
	var p domain.Profile
	if err := c.do(ctx, http.MethodGet, pathf("profiles/%s/", id), nil, nil, &p, "Failed to fetch profile"); err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateProfile создает профиль
func (c *Client) CreateProfile(ctx context.Context, p domain.Profile) (*domain.Profile, error) {
	var out domain.Profile
	if err := c.do(ctx, http.MethodPost, "profiles/", nil, p, &out, "Failed to create profile"); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateProfile частично обновляет профиль
func (c *Client) UpdateProfile(ctx context.Context, id domain.ID, fields map[string]any) (*domain.Profile, error) {
	var out domain.Profile
	if err := c.do(ctx, http.MethodPatch, pathf("profiles/%s/", id), nil, fields, &out, "Failed to update profile"); err != nil {
		return nil, err
	}
	return &out, nil
}

// UploadProfilePicture загружает фото профиля
func (c *Client) UploadProfilePicture(ctx context.Context, id domain.ID, filename string, content io.Reader) (*domain.Profile, error) {
	var out domain.Profile
	err := c.upload(ctx, http.MethodPost, pathf("profiles/%s/upload-profile-picture/", id), File{
		Field:    "profile_picture",
		Name:     filename,
		Content:  content,
		Fallback: "Failed to upload profile picture",
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateProfileItem добавляет запись во вложенный ресурс профиля
func (c *Client) CreateProfileItem(ctx context.Context, profileID domain.ID, section ProfileSection, item, out any) error {
	return c.do(ctx, http.MethodPost, pathf("profiles/%s/", profileID)+string(section)+"/", nil, item, out, "Failed to add "+string(section))
}

// UpdateProfileItem обновляет запись вложенного ресурса
func (c *Client) UpdateProfileItem(ctx context.Context, profileID domain.ID, section ProfileSection, itemID domain.ID, item, out any) error {
	path := pathf("profiles/%s/", profileID) + string(section) + pathf("/%s/", itemID)
	return c.do(ctx, http.MethodPut, path, nil, item, out, "Failed to update "+string(section))
}

// DeleteProfileItem удаляет запись вложенного ресурса
func (c *Client) DeleteProfileItem(ctx context.Context, profileID domain.ID, section ProfileSection, itemID domain.ID) error {
	path := pathf("profiles/%s/", profileID) + string(section) + pathf("/%s/", itemID)
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil, "Failed to delete "+string(section))
}
