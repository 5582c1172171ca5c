package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestID_Unmarshal проверяет разбор идентификаторов разных типов
func TestID_Unmarshal(t *testing.T) {
	var v struct {
		A ID `json:"a"`
		B ID `json:"b"`
		C ID `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":42,"b":"3f2b","c":null}`), &v))
	assert.Equal(t, ID("42"), v.A)
	assert.Equal(t, ID("3f2b"), v.B)
	assert.True(t, v.C.IsZero())

	var bad ID
	assert.Error(t, json.Unmarshal([]byte(`true`), &bad))
}

// TestCompanyRef_Unmarshal проверяет ссылку на компанию объектом и идентификатором
func TestCompanyRef_Unmarshal(t *testing.T) {
	var nested Job
	require.NoError(t, json.Unmarshal([]byte(`{"id":1,"company":{"id":7,"name":"Acme"}}`), &nested))
	assert.Equal(t, ID("7"), nested.CompanyID())
	assert.Equal(t, "Acme", nested.Company.Name)

	var flat Job
	require.NoError(t, json.Unmarshal([]byte(`{"id":1,"company":"c-9"}`), &flat))
	assert.Equal(t, ID("c-9"), flat.CompanyID())

	var none *Job
	assert.Equal(t, ID(""), none.CompanyID())
}

// TestApplicationStatus_Order проверяет порядок статусов
func TestApplicationStatus_Order(t *testing.T) {
	for i := 1; i < len(ApplicationStatuses); i++ {
		assert.Less(t, ApplicationStatuses[i-1].Rank(), ApplicationStatuses[i].Rank())
	}
	assert.Equal(t, 0, StatusApplied.Rank())
	assert.Equal(t, 7, StatusWithdrawn.Rank())
	assert.Equal(t, -1, ApplicationStatus("archived").Rank())

	assert.True(t, StatusHired.Terminal())
	assert.False(t, StatusOffer.Terminal())

	_, err := ParseApplicationStatus("archived")
	assert.Error(t, err)
	st, err := ParseApplicationStatus("interview")
	require.NoError(t, err)
	assert.Equal(t, StatusInterview, st)
}

// TestApplication_WithStatus проверяет, что история только дополняется
func TestApplication_WithStatus(t *testing.T) {
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	original := Application{
		ID:            "1",
		Status:        StatusApplied,
		StatusHistory: []StatusChange{{Status: StatusApplied, CreatedAt: at.Add(-time.Hour)}},
	}

	updated := original.WithStatus(StatusInterview, "call scheduled", at)

	assert.Equal(t, StatusInterview, updated.Status)
	require.Len(t, updated.StatusHistory, 2)
	assert.Equal(t, StatusApplied, updated.StatusHistory[0].Status)
	assert.Equal(t, StatusInterview, updated.StatusHistory[1].Status)
	assert.Equal(t, "call scheduled", updated.StatusHistory[1].Notes)

	// исходный отклик не меняется
	assert.Equal(t, StatusApplied, original.Status)
	assert.Len(t, original.StatusHistory, 1)
}

// TestUser_Role проверяет определение роли
func TestUser_Role(t *testing.T) {
	tests := []struct {
		name string
		user *User
		want Role
	}{
		{"nil user", nil, RoleJobseeker},
		{"jobseeker", &User{ID: "1"}, RoleJobseeker},
		{"employer", &User{ID: "1", IsEmployer: true}, RoleEmployer},
		{"user_type super admin", &User{ID: "1", UserType: "super_admin"}, RoleSuperAdmin},
		{"staff and superuser", &User{ID: "1", IsStaff: true, IsSuperuser: true}, RoleSuperAdmin},
		{"staff only", &User{ID: "1", IsStaff: true}, RoleJobseeker},
		{"email alone grants nothing", &User{ID: "1", Email: "admin@techhub.io"}, RoleJobseeker},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.user.Role())
		})
	}
}

// TestUser_FullName проверяет отображаемое имя
func TestUser_FullName(t *testing.T) {
	assert.Equal(t, "Ada Lovelace", (&User{FirstName: "Ada", LastName: "Lovelace"}).FullName())
	assert.Equal(t, "ada@x.io", (&User{Email: "ada@x.io"}).FullName())
}

// TestProfile_Completed проверяет порог заполненности профиля
func TestProfile_Completed(t *testing.T) {
	p := &Profile{ProfileStrength: 20}
	assert.True(t, p.Completed(false))
	assert.False(t, p.Completed(true))
	assert.True(t, (&Profile{ProfileStrength: 21}).Completed(true))

	var none *Profile
	assert.False(t, none.Completed(false))
}

// TestJob_Methods проверяет вывод способов отклика
func TestJob_Methods(t *testing.T) {
	j := &Job{UseInternalApplication: true, ApplicationEmail: "jobs@x.io"}
	assert.Equal(t, []ApplicationMethod{MethodInternal, MethodEmail}, j.Methods())
	assert.Empty(t, (&Job{}).Methods())
}

// TestDecodePage проверяет нормализацию страниц
func TestDecodePage(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    PageView[Job]
		wantLen int
	}{
		{
			name:    "bare array",
			raw:     `[{"id":1},{"id":2}]`,
			want:    PageView[Job]{TotalCount: 2},
			wantLen: 2,
		},
		{
			name:    "envelope middle page",
			raw:     `{"count":35,"next":"http://api/jobs/?page=3","previous":"http://api/jobs/?page=1","results":[{"id":11}]}`,
			want:    PageView[Job]{TotalCount: 35, HasNext: true, HasPrevious: true},
			wantLen: 1,
		},
		{
			name:    "envelope last page",
			raw:     `{"count":11,"next":null,"previous":"http://api/jobs/?page=1","results":[{"id":11}]}`,
			want:    PageView[Job]{TotalCount: 11, HasPrevious: true},
			wantLen: 1,
		},
		{
			name:    "empty envelope",
			raw:     `{"count":0,"next":null,"previous":null,"results":[]}`,
			want:    PageView[Job]{},
			wantLen: 0,
		},
		{
			name:    "null body",
			raw:     `null`,
			want:    PageView[Job]{},
			wantLen: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := DecodePage[Job]([]byte(tt.raw))
			require.NoError(t, err)
			require.NotNil(t, page.Items)
			assert.Len(t, page.Items, tt.wantLen)
			assert.Equal(t, tt.want.TotalCount, page.TotalCount)
			assert.Equal(t, tt.want.HasNext, page.HasNext)
			assert.Equal(t, tt.want.HasPrevious, page.HasPrevious)
		})
	}

	_, err := DecodePage[Job]([]byte(`{"results": 5}`))
	assert.Error(t, err)
}

// TestPageView_TotalPages проверяет подсчет страниц
func TestPageView_TotalPages(t *testing.T) {
	assert.Equal(t, 4, PageView[Job]{TotalCount: 35}.TotalPages(10))
	assert.Equal(t, 1, PageView[Job]{}.TotalPages(10))
	assert.Equal(t, 1, PageView[Job]{TotalCount: 10}.TotalPages(10))
}

// TestSavedSearch_Query проверяет перевод сохраненных параметров в строку запроса
func TestSavedSearch_Query(t *testing.T) {
	var s SavedSearch
	require.NoError(t, json.Unmarshal([]byte(`{
		"id": 5,
		"name": "Senior Go",
		"search_params": {
			"q": " golang ",
			"remote": true,
			"contract": false,
			"min_salary": 150000,
			"skills": ["Go", "", "Kafka"],
			"location": null
		}
	}`), &s))

	q := s.Query()
	assert.Equal(t, ID("5"), s.ID)
	assert.Equal(t, "golang", q.Get("q"))
	assert.Equal(t, "true", q.Get("remote"))
	assert.Equal(t, "150000", q.Get("min_salary"))
	assert.Equal(t, "Go,Kafka", q.Get("skills"))
	assert.NotContains(t, q, "contract")
	assert.NotContains(t, q, "location")
	assert.Equal(t, "min_salary=150000 q=golang remote=true skills=Go,Kafka", s.Summary())
}
