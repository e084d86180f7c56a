package helpers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type listDTO struct {
	Name string `json:"name"`
}

func (d listDTO) Validate() []string {
	if d.Name == "" {
		return []string{"name is required"}
	}
	return nil
}

type ozzoDTO struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

func (d ozzoDTO) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.Email, validation.Required, is.Email),
		validation.Field(&d.Name, validation.Required),
	)
}

func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder) APIResponse {
	t.Helper()
	var env APIResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&env))
	return env
}

func TestDecodeAndValidate_JSON(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		wantOK bool
	}{
		{"valid", `{"name":"a"}`, true},
		{"unknown field", `{"name":"a","extra":1}`, false},
		{"malformed", `{`, false},
		{"fails validation", `{"name":""}`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rr := httptest.NewRecorder()

			var dto listDTO
			ok := DecodeAndValidate(rr, req, &dto)
			assert.Equal(t, tt.wantOK, ok)
			if !ok {
				assert.Equal(t, http.StatusBadRequest, rr.Code)
				assert.Equal(t, ErrCodeBadRequest, decodeEnvelope(t, rr).Error.Code)
			}
		})
	}
}

func TestDecodeAndValidate_Form(t *testing.T) {
	form := url.Values{"name": {"Ann"}, "email": {"ann@example.com"}, "csrfmiddlewaretoken": {"x"}}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()

	var dto ozzoDTO
	require.True(t, DecodeAndValidate(rr, req, &dto))
	assert.Equal(t, "Ann", dto.Name)
	assert.Equal(t, "ann@example.com", dto.Email)
}

func TestDecodeAndValidate_OzzoFieldError(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"nope","name":"Ann"}`))
	rr := httptest.NewRecorder()

	var dto ozzoDTO
	require.False(t, DecodeAndValidate(rr, req, &dto))
	env := decodeEnvelope(t, rr)
	require.NotNil(t, env.Error)
	assert.Equal(t, "email", env.Error.Field)
	assert.Contains(t, env.Error.Message, "email")
}

func TestParsePagination(t *testing.T) {
	tests := []struct {
		query    string
		page     int
		pageSize int
	}{
		{"", DefaultPage, DefaultPageSize},
		{"page=3&page_size=5", 3, 5},
		{"page=0&page_size=-1", DefaultPage, DefaultPageSize},
		{"page=x&page_size=1000", DefaultPage, MaxPageSize},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/?"+tt.query, nil)
		p := ParsePagination(req)
		assert.Equal(t, tt.page, p.Page, tt.query)
		assert.Equal(t, tt.pageSize, p.PageSize, tt.query)
	}
}

func TestNewPaginationMeta(t *testing.T) {
	assert.Equal(t, PaginationMeta{Page: 2, PageSize: 10, Total: 21, TotalPages: 3}, NewPaginationMeta(2, 10, 21))
	assert.Equal(t, 0, NewPaginationMeta(1, 0, 5).TotalPages)
}
