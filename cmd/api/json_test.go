package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadJSON(t *testing.T) {
	type payload struct {
		Email string `json:"email"`
	}

	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{name: "single object", body: `{"email":"sam@example.com"}`},
		{name: "empty body", body: ``, wantErr: "must not be empty"},
		{name: "unknown field", body: `{"email":"a@b.c","admin":true}`, wantErr: "unknown field"},
		{name: "trailing object", body: `{"email":"a@b.c"}{"email":"d@e.f"}`, wantErr: "single JSON object"},
		{name: "too large", body: `{"email":"` + strings.Repeat("a", maxBodyBytes) + `"}`, wantErr: "larger than"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			var dst payload
			err := readJSON(httptest.NewRecorder(), req, &dst)
			if tt.wantErr == "" {
				require.NoError(t, err)
				assert.Equal(t, "sam@example.com", dst.Email)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestOversizedReviewIsRejected(t *testing.T) {
	env := newTestEnv(t)
	h := env.app.mount()
	_, token := env.createUser(t, "big@example.com", "user")
	_, linked, _ := seedBears(env)

	body := `{"overall_rating":4,"comment":"` + strings.Repeat("x", maxBodyBytes) + `"}`
	rr := do(t, h, http.MethodPost, "/v1/venues/"+linked.String()+"/reviews", body, bearer(token))
	assert.Equal(t, http.StatusBadRequest, rr.Code, rr.Body.String())
}
