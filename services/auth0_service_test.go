package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kendall-kelly/car-rent-api/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuth0Service_GetUserInfo(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/userinfo" {
			http.NotFound(w, r)
			return
		}
		switch r.Header.Get("Authorization") {
		case "Bearer good-token":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"sub":"auth0|123","email":"anna@example.com","name":"Anna"}`))
		case "Bearer anonymous-token":
			_, _ = w.Write([]byte(`{"email":"anna@example.com"}`))
		default:
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`Unauthorized`))
		}
	}))
	defer server.Close()

	svc := NewAuth0Service(&config.Config{Auth0Domain: server.URL})

	tests := []struct {
		name    string
		token   string
		wantErr string
	}{
		{name: "valid token", token: "good-token"},
		{name: "rejected token", token: "bad-token", wantErr: "status 401"},
		{name: "no subject", token: "anonymous-token", wantErr: "no subject"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := svc.GetUserInfo(context.Background(), tt.token)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "auth0|123", info.Sub)
			assert.Equal(t, "anna@example.com", info.Email)
			assert.Equal(t, "Anna", info.Name)
		})
	}
}
