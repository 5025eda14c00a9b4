package api

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRole_LoginPath(t *testing.T) {
	tests := []struct {
		role Role
		path string
	}{
		{RoleCitizen, "/auth/citizen/login"},
		{RoleAdmin, "/auth/admin/login"},
		{RoleSuperAdmin, "/auth/super-admin/login"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.path, tt.role.LoginPath())
	}
}

func TestParseRole(t *testing.T) {
	tests := []struct {
		in   string
		want Role
		ok   bool
	}{
		{"citizen", RoleCitizen, true},
		{"", RoleCitizen, true},
		{"admin", RoleAdmin, true},
		{"super-admin", RoleSuperAdmin, true},
		{"superadmin", RoleSuperAdmin, true},
		{"mayor", RoleCitizen, false},
	}
	for _, tt := range tests {
		got, ok := ParseRole(tt.in)
		assert.Equal(t, tt.ok, ok, "ParseRole(%q)", tt.in)
		if ok {
			assert.Equal(t, tt.want, got, "ParseRole(%q)", tt.in)
		}
	}
}

func TestClient_Login(t *testing.T) {
	var gotPath string
	var gotBody loginRequest

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write(envelopeBody(t, AuthResult{
			Token:    "abc",
			UserID:   1,
			FullName: "Asha Rao",
			Email:    "citizen@example.com",
			Role:     WireRoleCitizen,
		}))
	}), newMemStore())

	result, err := client.Login(context.Background(), "citizen@example.com", "secret1", RoleCitizen)
	require.NoError(t, err)

	assert.Equal(t, "/auth/citizen/login", gotPath)
	assert.Equal(t, "citizen@example.com", gotBody.Identifier)
	assert.Equal(t, "secret1", gotBody.Password)
	assert.Equal(t, "abc", result.Token)
	assert.Equal(t, WireRoleCitizen, result.Role)
}

func TestClient_LoginRoutesPerRole(t *testing.T) {
	for _, role := range []Role{RoleCitizen, RoleAdmin, RoleSuperAdmin} {
		t.Run(role.String(), func(t *testing.T) {
			var gotPath string
			client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotPath = r.URL.Path
				w.Write(envelopeBody(t, AuthResult{Token: "t", UserID: 2}))
			}), newMemStore())

			_, err := client.Login(context.Background(), "user", "pass", role)
			require.NoError(t, err)
			assert.Equal(t, role.LoginPath(), gotPath)
		})
	}
}

func TestClient_Register(t *testing.T) {
	var gotPath string
	var gotBody RegisterRequest

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write(envelopeBody(t, AuthResult{
			Token:    "fresh",
			UserID:   9,
			FullName: gotBody.FullName,
			Email:    gotBody.Email,
			Role:     WireRoleCitizen,
		}))
	}), newMemStore())

	result, err := client.Register(context.Background(), RegisterRequest{
		FullName:    "Asha Rao",
		Email:       "citizen@example.com",
		PhoneNumber: "9876543210",
		Password:    "secret1",
	})
	require.NoError(t, err)

	assert.Equal(t, "/auth/register", gotPath)
	assert.Equal(t, "Asha Rao", gotBody.FullName)
	assert.Equal(t, "fresh", result.Token)
}

func TestAuthResult_Profile(t *testing.T) {
	result := AuthResult{Token: "abc", UserID: 1, FullName: "Asha Rao", Email: "citizen@example.com", Role: WireRoleCitizen}
	profile := result.Profile()

	assert.Equal(t, UserProfile{ID: 1, FullName: "Asha Rao", Email: "citizen@example.com", Role: WireRoleCitizen}, profile)
}
