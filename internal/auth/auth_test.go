package auth

import (
	"database/sql"
	"testing"
	"time"

	"github.com/covernet/covernet/internal/models"
)

func TestGenerateToken(t *testing.T) {
	token1, err := generateToken()
	if err != nil {
		t.Fatalf("generateToken() failed: %v", err)
	}
	token2, err := generateToken()
	if err != nil {
		t.Fatalf("generateToken() failed: %v", err)
	}

	// 24 random bytes base64-encode to 32 characters
	if len(token1) != 32 {
		t.Errorf("expected 32 character token, got length %d", len(token1))
	}
	if token1 == token2 {
		t.Error("expected distinct tokens from consecutive calls")
	}
}

func TestLiveToken(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		token      sql.NullString
		expiration sql.NullTime
		wantLive   bool
	}{
		{
			name:       "no token",
			token:      sql.NullString{},
			expiration: sql.NullTime{},
			wantLive:   false,
		},
		{
			name:       "well before expiry",
			token:      sql.NullString{String: "abc", Valid: true},
			expiration: sql.NullTime{Time: now.Add(time.Hour), Valid: true},
			wantLive:   true,
		},
		{
			name:       "inside reissue grace window",
			token:      sql.NullString{String: "abc", Valid: true},
			expiration: sql.NullTime{Time: now.Add(30 * time.Second), Valid: true},
			wantLive:   false,
		},
		{
			name:       "exactly at grace boundary",
			token:      sql.NullString{String: "abc", Valid: true},
			expiration: sql.NullTime{Time: now.Add(reissueGrace), Valid: true},
			wantLive:   false,
		},
		{
			name:       "already expired",
			token:      sql.NullString{String: "abc", Valid: true},
			expiration: sql.NullTime{Time: now.Add(-time.Second), Valid: true},
			wantLive:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := &models.User{Token: tt.token, TokenExpiration: tt.expiration}
			token, _, ok := liveToken(user, now)
			if ok != tt.wantLive {
				t.Errorf("liveToken() ok = %v, want %v", ok, tt.wantLive)
			}
			if ok && token != tt.token.String {
				t.Errorf("liveToken() returned %q, want %q", token, tt.token.String)
			}
		})
	}
}

func TestTokenValidAfter(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		expiration sql.NullTime
		want       bool
	}{
		{"valid", sql.NullTime{Time: now.Add(time.Minute), Valid: true}, true},
		{"expired", sql.NullTime{Time: now.Add(-time.Second), Valid: true}, false},
		{"exactly now", sql.NullTime{Time: now, Valid: true}, false},
		{"never issued", sql.NullTime{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := &models.User{
				Token:           sql.NullString{String: "abc", Valid: true},
				TokenExpiration: tt.expiration,
			}
			if got := user.TokenValidAfter(now); got != tt.want {
				t.Errorf("TokenValidAfter() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("hunter2")
	if err != nil {
		t.Fatalf("HashPassword() failed: %v", err)
	}

	if !CheckPassword(hash, "hunter2") {
		t.Error("expected matching password to verify")
	}
	if CheckPassword(hash, "hunter3") {
		t.Error("expected mismatched password to fail")
	}
}
