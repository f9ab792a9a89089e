package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession_Valid(t *testing.T) {
	tests := []struct {
		name string
		sess Session
		want bool
	}{
		{
			name: "authenticated with token and user",
			sess: Session{Status: StatusAuthenticated, Token: "abc", User: Profile{"id": "u1"}},
			want: true,
		},
		{
			name: "authenticated without token",
			sess: Session{Status: StatusAuthenticated, User: Profile{"id": "u1"}},
			want: false,
		},
		{
			name: "authenticated without user",
			sess: Session{Status: StatusAuthenticated, Token: "abc"},
			want: false,
		},
		{
			name: "unauthenticated clean",
			sess: Session{Status: StatusUnauthenticated},
			want: true,
		},
		{
			name: "unauthenticated with leftover token",
			sess: Session{Status: StatusUnauthenticated, Token: "abc"},
			want: false,
		},
		{
			name: "unknown clean",
			sess: Session{Status: StatusUnknown},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.sess.Valid())
		})
	}
}

func TestCredentials_Valid(t *testing.T) {
	assert.True(t, Credentials{Token: "abc", User: Profile{"id": "u1"}}.Valid())
	assert.False(t, Credentials{Token: "abc"}.Valid())
	assert.False(t, Credentials{User: Profile{"id": "u1"}}.Valid())
	assert.False(t, Credentials{}.Valid())
}

func TestProfile_ID(t *testing.T) {
	t.Run("default path", func(t *testing.T) {
		p := Profile{"id": "user-42", "nom": "Durand"}
		id, err := p.ID("")
		require.NoError(t, err)
		assert.Equal(t, "user-42", id)
	})

	t.Run("numeric identifier", func(t *testing.T) {
		p := Profile{"id": float64(42)}
		id, err := p.ID("")
		require.NoError(t, err)
		assert.Equal(t, "42", id)
	})

	t.Run("nested path", func(t *testing.T) {
		p := Profile{"account": map[string]any{"uid": "u-9"}}
		id, err := p.ID("account.uid")
		require.NoError(t, err)
		assert.Equal(t, "u-9", id)
	})

	t.Run("missing field", func(t *testing.T) {
		p := Profile{"nom": "Durand"}
		_, err := p.ID("")
		assert.Error(t, err)
	})

	t.Run("nil profile", func(t *testing.T) {
		var p Profile
		_, err := p.ID("")
		assert.Error(t, err)
	})
}

func TestProfile_Merge(t *testing.T) {
	orig := Profile{"id": "u1", "nom": "Durand", "email": "a@b.com"}
	merged := orig.Merge(Profile{"email": "new@b.com", "tel": "0600000000"})

	assert.Equal(t, "new@b.com", merged["email"])
	assert.Equal(t, "0600000000", merged["tel"])
	assert.Equal(t, "u1", merged["id"])

	// Source snapshot is untouched.
	assert.Equal(t, "a@b.com", orig["email"])
	assert.NotContains(t, orig, "tel")
}

func TestProfile_Merge_NilReceiver(t *testing.T) {
	var p Profile
	merged := p.Merge(Profile{"id": "u1"})
	assert.Equal(t, "u1", merged["id"])
}

func TestProfile_Clone(t *testing.T) {
	p := Profile{"id": "u1"}
	c := p.Clone()
	c["id"] = "u2"
	assert.Equal(t, "u1", p["id"])

	var nilP Profile
	assert.Nil(t, nilP.Clone())
}
