package files

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/srirampandi55/Cloudify/internal/domain"
)

func TestCheckAccess(t *testing.T) {
	owner := uuid.New()
	grantee := uuid.New()
	stranger := uuid.New()

	base := domain.File{ID: uuid.New(), OwnerID: owner}

	tests := []struct {
		name    string
		access  domain.AccessType
		shared  []domain.UserID
		token   string
		caller  *domain.UserID
		present string // предъявленный токен
		wantErr error
	}{
		{name: "владелец читает private", access: domain.AccessPrivate, caller: &owner},
		{name: "чужой не читает private", access: domain.AccessPrivate, caller: &stranger, wantErr: domain.ErrForbidden},
		{name: "аноним не читает private", access: domain.AccessPrivate, wantErr: domain.ErrForbidden},
		{name: "аноним читает public", access: domain.AccessPublic},
		{name: "чужой читает public", access: domain.AccessPublic, caller: &stranger},
		{name: "грантополучатель читает restricted", access: domain.AccessRestricted, shared: []domain.UserID{grantee}, caller: &grantee},
		{name: "чужой без токена не читает restricted", access: domain.AccessRestricted, shared: []domain.UserID{grantee}, caller: &stranger, wantErr: domain.ErrForbidden},
		{name: "аноним с токеном читает restricted", access: domain.AccessRestricted, token: "secrettoken", present: "secrettoken"},
		{name: "аноним с чужим токеном — отказ", access: domain.AccessRestricted, token: "secrettoken", present: "wrong", wantErr: domain.ErrForbidden},
		{name: "пустой сохранённый токен никогда не совпадает", access: domain.AccessRestricted, token: "", present: "", wantErr: domain.ErrForbidden},
		{name: "владелец читает restricted без токена", access: domain.AccessRestricted, caller: &owner},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := base
			f.Access = tc.access
			f.SharedWith = tc.shared
			f.ShareToken = tc.token

			err := CheckAccess(&f, tc.caller, tc.present)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestNewShareToken(t *testing.T) {
	a, err := NewShareToken()
	require.NoError(t, err)
	b, err := NewShareToken()
	require.NoError(t, err)

	require.Len(t, a, 32) // 16 байт в hex
	require.NotEqual(t, a, b)
}
