package memory

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/srirampandi55/Cloudify/internal/domain"
)

func TestUsers(t *testing.T) {
	ctx := context.Background()
	r := NewRepo()

	u, err := r.CreateUser(ctx, "testuser1", []byte("hash"))
	require.NoError(t, err)

	// логин уникален
	_, err = r.CreateUser(ctx, "testuser1", []byte("hash2"))
	require.ErrorIs(t, err, domain.ErrAlreadyExists)

	got, err := r.UserByLogin(ctx, "testuser1")
	require.NoError(t, err)
	require.Equal(t, u.ID, got.ID)

	_, err = r.UserByID(ctx, uuid.New())
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateFileShareSemantics(t *testing.T) {
	ctx := context.Background()
	r := NewRepo()
	owner := uuid.New()
	g1, g2 := uuid.New(), uuid.New()

	f, err := r.CreateFile(ctx, domain.File{
		ID:      uuid.New(),
		OwnerID: owner,
		Name:    "a.png",
		Access:  domain.AccessPrivate,
	})
	require.NoError(t, err)

	restricted := domain.AccessRestricted
	tok := "tok1"
	out, err := r.UpdateFile(ctx, f.ID, domain.FileUpdate{
		Access:     &restricted,
		ShareToken: &tok,
		SharedWith: []domain.UserID{g1, g2},
	})
	require.NoError(t, err)
	require.ElementsMatch(t, []domain.UserID{g1, g2}, out.SharedWith)
	require.Equal(t, "tok1", out.ShareToken)

	// гранты заменяются целиком, не дополняются
	out, err = r.UpdateFile(ctx, f.ID, domain.FileUpdate{
		Access:     &restricted,
		SharedWith: []domain.UserID{g2},
	})
	require.NoError(t, err)
	require.Equal(t, []domain.UserID{g2}, out.SharedWith)

	// частичное обновление имени грантов не трогает
	name := "b.png"
	out, err = r.UpdateFile(ctx, f.ID, domain.FileUpdate{Name: &name})
	require.NoError(t, err)
	require.Equal(t, "b.png", out.Name)
	require.Equal(t, []domain.UserID{g2}, out.SharedWith)

	_, err = r.UpdateFile(ctx, uuid.New(), domain.FileUpdate{Name: &name})
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteFile(t *testing.T) {
	ctx := context.Background()
	r := NewRepo()

	f, err := r.CreateFile(ctx, domain.File{ID: uuid.New(), OwnerID: uuid.New(), Name: "x"})
	require.NoError(t, err)

	require.NoError(t, r.DeleteFile(ctx, f.ID))
	require.ErrorIs(t, r.DeleteFile(ctx, f.ID), domain.ErrNotFound)
}
