package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/srirampandi55/Cloudify/internal/auth/password"
	"github.com/srirampandi55/Cloudify/internal/auth/token"
	"github.com/srirampandi55/Cloudify/internal/domain"
	"github.com/srirampandi55/Cloudify/internal/infra/database/memory"
)

const adminToken = "test-admin-token"

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func postJSON(t *testing.T, h http.HandlerFunc, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]json.RawMessage {
	t.Helper()
	var env map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func TestRegisterReturnsUserID(t *testing.T) {
	rep := memory.NewRepo()
	h := &HandlerRegister{Log: testLogger(), Users: rep, Hasher: password.NewDefault(), AdminToken: adminToken}

	rec := postJSON(t, h.Register, "/api/register", registerRequest{
		Token: adminToken, Login: "newuser01", Pswd: "Str0ng!pass",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	env := decodeEnvelope(t, rec)
	var resp registerResponse
	require.NoError(t, json.Unmarshal(env["response"], &resp))
	require.Equal(t, "newuser01", resp.Login)
	require.NotEqual(t, domain.UserID{}, resp.ID)
}

func TestRegisterDuplicateLogin(t *testing.T) {
	rep := memory.NewRepo()
	h := &HandlerRegister{Log: testLogger(), Users: rep, Hasher: password.NewDefault(), AdminToken: adminToken}

	req := registerRequest{Token: adminToken, Login: "newuser01", Pswd: "Str0ng!pass"}
	rec := postJSON(t, h.Register, "/api/register", req)
	require.Equal(t, http.StatusOK, rec.Code)

	// повторная регистрация того же логина — already exists, а не generic 400
	rec = postJSON(t, h.Register, "/api/register", req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "already exists")
}

func TestRegisterBadAdminToken(t *testing.T) {
	rep := memory.NewRepo()
	h := &HandlerRegister{Log: testLogger(), Users: rep, Hasher: password.NewDefault(), AdminToken: adminToken}

	rec := postJSON(t, h.Register, "/api/register", registerRequest{
		Token: "wrong", Login: "newuser01", Pswd: "Str0ng!pass",
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginReturnsExpiry(t *testing.T) {
	rep := memory.NewRepo()
	hasher := password.NewDefault()
	hashStr, err := hasher.Hash("Str0ng!pass")
	require.NoError(t, err)
	_, err = rep.CreateUser(context.Background(), "newuser01", []byte(hashStr))
	require.NoError(t, err)

	h := &HandlerLogin{
		Log:    testLogger(),
		Users:  rep,
		Hasher: hasher,
		Tokens: token.New("test-secret", "cloudify-test", time.Hour),
	}

	rec := postJSON(t, h.Login, "/api/auth", loginRequest{Login: "newuser01", Pswd: "Str0ng!pass"})
	require.Equal(t, http.StatusOK, rec.Code)

	env := decodeEnvelope(t, rec)
	var resp loginResponse
	require.NoError(t, json.Unmarshal(env["response"], &resp))
	require.NotEmpty(t, resp.Token)
	require.True(t, resp.ExpiresAt.After(time.Now()))
}

func TestLoginWrongPassword(t *testing.T) {
	rep := memory.NewRepo()
	hasher := password.NewDefault()
	hashStr, err := hasher.Hash("Str0ng!pass")
	require.NoError(t, err)
	_, err = rep.CreateUser(context.Background(), "newuser01", []byte(hashStr))
	require.NoError(t, err)

	h := &HandlerLogin{
		Log:    testLogger(),
		Users:  rep,
		Hasher: hasher,
		Tokens: token.New("test-secret", "cloudify-test", time.Hour),
	}

	rec := postJSON(t, h.Login, "/api/auth", loginRequest{Login: "newuser01", Pswd: "Wr0ng!pass"})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
