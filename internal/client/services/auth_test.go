package services

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/gophbooks/internal/client/client"
	"github.com/dmitrijs2005/gophbooks/internal/client/models"
	"github.com/dmitrijs2005/gophbooks/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/gophbooks/internal/common"
	"github.com/dmitrijs2005/gophbooks/internal/logging"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type authFixture struct {
	api    *fakeAPI
	meta   *metadata.MemoryRepository
	tokens *client.MetadataTokenStore
	svc    AuthService
}

func newAuthFixture() *authFixture {
	f := &authFixture{api: newFakeAPI(), meta: metadata.NewMemoryRepository()}
	f.tokens = client.NewMetadataTokenStore(f.meta)
	f.svc = NewAuthService(f.api, f.tokens, f.meta, logging.NewDiscard())
	return f
}

// login simulates RESTClient.Login, which stores the credentials itself.
func (f *authFixture) login(t *testing.T, res models.LoginResult) (models.User, error) {
	t.Helper()
	f.api.LoginRet = res
	require.NoError(t, f.tokens.SaveTokens(context.Background(), res.AccessToken, res.RefreshToken))
	return f.svc.Login(context.Background(), models.LoginInput{Email: "kim@example.com", Password: "1234"})
}

func signed(t *testing.T, c jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte("k"))
	require.NoError(t, err)
	return s
}

func TestAuth_LoginUsesResponseFields(t *testing.T) {
	f := newAuthFixture()
	u, err := f.login(t, models.LoginResult{TokenPair: models.TokenPair{AccessToken: "A", RefreshToken: "R"}, UserID: "kim", Role: "MASTER"})
	require.NoError(t, err)
	assert.Equal(t, models.User{ID: "kim", Role: common.RoleAdmin}, u)

	cur, err := f.svc.CurrentUser(context.Background())
	require.NoError(t, err)
	assert.Equal(t, u, cur)
}

func TestAuth_LoginFallsBackToClaims(t *testing.T) {
	f := newAuthFixture()
	tok := signed(t, jwt.MapClaims{"sub": "u-42", "role": "ADMIN"})
	u, err := f.login(t, models.LoginResult{TokenPair: models.TokenPair{AccessToken: tok, RefreshToken: "R"}})
	require.NoError(t, err)
	assert.Equal(t, models.User{ID: "u-42", Role: common.RoleAdmin}, u)
}

func TestAuth_LoginFallsBackToLoginName(t *testing.T) {
	f := newAuthFixture()
	u, err := f.login(t, models.LoginResult{TokenPair: models.TokenPair{AccessToken: "opaque"}})
	require.NoError(t, err)
	assert.Equal(t, models.User{ID: "kim@example.com", Role: common.RoleUser}, u)
}

func TestAuth_LoginValidatesBeforeNetwork(t *testing.T) {
	f := newAuthFixture()
	_, err := f.svc.Login(context.Background(), models.LoginInput{Email: " "})
	var verrs validation.Errors
	require.ErrorAs(t, err, &verrs)
	assert.Zero(t, f.api.Calls)
}

func TestAuth_LoginErrorLeavesNoSession(t *testing.T) {
	f := newAuthFixture()
	f.api.LoginErr = &client.APIError{StatusCode: 401, Message: "bad credentials"}
	_, err := f.svc.Login(context.Background(), models.LoginInput{Email: "a", Password: "b"})
	require.EqualError(t, err, "login: bad credentials")

	_, err = f.svc.CurrentUser(context.Background())
	require.ErrorIs(t, err, common.ErrNotLoggedIn)
}

func TestAuth_Signup(t *testing.T) {
	f := newAuthFixture()
	in := models.SignupInput{Name: "Kim", Email: "kim@example.com", Password: "1234"}
	require.NoError(t, f.svc.Signup(context.Background(), in))
	assert.Equal(t, in, f.api.LastSignup)

	f.api.SignupErr = errors.New("conflict")
	require.ErrorContains(t, f.svc.Signup(context.Background(), in), "signup: conflict")

	require.Error(t, f.svc.Signup(context.Background(), models.SignupInput{}))
}

func TestAuth_LogoutForgetsUserKeepsAPIKey(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()
	_, err := f.login(t, models.LoginResult{TokenPair: models.TokenPair{AccessToken: "A", RefreshToken: "R"}, UserID: "kim"})
	require.NoError(t, err)
	require.NoError(t, f.meta.Set(ctx, common.MetaImageAPIKey, []byte("sk")))

	require.NoError(t, f.svc.Logout(ctx))
	assert.Equal(t, 1, f.api.LogoutCalls)

	m, err := f.meta.List(ctx)
	require.NoError(t, err)
	assert.NotContains(t, m, common.MetaUserID)
	assert.NotContains(t, m, common.MetaUserRole)
	assert.Contains(t, m, common.MetaImageAPIKey)
}

func TestAuth_HandleUnauthenticatedEndsSession(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()
	_, err := f.login(t, models.LoginResult{TokenPair: models.TokenPair{AccessToken: "A", RefreshToken: "R"}, UserID: "kim"})
	require.NoError(t, err)

	require.NoError(t, f.svc.HandleUnauthenticated(ctx))
	_, err = f.svc.CurrentUser(ctx)
	require.ErrorIs(t, err, common.ErrNotLoggedIn)

	access, refresh, err := f.tokens.Tokens(ctx)
	require.NoError(t, err)
	assert.Empty(t, access)
	assert.Empty(t, refresh)
}

func TestAuth_CurrentUserNeedsCredentials(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()
	require.NoError(t, metadata.SetString(ctx, f.meta, common.MetaUserID, "kim"))

	_, err := f.svc.CurrentUser(ctx)
	require.ErrorIs(t, err, common.ErrNotLoggedIn)

	require.NoError(t, f.tokens.SaveTokens(ctx, "", "R"))
	u, err := f.svc.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.User{ID: "kim", Role: common.RoleUser}, u)
}
