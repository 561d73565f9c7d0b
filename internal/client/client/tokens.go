package client

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/gophbooks/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/gophbooks/internal/common"
)

// TokenStore persists the bearer/refresh credential pair between requests
// and sessions.
type TokenStore interface {
	Tokens(ctx context.Context) (access, refresh string, err error)
	SaveTokens(ctx context.Context, access, refresh string) error
	ClearAccessToken(ctx context.Context) error
	ClearTokens(ctx context.Context) error
}

// MetadataTokenStore keeps the credentials in the local metadata store.
type MetadataTokenStore struct {
	repo metadata.Repository
}

func NewMetadataTokenStore(repo metadata.Repository) *MetadataTokenStore {
	return &MetadataTokenStore{repo: repo}
}

func (s *MetadataTokenStore) Tokens(ctx context.Context) (string, string, error) {
	access, err := metadata.GetString(ctx, s.repo, common.MetaAccessToken)
	if err != nil {
		return "", "", fmt.Errorf("read access token: %w", err)
	}
	refresh, err := metadata.GetString(ctx, s.repo, common.MetaRefreshToken)
	if err != nil {
		return "", "", fmt.Errorf("read refresh token: %w", err)
	}
	return access, refresh, nil
}

func (s *MetadataTokenStore) SaveTokens(ctx context.Context, access, refresh string) error {
	if err := metadata.SetString(ctx, s.repo, common.MetaAccessToken, access); err != nil {
		return fmt.Errorf("save access token: %w", err)
	}
	if err := metadata.SetString(ctx, s.repo, common.MetaRefreshToken, refresh); err != nil {
		return fmt.Errorf("save refresh token: %w", err)
	}
	return nil
}

func (s *MetadataTokenStore) ClearAccessToken(ctx context.Context) error {
	return s.repo.Delete(ctx, common.MetaAccessToken)
}

func (s *MetadataTokenStore) ClearTokens(ctx context.Context) error {
	return metadata.DeleteKeys(ctx, s.repo, common.MetaAccessToken, common.MetaRefreshToken)
}
