package bootstrap

import (
	"context"
	"errors"
	"testing"

	"mr-trader-bot/internal/core/domain/packages"
	"mr-trader-bot/internal/infrastructure/config"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCatalogStore struct {
	stored  []packages.Package
	seedErr error
}

func (s *fakeCatalogStore) Seed(_ context.Context, catalog []packages.Package) (int, error) {
	if s.seedErr != nil {
		return 0, s.seedErr
	}
	if len(s.stored) > 0 {
		return 0, nil
	}
	s.stored = catalog
	return len(catalog), nil
}

func (s *fakeCatalogStore) LoadAll(context.Context) ([]packages.Package, error) {
	return s.stored, nil
}

func TestLoadCatalog_SeedsEmptyStore(t *testing.T) {
	store := &fakeCatalogStore{}

	catalog, err := loadCatalog(context.Background(), store)
	require.NoError(t, err)
	assert.Len(t, store.stored, len(packages.DefaultCatalog()))
	assert.Equal(t, packages.TierFree, catalog.Free().Tier)
}

func TestLoadCatalog_UsesStoredPrices(t *testing.T) {
	stored := packages.DefaultCatalog()
	for i := range stored {
		if stored[i].Tier == packages.TierBasic {
			stored[i].Pricing.Monthly = decimal.RequireFromString("9.99")
		}
	}
	store := &fakeCatalogStore{stored: stored}

	catalog, err := loadCatalog(context.Background(), store)
	require.NoError(t, err)

	basic, err := catalog.Get(packages.TierBasic)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("9.99").Equal(basic.Pricing.Monthly))
}

func TestLoadCatalog_SeedError(t *testing.T) {
	_, err := loadCatalog(context.Background(), &fakeCatalogStore{seedErr: errors.New("db down")})
	assert.Error(t, err)
}

func TestBuild_RequiresConfig(t *testing.T) {
	_, err := NewAppBuilder().Build(context.Background())
	assert.Error(t, err)
}

func TestPaymentConfig(t *testing.T) {
	pc := paymentConfig(config.PaymentConfig{
		StarsEnabled:  true,
		StarsPerUSD:   decimal.NewFromInt(50),
		CryptoEnabled: true,
		TRC20Wallet:   "TWallet",
	})
	assert.True(t, pc.StarsPerUSD.Equal(decimal.NewFromInt(50)))
	assert.Equal(t, "TWallet", pc.TRC20Wallet)
	assert.False(t, pc.CardEnabled)
}
