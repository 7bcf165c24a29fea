package packages

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPackage_DerivesFeaturesFromTier(t *testing.T) {
	limits := map[Tier]int{
		TierFree:    5,
		TierBasic:   50,
		TierPremium: 200,
		TierVIP:     500,
		TierGhost:   9999,
	}

	for tier, limit := range limits {
		p := NewPackage(Package{Tier: tier})
		assert.Equal(t, limit, p.Features.DailyRequestLimit, tier)
		assert.Equal(t, DefaultStrategies(tier), p.Features.Strategies, tier)
		assert.Equal(t, tier.Title(), p.Title)
	}
}

func TestNewPackage_KeepsExplicitFeatures(t *testing.T) {
	p := NewPackage(Package{
		Tier:     TierBasic,
		Features: Features{DailyRequestLimit: 7, Strategies: []string{StrategyFibonacci}},
	})

	assert.Equal(t, 7, p.Features.DailyRequestLimit)
	assert.Equal(t, []string{StrategyFibonacci}, p.Features.Strategies)
	assert.True(t, p.Features.HasStrategy(StrategyFibonacci))
	assert.False(t, p.Features.HasStrategy(StrategyRSI))
}

func TestDefaultStrategies_ReturnsCopy(t *testing.T) {
	s := DefaultStrategies(TierFree)
	s[0] = "mutated"

	assert.Equal(t, StrategyRSI, DefaultStrategies(TierFree)[0])
}

func TestDefaultCatalog(t *testing.T) {
	catalog := DefaultCatalog()
	require.Len(t, catalog, 5)

	for i, p := range catalog {
		assert.Equal(t, i, p.Level())
		assert.True(t, p.IsActive)
	}
	assert.True(t, catalog[0].IsFree())
}

func TestCanUpgrade_Monotonic(t *testing.T) {
	catalog := DefaultCatalog()

	for _, a := range catalog {
		for _, b := range catalog {
			if b.Level() > a.Level() {
				assert.True(t, CanUpgrade(a, b), "%s -> %s", a.Tier, b.Tier)
				assert.False(t, CanUpgrade(b, a), "%s -> %s", b.Tier, a.Tier)
			}
		}
		assert.False(t, CanUpgrade(a, a), "same tier %s", a.Tier)
	}
}

func TestCalculateUpgradePrice_ProRated(t *testing.T) {
	basic := NewPackage(Package{Tier: TierBasic, Pricing: Pricing{Monthly: dec("19.99")}})
	premium := NewPackage(Package{Tier: TierPremium, Pricing: Pricing{Monthly: dec("49.99")}})

	assertDecimal(t, "15.00", CalculateUpgradePrice(basic, premium, DurationMonthly, 15, testNow))
	assertDecimal(t, "30.00", CalculateUpgradePrice(basic, premium, DurationMonthly, 30, testNow))
	assertDecimal(t, "1.00", CalculateUpgradePrice(basic, premium, DurationMonthly, 1, testNow))
}

func TestCalculateUpgradePrice_IneligibleIsZero(t *testing.T) {
	basic := NewPackage(Package{Tier: TierBasic, Pricing: Pricing{Monthly: dec("19.99")}})
	premium := NewPackage(Package{Tier: TierPremium, Pricing: Pricing{Monthly: dec("49.99")}})

	assert.True(t, CalculateUpgradePrice(premium, basic, DurationMonthly, 15, testNow).IsZero())
	assert.True(t, CalculateUpgradePrice(basic, basic, DurationMonthly, 15, testNow).IsZero())
}

func TestCalculateUpgradePrice_NeverNegative(t *testing.T) {
	// у исходного уровня дорогая промо-цена, целевой дешевле
	vip := NewPackage(Package{Tier: TierVIP, Pricing: Pricing{Monthly: dec("79.99")}})
	premium := NewPackage(Package{Tier: TierPremium, Pricing: Pricing{
		Monthly:           dec("49.99"),
		PromotionalPrice:  ptrDec("99.99"),
		PromotionalExpiry: ptrTime(testNow.Add(time.Hour)),
	}})

	assert.True(t, CanUpgrade(premium, vip))

	catalog := DefaultCatalog()
	for _, from := range append(catalog, premium) {
		for _, to := range catalog {
			for _, d := range AllDurations() {
				for _, days := range []int{0, 1, 15, 30, 400} {
					price := CalculateUpgradePrice(from, to, d, days, testNow)
					assert.False(t, price.IsNegative())
				}
			}
		}
	}
	assert.True(t, CalculateUpgradePrice(premium, vip, DurationMonthly, 20, testNow).IsZero())
}

func TestManager(t *testing.T) {
	m := NewManager(DefaultCatalog())

	vip, err := m.Get(TierVIP)
	require.NoError(t, err)
	assert.Equal(t, TierVIP, vip.Tier)

	_, err = m.Get(Tier("platinum"))
	assert.ErrorIs(t, err, ErrPackageNotFound)

	assert.True(t, m.CanUpgrade(TierBasic, TierGhost))
	assert.False(t, m.CanUpgrade(TierGhost, TierBasic))

	price, err := m.UpgradePrice(TierBasic, TierPremium, DurationMonthly, 15, testNow)
	require.NoError(t, err)
	assertDecimal(t, "15.00", price)

	vip.IsActive = false
	require.NoError(t, m.Replace(vip))

	active := m.Active()
	require.Len(t, active, 4)
	for i := 1; i < len(active); i++ {
		assert.Less(t, active[i-1].SortOrder, active[i].SortOrder)
	}

	assert.Error(t, m.Replace(Package{Tier: Tier("platinum")}))
	assert.Equal(t, TierFree, m.Free().Tier)
}
