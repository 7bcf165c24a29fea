package packages

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func ptrDec(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func ptrTime(t time.Time) *time.Time {
	return &t
}

func assertDecimal(t *testing.T, expected string, actual decimal.Decimal) {
	t.Helper()
	assert.Truef(t, dec(expected).Equal(actual), "expected %s, got %s", expected, actual.String())
}

func TestEffectivePrice_PromotionWins(t *testing.T) {
	pricing := Pricing{
		Monthly:            dec("79.99"),
		DiscountPercentage: dec("20"),
		PromotionalPrice:   ptrDec("49.99"),
		PromotionalExpiry:  ptrTime(testNow.Add(24 * time.Hour)),
	}

	assertDecimal(t, "49.99", EffectivePrice(pricing, DurationMonthly, testNow))
}

func TestEffectivePrice_PromotionAboveBaseStillWins(t *testing.T) {
	pricing := Pricing{
		Monthly:           dec("19.99"),
		PromotionalPrice:  ptrDec("29.99"),
		PromotionalExpiry: ptrTime(testNow.Add(time.Hour)),
	}

	assertDecimal(t, "29.99", EffectivePrice(pricing, DurationMonthly, testNow))
	// промо действует на любую длительность, даже не предлагаемую
	assertDecimal(t, "29.99", EffectivePrice(pricing, DurationLifetime, testNow))
}

func TestEffectivePrice_ExpiredPromotionFallsBackToDiscount(t *testing.T) {
	pricing := Pricing{
		Monthly:            dec("79.99"),
		DiscountPercentage: dec("20"),
		PromotionalPrice:   ptrDec("49.99"),
		PromotionalExpiry:  ptrTime(testNow.Add(-24 * time.Hour)),
	}

	assertDecimal(t, "63.99", EffectivePrice(pricing, DurationMonthly, testNow))
}

func TestEffectivePrice_PromotionExpiresExactlyNow(t *testing.T) {
	pricing := Pricing{
		Monthly:           dec("79.99"),
		PromotionalPrice:  ptrDec("49.99"),
		PromotionalExpiry: ptrTime(testNow),
	}

	assertDecimal(t, "79.99", EffectivePrice(pricing, DurationMonthly, testNow))
}

func TestEffectivePrice_PromotionWithoutExpiryIsInert(t *testing.T) {
	pricing := Pricing{
		Monthly:          dec("79.99"),
		PromotionalPrice: ptrDec("9.99"),
	}

	assertDecimal(t, "79.99", EffectivePrice(pricing, DurationMonthly, testNow))
}

func TestEffectivePrice_NoPromotionNoDiscount(t *testing.T) {
	pricing := Pricing{
		Monthly:   dec("19.99"),
		Quarterly: dec("54.99"),
		Yearly:    dec("199.99"),
		Lifetime:  dec("999.99"),
	}

	assertDecimal(t, "19.99", EffectivePrice(pricing, DurationMonthly, testNow))
	assertDecimal(t, "54.99", EffectivePrice(pricing, DurationQuarterly, testNow))
	assertDecimal(t, "199.99", EffectivePrice(pricing, DurationYearly, testNow))
	assertDecimal(t, "999.99", EffectivePrice(pricing, DurationLifetime, testNow))
}

func TestEffectivePrice_UnofferedDurationIsZero(t *testing.T) {
	pricing := Pricing{Monthly: dec("19.99"), DiscountPercentage: dec("10")}

	assert.True(t, EffectivePrice(pricing, DurationLifetime, testNow).IsZero())
	assert.True(t, EffectivePrice(pricing, Duration("weekly"), testNow).IsZero())
	assert.False(t, pricing.IsOffered(DurationLifetime))
	assert.True(t, pricing.IsOffered(DurationMonthly))
}

func TestDurationDays(t *testing.T) {
	assert.Equal(t, 30, DurationDays(DurationMonthly))
	assert.Equal(t, 90, DurationDays(DurationQuarterly))
	assert.Equal(t, 365, DurationDays(DurationYearly))
	assert.Equal(t, 36500, DurationDays(DurationLifetime))
	assert.Equal(t, 0, DurationDays(Duration("weekly")))
}

func TestCalculateExpiry(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, start.Add(30*24*time.Hour), CalculateExpiry(start, DurationMonthly))
	assert.Equal(t, start.Add(365*24*time.Hour), CalculateExpiry(start, DurationYearly))
	assert.Equal(t, start.Add(36500*24*time.Hour), CalculateExpiry(start, DurationLifetime))
}

func TestRemainingDays(t *testing.T) {
	assert.Equal(t, 0, RemainingDays(testNow.Add(-time.Hour), testNow))
	assert.Equal(t, 0, RemainingDays(testNow, testNow))
	assert.Equal(t, 1, RemainingDays(testNow.Add(time.Hour), testNow))
	assert.Equal(t, 15, RemainingDays(testNow.Add(15*24*time.Hour), testNow))
	assert.Equal(t, 16, RemainingDays(testNow.Add(15*24*time.Hour+time.Minute), testNow))
}

func TestParseDuration(t *testing.T) {
	d, err := ParseDuration("3m")
	require.NoError(t, err)
	assert.Equal(t, DurationQuarterly, d)

	d, err = ParseDuration(" Yearly ")
	require.NoError(t, err)
	assert.Equal(t, DurationYearly, d)

	_, err = ParseDuration("weekly")
	assert.Error(t, err)
}
