// internal/infrastructure/persistence/postgres/models/package.go
package models

import (
	"database/sql"
	"time"

	"mr-trader-bot/internal/core/domain/packages"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// Package строка таблицы packages
type Package struct {
	ID                 int                 `db:"id"`
	Tier               string              `db:"tier"`
	Title              string              `db:"title"`
	Description        string              `db:"description"`
	DailyRequestLimit  int                 `db:"daily_request_limit"`
	Strategies         pq.StringArray      `db:"strategies"`
	PriceMonthly       decimal.Decimal     `db:"price_monthly"`
	PriceQuarterly     decimal.Decimal     `db:"price_quarterly"`
	PriceYearly        decimal.Decimal     `db:"price_yearly"`
	PriceLifetime      decimal.Decimal     `db:"price_lifetime"`
	DiscountPercentage decimal.Decimal     `db:"discount_percentage"`
	PromotionalPrice   decimal.NullDecimal `db:"promotional_price"`
	PromotionalExpiry  sql.NullTime        `db:"promotional_expiry"`
	IsActive           bool                `db:"is_active"`
	IsFeatured         bool                `db:"is_featured"`
	SortOrder          int                 `db:"sort_order"`
	UpdatedAt          time.Time           `db:"updated_at"`
}

// NewPackage модель из доменного пакета
func NewPackage(p packages.Package) Package {
	m := Package{
		ID:                 p.ID,
		Tier:               string(p.Tier),
		Title:              p.Title,
		Description:        p.Description,
		DailyRequestLimit:  p.Features.DailyRequestLimit,
		Strategies:         pq.StringArray(p.Features.Strategies),
		PriceMonthly:       p.Pricing.Monthly,
		PriceQuarterly:     p.Pricing.Quarterly,
		PriceYearly:        p.Pricing.Yearly,
		PriceLifetime:      p.Pricing.Lifetime,
		DiscountPercentage: p.Pricing.DiscountPercentage,
		IsActive:           p.IsActive,
		IsFeatured:         p.IsFeatured,
		SortOrder:          p.SortOrder,
	}
	if p.Pricing.PromotionalPrice != nil {
		m.PromotionalPrice = decimal.NewNullDecimal(*p.Pricing.PromotionalPrice)
	}
	if p.Pricing.PromotionalExpiry != nil {
		m.PromotionalExpiry = sql.NullTime{Time: *p.Pricing.PromotionalExpiry, Valid: true}
	}
	return m
}

// ToDomain доменный пакет
func (m Package) ToDomain() packages.Package {
	p := packages.Package{
		ID:          m.ID,
		Tier:        packages.Tier(m.Tier),
		Title:       m.Title,
		Description: m.Description,
		Features: packages.Features{
			DailyRequestLimit: m.DailyRequestLimit,
			Strategies:        []string(m.Strategies),
		},
		Pricing: packages.Pricing{
			Monthly:            m.PriceMonthly,
			Quarterly:          m.PriceQuarterly,
			Yearly:             m.PriceYearly,
			Lifetime:           m.PriceLifetime,
			DiscountPercentage: m.DiscountPercentage,
		},
		IsActive:   m.IsActive,
		IsFeatured: m.IsFeatured,
		SortOrder:  m.SortOrder,
	}
	if m.PromotionalPrice.Valid {
		price := m.PromotionalPrice.Decimal
		p.Pricing.PromotionalPrice = &price
	}
	if m.PromotionalExpiry.Valid {
		expiry := m.PromotionalExpiry.Time
		p.Pricing.PromotionalExpiry = &expiry
	}
	return packages.NewPackage(p)
}
