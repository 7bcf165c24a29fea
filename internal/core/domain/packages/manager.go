// internal/core/domain/packages/manager.go
package packages

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// ErrPackageNotFound пакет уровня отсутствует в каталоге
var ErrPackageNotFound = errors.New("package not found")

// Manager каталог пакетов в памяти
type Manager struct {
	mu       sync.RWMutex
	packages map[Tier]Package
}

// NewManager создает каталог из переданных пакетов
func NewManager(catalog []Package) *Manager {
	m := &Manager{packages: make(map[Tier]Package, len(catalog))}
	for _, p := range catalog {
		m.packages[p.Tier] = NewPackage(p)
	}
	return m
}

// Get возвращает пакет уровня
func (m *Manager) Get(tier Tier) (Package, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.packages[tier]
	if !ok {
		return Package{}, fmt.Errorf("%w: %s", ErrPackageNotFound, tier)
	}
	return p, nil
}

// Free пакет бесплатного уровня
func (m *Manager) Free() Package {
	p, err := m.Get(TierFree)
	if err != nil {
		return NewPackage(Package{Tier: TierFree, IsActive: true})
	}
	return p
}

// Active активные пакеты, отсортированные по SortOrder
func (m *Manager) Active() []Package {
	m.mu.RLock()
	result := make([]Package, 0, len(m.packages))
	for _, p := range m.packages {
		if p.IsActive {
			result = append(result, p)
		}
	}
	m.mu.RUnlock()

	sort.SliceStable(result, func(i, j int) bool {
		if result[i].SortOrder != result[j].SortOrder {
			return result[i].SortOrder < result[j].SortOrder
		}
		return result[i].Level() < result[j].Level()
	})
	return result
}

// Replace заменяет запись пакета целиком (правка администратором)
func (m *Manager) Replace(p Package) error {
	if !p.Tier.IsValid() {
		return fmt.Errorf("неизвестный уровень пакета: %q", p.Tier)
	}

	m.mu.Lock()
	m.packages[p.Tier] = NewPackage(p)
	m.mu.Unlock()
	return nil
}

// ReplaceAll заменяет весь каталог
func (m *Manager) ReplaceAll(catalog []Package) {
	packages := make(map[Tier]Package, len(catalog))
	for _, p := range catalog {
		packages[p.Tier] = NewPackage(p)
	}

	m.mu.Lock()
	m.packages = packages
	m.mu.Unlock()
}

// CanUpgrade проверяет возможность перехода между уровнями каталога
func (m *Manager) CanUpgrade(from, to Tier) bool {
	fromPkg, err := m.Get(from)
	if err != nil {
		return false
	}
	toPkg, err := m.Get(to)
	if err != nil {
		return false
	}
	return CanUpgrade(fromPkg, toPkg)
}

// UpgradePrice доплата за переход между уровнями каталога
func (m *Manager) UpgradePrice(from, to Tier, duration Duration, remainingDays int, now time.Time) (decimal.Decimal, error) {
	fromPkg, err := m.Get(from)
	if err != nil {
		return decimal.Zero, err
	}
	toPkg, err := m.Get(to)
	if err != nil {
		return decimal.Zero, err
	}
	return CalculateUpgradePrice(fromPkg, toPkg, duration, remainingDays, now), nil
}
