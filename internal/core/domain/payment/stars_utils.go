// internal/core/domain/payment/stars_utils.go
package payment

import (
	"fmt"
	"regexp"
	"strings"

	"mr-trader-bot/internal/core/domain/packages"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MaxStarsPerInvoice лимит Telegram на один счет
const MaxStarsPerInvoice = 10000

const payloadPrefix = "sub:"

var (
	trc20TxPattern   = regexp.MustCompile(`^[0-9a-fA-F]{64}$`)
	cardRefPattern   = regexp.MustCompile(`^[0-9]{6,20}$`)
	referenceCleaner = strings.NewReplacer(" ", "", "-", "")
)

// StarsAmount конвертирует сумму в USD в Stars с округлением вверх, минимум 1
func StarsAmount(usd, starsPerUSD decimal.Decimal) int {
	stars := usd.Mul(starsPerUSD).Ceil().IntPart()
	if stars < 1 {
		return 1
	}
	return int(stars)
}

// invoicePayload payload счета, по которому платеж находится при подтверждении
func invoicePayload(id uuid.UUID) string {
	return payloadPrefix + id.String()
}

// invoiceTitle заголовок счета
func invoiceTitle(tier packages.Tier, duration packages.Duration) string {
	return fmt.Sprintf("%s · %s", tier.Title(), duration.Title())
}

// NormalizeReference проверяет идентификатор перевода для ручного способа оплаты
func NormalizeReference(method Method, reference string) (string, error) {
	switch method {
	case MethodTRC20:
		ref := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(reference), "0x"))
		if !trc20TxPattern.MatchString(ref) {
			return "", fmt.Errorf("%w: ожидается хеш транзакции TRC20 из 64 hex-символов", ErrInvalidReference)
		}
		return ref, nil
	case MethodCard:
		ref := referenceCleaner.Replace(strings.TrimSpace(reference))
		if !cardRefPattern.MatchString(ref) {
			return "", fmt.Errorf("%w: ожидается номер квитанции из 6-20 цифр", ErrInvalidReference)
		}
		return ref, nil
	}
	return "", fmt.Errorf("%w: %s не требует подтверждения", ErrInvalidReference, method)
}
