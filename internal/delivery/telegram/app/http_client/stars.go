// internal/delivery/telegram/app/http_client/stars.go
package http_client

import (
	"context"
	"fmt"

	"mr-trader-bot/internal/core/domain/payment"
	"mr-trader-bot/pkg/logger"
)

// CurrencyStars валюта Telegram Stars
const CurrencyStars = "XTR"

// CreateInvoiceLink создает ссылку на счет в Telegram Stars.
// Для цифровых товаров provider_token передается пустой строкой.
func (c *TelegramClient) CreateInvoiceLink(ctx context.Context, invoice payment.Invoice) (string, error) {
	if invoice.Title == "" || invoice.Payload == "" {
		return "", fmt.Errorf("обязательные поля инвойса не заполнены: title, payload")
	}
	if invoice.Stars <= 0 {
		return "", fmt.Errorf("сумма инвойса должна быть положительной: %d", invoice.Stars)
	}

	description := invoice.Description
	if description == "" {
		description = invoice.Title
	}

	params := map[string]interface{}{
		"title":          invoice.Title,
		"description":    description,
		"payload":        invoice.Payload,
		"provider_token": "",
		"currency":       CurrencyStars,
		"prices":         []LabeledPrice{{Label: invoice.Title, Amount: invoice.Stars}},
	}

	var link string
	if err := c.makeRequest(ctx, c.httpClient, "createInvoiceLink", params, &link); err != nil {
		return "", fmt.Errorf("ошибка создания инвойса: %w", err)
	}
	if link == "" {
		return "", fmt.Errorf("результат создания инвойса пуст")
	}

	logger.Info("⭐ Создан инвойс Stars: %s (%d XTR)", invoice.Payload, invoice.Stars)
	return link, nil
}

// AnswerPreCheckoutQuery отвечает на pre-checkout запрос
func (c *TelegramClient) AnswerPreCheckoutQuery(ctx context.Context, queryID string, ok bool, errorMessage string) error {
	params := map[string]interface{}{
		"pre_checkout_query_id": queryID,
		"ok":                    ok,
	}
	if !ok && errorMessage != "" {
		params["error_message"] = errorMessage
	}

	if err := c.makeRequest(ctx, c.httpClient, "answerPreCheckoutQuery", params, nil); err != nil {
		return fmt.Errorf("ошибка ответа на pre-checkout: %w", err)
	}
	logger.Debug("Ответ на pre-checkout отправлен: %s (ok=%v)", queryID, ok)
	return nil
}
