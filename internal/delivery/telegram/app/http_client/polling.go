// internal/delivery/telegram/app/http_client/polling.go
package http_client

import (
	"context"
)

// GetUpdates получает обновления long-polling запросом.
// HTTP таймаут клиента больше timeout, чтобы Telegram успел ответить пустым списком.
func (c *TelegramClient) GetUpdates(ctx context.Context, offset, timeout int) ([]Update, error) {
	params := map[string]interface{}{
		"offset":          offset,
		"timeout":         timeout,
		"allowed_updates": []string{"message", "callback_query", "pre_checkout_query"},
	}

	var updates []Update
	if err := c.makeRequest(ctx, c.pollingClient, "getUpdates", params, &updates); err != nil {
		return nil, err
	}
	return updates, nil
}
