// internal/delivery/telegram/app/http_client/telegram.go
package http_client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"mr-trader-bot/pkg/logger"
)

// ParseModeHTML разметка сообщений бота
const ParseModeHTML = "HTML"

// APIError ошибка, возвращенная Bot API
type APIError struct {
	Method      string
	Code        int
	Description string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("ошибка Telegram API %s (%d): %s", e.Method, e.Code, e.Description)
}

// TelegramClient клиент для работы с Telegram API
type TelegramClient struct {
	httpClient    *http.Client
	pollingClient *http.Client
	baseURL       string
}

// NewTelegramClient создает новый клиент Telegram. baseURL заканчивается на "/bot<token>/".
func NewTelegramClient(baseURL string, timeout time.Duration) *TelegramClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &TelegramClient{
		httpClient:    &http.Client{Timeout: timeout},
		pollingClient: &http.Client{Timeout: timeout + 35*time.Second},
		baseURL:       baseURL,
	}
}

// makeRequest вызывает метод Bot API и декодирует result в out
func (c *TelegramClient) makeRequest(ctx context.Context, client *http.Client, method string, params interface{}, out interface{}) error {
	body, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("ошибка сериализации запроса %s: %w", method, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+method, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("ошибка создания запроса %s: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("ошибка запроса %s: %w", method, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("ошибка чтения ответа %s: %w", method, err)
	}

	var response apiResponse
	if err := json.Unmarshal(raw, &response); err != nil {
		return fmt.Errorf("ошибка декодирования ответа %s (HTTP %d): %w", method, resp.StatusCode, err)
	}
	if !response.OK {
		return &APIError{Method: method, Code: response.ErrorCode, Description: response.Description}
	}

	if out != nil && len(response.Result) > 0 {
		if err := json.Unmarshal(response.Result, out); err != nil {
			return fmt.Errorf("ошибка декодирования результата %s: %w", method, err)
		}
	}
	return nil
}

// SendMessage отправляет текстовое сообщение
func (c *TelegramClient) SendMessage(ctx context.Context, chatID int64, text string) error {
	return c.SendMessageWithKeyboard(ctx, chatID, text, nil)
}

// SendMessageWithKeyboard отправляет сообщение с inline-клавиатурой
func (c *TelegramClient) SendMessageWithKeyboard(ctx context.Context, chatID int64, text string, keyboard *InlineKeyboardMarkup) error {
	params := map[string]interface{}{
		"chat_id":                  chatID,
		"text":                     text,
		"parse_mode":               ParseModeHTML,
		"disable_web_page_preview": true,
	}
	if keyboard != nil {
		params["reply_markup"] = keyboard
	}
	return c.makeRequest(ctx, c.httpClient, "sendMessage", params, nil)
}

// AnswerCallbackQuery снимает индикатор загрузки с кнопки
func (c *TelegramClient) AnswerCallbackQuery(ctx context.Context, callbackID, text string) error {
	params := map[string]interface{}{"callback_query_id": callbackID}
	if text != "" {
		params["text"] = text
	}
	return c.makeRequest(ctx, c.httpClient, "answerCallbackQuery", params, nil)
}

// SetMyCommands устанавливает меню команд
func (c *TelegramClient) SetMyCommands(ctx context.Context, commands []BotCommand) error {
	if err := c.makeRequest(ctx, c.httpClient, "setMyCommands",
		map[string]interface{}{"commands": commands}, nil); err != nil {
		return err
	}
	logger.Debug("📋 Меню команд обновлено: %d команд", len(commands))
	return nil
}
