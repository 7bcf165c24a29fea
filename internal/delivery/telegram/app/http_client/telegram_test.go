package http_client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"mr-trader-bot/internal/core/domain/payment"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedCall struct {
	Method string
	Params map[string]interface{}
}

func newTestServer(t *testing.T, results map[string]string) (*TelegramClient, *[]recordedCall) {
	t.Helper()
	var calls []recordedCall

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method := r.URL.Path[len("/bot123:abc/"):]
		var params map[string]interface{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&params))
		calls = append(calls, recordedCall{Method: method, Params: params})

		result, ok := results[method]
		if !ok {
			_, _ = w.Write([]byte(`{"ok":false,"error_code":400,"description":"Bad Request: chat not found"}`))
			return
		}
		_, _ = w.Write([]byte(`{"ok":true,"result":` + result + `}`))
	}))
	t.Cleanup(srv.Close)

	return NewTelegramClient(srv.URL+"/bot123:abc/", time.Second), &calls
}

func TestSendMessageWithKeyboard(t *testing.T) {
	client, calls := newTestServer(t, map[string]string{"sendMessage": `{"message_id":1}`})

	keyboard := &InlineKeyboardMarkup{InlineKeyboard: [][]InlineKeyboardButton{
		{{Text: "Premium", CallbackData: "buy:premium"}},
	}}
	require.NoError(t, client.SendMessageWithKeyboard(context.Background(), 42, "<b>hi</b>", keyboard))

	require.Len(t, *calls, 1)
	call := (*calls)[0]
	assert.Equal(t, "sendMessage", call.Method)
	assert.Equal(t, float64(42), call.Params["chat_id"])
	assert.Equal(t, ParseModeHTML, call.Params["parse_mode"])
	assert.Contains(t, call.Params, "reply_markup")
}

func TestMakeRequest_APIError(t *testing.T) {
	client, _ := newTestServer(t, map[string]string{})

	err := client.SendMessage(context.Background(), 1, "x")
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 400, apiErr.Code)
	assert.Equal(t, "sendMessage", apiErr.Method)
}

func TestGetUpdates(t *testing.T) {
	client, calls := newTestServer(t, map[string]string{
		"getUpdates": `[
			{"update_id": 10, "message": {"message_id": 5, "from": {"id": 7, "first_name": "Ann"}, "chat": {"id": 7}, "text": "/start"}},
			{"update_id": 11, "pre_checkout_query": {"id": "q1", "from": {"id": 7}, "currency": "XTR", "total_amount": 250, "invoice_payload": "sub:abc"}}
		]`,
	})

	updates, err := client.GetUpdates(context.Background(), 10, 0)
	require.NoError(t, err)
	require.Len(t, updates, 2)

	assert.Equal(t, "/start", updates[0].Message.Text)
	assert.Equal(t, int64(7), updates[0].Message.From.ID)
	assert.Equal(t, 250, updates[1].PreCheckoutQuery.TotalAmount)
	assert.Equal(t, float64(10), (*calls)[0].Params["offset"])
}

func TestCreateInvoiceLink(t *testing.T) {
	client, calls := newTestServer(t, map[string]string{
		"createInvoiceLink": `"https://t.me/$invoice"`,
	})

	link, err := client.CreateInvoiceLink(context.Background(), payment.Invoice{
		Title:   "Premium 1 month",
		Payload: "sub:abc",
		Stars:   250,
	})
	require.NoError(t, err)
	assert.Equal(t, "https://t.me/$invoice", link)

	params := (*calls)[0].Params
	assert.Equal(t, CurrencyStars, params["currency"])
	assert.Equal(t, "", params["provider_token"])
	assert.Equal(t, "Premium 1 month", params["description"])

	_, err = client.CreateInvoiceLink(context.Background(), payment.Invoice{Title: "x", Payload: "p"})
	assert.Error(t, err)
}

func TestAnswerPreCheckoutQuery(t *testing.T) {
	client, calls := newTestServer(t, map[string]string{"answerPreCheckoutQuery": `true`})

	require.NoError(t, client.AnswerPreCheckoutQuery(context.Background(), "q1", false, "expired"))
	params := (*calls)[0].Params
	assert.Equal(t, false, params["ok"])
	assert.Equal(t, "expired", params["error_message"])
}
