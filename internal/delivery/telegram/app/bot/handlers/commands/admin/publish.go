// internal/delivery/telegram/app/bot/handlers/commands/admin/publish.go
package admin

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"mr-trader-bot/internal/core/domain/signal_feed"
	"mr-trader-bot/internal/core/domain/signals"
	"mr-trader-bot/internal/delivery/telegram/app/bot/constants"
	"mr-trader-bot/internal/delivery/telegram/app/bot/formatters"
	"mr-trader-bot/internal/delivery/telegram/app/bot/handlers"
	"mr-trader-bot/internal/delivery/telegram/app/bot/handlers/base"
)

const publishUsage = "/publish BTC/USDT buy 4h 65000 strong 0.8 [стратегия]"

var errConfidenceRange = errors.New("уверенность вне диапазона [0, 1]")

// publishHandler ручная публикация сигнала
type publishHandler struct {
	*base.BaseHandler
	publisher handlers.SignalPublisher
	now       func() time.Time
}

// NewPublishHandler создает обработчик команды /publish
func NewPublishHandler(publisher handlers.SignalPublisher, now func() time.Time) handlers.Handler {
	if now == nil {
		now = time.Now
	}
	return &publishHandler{
		BaseHandler: &base.BaseHandler{
			Name:    "publish_command_handler",
			Command: constants.CommandPublish,
			Type:    handlers.TypeCommand,
		},
		publisher: publisher,
		now:       now,
	}
}

// Execute /publish <пара> <тип> <таймфрейм> <цена> <сила> <уверенность> [стратегия]
func (h *publishHandler) Execute(ctx context.Context, params handlers.HandlerParams) (handlers.HandlerResult, error) {
	sig, err := h.parse(params.Args)
	if errors.Is(err, errConfidenceRange) {
		return h.Reply("⛔ Уверенность задается долей от 0 до 1, например 0.8")
	}
	if err != nil {
		return h.Usage(publishUsage)
	}

	if err := h.publisher.Publish(ctx, sig); err != nil {
		if errors.Is(err, signal_feed.ErrInvalidSignal) {
			return h.Reply("⛔ Сигнал не прошел проверку: цена и уверенность должны быть корректными.")
		}
		return h.ErrorReply(err)
	}
	return h.Reply("📤 Сигнал опубликован\n\n" + formatters.FormatSignal(sig))
}

func (h *publishHandler) parse(args []string) (signals.Signal, error) {
	if len(args) < 6 {
		return signals.Signal{}, errors.New("недостаточно аргументов")
	}

	symbol, currency, _ := strings.Cut(strings.ToUpper(args[0]), "/")
	signalType, err := signals.ParseType(args[1])
	if err != nil {
		return signals.Signal{}, err
	}
	timeframe, err := signals.ParseTimeframe(args[2])
	if err != nil {
		return signals.Signal{}, err
	}
	price, err := strconv.ParseFloat(args[3], 64)
	if err != nil {
		return signals.Signal{}, err
	}
	strength, err := signals.ParseStrength(args[4])
	if err != nil {
		return signals.Signal{}, err
	}
	confidence, err := strconv.ParseFloat(args[5], 64)
	if err != nil {
		return signals.Signal{}, err
	}
	if !(confidence >= 0 && confidence <= 1) {
		return signals.Signal{}, errConfidenceRange
	}

	b := signals.NewBuilder(symbol, currency, signalType, timeframe, price, strength, confidence).
		WithCreatedAt(h.now())
	if len(args) > 6 {
		b.WithStrategy(strings.ToLower(args[6]))
	}
	return b.Build(), nil
}
