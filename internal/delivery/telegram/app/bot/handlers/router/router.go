// internal/delivery/telegram/app/bot/handlers/router/router.go
package router

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"mr-trader-bot/internal/delivery/telegram/app/bot/constants"
	"mr-trader-bot/internal/delivery/telegram/app/bot/handlers"
	"mr-trader-bot/pkg/logger"
)

// ErrUnknownCommand для ключа нет хэндлера
var ErrUnknownCommand = errors.New("unknown command")

// routerImpl реализация Router
type routerImpl struct {
	handlers map[string]handlers.Handler // ключ: команда/callback/событие
}

// NewRouter создает новый роутер
func NewRouter() Router {
	return &routerImpl{
		handlers: make(map[string]handlers.Handler),
	}
}

// RegisterHandler регистрирует хэндлер (использует GetCommand())
func (r *routerImpl) RegisterHandler(handler handlers.Handler) {
	command := handler.GetCommand()

	// Для команд добавляем префикс /
	if handler.GetType() == handlers.TypeCommand && !strings.HasPrefix(command, "/") {
		command = "/" + command
	}

	r.handlers[command] = handler
	logger.Debug("Зарегистрирован хэндлер: %s для %s: %s",
		handler.GetName(), handler.GetType(), command)
}

// RegisterCallback регистрирует callback (без префикса /)
func (r *routerImpl) RegisterCallback(callback string, handler handlers.Handler) {
	callback = strings.TrimPrefix(callback, "/")
	r.handlers[callback] = handler
	logger.Debug("Зарегистрирован callback: %s → %s", callback, handler.GetName())
}

// Handle обрабатывает команду, callback или событие.
// Для callback вида "action:p1:p2" параметры попадают в Args.
func (r *routerImpl) Handle(ctx context.Context, key string, params handlers.HandlerParams) (handlers.HandlerResult, error) {
	if handler, ok := r.handlers[key]; ok {
		return r.executeHandler(ctx, handler, key, params)
	}

	if action, rest, found := strings.Cut(key, constants.CallbackSeparator); found {
		if handler, ok := r.handlers[action]; ok {
			params.Data = key
			params.Args = strings.Split(rest, constants.CallbackSeparator)
			return r.executeHandler(ctx, handler, key, params)
		}
	}

	return handlers.HandlerResult{}, fmt.Errorf("%w: %s", ErrUnknownCommand, key)
}

// executeHandler выполняет обработчик
func (r *routerImpl) executeHandler(ctx context.Context, handler handlers.Handler, key string, params handlers.HandlerParams) (handlers.HandlerResult, error) {
	logger.Debug("Вызов хэндлера: %s для: %s", handler.GetName(), key)

	result, err := handler.Execute(ctx, params)
	if err != nil {
		logger.Error("Ошибка в хэндлере %s для %s: %v", handler.GetName(), key, err)
		return handlers.HandlerResult{}, err
	}
	return result, nil
}

// GetHandler возвращает хэндлер по ключу
func (r *routerImpl) GetHandler(key string) (handlers.Handler, bool) {
	handler, exists := r.handlers[key]
	return handler, exists
}

// GetCommands возвращает отсортированный список команд (с /)
func (r *routerImpl) GetCommands() []string {
	commands := make([]string, 0, len(r.handlers))
	for key := range r.handlers {
		if strings.HasPrefix(key, "/") {
			commands = append(commands, key)
		}
	}
	sort.Strings(commands)
	return commands
}

// ParseCommand разбирает текст сообщения на команду и аргументы.
// Суффикс "@botname" у команды отбрасывается.
func ParseCommand(text string) (string, []string) {
	fields := strings.Fields(text)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return "", nil
	}
	command := strings.ToLower(fields[0])
	if i := strings.Index(command, "@"); i > 0 {
		command = command[:i]
	}
	return command, fields[1:]
}

var _ Router = (*routerImpl)(nil)
