package handlers

import (
	"encoding/json"
	"errors"
	"fmt"

	"sentry-server/pkg/api"
)

// ErrNoTower - команда вышки пришла без адресата.
var ErrNoTower = errors.New("command requires a tower")

// TypedHandlerFunc - хендлер, которому payload уже распакован в T.
type TypedHandlerFunc[T any] func(ctx Context, payload T) (Result, error)

// EmptyHandlerFunc - хендлер без данных (ENABLE, SLEEP).
type EmptyHandlerFunc func(ctx Context) (Result, error)

// WithPayload распаковывает JSON в T и прогоняет api.Validator.
// Пустой payload - нулевое значение T, валидация всё равно выполняется.
func WithPayload[T any](handler TypedHandlerFunc[T]) HandlerFunc {
	return func(ctx Context, raw json.RawMessage) (Result, error) {
		var payload T
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &payload); err != nil {
				return Result{}, fmt.Errorf("invalid payload format: %w", err)
			}
		}

		if v, ok := any(payload).(api.Validator); ok {
			if err := v.Validate(); err != nil {
				return Result{}, fmt.Errorf("validation failed: %w", err)
			}
		}

		return handler(ctx, payload)
	}
}

// WithEmptyPayload игнорирует payload.
func WithEmptyPayload(handler EmptyHandlerFunc) HandlerFunc {
	return func(ctx Context, _ json.RawMessage) (Result, error) {
		return handler(ctx)
	}
}

// RequireTower отказывает, если в контексте нет вышки.
func RequireTower(next HandlerFunc) HandlerFunc {
	return func(ctx Context, raw json.RawMessage) (Result, error) {
		if ctx.Tower == nil {
			return Result{}, ErrNoTower
		}
		return next(ctx, raw)
	}
}
