// Пакет ctxmeta — метаданные запроса в context.Context (request_id, account_id, trace_id).
// HTTP-слой, consumer и логгер зависят от него, но не друг от друга.
package ctxmeta

import "context"

type ctxKey string

const (
	// Ключи контекста (неэкспортируемый тип — чтобы избежать коллизий).
	KeyRequestID ctxKey = "request_id"
	KeyAccountID ctxKey = "account_id"
)

// WithRequestID кладёт request_id в контекст (если пусто — ничего не делает).
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return withValue(ctx, KeyRequestID, requestID)
}

// RequestIDFromContext достаёт request_id из контекста.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	return valueFrom(ctx, KeyRequestID)
}

// WithAccountID кладёт account_id покупателя в контекст (если пусто — ничего не делает).
func WithAccountID(ctx context.Context, accountID string) context.Context {
	return withValue(ctx, KeyAccountID, accountID)
}

// AccountIDFromContext достаёт account_id из контекста.
func AccountIDFromContext(ctx context.Context) (string, bool) {
	return valueFrom(ctx, KeyAccountID)
}

func withValue(ctx context.Context, key ctxKey, v string) context.Context {
	if ctx == nil || v == "" {
		return ctx
	}
	return context.WithValue(ctx, key, v)
}

func valueFrom(ctx context.Context, key ctxKey) (string, bool) {
	if ctx == nil {
		return "", false
	}
	if v, ok := ctx.Value(key).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
