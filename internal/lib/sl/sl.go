// Package sl содержит вспомогательные функции для логгера slog.
package sl

import (
	"log/slog"

	"github.com/google/uuid"
)

// Err возвращает slog.Attr с ключом "error" и текстом ошибки.
// Для nil пишется пустое значение, чтобы логирование не паниковало.
//
// Пример:
//
//	log.Error("failed to publish event", sl.Err(err))
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{Key: "error", Value: slog.StringValue("")}
	}
	return slog.Attr{
		Key:   "error",
		Value: slog.StringValue(err.Error()),
	}
}

// UUID возвращает slog.Attr со строковым представлением идентификатора.
func UUID(key string, id uuid.UUID) slog.Attr {
	return slog.String(key, id.String())
}
