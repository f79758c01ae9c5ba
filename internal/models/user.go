// Package models содержит доменные структуры консоли: пользователя,
// рабочие пространства, биллинговое состояние и события аналитики.
// Структуры используются в бизнес‑логике и при работе с хранилищем.
package models

import "github.com/google/uuid"

// User представляет аутентифицированного пользователя консоли.
// Данные извлекаются из JWT и не хранятся в базе.
type User struct {
	ID    uuid.UUID // Уникальный идентификатор пользователя
	Email string    // Электронная почта
	Role  string    // Роль пользователя, admin или member
}
