// Package problem описывает ошибки в формате RFC 7807 (application/problem+json).
// Problem реализует error и несёт HTTP-статус, по которому трекинг
// определяет код ответа вызова.
package problem

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ContentType тип содержимого ответа с проблемой.
const ContentType = "application/problem+json"

// Problem структурированное описание ошибки вызова API.
type Problem struct {
	Type   string `json:"type,omitempty"`
	Title  string `json:"title"`
	Status int    `json:"status,omitempty"`
	Detail string `json:"detail,omitempty"`
	Cause  error  `json:"-"`
}

// New создаёт Problem со стандартным заголовком для статуса.
func New(status int, detail string) *Problem {
	return &Problem{
		Title:  http.StatusText(status),
		Status: status,
		Detail: detail,
	}
}

// Wrap создаёт Problem, сохраняя исходную ошибку для errors.Is/As.
func Wrap(status int, detail string, cause error) *Problem {
	p := New(status, detail)
	p.Cause = cause
	return p
}

func (p *Problem) Error() string {
	if p.Detail != "" {
		return fmt.Sprintf("%d %s: %s", p.Status, p.Title, p.Detail)
	}
	return fmt.Sprintf("%d %s", p.Status, p.Title)
}

func (p *Problem) Unwrap() error { return p.Cause }

// StatusCode возвращает статус проблемы или 500, если он не задан.
func (p *Problem) StatusCode() int {
	if p.Status == 0 {
		return http.StatusInternalServerError
	}
	return p.Status
}

// As извлекает Problem из цепочки ошибок.
func As(err error) (*Problem, bool) {
	var p *Problem
	if errors.As(err, &p) {
		return p, true
	}
	return nil, false
}

// Render пишет Problem в ответ с соответствующим статусом.
func Render(w http.ResponseWriter, p *Problem) {
	w.Header().Set("Content-Type", ContentType)
	w.WriteHeader(p.StatusCode())
	_ = json.NewEncoder(w).Encode(p)
}

// NotFound и прочие конструкторы покрывают частые случаи обработчиков.
func NotFound(detail string) *Problem   { return New(http.StatusNotFound, detail) }
func BadRequest(detail string) *Problem { return New(http.StatusBadRequest, detail) }
func Internal(detail string) *Problem   { return New(http.StatusInternalServerError, detail) }
