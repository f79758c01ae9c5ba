package tracking

import (
	"net/http"

	"github.com/magabrotheeeer/cloud-console/internal/problem"
)

// Outcome результат обёрнутого вызова: успех или ошибка с кодом статуса.
type Outcome struct {
	StatusCode int
	Err        error
}

// OutcomeOf строит Outcome по ошибке вызова. Nil даёт 200, Problem даёт свой статус
// (500, если статус не задан), любая другая ошибка даёт 500.
func OutcomeOf(err error) Outcome {
	if err == nil {
		return Outcome{StatusCode: http.StatusOK}
	}
	if p, ok := problem.As(err); ok {
		return Outcome{StatusCode: p.StatusCode(), Err: err}
	}
	return Outcome{StatusCode: http.StatusInternalServerError, Err: err}
}

// OutcomeFromStatus строит Outcome по уже записанному статусу ответа.
func OutcomeFromStatus(code int) Outcome {
	if code == 0 {
		code = http.StatusOK
	}
	return Outcome{StatusCode: code}
}

// Failed сообщает, завершился ли вызов ошибкой.
func (o Outcome) Failed() bool {
	return o.Err != nil || o.StatusCode >= http.StatusBadRequest
}
