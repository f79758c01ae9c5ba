package models

import (
	"time"

	"github.com/google/uuid"
)

// Workspace представляет рабочее пространство в том порядке,
// в котором его возвращает листинг.
type Workspace struct {
	ID         uuid.UUID `json:"workspaceId"`
	CustomerID uuid.UUID `json:"customerId"`
	Name       string    `json:"name"`
}

// TrialStatus стадия пробного периода облачного рабочего пространства.
type TrialStatus string

const (
	TrialStatusPreTrial TrialStatus = "pre_trial"
	TrialStatusInTrial  TrialStatus = "in_trial"
	TrialStatusOther    TrialStatus = "other"
)

// ParseTrialStatus приводит сохранённое значение к известному статусу.
// Всё, что не pre_trial и не in_trial, считается other.
func ParseTrialStatus(s string) TrialStatus {
	switch TrialStatus(s) {
	case TrialStatusPreTrial:
		return TrialStatusPreTrial
	case TrialStatusInTrial:
		return TrialStatusInTrial
	default:
		return TrialStatusOther
	}
}

// CloudWorkspace расширяет Workspace биллинговыми полями облака.
// Каждое поле может отсутствовать, пока облачный API его не вернул.
type CloudWorkspace struct {
	Workspace
	RemainingCredits     *float64     `json:"remainingCredits,omitempty"`     // Остаток кредитов
	TrialStatus          *TrialStatus `json:"workspaceTrialStatus,omitempty"` // Статус пробного периода
	TrialExpiryTimestamp *time.Time   `json:"trialExpiryTimestamp,omitempty"` // Окончание пробного периода
}

// ProgramStatus описывает участие рабочего пространства в программе
// бесплатных коннекторов. Nil означает, что флаг ещё не загружен.
type ProgramStatus struct {
	HasEligibleConnections    *bool `json:"hasEligibleConnections,omitempty"`
	HasNonEligibleConnections *bool `json:"hasNonEligibleConnections,omitempty"`
	IsEnrolled                *bool `json:"isEnrolled,omitempty"`
}

// InstanceConfiguration глобальные настройки развёртывания.
type InstanceConfiguration struct {
	InitialSetupComplete bool `json:"initialSetupComplete"`
}
