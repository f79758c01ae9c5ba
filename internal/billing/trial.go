package billing

import (
	"net/mail"
	"strings"

	"github.com/magabrotheeeer/cloud-console/internal/models"
)

// Policy явно переданные настройки одной оценки. Значения флагов
// резолвятся один раз на запрос и не читаются повторно внутри решений.
type Policy struct {
	NewTrialPolicy   bool    // billing.newTrialPolicy
	SpeedyConnection bool    // experiment.speedyConnection
	CreditThreshold  float64 // порог низкого баланса
}

// TrialState трактовка пробного периода в рамках одной политики.
type TrialState struct {
	IsTrial    bool `json:"isTrial"`
	IsPreTrial bool `json:"isPreTrial"`
}

// ResolveTrial вычисляет состояние пробного периода. При старой политике
// учитывается только наличие даты окончания, при новой только статус.
func ResolveTrial(ws models.CloudWorkspace, newPolicy bool) TrialState {
	if !newPolicy {
		return TrialState{
			IsTrial:    ws.TrialExpiryTimestamp != nil,
			IsPreTrial: false,
		}
	}

	if ws.TrialStatus == nil {
		return TrialState{}
	}
	switch *ws.TrialStatus {
	case models.TrialStatusPreTrial:
		return TrialState{IsTrial: true, IsPreTrial: true}
	case models.TrialStatusInTrial:
		return TrialState{IsTrial: true}
	default:
		return TrialState{}
	}
}

// NeedsBillingAttention сообщает, нужно ли подсвечивать пункт меню биллинга:
// кредитов нет вовсе или их не больше порога.
func NeedsBillingAttention(remainingCredits *float64, threshold float64) bool {
	if remainingCredits == nil {
		return true
	}
	return *remainingCredits <= threshold
}

// WorkspaceBanner какой баннер показывать над содержимым страницы.
type WorkspaceBanner string

const (
	BannerWorkspaceStatus  WorkspaceBanner = "workspace_status"
	BannerSpeedyConnection WorkspaceBanner = "speedy_connection"
)

// SelectWorkspaceBanner выбирает между экспериментальным баннером
// и обычным баннером статуса рабочего пространства.
func SelectWorkspaceBanner(experiment bool, trial TrialState, email string) WorkspaceBanner {
	if experiment && trial.IsTrial && IsCorporateEmail(email) {
		return BannerSpeedyConnection
	}
	return BannerWorkspaceStatus
}

var freeEmailProviders = map[string]struct{}{
	"gmail.com":      {},
	"googlemail.com": {},
	"yahoo.com":      {},
	"hotmail.com":    {},
	"outlook.com":    {},
	"live.com":       {},
	"aol.com":        {},
	"icloud.com":     {},
	"me.com":         {},
	"mail.com":       {},
	"gmx.com":        {},
	"gmx.de":         {},
	"yandex.ru":      {},
	"mail.ru":        {},
	"proton.me":      {},
	"protonmail.com": {},
	"zoho.com":       {},
	"qq.com":         {},
	"163.com":        {},
}

// IsCorporateEmail возвращает true для корректного адреса не из бесплатных почтовых сервисов.
func IsCorporateEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return false
	}
	at := strings.LastIndex(addr.Address, "@")
	if at < 0 {
		return false
	}
	domain := strings.ToLower(addr.Address[at+1:])
	_, free := freeEmailProviders[domain]
	return !free
}
