// Package billing содержит чистые функции принятия решений для биллинговых
// баннеров консоли: уровень кредитов, серьёзность баннера и трактовку
// пробного периода. Функции не имеют побочных эффектов и пересчитываются
// на каждый запрос.
package billing

// LowBalanceCreditThreshold порог кредитов, ниже которого баланс считается низким.
const LowBalanceCreditThreshold = 20.0

// Severity вариант биллингового баннера.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// CreditLevel уровень остатка кредитов относительно порога.
type CreditLevel string

const (
	CreditLevelZero     CreditLevel = "zero"
	CreditLevelLow      CreditLevel = "low"
	CreditLevelPositive CreditLevel = "positive"
)

// CreditLevelOf вычисляет уровень кредитов. Отсутствующий остаток равен нулю.
func CreditLevelOf(remainingCredits *float64, threshold float64) CreditLevel {
	var credits float64
	if remainingCredits != nil {
		credits = *remainingCredits
	}

	switch {
	case credits >= threshold:
		return CreditLevelPositive
	case credits <= 0:
		return CreditLevelZero
	default:
		return CreditLevelLow
	}
}

// BannerInput снимок состояния рабочего пространства для выбора баннера.
type BannerInput struct {
	RemainingCredits          *float64
	HasEligibleConnections    *bool
	HasNonEligibleConnections *bool
	IsEnrolled                *bool
	IsPreTrial                bool
	Threshold                 float64 // 0 означает LowBalanceCreditThreshold
}

// SelectBannerSeverity выбирает серьёзность баннера. Правила проверяются
// по порядку, срабатывает первое подходящее.
func SelectBannerSeverity(in BannerInput) Severity {
	threshold := in.Threshold
	if threshold == 0 {
		threshold = LowBalanceCreditThreshold
	}
	level := CreditLevelOf(in.RemainingCredits, threshold)

	eligible := isTrue(in.HasEligibleConnections)
	nonEligible := isTrue(in.HasNonEligibleConnections)
	enrolled := isTrue(in.IsEnrolled)

	if level == CreditLevelLow && (nonEligible || !eligible) {
		return SeverityWarning
	}

	if level == CreditLevelZero && !in.IsPreTrial &&
		(nonEligible || !eligible || (eligible && !enrolled)) {
		return SeverityError
	}

	return SeverityInfo
}

func isTrue(b *bool) bool {
	if b == nil {
		return false
	}
	return *b
}
