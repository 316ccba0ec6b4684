package payroll

import "github.com/shopspring/decimal"

// StandardMinutes is the monthly overtime threshold (8h x 22 days). It does
// not scale with the length of the pay period being generated.
const StandardMinutes int64 = 8 * 60 * 22

var (
	overtimeMultiplier = decimal.NewFromFloat(1.5)
	minutesPerHour     = decimal.NewFromInt(60)
)

// Calculation holds the amounts derived from base salary and worked time.
type Calculation struct {
	TotalWorkedMinutes int64
	OvertimeMinutes    int64
	HourlyRate         decimal.Decimal
	OvertimePay        decimal.Decimal
	Deductions         decimal.Decimal
	Bonus              decimal.Decimal
	NetSalary          decimal.Decimal
}

// Calculate derives overtime and net salary. The hourly rate is rounded to
// two places half away from zero before overtime is applied.
func Calculate(baseSalary decimal.Decimal, totalWorkedMinutes int64) Calculation {
	overtimeMinutes := totalWorkedMinutes - StandardMinutes
	if overtimeMinutes < 0 {
		overtimeMinutes = 0
	}

	standardHours := decimal.NewFromInt(StandardMinutes).Div(minutesPerHour)
	hourlyRate := baseSalary.DivRound(standardHours, 2)

	overtimeHours := decimal.NewFromInt(overtimeMinutes).Div(minutesPerHour)
	overtimePay := hourlyRate.Mul(overtimeMultiplier).Mul(overtimeHours).Round(2)

	deductions := decimal.Zero
	bonus := decimal.Zero

	return Calculation{
		TotalWorkedMinutes: totalWorkedMinutes,
		OvertimeMinutes:    overtimeMinutes,
		HourlyRate:         hourlyRate,
		OvertimePay:        overtimePay,
		Deductions:         deductions,
		Bonus:              bonus,
		NetSalary:          baseSalary.Add(overtimePay).Add(bonus).Sub(deductions),
	}
}
