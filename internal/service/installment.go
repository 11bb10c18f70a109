package service

import (
	"time"

	"github.com/segyhp/booking-engine/internal/domain"
	customError "github.com/segyhp/booking-engine/pkg/errors"
	"github.com/segyhp/booking-engine/pkg/utils"

	"github.com/shopspring/decimal"
)

type InstallmentScheduler struct {
	downPaymentRatio decimal.Decimal
}

// NewInstallmentScheduler creates a scheduler. A zero or out of range ratio falls back to 60%.
func NewInstallmentScheduler(downPaymentRatio decimal.Decimal) *InstallmentScheduler {
	if !downPaymentRatio.IsPositive() || downPaymentRatio.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		downPaymentRatio = domain.DefaultDownPaymentRatio
	}
	return &InstallmentScheduler{downPaymentRatio: downPaymentRatio}
}

// DownPaymentRatio returns the share of the price paid up front
func (s *InstallmentScheduler) DownPaymentRatio() decimal.Decimal {
	return s.downPaymentRatio
}

// MinimumInstallment is the smallest initial payment accepted for a property
func (s *InstallmentScheduler) MinimumInstallment(totalPrice decimal.Decimal) decimal.Decimal {
	return utils.RoundCurrency(totalPrice.Mul(s.downPaymentRatio))
}

// ValidateInitialPayment rejects an initial payment below the minimum installment
func (s *InstallmentScheduler) ValidateInitialPayment(totalPrice, amount decimal.Decimal) error {
	if !totalPrice.IsPositive() {
		return customError.WrapInvalidTotalPrice(totalPrice.String())
	}
	minimum := s.MinimumInstallment(totalPrice)
	if amount.LessThan(minimum) {
		return customError.WrapBelowMinimumInstallment(minimum.StringFixed(2), amount.StringFixed(2))
	}
	if amount.GreaterThan(totalPrice) {
		return customError.WrapAmountExceedsPrice(totalPrice.StringFixed(2), amount.StringFixed(2))
	}
	return nil
}

// ComputeSchedule builds the plan for the standard down payment
func (s *InstallmentScheduler) ComputeSchedule(totalPrice decimal.Decimal, planYears int, start time.Time) (*domain.InstallmentPlan, error) {
	if !totalPrice.IsPositive() {
		return nil, customError.WrapInvalidTotalPrice(totalPrice.String())
	}
	return s.ComputeScheduleWithDownPayment(totalPrice, s.MinimumInstallment(totalPrice), planYears, start)
}

// ComputeScheduleWithDownPayment amortizes totalPrice - downPayment over planYears*12 equal monthly
// periods without interest. Amounts round half-up to cents and the last period absorbs the
// remainder, so the periods always sum to the balance exactly.
func (s *InstallmentScheduler) ComputeScheduleWithDownPayment(totalPrice, downPayment decimal.Decimal, planYears int, start time.Time) (*domain.InstallmentPlan, error) {
	if !totalPrice.IsPositive() {
		return nil, customError.WrapInvalidTotalPrice(totalPrice.String())
	}
	if planYears != domain.PlanYearsShort && planYears != domain.PlanYearsLong {
		return nil, customError.WrapInvalidPlanYears(planYears)
	}
	if err := s.ValidateInitialPayment(totalPrice, downPayment); err != nil {
		return nil, err
	}

	balance := totalPrice.Sub(downPayment)
	periodCount := planYears * domain.MonthsPerYear
	periodAmount := utils.RoundCurrency(balance.Div(decimal.NewFromInt(int64(periodCount))))
	if periodAmount.Mul(decimal.NewFromInt(int64(periodCount - 1))).GreaterThan(balance) {
		// rounding up would leave the last period negative on tiny balances
		periodAmount = balance.Div(decimal.NewFromInt(int64(periodCount))).RoundDown(utils.CurrencyPlaces)
	}

	startDate := utils.DateOnly(start)
	periods := make([]*domain.InstallmentPeriod, 0, periodCount)
	allocated := decimal.Zero
	for n := 1; n <= periodCount; n++ {
		amount := periodAmount
		if n == periodCount {
			amount = balance.Sub(allocated)
		}
		allocated = allocated.Add(amount)

		periods = append(periods, &domain.InstallmentPeriod{
			Number:    n,
			DueDate:   utils.AddMonthsClamped(startDate, n),
			AmountDue: amount,
		})
	}

	return &domain.InstallmentPlan{
		TotalPrice:       totalPrice,
		DownPaymentRatio: s.downPaymentRatio,
		DownPayment:      downPayment,
		Balance:          balance,
		PlanYears:        planYears,
		StartDate:        startDate,
		Periods:          periods,
	}, nil
}

// MarkPeriodPaid marks one period paid once the gateway confirmed it. Number is 1-based.
func (s *InstallmentScheduler) MarkPeriodPaid(plan *domain.InstallmentPlan, number int, paidAt time.Time) error {
	if number < 1 || number > len(plan.Periods) {
		return customError.WrapPeriodOutOfRange(number, len(plan.Periods))
	}
	period := plan.Periods[number-1]
	if period.IsPaid {
		return nil
	}
	paid := paidAt.UTC()
	period.IsPaid = true
	period.DatePaid = &paid
	return nil
}
