package depreciation

import (
	"fmt"
	"time"

	"github.com/LattanaDev/laobooks_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ScheduleStatus distinguishes months already posted to the depreciation
// ledger from projected ones.
type ScheduleStatus string

const (
	StatusPosted  ScheduleStatus = "POSTED"
	StatusPreview ScheduleStatus = "PREVIEW"
)

// YearMonth identifies one month of an asset's depreciation schedule.
type YearMonth struct {
	Year  int `json:"year"`
	Month int `json:"month"` // 1..12
}

// After reports whether ym is strictly later than other.
func (ym YearMonth) After(other YearMonth) bool {
	if ym.Year != other.Year {
		return ym.Year > other.Year
	}
	return ym.Month > other.Month
}

// Next returns the following calendar month.
func (ym YearMonth) Next() YearMonth {
	if ym.Month == 12 {
		return YearMonth{Year: ym.Year + 1, Month: 1}
	}
	return YearMonth{Year: ym.Year, Month: ym.Month + 1}
}

func (ym YearMonth) String() string {
	return fmt.Sprintf("%04d-%02d", ym.Year, ym.Month)
}

// Of returns the YearMonth containing t.
func Of(t time.Time) YearMonth {
	return YearMonth{Year: t.Year(), Month: int(t.Month())}
}

// ScheduleMonth is one month of a straight-line schedule: the day overlap
// with the asset's useful life, the resulting proration factor and amount.
type ScheduleMonth struct {
	YearMonth
	UsedDays    int             `json:"usedDays"`
	DaysInMonth int             `json:"daysInMonth"`
	Factor      decimal.Decimal `json:"factor"`
	Amount      decimal.Decimal `json:"amount"`
	Status      ScheduleStatus  `json:"status"`
}

// MonthlyBase is the undistorted straight-line amount for a full month:
// the depreciable base (cost minus salvage) spread over the useful life.
func MonthlyBase(asset domain.FixedAsset) decimal.Decimal {
	months := int64(asset.UsefulLifeYears) * 12
	if months <= 0 {
		return decimal.Zero
	}
	return asset.DepreciableBase().Div(decimal.NewFromInt(months))
}

// MonthFor computes the day-prorated depreciation for one calendar month.
// The used-day window is the overlap of the month with
// [startUseDate, min(endOfUsefulLife, soldDate)], inclusive on both ends.
// Months with no overlap yield a zero amount.
func MonthFor(asset domain.FixedAsset, ym YearMonth) ScheduleMonth {
	monthStart := time.Date(ym.Year, time.Month(ym.Month), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, -1)
	daysInMonth := monthEnd.Day()

	from := maxDate(truncateDay(asset.StartUseDate), monthStart)
	to := truncateDay(asset.EndOfUsefulLife())
	if asset.SoldDate != nil && truncateDay(*asset.SoldDate).Before(to) {
		to = truncateDay(*asset.SoldDate)
	}
	if monthEnd.Before(to) {
		to = monthEnd
	}

	sm := ScheduleMonth{
		YearMonth:   ym,
		DaysInMonth: daysInMonth,
		Factor:      decimal.Zero,
		Amount:      decimal.Zero,
		Status:      StatusPreview,
	}
	if to.Before(from) {
		return sm
	}

	sm.UsedDays = int(to.Sub(from).Hours()/24) + 1
	sm.Factor = decimal.NewFromInt(int64(sm.UsedDays)).Div(decimal.NewFromInt(int64(daysInMonth)))
	sm.Amount = MonthlyBase(asset).Mul(sm.Factor).Round(2)
	return sm
}

// Schedule produces the full month-by-month schedule from the first month of
// use through the earlier of end of useful life and the sold date.
func Schedule(asset domain.FixedAsset) []ScheduleMonth {
	if asset.UsefulLifeYears <= 0 {
		return nil
	}
	last := Of(asset.EndOfUsefulLife())
	if asset.SoldDate != nil {
		if soldYM := Of(*asset.SoldDate); last.After(soldYM) {
			last = soldYM
		}
	}

	var months []ScheduleMonth
	for ym := Of(asset.StartUseDate); !ym.After(last); ym = ym.Next() {
		months = append(months, MonthFor(asset, ym))
	}
	return months
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func maxDate(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}
