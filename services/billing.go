package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/cetler74/modern-e-commerce-platform/models"
)

// ErrInvalidBillingPeriod is returned for an interval outside the known set or a non-positive count.
var ErrInvalidBillingPeriod = errors.New("invalid billing period")

// AdvanceBillingPeriod moves start forward by count units of interval. Month and year arithmetic
// uses time.AddDate, which normalizes overflow: Jan 31 plus one month is Mar 3 (Mar 2 in leap years).
func AdvanceBillingPeriod(start time.Time, interval models.BillingInterval, count int) (time.Time, error) {
	if count < 1 {
		return time.Time{}, fmt.Errorf("%w: interval count %d", ErrInvalidBillingPeriod, count)
	}
	switch interval {
	case models.BillingIntervalDaily:
		return start.AddDate(0, 0, count), nil
	case models.BillingIntervalWeekly:
		return start.AddDate(0, 0, 7*count), nil
	case models.BillingIntervalMonthly:
		return start.AddDate(0, count, 0), nil
	case models.BillingIntervalQuarterly:
		return start.AddDate(0, 3*count, 0), nil
	case models.BillingIntervalYearly:
		return start.AddDate(count, 0, 0), nil
	default:
		return time.Time{}, fmt.Errorf("%w: interval %q", ErrInvalidBillingPeriod, interval)
	}
}

// ComputeBillingPeriod derives the first period of a subscription to plan created at now.
func ComputeBillingPeriod(plan *models.SubscriptionPlan, now time.Time) (models.BillingPeriod, error) {
	end, err := AdvanceBillingPeriod(now, plan.BillingInterval, plan.BillingIntervalCount)
	if err != nil {
		return models.BillingPeriod{}, err
	}
	period := models.BillingPeriod{
		CurrentPeriodStart: now,
		CurrentPeriodEnd:   end,
		NextBillingDate:    end,
	}
	if plan.TrialPeriodDays > 0 {
		trialStart := now
		trialEnd := now.AddDate(0, 0, plan.TrialPeriodDays)
		period.TrialStart = &trialStart
		period.TrialEnd = &trialEnd
	}
	return period, nil
}
