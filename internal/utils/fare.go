package utils

import "time"

// discountTier applies when lowDays < days < highDays.
type discountTier struct {
	lowDays, highDays int
	multiplier        float64
}

// Early-booking tiers, checked in order. Bounds are exclusive on both ends, so
// 46, 60, 80 and 90 days out pay the full fare.
var discountTiers = []discountTier{
	{lowDays: 80, highDays: 90, multiplier: 0.80},
	{lowDays: 60, highDays: 80, multiplier: 0.90},
	{lowDays: 46, highDays: 60, multiplier: 0.95},
}

// DiscountMultiplier returns the fare multiplier for a journey `days` whole days away.
func DiscountMultiplier(days int) float64 {
	for _, t := range discountTiers {
		if days > t.lowDays && days < t.highDays {
			return t.multiplier
		}
	}
	return 1
}

// DiscountedCost prices baseCost for a journey arriving at arrival, seen from now.
func DiscountedCost(baseCost float64, arrival, now time.Time) float64 {
	days := DaysBetween(now, arrival)
	return RoundMoney(baseCost * DiscountMultiplier(days))
}

// RefundRatio is the share of the paid cost returned on cancellation,
// by whole days elapsed since the booking was made.
func RefundRatio(daysSinceCreation int) float64 {
	switch {
	case daysSinceCreation > 60:
		return 1
	case daysSinceCreation > 30:
		return 0.5
	default:
		return 0
	}
}

// RefundAmount computes the refund for a booking created at createdAt and cancelled at now.
func RefundAmount(cost float64, createdAt, now time.Time) float64 {
	return RoundMoney(cost * RefundRatio(DaysBetween(createdAt, now)))
}
