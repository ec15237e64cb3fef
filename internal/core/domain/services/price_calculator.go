package services

import (
	"fmt"
	"math"

	"crowdship/internal/core/domain/model/delivery"
	"crowdship/internal/pkg/errs"
)

// DefaultPlatformFeeRate is the platform's cut of the agreed delivery price.
const DefaultPlatformFeeRate = 0.15

// PriceCalculator is a domain service that splits an agreed delivery price
// between the courier and the platform. The split is computed once, at
// delivery creation, and stored on the delivery so later rate changes never
// retroactively reprice in-flight work.
type PriceCalculator struct {
	platformFeeRate float64
}

// NewPriceCalculator creates a calculator with the given platform fee rate.
// The rate must lie in [0, 1).
func NewPriceCalculator(platformFeeRate float64) (PriceCalculator, error) {
	if platformFeeRate < 0 || platformFeeRate >= 1 {
		return PriceCalculator{}, errs.NewValueIsOutOfRangeError(
			"platformFeeRate", platformFeeRate, 0.0, 1.0)
	}
	return PriceCalculator{platformFeeRate: platformFeeRate}, nil
}

// Calculate splits the base price into the courier share and the platform
// fee, rounding the fee to cents. The courier share absorbs the rounding
// remainder so the parts always add up to the base.
func (c PriceCalculator) Calculate(basePrice float64) (delivery.PriceBreakdown, error) {
	if basePrice <= 0 {
		return delivery.PriceBreakdown{}, errs.NewValueIsInvalidErrorWithCause("basePrice",
			fmt.Errorf("%f is not greater than 0", basePrice))
	}

	fee := roundToCents(basePrice * c.platformFeeRate)
	courierShare := roundToCents(basePrice - fee)

	return delivery.NewPriceBreakdown(basePrice, courierShare, fee)
}

func roundToCents(v float64) float64 {
	return math.Round(v*100) / 100
}
