package delivery

import (
	"fmt"

	"crowdship/internal/pkg/errs"
)

// PriceBreakdown splits the agreed delivery price between the courier and the
// platform. Amounts are in the announcement's currency, rounded to cents.
type PriceBreakdown struct {
	base         float64
	courierShare float64
	platformFee  float64
}

// NewPriceBreakdown validates that the shares add up to the base amount.
func NewPriceBreakdown(base, courierShare, platformFee float64) (PriceBreakdown, error) {
	if base <= 0 {
		return PriceBreakdown{}, errs.NewValueIsInvalidErrorWithCause("basePrice",
			fmt.Errorf("%f is not greater than 0", base))
	}
	if courierShare < 0 || platformFee < 0 {
		return PriceBreakdown{}, errs.NewValueIsInvalidError("price breakdown")
	}
	// tolerate a cent of rounding drift
	if diff := base - courierShare - platformFee; diff > 0.01 || diff < -0.01 {
		return PriceBreakdown{}, errs.NewValueIsInvalidErrorWithCause("price breakdown",
			fmt.Errorf("shares %f + %f do not add up to base %f", courierShare, platformFee, base))
	}

	return PriceBreakdown{
		base:         base,
		courierShare: courierShare,
		platformFee:  platformFee,
	}, nil
}

func (p PriceBreakdown) Base() float64         { return p.base }
func (p PriceBreakdown) CourierShare() float64 { return p.courierShare }
func (p PriceBreakdown) PlatformFee() float64  { return p.platformFee }
