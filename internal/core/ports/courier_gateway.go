package ports

import (
	"context"

	"crowdship/internal/core/domain/model/kernel"
)

// CourierGateway checks courier eligibility against the external auth
// service. A courier may apply only while their verification status is
// current.
type CourierGateway interface {
	// VerifyEligibility returns nil when the courier may apply, a
	// Forbidden-kind error when verification is missing or revoked.
	VerifyEligibility(ctx context.Context, courierID kernel.UUID) error
}
