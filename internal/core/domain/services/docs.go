// Package services provides domain services that implement business logic
// spanning more than one aggregate in the crowdshipping core.
//
// The package includes:
//   - PriceCalculator: splits an agreed delivery price between the courier
//     and the platform at delivery creation time.
package services
