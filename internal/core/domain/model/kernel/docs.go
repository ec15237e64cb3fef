// Package kernel contains the shared value objects of the domain model:
// UUID identifiers and geographic points.
//
// Both types are immutable, validated at construction and safe for
// concurrent use. The zero value of either type is invalid; instances must
// come from the provided constructors so that invariants hold everywhere
// they are passed.
package kernel
