package metrics

import (
	"errors"

	"github.com/joeydtaylor/steeze-codec/pkg/variant"
)

// Outcome names the result of a codec operation for the outcome label.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, variant.ErrDiscriminatorCollision):
		return "discriminator_collision"
	case errors.Is(err, variant.ErrConfiguration):
		return "configuration"
	case errors.Is(err, variant.ErrMissingDiscriminator):
		return "missing_discriminator"
	case errors.Is(err, variant.ErrMalformedDiscriminator):
		return "malformed_discriminator"
	case errors.Is(err, variant.ErrUnregisteredLabel):
		return "unregistered_label"
	case errors.Is(err, variant.ErrUnregisteredType):
		return "unregistered_type"
	case errors.Is(err, variant.ErrMalformedPayload):
		return "malformed_payload"
	default:
		return "payload"
	}
}

// ObserveCodec returns a variant.Observer that counts operations of the
// named family.
func ObserveCodec(family string) variant.Observer {
	return func(op variant.Op, label string, err error) {
		variantOperations.WithLabelValues(family, string(op), Outcome(err)).Inc()
		if err == nil && label != "" {
			variantLabels.WithLabelValues(family, label).Inc()
		}
	}
}
