package variant

import (
	"errors"
	"fmt"
	"reflect"
)

// Sentinels for errors.Is matching. Every typed error below unwraps to one of these.
var (
	ErrConfiguration          = errors.New("variant: configuration error")
	ErrDiscriminatorCollision = errors.New("variant: discriminator collision")
	ErrMissingDiscriminator   = errors.New("variant: missing discriminator")
	ErrMalformedDiscriminator = errors.New("variant: malformed discriminator")
	ErrUnregisteredLabel      = errors.New("variant: unregistered label")
	ErrUnregisteredType       = errors.New("variant: unregistered type")
	ErrMalformedPayload       = errors.New("variant: malformed payload")
)

// ConfigurationError reports a setup-time mistake. Untrusted input never triggers it.
type ConfigurationError struct {
	Base   reflect.Type
	Label  string
	Type   reflect.Type
	Reason string
}

func (e *ConfigurationError) Error() string {
	msg := fmt.Sprintf("variant: %s: %s", typeName(e.Base), e.Reason)
	if e.Label != "" {
		msg += fmt.Sprintf(" (label %q)", e.Label)
	}
	if e.Type != nil {
		msg += fmt.Sprintf(" (type %s)", e.Type)
	}
	return msg
}

func (e *ConfigurationError) Unwrap() error { return ErrConfiguration }

// DiscriminatorCollisionError is returned by Encode when the concrete type's own
// serialization already contains the discriminator key.
type DiscriminatorCollisionError struct {
	Type  reflect.Type
	Field string
}

func (e *DiscriminatorCollisionError) Error() string {
	return fmt.Sprintf("variant: cannot serialize %s because it already defines a field named %q", e.Type, e.Field)
}

func (e *DiscriminatorCollisionError) Unwrap() []error {
	return []error{ErrDiscriminatorCollision, ErrConfiguration}
}

// MissingDiscriminatorError is returned by Decode when the object has no discriminator key.
type MissingDiscriminatorError struct {
	Base  reflect.Type
	Field string
}

func (e *MissingDiscriminatorError) Error() string {
	return fmt.Sprintf("variant: cannot deserialize %s because it does not define a field named %q", typeName(e.Base), e.Field)
}

func (e *MissingDiscriminatorError) Unwrap() error { return ErrMissingDiscriminator }

// MalformedDiscriminatorError is returned by Decode when the discriminator is not a JSON string.
type MalformedDiscriminatorError struct {
	Base  reflect.Type
	Field string
	Kind  string
}

func (e *MalformedDiscriminatorError) Error() string {
	return fmt.Sprintf("variant: %s: expected a string in %q, but got %s", typeName(e.Base), e.Field, e.Kind)
}

func (e *MalformedDiscriminatorError) Unwrap() error { return ErrMalformedDiscriminator }

// UnregisteredLabelError is returned by Decode for a label with no registered type.
type UnregisteredLabelError struct {
	Base  reflect.Type
	Label string
}

func (e *UnregisteredLabelError) Error() string {
	return fmt.Sprintf("variant: cannot deserialize %s subtype named %q; did you forget to register a subtype?", typeName(e.Base), e.Label)
}

func (e *UnregisteredLabelError) Unwrap() error { return ErrUnregisteredLabel }

// UnregisteredTypeError is returned by Encode for a value whose runtime type was never registered.
type UnregisteredTypeError struct {
	Base reflect.Type
	Type reflect.Type
}

func (e *UnregisteredTypeError) Error() string {
	return fmt.Sprintf("variant: cannot serialize %s as %s; did you forget to register a subtype?", e.Type, typeName(e.Base))
}

func (e *UnregisteredTypeError) Unwrap() error { return ErrUnregisteredType }

// MalformedPayloadError is returned by Decode when the input is not a JSON object.
type MalformedPayloadError struct {
	Base reflect.Type
	Err  error
}

func (e *MalformedPayloadError) Error() string {
	return fmt.Sprintf("variant: cannot deserialize %s: %v", typeName(e.Base), e.Err)
}

func (e *MalformedPayloadError) Unwrap() []error { return []error{ErrMalformedPayload, e.Err} }

func typeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}
