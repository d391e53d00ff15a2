package variant

import (
	"github.com/joeydtaylor/steeze-codec/pkg/codec"
	"go.uber.org/zap"
)

// DefaultDiscriminator is the discriminator field used when none is configured.
const DefaultDiscriminator = "type"

// Op names a codec operation reported to an Observer.
type Op string

const (
	OpEncode Op = "encode"
	OpDecode Op = "decode"
)

// Observer is called once per Encode/Decode with the label involved (empty when
// it could not be determined) and the resulting error.
type Observer func(op Op, label string, err error)

type options struct {
	field   string
	keep    bool
	engine  codec.Codec
	log     *zap.Logger
	observe Observer
}

// Option configures a Codec.
type Option func(*options)

func defaultOptions() options {
	return options{
		field:  DefaultDiscriminator,
		engine: codec.JSONStrict,
		log:    zap.NewNop(),
	}
}

// WithDiscriminator sets the JSON key carrying the label.
func WithDiscriminator(field string) Option {
	return func(o *options) { o.field = field }
}

// WithKeepDiscriminator controls whether the concrete decoder sees the
// discriminator key. Off by default: the key is stripped before the nested decode.
func WithKeepDiscriminator(keep bool) Option {
	return func(o *options) { o.keep = keep }
}

// WithEngine sets the structural codec used for the concrete types' own fields.
func WithEngine(c codec.Codec) Option {
	return func(o *options) {
		if c != nil {
			o.engine = c
		}
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

// WithObserver installs a hook called after every Encode/Decode.
func WithObserver(fn Observer) Option {
	return func(o *options) { o.observe = fn }
}
