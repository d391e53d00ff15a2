package manifest

// HandlerType enumerates the supported handler kinds.
type HandlerType string

const (
	HandlerCanonicalize HandlerType = "canonicalize"
	HandlerSchema       HandlerType = "schema"
	HandlerLabels       HandlerType = "labels"
	HandlerInproc       HandlerType = "inproc"
)

// Output modes accepted by [codec] output and route codec overrides.
const (
	OutputCompact   = "compact"
	OutputPretty    = "pretty"
	OutputCanonical = "canonical"
)

// Resolver answers whether names referenced by routes exist. pkg/core
// implements it over its family, transformer and handler registries.
type Resolver interface {
	HasFamily(name string) bool
	HasTransformer(family, name string) bool
	HasHandler(name string) bool
}
