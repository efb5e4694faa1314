// Package config defines the format-agnostic configuration tree for the
// application, along with the Adapter interface implemented by the
// format-specific codecs.
//
// The Node tree is the single source of truth for the include resolver and
// the dump formatter. Concrete Adapter implementations, such as for HCL or
// YAML, live in separate packages.
package config
