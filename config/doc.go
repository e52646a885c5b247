// Package config handles application configuration loading and validation.
//
// Configuration starts from built-in defaults, is optionally overlaid from a
// YAML file, then from environment variables, and is validated using struct
// tags. The resolved struct is passed explicitly into the components that
// need it; there is no package-level configuration state.
package config
