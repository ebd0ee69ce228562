// Package config assembles the effective renderer configuration out of three
// layers: the built-in defaults, the optional config.hcl in the custom
// directory and the -D command line overrides, applied in that order.
//
// Target blocks are free-form: their options are kept as typed HCL values and
// handed to the render targets, which pull out what they understand via the
// conversion getters.
package config
