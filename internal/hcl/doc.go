// Package hcl provides the concrete HCL implementation of config.Loader. It
// parses dataset and plan files, decodes them with gohcl and translates the
// HCL-specific schema into the format-agnostic model of the config package.
package hcl
