// Package config defines the format-agnostic configuration model for the
// application, along with the Loader interface for reading it from files.
//
// A Dataset drives the manifest builder; a Plan drives the experiment
// launcher. Concrete file formats, such as HCL, are implemented in separate
// packages and only ever hand back these types.
package config
