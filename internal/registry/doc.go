// Package registry provides the central glue between backend definitions in
// configuration and the compiled-in Go backend implementations.
//
// Backend modules register a factory under their backend type at startup;
// the application then instantiates the backend named by the partitioner
// settings, using the matching definition from the configuration. A
// definition with no registered factory is a startup error, preventing a
// class of runtime failures.
package registry
