// Package hclconf is the HCL implementation of the config.Loader interface.
// It parses graph definitions, partitioner settings and backend definitions
// from .hcl files and translates them into the format-agnostic config model.
package hclconf
