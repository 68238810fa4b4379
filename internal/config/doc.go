// Package config holds the format-agnostic model of everything a
// partitioning run needs: the graph definitions, the partitioner settings
// and the backend definitions. Loaders for specific formats (HCL) translate
// into this model so the rest of the system never touches raw configuration
// syntax.
package config
