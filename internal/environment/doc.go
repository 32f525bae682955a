// Package environment implements build-variant environment selection: a
// fixed mapping from environment identifiers (dev/uat/prod and any
// configuration-declared extras) to immutable configuration bundles, plus a
// write-once "current environment" selection made by the bootstrap entry
// point before any other code reads configuration.
package environment
