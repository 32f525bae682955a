// Package application provides application initialization and dependency
// wiring. It builds the environment registry from configuration, performs
// the single bootstrap environment selection, and assembles the handler,
// router, and HTTP server, keeping the main package focused on CLI parsing
// and orchestration.
package application
