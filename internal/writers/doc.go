// Package writers holds small output-stream helpers shared across the CLI
// layer that don't belong to any one serialisation format.
package writers
