// Package workspace manages the runtime temp directory virtual modules are
// rooted at, supporting both ephemeral (timestamped) and persistent
// (fixed-path) modes.
//
// Ephemeral mode creates timestamped directories (e.g., docvm-20251214-122336)
// suitable for one-off generation passes, cleaning up completely after use.
//
// Persistent mode uses a fixed directory path (the configured runtime temp
// dir) that survives across passes, so a watch session can keep emitting into
// the same location.
package workspace
