// Package bundler serves generated runtime modules to esbuild. The runtime
// module generator publishes into a Registry, and the Registry's esbuild
// plugin resolves and loads each identifier from memory.
package bundler
