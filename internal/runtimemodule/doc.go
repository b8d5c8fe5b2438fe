// Package runtimemodule generates the virtual modules a documentation site build
// makes resolvable to the bundler.
//
// A Generator runs an ordered list of factories against one shared
// FactoryContext, asks the plugin driver once for contributed modules, merges
// them into the internal modules and, only when every step succeeded, hands the
// result to a Registrar. The internal module identifiers form a closed set
// (see IDs) that plugins may not reuse.
package runtimemodule
