// Package builtins contains the plugins shipped with docvm. Register adds all of
// them to a plugin registry under their configuration names.
package builtins
