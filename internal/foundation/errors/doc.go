// Package errors provides foundational, type-safe error primitives used across docvm.
//
// Key features:
//   - ErrorCategory: broad classification (config, build, plugin, bundler, ...)
//   - ErrorSeverity: impact level (fatal, error, warning, info)
//   - RetryStrategy: whether a surrounding watch loop may simply re-run
//   - ClassifiedError: structured error with category, severity, and context
//   - ErrorBuilder: fluent API for creating classified errors
//   - CLIErrorAdapter: exit code mapping and user-facing formatting
//
// Example usage:
//
//	err := errors.WrapError(cause, errors.CategoryBuild, "runtime module factory failed").
//		Fatal().
//		WithContext("factory", "site-data").
//		Build()
package errors
