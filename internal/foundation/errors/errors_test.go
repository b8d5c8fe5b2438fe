package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassifiedError(t *testing.T) {
	t.Run("Basic error creation", func(t *testing.T) {
		err := NewError(CategoryConfig, "invalid configuration").
			WithSeverity(SeverityFatal).
			WithContext("file", "docvm.yaml").
			Build()

		require.Equal(t, CategoryConfig, err.Category())
		require.Equal(t, SeverityFatal, err.Severity())
		require.Equal(t, "invalid configuration", err.Message())

		file, ok := err.Context().GetString("file")
		require.True(t, ok)
		require.Equal(t, "docvm.yaml", file)
	})

	t.Run("Error detection", func(t *testing.T) {
		err := ConfigError("test error").Build()

		require.True(t, IsClassified(err))
		require.True(t, HasCategory(err, CategoryConfig))
		require.True(t, HasSeverity(err, SeverityFatal))
		require.False(t, err.CanRetry())
		require.True(t, err.IsFatal())
	})

	t.Run("Detection through fmt wrapping", func(t *testing.T) {
		inner := PluginError("plugin exploded").Build()
		wrapped := fmt.Errorf("outer: %w", inner)

		require.True(t, IsClassified(wrapped))
		require.Equal(t, CategoryPlugin, GetCategory(wrapped))
	})

	t.Run("Unclassified falls back to internal", func(t *testing.T) {
		require.Equal(t, CategoryInternal, GetCategory(stderrors.New("plain")))
		require.False(t, IsClassified(nil))
	})
}

func TestErrorBuilder(t *testing.T) {
	original := stderrors.New("original error")
	err := WrapError(original, CategoryFileSystem, "write failed").
		Warning().
		WithContext("path", "/tmp/x").
		Build()

	require.Equal(t, SeverityWarning, err.Severity())
	require.Equal(t, RetryBackoff, FileSystemError("x").Build().RetryStrategy())
	require.ErrorIs(t, err, original)
	require.Contains(t, err.Error(), "[filesystem:warning] write failed: original error")
}

func TestClassifiedError_WithContextDoesNotMutate(t *testing.T) {
	base := BuildError("factory failed").Build()
	derived := base.WithContext("factory", "routes")

	_, ok := base.Context().Get("factory")
	require.False(t, ok)
	v, ok := derived.Context().GetString("factory")
	require.True(t, ok)
	require.Equal(t, "routes", v)
}

func TestErrorContext_Merge(t *testing.T) {
	a := ErrorContext{"a": 1, "shared": "a"}
	b := ErrorContext{"b": 2, "shared": "b"}

	merged := a.Merge(b)
	require.Equal(t, ErrorContext{"a": 1, "b": 2, "shared": "b"}, merged)
	require.Equal(t, b, ErrorContext(nil).Merge(b))
}
