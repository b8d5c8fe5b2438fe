package runtimemodule

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/docvm/internal/foundation/errors"
	"git.home.luguber.info/inful/docvm/internal/logfields"
	"git.home.luguber.info/inful/docvm/internal/metrics"
	"git.home.luguber.info/inful/docvm/internal/observability"
)

// Factory produces a subset of the runtime modules from the shared context.
// Factories must not mutate fc.
type Factory func(ctx context.Context, fc *FactoryContext) (SourceMap, error)

// NamedFactory pairs a factory with the name used in logs, metrics and errors.
type NamedFactory struct {
	Name string
	Run  Factory
}

// Generator runs factories in order, collects plugin contributions and merges them.
type Generator struct {
	factories []NamedFactory
	recorder  metrics.Recorder
	newID     func() string
}

// NewGenerator creates a Generator for factories, run in the given order.
func NewGenerator(factories []NamedFactory) *Generator {
	return &Generator{
		factories: append([]NamedFactory(nil), factories...),
		recorder:  metrics.NoopRecorder{},
		newID:     func() string { return uuid.NewString() },
	}
}

// NewDefaultGenerator creates a Generator running DefaultFactories.
func NewDefaultGenerator() *Generator {
	return NewGenerator(DefaultFactories())
}

// WithRecorder sets the metrics recorder.
func (g *Generator) WithRecorder(r metrics.Recorder) *Generator {
	if r == nil {
		r = metrics.NoopRecorder{}
	}
	g.recorder = r
	return g
}

// Factories returns the factory names in invocation order.
func (g *Generator) Factories() []string {
	names := make([]string, len(g.factories))
	for i, f := range g.factories {
		names[i] = f.Name
	}
	return names
}

// Generate produces the complete module map for one pass. alias is attached to
// fc before the first factory runs. On any failure no map is returned.
func (g *Generator) Generate(ctx context.Context, fc *FactoryContext, alias AliasTable) (SourceMap, error) {
	start := time.Now()
	if observability.BuildID(ctx) == "" {
		ctx = observability.WithBuildID(ctx, g.newID())
	}

	modules, outcome, err := g.generate(ctx, fc.WithAlias(alias))
	g.recorder.ObservePipelineDuration(time.Since(start))
	g.recorder.IncPipelineOutcome(outcome)
	if err != nil {
		observability.ErrorContext(ctx, "Runtime module generation failed", logfields.Error(err))
		return nil, err
	}
	observability.InfoContext(ctx, "Runtime modules generated",
		logfields.Modules(len(modules)),
		logfields.DurationMS(float64(time.Since(start).Microseconds())/1000))
	return modules, nil
}

func (g *Generator) generate(ctx context.Context, fc *FactoryContext) (SourceMap, metrics.OutcomeLabel, error) {
	internal := make(SourceMap)
	for _, f := range g.factories {
		if err := ctx.Err(); err != nil {
			return nil, metrics.OutcomeCanceled, errors.WrapError(err, errors.CategoryRuntime, "runtime module generation canceled").
				WithContext("factory", f.Name).Build()
		}
		out, err := g.runFactory(ctx, f, fc)
		if err != nil {
			if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
				return nil, metrics.OutcomeCanceled, err
			}
			return nil, metrics.OutcomeFailed, err
		}
		internal.Assign(out)
	}
	g.recorder.SetModuleCount(metrics.SourceInternal, len(internal))

	contributed, err := fc.plugins().AddRuntimeModules(ctx)
	if err != nil {
		return nil, metrics.OutcomeFailed, errors.WrapError(err, errors.CategoryPlugin, "failed to collect plugin runtime modules").
			Fatal().Build()
	}
	g.recorder.SetModuleCount(metrics.SourcePlugin, len(contributed))
	observability.DebugContext(ctx, "Plugin runtime modules collected", logfields.Modules(len(contributed)))

	merged, err := Merge(internal, SourceMap(contributed))
	if err != nil {
		var dup *DuplicateModuleError
		if stderrors.As(err, &dup) {
			g.recorder.IncDuplicateModule(dup.ID)
			return nil, metrics.OutcomeDuplicate, errors.WrapError(err, errors.CategoryAlreadyExists, "plugin runtime modules rejected").
				Fatal().UserAction().WithContext("module_id", dup.ID).Build()
		}
		return nil, metrics.OutcomeFailed, err
	}
	return merged, metrics.OutcomeSuccess, nil
}

func (g *Generator) runFactory(ctx context.Context, f NamedFactory, fc *FactoryContext) (SourceMap, error) {
	fctx := observability.WithFactory(ctx, f.Name)
	start := time.Now()
	out, err := f.Run(fctx, fc)
	g.recorder.ObserveFactoryDuration(f.Name, time.Since(start))
	if err != nil {
		result := metrics.ResultFailed
		if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
			result = metrics.ResultCanceled
		}
		g.recorder.IncFactoryResult(f.Name, result)
		return nil, errors.WrapError(err, errors.CategoryBuild, "runtime module factory failed").
			WithContext("factory", f.Name).Build()
	}
	g.recorder.IncFactoryResult(f.Name, metrics.ResultSuccess)
	observability.DebugContext(fctx, "Runtime module factory finished",
		logfields.Modules(len(out)),
		logfields.DurationMS(float64(time.Since(start).Microseconds())/1000))
	return out, nil
}

// Publish generates the module map and, only when generation fully succeeds,
// registers it exactly once with reg rooted at fc.TempDir.
func (g *Generator) Publish(ctx context.Context, fc *FactoryContext, alias AliasTable, reg Registrar) (SourceMap, error) {
	modules, err := g.Generate(ctx, fc, alias)
	if err != nil {
		return nil, err
	}
	if err := reg.Register(modules, fc.TempDir); err != nil {
		if errors.IsClassified(err) {
			return nil, err
		}
		return nil, errors.WrapError(err, errors.CategoryBundler, "failed to register runtime modules").
			WithContext("path", fc.TempDir).Build()
	}
	return modules, nil
}
