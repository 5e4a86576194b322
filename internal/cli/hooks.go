package cli

import (
	"context"
	"log/slog"

	"github.com/aretw0/iaee/pkg/domain"
)

func createDebugHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnValidate: func(ctx context.Context, e *domain.ValidationEvent) {
			logger.Debug("Validate", "experience_id", e.ExperienceID, "type", e.Type, "issues", e.Issues)
		},
		OnCompile: func(ctx context.Context, e *domain.CompileEvent) {
			logger.Debug("Compile", "experience_id", e.ExperienceID, "sections", len(e.SectionTypes), "bytes", e.Bytes, "duration", e.Duration)
		},
		OnSubmit: func(ctx context.Context, e *domain.SubmitEvent) {
			logger.Debug("Submit", "experience_id", e.ExperienceID, "report_id", e.ReportID, "approved", e.Approved)
		},
	}
}

// chainHooks calls every non-nil hook of each set, in order.
func chainHooks(sets ...domain.LifecycleHooks) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnValidate: func(ctx context.Context, e *domain.ValidationEvent) {
			for _, h := range sets {
				if h.OnValidate != nil {
					h.OnValidate(ctx, e)
				}
			}
		},
		OnCompile: func(ctx context.Context, e *domain.CompileEvent) {
			for _, h := range sets {
				if h.OnCompile != nil {
					h.OnCompile(ctx, e)
				}
			}
		},
		OnSubmit: func(ctx context.Context, e *domain.SubmitEvent) {
			for _, h := range sets {
				if h.OnSubmit != nil {
					h.OnSubmit(ctx, e)
				}
			}
		},
	}
}
