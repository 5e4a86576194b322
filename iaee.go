package iaee

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aretw0/iaee/internal/compiler"
	"github.com/aretw0/iaee/internal/validator"
	"github.com/aretw0/iaee/pkg/domain"
	"github.com/aretw0/iaee/pkg/ports"
	"github.com/aretw0/iaee/pkg/registry"
)

// Format identifies the encoding of an experience document.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatOf picks the document format from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", domain.ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// Engine is the high-level entry point for the IAEE library.
// It validates experiences, compiles results into Markdown and publishes
// submissions to report stores.
type Engine struct {
	registry  *registry.Registry
	validator *validator.Validator
	compiler  *compiler.Compiler
	parser    *compiler.Parser
	stores    []ports.ReportStore
	hooks     domain.LifecycleHooks
	logger    *slog.Logger
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithRegistry replaces the built-in section registry.
// Types without a compiler formatter render as an unknown-type block.
func WithRegistry(reg *registry.Registry) Option {
	return func(e *Engine) {
		e.registry = reg
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithStore adds a report store that receives every submission.
func WithStore(store ports.ReportStore) Option {
	return func(e *Engine) {
		e.stores = append(e.stores, store)
	}
}

// New initializes a new Engine.
func New(opts ...Option) *Engine {
	eng := &Engine{}
	for _, opt := range opts {
		opt(eng)
	}

	if eng.registry == nil {
		eng.registry = registry.Default()
	}
	if eng.logger == nil {
		eng.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	eng.validator = validator.New(eng.registry)
	eng.compiler = compiler.New()
	eng.parser = compiler.NewParser()
	return eng
}

// Registry returns the section registry used for validation.
func (e *Engine) Registry() *registry.Registry {
	return e.registry
}

// Validate parses an already decoded document into an Experience.
func (e *Engine) Validate(ctx context.Context, raw any) (*domain.Experience, error) {
	exp, err := e.validator.Validate(raw)
	e.afterValidate(ctx, exp, err)
	return exp, err
}

// Decode validates an encoded experience document.
func (e *Engine) Decode(ctx context.Context, data []byte, format Format) (*domain.Experience, error) {
	var (
		exp *domain.Experience
		err error
	)
	switch format {
	case FormatJSON:
		exp, err = e.validator.ValidateJSON(data)
	case FormatYAML:
		exp, err = e.validator.ValidateYAML(data)
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedFormat, format)
	}
	e.afterValidate(ctx, exp, err)
	return exp, err
}

// Load reads and validates the experience file at path.
// The format is chosen by extension (.json, .yaml, .yml).
func (e *Engine) Load(ctx context.Context, path string) (*domain.Experience, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read experience: %w", err)
	}
	return e.Decode(ctx, data, format)
}

func (e *Engine) afterValidate(ctx context.Context, exp *domain.Experience, err error) {
	event := &domain.ValidationEvent{
		EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventValidated},
	}
	if exp != nil {
		event.ExperienceID = exp.ID
	}
	if err != nil {
		event.Type = domain.EventRejected
		event.Issues = len(validator.Issues(err))
		e.logger.Debug("experience rejected", "issues", event.Issues, "error", err)
	}
	if e.hooks.OnValidate != nil {
		e.hooks.OnValidate(ctx, event)
	}
}

// Compile renders exp and its results as Markdown.
func (e *Engine) Compile(ctx context.Context, exp *domain.Experience, results domain.Results, comments domain.Comments) string {
	start := time.Now()
	md := e.compiler.Compile(exp, results, comments)

	if e.hooks.OnCompile != nil {
		types := make([]string, 0, len(exp.Sections))
		for _, s := range exp.Sections {
			types = append(types, s.Header().Type)
		}
		e.hooks.OnCompile(ctx, &domain.CompileEvent{
			EventBase:    domain.EventBase{Timestamp: start, Type: domain.EventCompiled, ExperienceID: exp.ID},
			SectionTypes: types,
			Bytes:        len(md),
			Duration:     time.Since(start),
		})
	}
	return md
}

// ParseSubmission decodes a submit body posted by the runtime UI.
func (e *Engine) ParseSubmission(data []byte) (domain.Results, domain.Comments, error) {
	sub, err := e.parser.ParseSubmission(data)
	if err != nil {
		return nil, nil, err
	}
	return sub.Results, sub.Comments, nil
}

// ParseResults decodes a results document; YAML is chosen by path extension.
func (e *Engine) ParseResults(path string, data []byte) (domain.Results, error) {
	return e.parser.ParseResults(data, isYAML(path))
}

// ParseComments decodes a comments document; YAML is chosen by path extension.
func (e *Engine) ParseComments(path string, data []byte) (domain.Comments, error) {
	return e.parser.ParseComments(data, isYAML(path))
}

func isYAML(path string) bool {
	format, err := FormatOf(path)
	return err == nil && format == FormatYAML
}

// Approved reports whether the decision section of exp was approved.
func Approved(exp *domain.Experience, results domain.Results) bool {
	for _, s := range exp.Sections {
		if s.Header().Type == domain.TypeDecision {
			return compiler.IsApproved(results[s.Header().ID])
		}
	}
	return false
}

// Submit compiles a submission into a report and saves it to every store.
// The report is returned even when a store fails; the error joins every
// store failure.
func (e *Engine) Submit(ctx context.Context, exp *domain.Experience, results domain.Results, comments domain.Comments) (*domain.Report, error) {
	report := domain.NewReport(exp, e.Compile(ctx, exp, results, comments))
	report.Results = results
	report.Comments = comments
	report.Approved = Approved(exp, results)

	var errs []error
	for _, store := range e.stores {
		if err := store.Save(ctx, report); err != nil {
			e.logger.Error("failed to store report", "report_id", report.ID, "error", err)
			errs = append(errs, err)
		}
	}

	if e.hooks.OnSubmit != nil {
		e.hooks.OnSubmit(ctx, &domain.SubmitEvent{
			EventBase: domain.EventBase{Timestamp: report.CreatedAt, Type: domain.EventSubmitted, ExperienceID: exp.ID},
			ReportID:  report.ID,
			Approved:  report.Approved,
		})
	}

	e.logger.Info("submission compiled", "report_id", report.ID, "experience", exp.ID, "approved", report.Approved)
	return report, errors.Join(errs...)
}

var defaultEngine = New()

// Validate parses raw with the built-in section types.
func Validate(raw any) (*domain.Experience, error) {
	return defaultEngine.Validate(context.Background(), raw)
}

// Load reads and validates an experience file with the built-in section types.
func Load(path string) (*domain.Experience, error) {
	return defaultEngine.Load(context.Background(), path)
}

// Compile renders exp and its results with the built-in formatters.
func Compile(exp *domain.Experience, results domain.Results, comments domain.Comments) string {
	return compiler.Compile(exp, results, comments)
}
