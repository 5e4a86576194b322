package registry

import (
	"sync"

	"github.com/aretw0/iaee/pkg/domain"
	"github.com/aretw0/iaee/pkg/schema"
)

// Base is the schema shared by every section.
var Base = schema.Object(schema.Schema{
	"id":          schema.String(),
	"type":        schema.String(),
	"title":       schema.Optional(schema.String()),
	"description": schema.Optional(schema.String()),
})

func option() schema.Type {
	return schema.Object(schema.Schema{
		"id":    schema.String(),
		"label": schema.String(),
	})
}

func variant(sectionType string, fields schema.Schema) *schema.ObjectType {
	typed := schema.Schema{"type": schema.Literal(sectionType)}
	for name, t := range fields {
		typed[name] = t
	}
	return Base.Extend(typed)
}

// Builtins returns the thirteen built-in section variants in canonical order.
func Builtins() []Entry {
	return []Entry{
		{
			Type:   domain.TypeInfo,
			Schema: variant(domain.TypeInfo, schema.Schema{"content": schema.String()}),
			New:    func() domain.Section { return &domain.InfoSection{} },
		},
		{
			Type: domain.TypeChoice,
			Schema: variant(domain.TypeChoice, schema.Schema{
				"multiSelect": schema.Optional(schema.Bool()),
				"allowCustom": schema.Optional(schema.Bool()),
				"options":     schema.Slice(option()),
			}),
			New: func() domain.Section { return &domain.ChoiceSection{} },
		},
		{
			Type:   domain.TypeRank,
			Schema: variant(domain.TypeRank, schema.Schema{"items": schema.Slice(option())}),
			New:    func() domain.Section { return &domain.RankSection{} },
		},
		{
			Type:   domain.TypeTextReview,
			Schema: variant(domain.TypeTextReview, schema.Schema{"content": schema.Optional(schema.String())}),
			New:    func() domain.Section { return &domain.TextReviewSection{} },
		},
		{
			Type:   domain.TypeDecision,
			Schema: variant(domain.TypeDecision, schema.Schema{"message": schema.Optional(schema.String())}),
			New:    func() domain.Section { return &domain.DecisionSection{} },
		},
		{
			Type: domain.TypeKanban,
			Schema: variant(domain.TypeKanban, schema.Schema{
				"columns": schema.Slice(option()),
				"items": schema.Slice(schema.Object(schema.Schema{
					"id":       schema.String(),
					"label":    schema.String(),
					"columnId": schema.String(),
				})),
			}),
			New: func() domain.Section { return &domain.KanbanSection{} },
		},
		{
			Type: domain.TypeImageChoice,
			Schema: variant(domain.TypeImageChoice, schema.Schema{
				"images": schema.Slice(schema.Object(schema.Schema{
					"id":    schema.String(),
					"src":   schema.String(),
					"label": schema.Optional(schema.String()),
				})),
			}),
			New: func() domain.Section { return &domain.ImageChoiceSection{} },
		},
		{
			Type: domain.TypeAPIBuilder,
			Schema: variant(domain.TypeAPIBuilder, schema.Schema{
				"basePath":       schema.Optional(schema.String()),
				"allowedMethods": schema.Optional(schema.Slice(schema.String())),
				"defaultPath":    schema.Optional(schema.String()),
				"defaultBody":    schema.Optional(schema.String()),
				"defaultHeaders": schema.Optional(schema.Slice(schema.Object(schema.Schema{
					"key":   schema.String(),
					"value": schema.String(),
				}))),
				"responseCodes": schema.Optional(schema.Slice(schema.Object(schema.Schema{
					"code":  schema.Number(),
					"label": schema.String(),
					"body":  schema.Optional(schema.String()),
				}))),
				"initialEndpoints": schema.Optional(schema.Slice(schema.Object(schema.Schema{
					"id":          schema.String(),
					"method":      schema.Optional(schema.String()),
					"path":        schema.Optional(schema.String()),
					"description": schema.Optional(schema.String()),
				}))),
				"maxEndpoints": schema.Optional(schema.Number()),
			}),
			New: func() domain.Section { return &domain.APIBuilderSection{} },
		},
		{
			Type: domain.TypeDataMapper,
			Schema: variant(domain.TypeDataMapper, schema.Schema{
				"sources": schema.Slice(option()),
				"targets": schema.Slice(option()),
			}),
			New: func() domain.Section { return &domain.DataMapperSection{} },
		},
		{
			Type:   domain.TypeLiveComponent,
			Schema: variant(domain.TypeLiveComponent, schema.Schema{"defaultCode": schema.String()}),
			New:    func() domain.Section { return &domain.LiveComponentSection{} },
		},
		{
			Type: domain.TypeNumericInputs,
			Schema: variant(domain.TypeNumericInputs, schema.Schema{
				"items": schema.Slice(schema.Object(schema.Schema{
					"id":    schema.String(),
					"label": schema.String(),
					"max":   schema.Optional(schema.Number()),
				})),
			}),
			New: func() domain.Section { return &domain.NumericInputsSection{} },
		},
		{
			Type: domain.TypeCardDeck,
			Schema: variant(domain.TypeCardDeck, schema.Schema{
				"template":     schema.Record(schema.Any()),
				"initialCards": schema.Optional(schema.Slice(schema.Record(schema.Any()))),
			}),
			New: func() domain.Section { return &domain.CardDeckSection{} },
		},
		{
			Type: domain.TypeCodeSelector,
			Schema: variant(domain.TypeCodeSelector, schema.Schema{
				"language": schema.Optional(schema.String()),
				"options": schema.Slice(schema.Object(schema.Schema{
					"id":    schema.String(),
					"label": schema.String(),
					"code":  schema.String(),
				}), schema.MinItems(2), schema.MaxItems(5)),
			}),
			New: func() domain.Section { return &domain.CodeSelectorSection{} },
		},
	}
}

var (
	defaultOnce sync.Once
	defaultReg  *Registry
)

// Default returns the process-wide registry holding the built-in variants.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultReg = New()
		for _, e := range Builtins() {
			defaultReg.MustRegister(e)
		}
	})
	return defaultReg
}
