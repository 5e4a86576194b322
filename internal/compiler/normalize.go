package compiler

import (
	"strings"

	"github.com/aretw0/iaee/pkg/domain"
	"github.com/aretw0/iaee/pkg/schema"
)

// Results reach the compiler in whichever encoding the client that captured
// them produced. The functions below detect the encoding and return one
// canonical form; they never fail; shapes they do not recognise normalise
// to the empty form.

// Pick is a resolved id/label pair.
type Pick struct {
	ID    string
	Label string
}

// isTagged reports whether items uses the object encoding, decided by
// element 0 alone: an object carrying an "id" key.
func isTagged(items []any) bool {
	if len(items) == 0 {
		return false
	}
	obj, ok := schema.AsObject(items[0])
	if !ok {
		return false
	}
	_, has := obj["id"]
	return has
}

func pickFrom(v any) Pick {
	obj, _ := schema.AsObject(v)
	id := display(obj["id"])
	return Pick{ID: id, Label: labelOr(obj["label"], id)}
}

func resolve(options []domain.Option, id string) Pick {
	for _, opt := range options {
		if opt.ID == id {
			return Pick{ID: opt.ID, Label: opt.Label}
		}
	}
	return Pick{ID: id, Label: id}
}

// NormalizeChoice returns the selected options of a choice section.
//
// Precedence:
//  1. non-empty array of {id,label,selected} objects: entries whose
//     selected flag is true, in array order
//  2. non-empty array of ids: each resolved against the template options
//  3. non-empty id string: resolved against the template options
//
// Ids missing from the template are kept with the id as label.
func NormalizeChoice(s *domain.ChoiceSection, result any) []Pick {
	if items, ok := schema.AsSlice(result); ok && len(items) > 0 {
		if isTagged(items) {
			var picks []Pick
			for _, item := range items {
				obj, _ := schema.AsObject(item)
				if obj["selected"] == true {
					picks = append(picks, pickFrom(item))
				}
			}
			return picks
		}
		picks := make([]Pick, 0, len(items))
		for _, item := range items {
			picks = append(picks, resolve(s.Options, display(item)))
		}
		return picks
	}
	if id, ok := result.(string); ok && id != "" {
		return []Pick{resolve(s.Options, id)}
	}
	return nil
}

// NormalizeRank returns the ranked items of a rank section in order.
// Object arrays are used as-is; id arrays are resolved against the template.
func NormalizeRank(s *domain.RankSection, result any) []Pick {
	items, ok := schema.AsSlice(result)
	if !ok || len(items) == 0 {
		return nil
	}
	picks := make([]Pick, 0, len(items))
	tagged := isTagged(items)
	for _, item := range items {
		if tagged {
			picks = append(picks, pickFrom(item))
			continue
		}
		picks = append(picks, resolve(s.Items, display(item)))
	}
	return picks
}

// NumericValue is one numeric-inputs row with its captured value.
type NumericValue struct {
	ID    string
	Label string
	Max   *float64
	Value float64
}

// NormalizeNumeric returns the rows of a numeric-inputs section.
//
// Precedence:
//  1. array: rows taken directly from {id,label,max,value} objects. An
//     empty array means the user removed every row and yields no rows.
//  2. object: rows come from the __items__ sidecar when it is an array,
//     otherwise from the template, and each value is read from the object
//     under the row id. Missing or non-numeric values count as 0.
//
// Any other shape yields no rows.
func NormalizeNumeric(s *domain.NumericInputsSection, result any) []NumericValue {
	if items, ok := schema.AsSlice(result); ok {
		if !isTagged(items) {
			return nil
		}
		rows := make([]NumericValue, 0, len(items))
		for _, item := range items {
			obj, _ := schema.AsObject(item)
			row := NumericValue{ID: display(obj["id"])}
			row.Label = labelOr(obj["label"], row.ID)
			if ceiling, ok := schema.AsNumber(obj["max"]); ok {
				row.Max = &ceiling
			}
			row.Value, _ = schema.AsNumber(obj["value"])
			rows = append(rows, row)
		}
		return rows
	}

	values, ok := schema.AsObject(result)
	if !ok {
		return nil
	}

	items := s.Items
	if sidecar, ok := schema.AsSlice(values[domain.KeyItems]); ok {
		items = make([]domain.NumericItem, 0, len(sidecar))
		for _, raw := range sidecar {
			var item domain.NumericItem
			if err := decodeLoose(raw, &item); err != nil {
				continue
			}
			items = append(items, item)
		}
	}

	rows := make([]NumericValue, 0, len(items))
	for _, item := range items {
		value, _ := schema.AsNumber(values[item.ID])
		rows = append(rows, NumericValue{
			ID:    item.ID,
			Label: item.Label,
			Max:   item.Max,
			Value: value,
		})
	}
	return rows
}

// KanbanCard is a resolved kanban item.
type KanbanCard struct {
	Content     string
	Description string
}

// KanbanLane is one column of a resolved board.
type KanbanLane struct {
	Label string
	Cards []KanbanCard
}

type kanbanSidecarItem struct {
	ID          string `mapstructure:"id"`
	Content     string `mapstructure:"content"`
	Label       string `mapstructure:"label"`
	Description string `mapstructure:"description"`
}

// NormalizeKanban resolves the column placements of a kanban result.
// Template items and the __items__ sidecar are merged into one lookup with
// the sidecar winning on id collisions. Placed ids with no matching item are
// kept with the id as content.
func NormalizeKanban(s *domain.KanbanSection, result any) []KanbanLane {
	placements, _ := schema.AsObject(result)

	cards := make(map[string]KanbanCard, len(s.Items))
	for _, item := range s.Items {
		cards[item.ID] = KanbanCard{Content: item.Label}
	}
	if sidecar, ok := schema.AsSlice(placements[domain.KeyItems]); ok {
		for _, raw := range sidecar {
			var item kanbanSidecarItem
			if err := decodeLoose(raw, &item); err != nil {
				continue
			}
			content := item.Content
			if content == "" {
				content = item.Label
			}
			cards[item.ID] = KanbanCard{Content: content, Description: item.Description}
		}
	}

	lanes := make([]KanbanLane, 0, len(s.Columns))
	for _, col := range s.Columns {
		lane := KanbanLane{Label: col.Label}
		ids, _ := schema.AsSlice(placements[col.ID])
		for _, raw := range ids {
			id := display(raw)
			card, ok := cards[id]
			if !ok {
				card = KanbanCard{Content: id}
			}
			lane.Cards = append(lane.Cards, card)
		}
		lanes = append(lanes, lane)
	}
	return lanes
}

// Param is a rendered key/value pair of an endpoint.
type Param struct {
	Key   string
	Value string
}

// Endpoint is one normalised api-builder endpoint.
type Endpoint struct {
	Method       string
	Path         string
	Description  string
	PathParams   []Param
	QueryParams  []Param
	Headers      []Param
	Body         string
	ResponseCode float64
	ResponseBody string
}

type rawEndpoint struct {
	Method       any `mapstructure:"method"`
	Path         any `mapstructure:"path"`
	Description  any `mapstructure:"description"`
	PathParams   any `mapstructure:"pathParams"`
	QueryParams  any `mapstructure:"queryParams"`
	Headers      any `mapstructure:"headers"`
	Body         any `mapstructure:"body"`
	ResponseCode any `mapstructure:"responseCode"`
	ResponseBody any `mapstructure:"responseBody"`
}

// NormalizeEndpoints returns the endpoints of an api-builder result object.
// When the object carries an "endpoints" array each element is one endpoint
// and multi is true; otherwise the object itself is a single endpoint.
func NormalizeEndpoints(result map[string]any) (endpoints []Endpoint, multi bool) {
	if list, ok := schema.AsSlice(result[domain.KeyEndpoints]); ok {
		endpoints = make([]Endpoint, 0, len(list))
		for _, raw := range list {
			obj, _ := schema.AsObject(raw)
			endpoints = append(endpoints, toEndpoint(obj))
		}
		return endpoints, true
	}
	return []Endpoint{toEndpoint(result)}, false
}

func toEndpoint(obj map[string]any) Endpoint {
	var raw rawEndpoint
	if obj != nil {
		// All fields are untyped so decoding an object cannot fail.
		_ = decodeLoose(obj, &raw)
	}

	ep := Endpoint{
		Method: "GET",
		Path:   "/",
	}
	if truthy(raw.Method) {
		ep.Method = display(raw.Method)
	}
	if truthy(raw.Path) {
		ep.Path = display(raw.Path)
	}
	if truthy(raw.Description) {
		ep.Description = display(raw.Description)
	}
	if params, ok := schema.AsObject(raw.PathParams); ok {
		for _, key := range sortedKeys(params) {
			ep.PathParams = append(ep.PathParams, Param{Key: key, Value: display(params[key])})
		}
	}
	ep.QueryParams = pairs(raw.QueryParams)
	ep.Headers = pairs(raw.Headers)
	if body, ok := raw.Body.(string); ok && strings.TrimSpace(body) != "" {
		ep.Body = body
	}
	ep.ResponseCode, _ = schema.AsNumber(raw.ResponseCode)
	if body, ok := raw.ResponseBody.(string); ok && strings.TrimSpace(body) != "" {
		ep.ResponseBody = body
	}
	return ep
}

// pairs keeps the {key,value} entries whose key is non-blank.
func pairs(v any) []Param {
	items, ok := schema.AsSlice(v)
	if !ok {
		return nil
	}
	var out []Param
	for _, item := range items {
		obj, ok := schema.AsObject(item)
		if !ok {
			continue
		}
		key, ok := obj["key"].(string)
		if !ok || strings.TrimSpace(key) == "" {
			continue
		}
		out = append(out, Param{Key: key, Value: display(obj["value"])})
	}
	return out
}
