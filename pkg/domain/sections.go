package domain

// Section is the sealed sum type over all section variants.
type Section interface {
	// Header returns the fields shared by every variant.
	Header() SectionBase
	isSection()
}

// SectionBase holds the fields every section carries.
// ID is unique within an experience and keys Results and Comments.
type SectionBase struct {
	ID          string `json:"id" mapstructure:"id"`
	Type        string `json:"type" mapstructure:"type"`
	Title       string `json:"title,omitempty" mapstructure:"title"`
	Description string `json:"description,omitempty" mapstructure:"description"`
}

func (b SectionBase) Header() SectionBase { return b }
func (SectionBase) isSection()            {}

// Option is an id/label pair used by several variants.
type Option struct {
	ID    string `json:"id" mapstructure:"id"`
	Label string `json:"label" mapstructure:"label"`
}

// InfoSection displays static content.
type InfoSection struct {
	SectionBase `mapstructure:",squash"`
	Content     string `json:"content" mapstructure:"content"`
}

// ChoiceSection offers a fixed option list, single or multi select.
type ChoiceSection struct {
	SectionBase `mapstructure:",squash"`
	MultiSelect bool     `json:"multiSelect,omitempty" mapstructure:"multiSelect"`
	AllowCustom bool     `json:"allowCustom,omitempty" mapstructure:"allowCustom"`
	Options     []Option `json:"options" mapstructure:"options"`
}

// RankSection asks for an ordering of items.
type RankSection struct {
	SectionBase `mapstructure:",squash"`
	Items       []Option `json:"items" mapstructure:"items"`
}

// TextReviewSection collects freeform feedback against shown content.
type TextReviewSection struct {
	SectionBase `mapstructure:",squash"`
	Content     string `json:"content,omitempty" mapstructure:"content"`
}

// DecisionSection is the terminal approve/reject gate.
// Exactly one is allowed per experience.
type DecisionSection struct {
	SectionBase `mapstructure:",squash"`
	Message     string `json:"message,omitempty" mapstructure:"message"`
}

// KanbanColumn is a named column of a kanban board.
type KanbanColumn struct {
	ID    string `json:"id" mapstructure:"id"`
	Label string `json:"label" mapstructure:"label"`
}

// KanbanItem is a card placed in a column of a kanban board.
type KanbanItem struct {
	ID       string `json:"id" mapstructure:"id"`
	Label    string `json:"label" mapstructure:"label"`
	ColumnID string `json:"columnId" mapstructure:"columnId"`
}

// KanbanSection distributes items across columns.
type KanbanSection struct {
	SectionBase `mapstructure:",squash"`
	Columns     []KanbanColumn `json:"columns" mapstructure:"columns"`
	Items       []KanbanItem   `json:"items" mapstructure:"items"`
}

// Image is one entry of an image gallery.
type Image struct {
	ID    string `json:"id" mapstructure:"id"`
	Src   string `json:"src" mapstructure:"src"`
	Label string `json:"label,omitempty" mapstructure:"label"`
}

// ImageChoiceSection asks for a single pick from a gallery.
type ImageChoiceSection struct {
	SectionBase `mapstructure:",squash"`
	Images      []Image `json:"images" mapstructure:"images"`
}

// Header is a key/value pair (HTTP header or query parameter).
type Header struct {
	Key   string `json:"key" mapstructure:"key"`
	Value string `json:"value" mapstructure:"value"`
}

// ResponseCode is a selectable response status of an api-builder section.
type ResponseCode struct {
	Code  float64 `json:"code" mapstructure:"code"`
	Label string  `json:"label" mapstructure:"label"`
	Body  string  `json:"body,omitempty" mapstructure:"body"`
}

// EndpointSeed pre-populates an api-builder section.
type EndpointSeed struct {
	ID          string `json:"id" mapstructure:"id"`
	Method      string `json:"method,omitempty" mapstructure:"method"`
	Path        string `json:"path,omitempty" mapstructure:"path"`
	Description string `json:"description,omitempty" mapstructure:"description"`
}

// APIBuilderSection lets the user define one or more HTTP endpoints.
type APIBuilderSection struct {
	SectionBase      `mapstructure:",squash"`
	BasePath         string         `json:"basePath,omitempty" mapstructure:"basePath"`
	AllowedMethods   []string       `json:"allowedMethods,omitempty" mapstructure:"allowedMethods"`
	DefaultPath      string         `json:"defaultPath,omitempty" mapstructure:"defaultPath"`
	DefaultBody      string         `json:"defaultBody,omitempty" mapstructure:"defaultBody"`
	DefaultHeaders   []Header       `json:"defaultHeaders,omitempty" mapstructure:"defaultHeaders"`
	ResponseCodes    []ResponseCode `json:"responseCodes,omitempty" mapstructure:"responseCodes"`
	InitialEndpoints []EndpointSeed `json:"initialEndpoints,omitempty" mapstructure:"initialEndpoints"`
	MaxEndpoints     *float64       `json:"maxEndpoints,omitempty" mapstructure:"maxEndpoints"`
}

// DataMapperSection connects named sources to named targets.
type DataMapperSection struct {
	SectionBase `mapstructure:",squash"`
	Sources     []Option `json:"sources" mapstructure:"sources"`
	Targets     []Option `json:"targets" mapstructure:"targets"`
}

// LiveComponentSection is a single editable code blob with a default.
type LiveComponentSection struct {
	SectionBase `mapstructure:",squash"`
	DefaultCode string `json:"defaultCode" mapstructure:"defaultCode"`
}

// NumericItem is a labelled numeric field with an optional ceiling.
type NumericItem struct {
	ID    string   `json:"id" mapstructure:"id"`
	Label string   `json:"label" mapstructure:"label"`
	Max   *float64 `json:"max,omitempty" mapstructure:"max"`
}

// NumericInputsSection is a set of numeric fields.
type NumericInputsSection struct {
	SectionBase `mapstructure:",squash"`
	Items       []NumericItem `json:"items" mapstructure:"items"`
}

// CardDeckSection collects free-form records shaped by an author template.
type CardDeckSection struct {
	SectionBase  `mapstructure:",squash"`
	Template     map[string]any   `json:"template" mapstructure:"template"`
	InitialCards []map[string]any `json:"initialCards,omitempty" mapstructure:"initialCards"`
}

// CodeOption is one labelled code alternative.
type CodeOption struct {
	ID    string `json:"id" mapstructure:"id"`
	Label string `json:"label" mapstructure:"label"`
	Code  string `json:"code" mapstructure:"code"`
}

// CodeSelectorSection offers 2 to 5 code alternatives.
type CodeSelectorSection struct {
	SectionBase `mapstructure:",squash"`
	Language    string       `json:"language,omitempty" mapstructure:"language"`
	Options     []CodeOption `json:"options" mapstructure:"options"`
}
