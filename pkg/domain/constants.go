package domain

// Section type discriminants.
const (
	TypeInfo          = "info"
	TypeChoice        = "choice"
	TypeRank          = "rank"
	TypeTextReview    = "text-review"
	TypeDecision      = "decision"
	TypeKanban        = "kanban"
	TypeImageChoice   = "image-choice"
	TypeAPIBuilder    = "api-builder"
	TypeDataMapper    = "data-mapper"
	TypeLiveComponent = "live-component"
	TypeNumericInputs = "numeric-inputs"
	TypeCardDeck      = "card-deck"
	TypeCodeSelector  = "code-selector"
)

// Result sidecar keys.
const (
	// KeyItems carries user-created or edited items alongside a result map
	// (kanban, legacy numeric-inputs).
	KeyItems = "__items__"

	// KeyEndpoints carries the multi-endpoint api-builder encoding.
	KeyEndpoints = "endpoints"
)
