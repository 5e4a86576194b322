package domain

// Experience is the root document describing an interactive review flow.
// Section order is both compile order and step order.
type Experience struct {
	ID          string    `json:"id" mapstructure:"id"`
	Title       string    `json:"title" mapstructure:"title"`
	Description string    `json:"description,omitempty" mapstructure:"description"`
	Author      string    `json:"author" mapstructure:"author"`
	Sections    []Section `json:"sections" mapstructure:"-"`
}

// Section returns the section with the given ID, if any.
func (e *Experience) Section(id string) (Section, bool) {
	for _, s := range e.Sections {
		if s.Header().ID == id {
			return s, true
		}
	}
	return nil, false
}

// CountType returns how many sections carry the given type tag.
func (e *Experience) CountType(sectionType string) int {
	n := 0
	for _, s := range e.Sections {
		if s.Header().Type == sectionType {
			n++
		}
	}
	return n
}

// Results maps section IDs to the captured answer for that section.
// Values are decoded JSON (or YAML) and are normalised by the compiler.
type Results map[string]any

// Comments maps section IDs to free-text reviewer notes.
type Comments map[string]string
