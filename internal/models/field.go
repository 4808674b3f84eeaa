package models

// InputKind is how a detail field is collected.
type InputKind string

const (
	InputText   InputKind = "text"
	InputDate   InputKind = "date"
	InputSelect InputKind = "select"
)

// DateLayout is the accepted format for InputDate values.
const DateLayout = "2006-01-02"

// FieldDescriptor describes one category-specific detail field.
type FieldDescriptor struct {
	Key      string    `json:"key"`
	Label    string    `json:"label"`
	Kind     InputKind `json:"kind"`
	Options  []string  `json:"options,omitempty"`
	Required bool      `json:"required"`
}

// HasOption reports whether v is one of the select options.
func (f FieldDescriptor) HasOption(v string) bool {
	for _, o := range f.Options {
		if o == v {
			return true
		}
	}
	return false
}
