package types

// Entry is the canonical documentation record emitted for every raw block
type Entry struct {
	Keys        []string `json:"keys"`
	Headline    string   `json:"headline"`
	Usage       string   `json:"usage"`
	Description string   `json:"description"`
	Examples    string   `json:"examples"`
	SeeAlso     []string `json:"seealso"`
	Source      string   `json:"source"`
	Syntax      Syntax   `json:"syntax"`
}

// HasCoreContent reports whether the entry carries a headline or a description
func (e *Entry) HasCoreContent() bool {
	return e.Headline != "" || e.Description != ""
}

// FillDefaults replaces nil list fields with empty lists so they encode as []
func (e *Entry) FillDefaults() {
	if e.Keys == nil {
		e.Keys = []string{}
	}
	if e.SeeAlso == nil {
		e.SeeAlso = []string{}
	}
}

// Validate checks the structural invariants of the entry
func (e *Entry) Validate() error {
	if e.Source == "" {
		return ErrMissingSource
	}
	return e.Syntax.Validate()
}
