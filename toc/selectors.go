package toc

// Selectors describes where a saved viewer snapshot keeps its section list.
type Selectors struct {
	Group    string `yaml:"group"`     // One element per section
	Title    string `yaml:"title"`     // Section name, inside Group
	Page     string `yaml:"page"`      // One element per page, inside Group
	PageAttr string `yaml:"page_attr"` // Attribute on Page holding the page number
}

// DefaultSelectors returns the selectors for the current viewer layout.
func DefaultSelectors() Selectors {
	return Selectors{
		Group: ".section-group",
		Title: ".section-title",
		// The HTML parser lower-cases attribute names
		Page:     "[data-pageno]",
		PageAttr: "data-pageno",
	}
}

// WithDefaults fills empty fields from DefaultSelectors.
func (s Selectors) WithDefaults() Selectors {
	d := DefaultSelectors()
	if s.Group == "" {
		s.Group = d.Group
	}
	if s.Title == "" {
		s.Title = d.Title
	}
	if s.Page == "" {
		s.Page = d.Page
	}
	if s.PageAttr == "" {
		s.PageAttr = d.PageAttr
	}
	return s
}
