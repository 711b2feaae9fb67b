package render

// Meta is the document metadata a page contributes to the HTML head.
type Meta struct {
	Title       string
	Description string

	// Meta are additional meta elements.
	Meta []MetaTag

	// Links are link elements (stylesheets, favicons, preloads).
	Links []LinkTag
}

// MetaTag represents a meta element in the document head.
type MetaTag struct {
	Name      string
	Content   string
	Property  string
	HTTPEquiv string
	Charset   string
}

// LinkTag represents a link element in the document head.
type LinkTag struct {
	Rel         string
	Href        string
	Type        string
	Sizes       string
	CrossOrigin string
	Media       string
}

// Merge overlays non-empty fields of other onto m and returns the
// result. Tag lists are concatenated, m's tags first.
func (m Meta) Merge(other Meta) Meta {
	out := m
	if other.Title != "" {
		out.Title = other.Title
	}
	if other.Description != "" {
		out.Description = other.Description
	}
	out.Meta = append(append([]MetaTag(nil), m.Meta...), other.Meta...)
	out.Links = append(append([]LinkTag(nil), m.Links...), other.Links...)
	return out
}
