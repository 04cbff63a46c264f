package models

// Listing is one job posting read from a search results page.
// All fields are kept as text; counts and dates are not parsed.
type Listing struct {
	Title       string `json:"titulo"`
	Company     string `json:"empresa"`
	Location    string `json:"localizacao"`
	Position    string `json:"posicao"`
	Openings    string `json:"qtdeVagas"`
	Description string `json:"descricao"`
	Link        string `json:"link"`
	PublishedAt string `json:"publicadoEm"`
}

// ListingHeaders returns the spreadsheet header labels in column order.
func ListingHeaders() []string {
	return []string{
		"titulo",
		"empresa",
		"localizacao",
		"posicao",
		"qtdeVagas",
		"descricao",
		"link",
		"publicadoEm",
	}
}

// Row returns the listing fields in the same order as ListingHeaders.
func (l Listing) Row() []string {
	return []string{
		l.Title,
		l.Company,
		l.Location,
		l.Position,
		l.Openings,
		l.Description,
		l.Link,
		l.PublishedAt,
	}
}
