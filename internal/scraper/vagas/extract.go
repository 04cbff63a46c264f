package vagas

import (
	"fmt"
	"net/url"
	"strings"
	"unicode"

	"go-vagas-scraper/internal/models"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/unicode/norm"
)

// ListingSelector marks one job posting on a search results page.
const ListingSelector = ".vaga"

// Field selectors, relative to a listing element.
const (
	TitleSelector       = "h2"
	CompanySelector     = ".emprVaga"
	LocationSelector    = ".vaga-local"
	PositionSelector    = ".nivelVaga"
	OpeningsSelector    = ".qtdPosicoes"
	DescriptionSelector = ".detalhes"
	LinkSelector        = ".link-detalhes-vaga"
	PublishedSelector   = ".data-publicacao"
)

// Placeholders substituted when a field is missing or blank.
const (
	TitlePlaceholder       = "Título não disponível"
	CompanyPlaceholder     = "Empresa não disponível"
	LocationPlaceholder    = "Localização não disponível"
	PositionPlaceholder    = "Posicao não informado"
	OpeningsPlaceholder    = "Quantidade de vagas não informado"
	DescriptionPlaceholder = "Detalhes não informado"
	LinkPlaceholder        = "Link não disponível"
	PublishedPlaceholder   = "Data não disponível"
)

// Extract reads every listing in html. pageURL resolves relative links.
// The result depends only on its inputs.
func Extract(html, pageURL string) ([]models.Listing, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse page html: %w", err)
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("parse page url: %w", err)
	}

	listings := make([]models.Listing, 0)
	doc.Find(ListingSelector).Each(func(_ int, s *goquery.Selection) {
		listings = append(listings, models.Listing{
			Title:       textOr(s, TitleSelector, TitlePlaceholder),
			Company:     textOr(s, CompanySelector, CompanyPlaceholder),
			Location:    textOr(s, LocationSelector, LocationPlaceholder),
			Position:    textOr(s, PositionSelector, PositionPlaceholder),
			Openings:    textOr(s, OpeningsSelector, OpeningsPlaceholder),
			Description: textOr(s, DescriptionSelector, DescriptionPlaceholder),
			Link:        linkOr(s, base, LinkPlaceholder),
			PublishedAt: textOr(s, PublishedSelector, PublishedPlaceholder),
		})
	})
	return listings, nil
}

func textOr(s *goquery.Selection, selector, placeholder string) string {
	el := s.Find(selector).First()
	if el.Length() == 0 {
		return placeholder
	}
	if text := cleanText(el.Text()); text != "" {
		return text
	}
	return placeholder
}

// linkOr mirrors an anchor's resolved href: only <a> and <area> elements
// carry one.
func linkOr(s *goquery.Selection, base *url.URL, placeholder string) string {
	el := s.Find(LinkSelector).First()
	if el.Length() == 0 || !el.Is("a, area") {
		return placeholder
	}
	href, ok := el.Attr("href")
	if !ok {
		return placeholder
	}
	href = strings.TrimSpace(href)
	ref, err := url.Parse(href)
	if err != nil {
		return placeholder
	}
	resolved := base.ResolveReference(ref).String()
	if resolved == "" {
		return placeholder
	}
	return resolved
}

func cleanText(s string) string {
	s = strings.TrimFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || r == '\uFEFF'
	})
	return norm.NFC.String(s)
}
