// Define the contract between a site visitor and the aggregator
// Classify run failures

package scraper

import (
	"context"
	"errors"

	"go-vagas-scraper/internal/models"
)

var (
	ErrBrowserLaunch = errors.New("browser launch failed")
	ErrNavigation    = errors.New("navigation failed")
	ErrEmptyResult   = errors.New("no listings found")
	ErrPersistence   = errors.New("persistence failed")
)

// Visitor loads one search page and returns the listings on it, in DOM order.
type Visitor interface {
	Visit(ctx context.Context, url string) ([]models.Listing, error)
}

// VisitorFunc adapts a function to Visitor.
type VisitorFunc func(ctx context.Context, url string) ([]models.Listing, error)

func (f VisitorFunc) Visit(ctx context.Context, url string) ([]models.Listing, error) {
	return f(ctx, url)
}
