package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Listing defaults for ordered collections.
const (
	DefaultPage  = 1
	DefaultLimit = 100
	MaxLimit     = 500
)

// PageRequest is a 1-based page of an ordered collection.
type PageRequest struct {
	Page  int
	Limit int
}

// Normalize applies defaults to out-of-range values.
func (p PageRequest) Normalize() PageRequest {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.Limit < 1 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	return p
}

// Offset is the number of records skipped before this page.
func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.Limit
}

// orderedListing sorts ordered collections by explicit order then newest first.
const orderedListing = "sort_order ASC, created_at DESC"

func ensuredContext(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}

// validID rejects identifiers that cannot name a stored record.
func validID(id string) bool {
	_, err := uuid.Parse(strings.TrimSpace(id))
	return err == nil
}

// checkID reports a malformed path identifier as a validation failure, leaving
// "not found" for well-formed ids with no record behind them.
func checkID(id string) error {
	if !validID(id) {
		return newValidationError("Invalid ID format")
	}
	return nil
}

func trimPtr(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	return &trimmed
}

// Page is one slice of an ordered collection plus its total size.
type Page[T any] struct {
	Items []T
	Total int64
	Page  int
	Limit int
}

// listOrdered loads one page of model T sorted by explicit order then newest first.
func listOrdered[T any](ctx context.Context, db *gorm.DB, req PageRequest) (Page[T], error) {
	req = req.Normalize()

	var total int64
	if err := db.WithContext(ctx).Model(new(T)).Count(&total).Error; err != nil {
		return Page[T]{}, err
	}

	items := make([]T, 0)
	if err := db.WithContext(ctx).Order(orderedListing).Offset(req.Offset()).Limit(req.Limit).Find(&items).Error; err != nil {
		return Page[T]{}, err
	}
	return Page[T]{Items: items, Total: total, Page: req.Page, Limit: req.Limit}, nil
}
