package usecase

import (
	"context"

	"github.com/denisok6893-rgb/wholesale-deal-engine/internal/domain"
)

// DealRepository supplies property, comparable and buyer snapshots and stores evaluated records.
// The usecase layer depends on this interface, not on a concrete store.
//
//go:generate mockgen -destination=mocks/mock_repository.go -source=interface.go DealRepository
type DealRepository interface {
	GetProperty(ctx context.Context, id string) (domain.PropertyRecord, error)
	ListProperties(ctx context.Context, f domain.PropertyFilter) ([]domain.PropertyRecord, int, error)
	SaveProperty(ctx context.Context, p domain.PropertyRecord) (domain.PropertyRecord, error)
	ArchiveProperty(ctx context.Context, id string) error
	ListComparables(ctx context.Context, propertyID string) ([]domain.ComparableSale, error)
	ListBuyers(ctx context.Context) ([]domain.BuyerRecord, error)
}
