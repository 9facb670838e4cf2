package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/denisok6893-rgb/wholesale-deal-engine/internal/domain"
	"github.com/denisok6893-rgb/wholesale-deal-engine/internal/matching"
	"github.com/denisok6893-rgb/wholesale-deal-engine/internal/pipeline"
	"github.com/denisok6893-rgb/wholesale-deal-engine/internal/policy"
	"github.com/denisok6893-rgb/wholesale-deal-engine/internal/usecase"
	mock_usecase "github.com/denisok6893-rgb/wholesale-deal-engine/internal/usecase/mocks"
)

var now = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

func newDesk(repo usecase.DealRepository) *usecase.DealDesk {
	p := policy.DefaultPolicy()
	engine := matching.NewEngine(p.Match, matching.Config{}).WithClock(func() time.Time { return now })
	return usecase.NewDealDesk(repo, pipeline.NewEvaluator(p), engine)
}

func storedProperty() domain.PropertyRecord {
	return domain.PropertyRecord{
		ID:          "p-1",
		Address:     "412 Elm St, Springfield, IL 62704",
		SquareFeet:  1500,
		Bedrooms:    3,
		Bathrooms:   2,
		YearBuilt:   2000,
		Condition:   domain.ConditionSignals{Overall: 6},
		AskingPrice: 60_000,
		DealType:    "Wholesaling",
		Status:      domain.StatusActive,
	}
}

func storedComps() []domain.ComparableSale {
	return []domain.ComparableSale{
		{PropertyID: "p-1", SalePrice: 200_000, SquareFeet: 1400, Bedrooms: 3, Bathrooms: 2, YearBuilt: 1995, Condition: 7},
		{PropertyID: "p-1", SalePrice: 210_000, SquareFeet: 1500, Bedrooms: 3, Bathrooms: 2, YearBuilt: 2000, Condition: 9},
		{PropertyID: "p-1", SalePrice: 205_000, SquareFeet: 1600, Bedrooms: 4, Bathrooms: 2.5, YearBuilt: 2005, Condition: 8},
	}
}

func TestDealDesk_EvaluateProperty(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	dbErr := errors.New("database is locked")

	tests := []struct {
		name    string
		setup   func(repo *mock_usecase.MockDealRepository)
		wantErr error
	}{
		{
			name: "evaluates and saves the updated record",
			setup: func(repo *mock_usecase.MockDealRepository) {
				repo.EXPECT().GetProperty(gomock.Any(), "p-1").Return(storedProperty(), nil)
				repo.EXPECT().ListComparables(gomock.Any(), "p-1").Return(storedComps(), nil)
				repo.EXPECT().SaveProperty(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, p domain.PropertyRecord) (domain.PropertyRecord, error) {
						assert.Equal(t, 205_333.0, p.ARV)
						assert.Equal(t, 57_750.0, p.RepairEstimate)
						assert.Equal(t, 53_334.0, p.MAO)
						assert.NotEmpty(t, p.DealClass)
						return p, nil
					})
			},
		},
		{
			name: "property not found",
			setup: func(repo *mock_usecase.MockDealRepository) {
				repo.EXPECT().GetProperty(gomock.Any(), "p-1").Return(domain.PropertyRecord{}, domain.ErrNotFound)
			},
			wantErr: domain.ErrNotFound,
		},
		{
			name: "comparables fail",
			setup: func(repo *mock_usecase.MockDealRepository) {
				repo.EXPECT().GetProperty(gomock.Any(), "p-1").Return(storedProperty(), nil)
				repo.EXPECT().ListComparables(gomock.Any(), "p-1").Return(nil, dbErr)
			},
			wantErr: dbErr,
		},
		{
			name: "save fails",
			setup: func(repo *mock_usecase.MockDealRepository) {
				repo.EXPECT().GetProperty(gomock.Any(), "p-1").Return(storedProperty(), nil)
				repo.EXPECT().ListComparables(gomock.Any(), "p-1").Return(storedComps(), nil)
				repo.EXPECT().SaveProperty(gomock.Any(), gomock.Any()).Return(domain.PropertyRecord{}, dbErr)
			},
			wantErr: dbErr,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := mock_usecase.NewMockDealRepository(ctrl)
			tt.setup(repo)

			ev, err := newDesk(repo).EvaluateProperty(context.Background(), "p-1")

			if tt.wantErr != nil {
				assert.Error(t, err)
				assert.True(t, eris.Is(err, tt.wantErr), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 205_333.0, ev.Valuation.ARV)
			assert.Equal(t, ev.Offer.MAO, ev.Property.MAO)
			assert.Equal(t, ev.Verdict.Recommendation, ev.Property.DealClass)
		})
	}
}

func TestDealDesk_MatchProperty(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	buyer := domain.BuyerRecord{
		ID:             "b-1",
		MaxBudget:      120_000,
		InvestmentType: "Wholesale",
		PreferredAreas: "Springfield",
		CashVerified:   true,
		Active:         true,
		CreatedAt:      now.AddDate(0, 0, -3),
	}
	archived := storedProperty()
	archived.Status = domain.StatusArchived

	tests := []struct {
		name    string
		setup   func(repo *mock_usecase.MockDealRepository)
		wantIDs []string
		wantErr error
	}{
		{
			name: "ranks stored buyers",
			setup: func(repo *mock_usecase.MockDealRepository) {
				repo.EXPECT().GetProperty(gomock.Any(), "p-1").Return(storedProperty(), nil)
				repo.EXPECT().ListBuyers(gomock.Any()).Return([]domain.BuyerRecord{buyer}, nil)
			},
			wantIDs: []string{"b-1"},
		},
		{
			name: "no buyers on file",
			setup: func(repo *mock_usecase.MockDealRepository) {
				repo.EXPECT().GetProperty(gomock.Any(), "p-1").Return(storedProperty(), nil)
				repo.EXPECT().ListBuyers(gomock.Any()).Return([]domain.BuyerRecord{}, nil)
			},
			wantIDs: []string{},
		},
		{
			name: "buyer lookup missing",
			setup: func(repo *mock_usecase.MockDealRepository) {
				repo.EXPECT().GetProperty(gomock.Any(), "p-1").Return(storedProperty(), nil)
				repo.EXPECT().ListBuyers(gomock.Any()).Return(nil, nil)
			},
			wantErr: domain.ErrMissingCollaborator,
		},
		{
			name: "archived property",
			setup: func(repo *mock_usecase.MockDealRepository) {
				repo.EXPECT().GetProperty(gomock.Any(), "p-1").Return(archived, nil)
				repo.EXPECT().ListBuyers(gomock.Any()).Return([]domain.BuyerRecord{buyer}, nil)
			},
			wantErr: domain.ErrInvalidInput,
		},
		{
			name: "property not found",
			setup: func(repo *mock_usecase.MockDealRepository) {
				repo.EXPECT().GetProperty(gomock.Any(), "p-1").Return(domain.PropertyRecord{}, domain.ErrNotFound)
			},
			wantErr: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := mock_usecase.NewMockDealRepository(ctrl)
			tt.setup(repo)

			got, err := newDesk(repo).MatchProperty(context.Background(), "p-1")

			if tt.wantErr != nil {
				assert.True(t, eris.Is(err, tt.wantErr), "got %v", err)
				return
			}
			require.NoError(t, err)
			ids := make([]string, 0, len(got))
			for _, r := range got {
				ids = append(ids, r.Buyer.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestDealDesk_CreateProperty(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mock_usecase.NewMockDealRepository(ctrl)
	desk := newDesk(repo)

	_, err := desk.CreateProperty(context.Background(), domain.PropertyRecord{AskingPrice: 90_000})
	assert.True(t, eris.Is(err, domain.ErrInvalidInput))

	repo.EXPECT().SaveProperty(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, p domain.PropertyRecord) (domain.PropertyRecord, error) {
			p.ID = "generated"
			return p, nil
		})

	got, err := desk.CreateProperty(context.Background(), domain.PropertyRecord{Address: "9 Birch Rd, Akron, OH 44301"})
	require.NoError(t, err)
	assert.Equal(t, "generated", got.ID)
	assert.Equal(t, domain.StatusActive, got.Status)
}

func TestDealDesk_InlineEvaluateAndMatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	desk := newDesk(mock_usecase.NewMockDealRepository(ctrl))

	ev := desk.Evaluate(storedProperty(), storedComps())
	assert.Equal(t, 53_334.0, ev.Property.MAO)

	_, err := desk.Match(storedProperty(), nil)
	assert.True(t, eris.Is(err, domain.ErrMissingCollaborator))
}
