package flowrec

import (
	"context"

	backfilluc "github.com/robosmart/flowrec/internal/usecase/backfill"
	healthuc "github.com/robosmart/flowrec/internal/usecase/health"
	recommenduc "github.com/robosmart/flowrec/internal/usecase/recommend"
)

// --- recommendUseCase mock ---

type mockRecommendUC struct {
	fn func(ctx context.Context, req recommenduc.Request) (recommenduc.Result, error)
}

func (m *mockRecommendUC) Recommend(ctx context.Context, req recommenduc.Request) (recommenduc.Result, error) {
	return m.fn(ctx, req)
}

// --- categoryLister mock ---

type mockCategoryLister struct {
	fn func(ctx context.Context) ([]string, error)
}

func (m *mockCategoryLister) Categories(ctx context.Context) ([]string, error) {
	return m.fn(ctx)
}

// --- healthUseCase mock ---

type mockHealthUC struct {
	report healthuc.Report
}

func (m *mockHealthUC) Check(_ context.Context) healthuc.Report {
	return m.report
}

// --- backfillUseCase mock ---

type mockBackfillUC struct {
	summary backfilluc.Summary
	err     error
}

func (m *mockBackfillUC) Run(_ context.Context) (backfilluc.Summary, error) {
	return m.summary, m.err
}

// --- helpers ---

func testClient(
	recSvc recommendUseCase,
	catSvc categoryLister,
	healthSvc healthUseCase,
	backfillSvc backfillUseCase,
) *Client {
	return &Client{
		recSvc:      recSvc,
		catSvc:      catSvc,
		healthSvc:   healthSvc,
		backfillSvc: backfillSvc,
	}
}
