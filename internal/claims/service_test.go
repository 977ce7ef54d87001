package claims

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/motormint/motormint/internal/artifact"
	"github.com/motormint/motormint/jobs"
)

type stubRepo struct {
	claim  Claim
	getErr error

	updatedID   int64
	updatedPath string
	updateErr   error
}

func (s *stubRepo) GetClaim(_ context.Context, id int64) (Claim, error) {
	if s.getErr != nil {
		return Claim{}, s.getErr
	}
	return s.claim, nil
}

func (s *stubRepo) UpdateReportPath(_ context.Context, id int64, path string, _ time.Time) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	s.updatedID = id
	s.updatedPath = path
	return nil
}

type stubDocRenderer struct {
	err error
}

func (s *stubDocRenderer) Render(_ context.Context, _ DocumentData) (RenderResult, error) {
	if s.err != nil {
		return RenderResult{}, s.err
	}
	return RenderResult{HTML: "<html></html>", PDF: []byte("%PDF-stub"), Length: 9}, nil
}

type stubStore struct {
	saved *artifact.SaveRequest
	path  string
	err   error
}

func (s *stubStore) Save(req artifact.SaveRequest) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.saved = &req
	return s.path, nil
}

type stubEvents struct {
	payloads []jobs.ReportGeneratedPayload
	err      error
}

func (s *stubEvents) ReportGenerated(_ context.Context, p jobs.ReportGeneratedPayload) error {
	if s.err != nil {
		return s.err
	}
	s.payloads = append(s.payloads, p)
	return nil
}

func newTestService(t *testing.T, repo *stubRepo, renderer *stubDocRenderer, store *stubStore, events *stubEvents) *Service {
	t.Helper()
	return NewService(ServiceConfig{
		Repo:     repo,
		Builder:  NewBuilder(stubAssets{}, t.TempDir(), slog.Default()),
		Renderer: renderer,
		Store:    store,
		Events:   events,
		Logger:   slog.Default(),
	})
}

func testClaim() Claim {
	return Claim{
		ID:          11,
		ClaimNumber: "CLM-2026-0011",
		UserID:      3,
		Make:        "Hyundai",
		Model:       "Creta",
		Status:      StatusUnderReview,
	}
}

func TestGenerateSuccess(t *testing.T) {
	repo := &stubRepo{claim: testClaim()}
	store := &stubStore{path: "/reports/2026-07-15/CLM-2026-0011-Hyundai-Creta.pdf"}
	events := &stubEvents{}
	svc := newTestService(t, repo, &stubDocRenderer{}, store, events)
	fixed := time.Date(2026, 7, 15, 10, 0, 0, 0, time.UTC)
	svc.WithNow(func() time.Time { return fixed })

	path, err := svc.Generate(context.Background(), 11)
	require.NoError(t, err)
	require.Equal(t, store.path, path)

	require.NotNil(t, store.saved)
	require.Equal(t, fixed, store.saved.Partition)
	require.Equal(t, []string{"CLM-2026-0011", "Hyundai", "Creta"}, store.saved.NameParts)

	require.EqualValues(t, 11, repo.updatedID)
	require.Equal(t, store.path, repo.updatedPath)

	require.Len(t, events.payloads, 1)
	require.Equal(t, jobs.ReportKindClaim, events.payloads[0].Kind)
	require.Equal(t, "CLM-2026-0011", events.payloads[0].Reference)
	require.EqualValues(t, 3, events.payloads[0].RecipientID)
}

func TestGenerateNotFoundPassesThrough(t *testing.T) {
	repo := &stubRepo{getErr: ErrClaimNotFound}
	svc := newTestService(t, repo, &stubDocRenderer{}, &stubStore{}, &stubEvents{})

	_, err := svc.Generate(context.Background(), 99)
	require.ErrorIs(t, err, ErrClaimNotFound)
}

func TestGenerateStoreFailureBlocksEvent(t *testing.T) {
	repo := &stubRepo{claim: testClaim()}
	events := &stubEvents{}
	svc := newTestService(t, repo, &stubDocRenderer{}, &stubStore{err: errors.New("disk full")}, events)

	_, err := svc.Generate(context.Background(), 11)
	require.Error(t, err)
	require.Empty(t, repo.updatedPath)
	require.Empty(t, events.payloads)
}

func TestGenerateRenderFailureLeavesRecordUntouched(t *testing.T) {
	repo := &stubRepo{claim: testClaim()}
	store := &stubStore{path: "/reports/x.pdf"}
	svc := newTestService(t, repo, &stubDocRenderer{err: errors.New("gotenberg down")}, store, &stubEvents{})

	_, err := svc.Generate(context.Background(), 11)
	require.Error(t, err)
	require.Nil(t, store.saved)
	require.Empty(t, repo.updatedPath)
}

func TestGenerateEventFailureIsNonFatal(t *testing.T) {
	repo := &stubRepo{claim: testClaim()}
	store := &stubStore{path: "/reports/x.pdf"}
	svc := newTestService(t, repo, &stubDocRenderer{}, store, &stubEvents{err: errors.New("queue down")})

	path, err := svc.Generate(context.Background(), 11)
	require.NoError(t, err)
	require.Equal(t, store.path, path)
}
