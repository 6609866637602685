package processes

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rafaeldtavares/juristrack-backend/internal/datajud"
	pkgdb "github.com/rafaeldtavares/juristrack-backend/pkg/db"
	"github.com/rafaeldtavares/juristrack-backend/pkg/db/models"
	"github.com/rafaeldtavares/juristrack-backend/pkg/enums"
	pkgerrors "github.com/rafaeldtavares/juristrack-backend/pkg/errors"
	"github.com/rafaeldtavares/juristrack-backend/pkg/logger"
)

type fakeSearcher struct {
	searchByNumberFn func(ctx context.Context, rawNumber string) (*datajud.SearchResult, error)
	searchByCourtFn  func(ctx context.Context, court string, limit int) ([]datajud.Document, error)
	searchByPartyFn  func(ctx context.Context, name, partyType string) ([]datajud.Document, error)
	processDetailsFn func(ctx context.Context, processID string) (datajud.Document, error)
	courtsFn         func(ctx context.Context) ([]datajud.Court, error)
}

func (f *fakeSearcher) SearchByNumber(ctx context.Context, rawNumber string) (*datajud.SearchResult, error) {
	if f.searchByNumberFn == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "unexpected SearchByNumber call")
	}
	return f.searchByNumberFn(ctx, rawNumber)
}

func (f *fakeSearcher) SearchByCourt(ctx context.Context, court string, limit int) ([]datajud.Document, error) {
	if f.searchByCourtFn == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "unexpected SearchByCourt call")
	}
	return f.searchByCourtFn(ctx, court, limit)
}

func (f *fakeSearcher) SearchByParty(ctx context.Context, name, partyType string) ([]datajud.Document, error) {
	if f.searchByPartyFn == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "unexpected SearchByParty call")
	}
	return f.searchByPartyFn(ctx, name, partyType)
}

func (f *fakeSearcher) ProcessDetails(ctx context.Context, processID string) (datajud.Document, error) {
	if f.processDetailsFn == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "unexpected ProcessDetails call")
	}
	return f.processDetailsFn(ctx, processID)
}

func (f *fakeSearcher) Courts(ctx context.Context) ([]datajud.Court, error) {
	if f.courtsFn == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "unexpected Courts call")
	}
	return f.courtsFn(ctx)
}

func newTestProcessService(t *testing.T, searcher Searcher) (*Service, Repository) {
	t.Helper()

	conn := setupProcessTestDB(t)
	repo := NewRepository(conn)
	svc, err := NewService(ServiceParams{
		Repo:     repo,
		DB:       pkgdb.NewFromConn(conn),
		Searcher: searcher,
		Logger:   logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
	})
	require.NoError(t, err)
	return svc, repo
}

const testProcessNumber = "0001234-56.2024.8.26.0100"

func testProcessDocument() datajud.Document {
	return datajud.Document(`{
		"id": "TJSP_123",
		"numeroProcesso": "00012345620248260100",
		"tribunal": "TJSP",
		"orgaoJulgador": {"nome": "1ª Vara Cível"},
		"classe": {"nome": "Procedimento Comum Cível"},
		"assuntos": [{"nome": "Cobrança"}],
		"partes": [{"nome": "Maria da Silva", "tipo": "autor"}],
		"movimentos": [
			{"nome": "Distribuição", "dataHora": "2024-03-15T10:30:00Z"},
			{"nome": "Despacho", "dataHora": "2024-04-01T09:00:00Z"}
		]
	}`)
}

func TestService_SearchByNumber_FetchesAndPersists(t *testing.T) {
	searcher := &fakeSearcher{
		searchByNumberFn: func(_ context.Context, rawNumber string) (*datajud.SearchResult, error) {
			assert.Equal(t, testProcessNumber, rawNumber)
			return &datajud.SearchResult{Court: "tjsp", Document: testProcessDocument()}, nil
		},
	}
	svc, repo := newTestProcessService(t, searcher)
	userID := uuid.New()

	record, err := svc.SearchByNumber(context.Background(), userID, "00012345620248260100")
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, testProcessNumber, record.ProcessNumber)
	assert.Equal(t, "TJSP", record.CourtCode)
	require.NotNil(t, record.LastSyncAt)
	require.Len(t, record.Parties, 1)
	require.Len(t, record.Movements, 2)
	assert.Equal(t, "Despacho", record.Movements[0].Description, "movements come newest first")

	attempts, err := repo.ListSearchAttemptsByUser(context.Background(), userID, 10)
	require.NoError(t, err)
	require.Len(t, attempts, 1)
	assert.True(t, attempts[0].Success)
	assert.Equal(t, enums.SearchKindNumber, attempts[0].Kind)
	assert.Equal(t, testProcessNumber, attempts[0].Query)
}

func TestService_SearchByNumber_FreshSnapshotSkipsUpstream(t *testing.T) {
	called := false
	searcher := &fakeSearcher{
		searchByNumberFn: func(context.Context, string) (*datajud.SearchResult, error) {
			called = true
			return nil, pkgerrors.New(pkgerrors.CodeDependency, "should not be called")
		},
	}
	svc, repo := newTestProcessService(t, searcher)

	now := time.Now().UTC()
	record := &models.ProcessRecord{
		ID:            uuid.New(),
		ProcessNumber: testProcessNumber,
		CourtCode:     "TJSP",
		LastSyncAt:    &now,
	}
	require.NoError(t, repo.Create(context.Background(), record))

	found, err := svc.SearchByNumber(context.Background(), uuid.New(), testProcessNumber)
	require.NoError(t, err)
	assert.Equal(t, record.ID, found.ID)
	assert.False(t, called, "fresh snapshot must not hit upstream")
}

func TestService_SearchByNumber_StaleSnapshotSurvivesOutage(t *testing.T) {
	searcher := &fakeSearcher{
		searchByNumberFn: func(context.Context, string) (*datajud.SearchResult, error) {
			return nil, pkgerrors.New(pkgerrors.CodeDependency, "datajud upstream error")
		},
	}
	svc, repo := newTestProcessService(t, searcher)

	stale := time.Now().UTC().Add(-2 * time.Hour)
	record := &models.ProcessRecord{
		ID:            uuid.New(),
		ProcessNumber: testProcessNumber,
		CourtCode:     "TJSP",
		LastSyncAt:    &stale,
	}
	require.NoError(t, repo.Create(context.Background(), record))

	found, err := svc.SearchByNumber(context.Background(), uuid.New(), testProcessNumber)
	require.NoError(t, err, "stale snapshot beats an upstream outage")
	assert.Equal(t, record.ID, found.ID)
}

func TestService_SearchByNumber_FailureFinalizesAttempt(t *testing.T) {
	searcher := &fakeSearcher{
		searchByNumberFn: func(context.Context, string) (*datajud.SearchResult, error) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "process not found in any court")
		},
	}
	svc, repo := newTestProcessService(t, searcher)
	userID := uuid.New()

	_, err := svc.SearchByNumber(context.Background(), userID, testProcessNumber)
	require.Error(t, err)

	attempts, err := repo.ListSearchAttemptsByUser(context.Background(), userID, 10)
	require.NoError(t, err)
	require.Len(t, attempts, 1)
	assert.False(t, attempts[0].Success)
	require.NotNil(t, attempts[0].ErrorMessage)
	assert.Contains(t, *attempts[0].ErrorMessage, "not found")
}

func TestService_Upsert_ReplacesChildren(t *testing.T) {
	svc, repo := newTestProcessService(t, &fakeSearcher{})
	ctx := context.Background()

	first, err := svc.Upsert(ctx, testProcessNumber, testProcessDocument(), "")
	require.NoError(t, err)
	require.Len(t, first.Movements, 2)
	require.Len(t, first.Parties, 1)

	second, err := svc.Upsert(ctx, testProcessNumber, datajud.Document(`{
		"tribunal": "TJSP",
		"status": "Arquivado",
		"partes": [
			{"nome": "Maria da Silva", "tipo": "autor"},
			{"nome": "Banco XYZ", "tipo": "reu"}
		],
		"movimentos": [{"nome": "Arquivamento", "dataHora": "2024-05-01T08:00:00Z"}]
	}`), "")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID, "upsert keys on process number")
	require.Len(t, second.Movements, 1, "old movements must not linger")
	require.Len(t, second.Parties, 2)
	require.NotNil(t, second.Status)
	assert.Equal(t, "Arquivado", *second.Status)
	require.NotNil(t, second.CaseClass)
	assert.Equal(t, "Procedimento Comum Cível", *second.CaseClass, "absent keys keep stored values")

	count, err := repo.CountMovements(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestService_Details_RefreshesStaleRecord(t *testing.T) {
	var detailsCalls int
	searcher := &fakeSearcher{
		processDetailsFn: func(_ context.Context, processID string) (datajud.Document, error) {
			detailsCalls++
			assert.Equal(t, "TJSP_123", processID)
			return datajud.Document(`{"numeroProcesso": "00012345620248260100", "status": "Sentenciado"}`), nil
		},
	}
	svc, _ := newTestProcessService(t, searcher)
	ctx := context.Background()

	seeded, err := svc.Upsert(ctx, testProcessNumber, testProcessDocument(), "")
	require.NoError(t, err)

	// Fresh snapshot: no upstream call.
	fresh, err := svc.Details(ctx, seeded.ID)
	require.NoError(t, err)
	assert.Zero(t, detailsCalls)
	assert.Nil(t, fresh.Status)

	stale := time.Now().UTC().Add(-2 * time.Hour)
	seeded.LastSyncAt = &stale
	require.NoError(t, svc.repo.Update(ctx, seeded))

	refreshed, err := svc.Details(ctx, seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, detailsCalls)
	require.NotNil(t, refreshed.Status)
	assert.Equal(t, "Sentenciado", *refreshed.Status)
	require.NotNil(t, refreshed.LastSyncAt)
	assert.True(t, refreshed.LastSyncAt.After(stale))
}

func TestService_Details_RefreshFailureServesSnapshot(t *testing.T) {
	searcher := &fakeSearcher{
		processDetailsFn: func(context.Context, string) (datajud.Document, error) {
			return nil, pkgerrors.New(pkgerrors.CodeDependency, "datajud upstream error")
		},
		searchByNumberFn: func(context.Context, string) (*datajud.SearchResult, error) {
			return nil, pkgerrors.New(pkgerrors.CodeDependency, "datajud upstream error")
		},
	}
	svc, repo := newTestProcessService(t, searcher)
	ctx := context.Background()

	stale := time.Now().UTC().Add(-2 * time.Hour)
	external := "TJSP_123"
	record := &models.ProcessRecord{
		ID:            uuid.New(),
		ProcessNumber: testProcessNumber,
		ExternalID:    &external,
		CourtCode:     "TJSP",
		LastSyncAt:    &stale,
	}
	require.NoError(t, repo.Create(ctx, record))

	found, err := svc.Details(ctx, record.ID)
	require.NoError(t, err)
	assert.Equal(t, record.ID, found.ID)
}

func TestService_Details_UnknownID(t *testing.T) {
	svc, _ := newTestProcessService(t, &fakeSearcher{})

	_, err := svc.Details(context.Background(), uuid.New())
	require.Error(t, err)

	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}

func TestService_SearchByParty_PersistsNumberedDocuments(t *testing.T) {
	searcher := &fakeSearcher{
		searchByPartyFn: func(_ context.Context, name, partyType string) ([]datajud.Document, error) {
			assert.Equal(t, "Maria da Silva", name)
			assert.Equal(t, "autor", partyType)
			return []datajud.Document{
				testProcessDocument(),
				datajud.Document(`{"tribunal": "TJRJ"}`),
			}, nil
		},
	}
	svc, repo := newTestProcessService(t, searcher)
	userID := uuid.New()

	records, err := svc.SearchByParty(context.Background(), userID, "Maria da Silva", "autor")
	require.NoError(t, err)
	require.Len(t, records, 1, "documents without a process number are skipped")
	assert.Equal(t, testProcessNumber, records[0].ProcessNumber)

	attempts, err := repo.ListSearchAttemptsByUser(context.Background(), userID, 10)
	require.NoError(t, err)
	require.Len(t, attempts, 1)
	assert.Equal(t, enums.SearchKindParty, attempts[0].Kind)
	assert.True(t, attempts[0].Success)
}

func TestService_SearchByCourt_PersistsResults(t *testing.T) {
	searcher := &fakeSearcher{
		searchByCourtFn: func(_ context.Context, court string, limit int) ([]datajud.Document, error) {
			assert.Equal(t, "tjsp", court)
			assert.Equal(t, 10, limit)
			return []datajud.Document{testProcessDocument()}, nil
		},
	}
	svc, _ := newTestProcessService(t, searcher)

	records, err := svc.SearchByCourt(context.Background(), uuid.New(), "tjsp", 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
}

func TestService_CourtsList(t *testing.T) {
	searcher := &fakeSearcher{
		courtsFn: func(context.Context) ([]datajud.Court, error) {
			return []datajud.Court{{Code: "tjsp", Name: "Tribunal de Justiça de São Paulo", Sphere: "estadual"}}, nil
		},
	}
	svc, _ := newTestProcessService(t, searcher)

	courts, err := svc.CourtsList(context.Background())
	require.NoError(t, err)
	require.Len(t, courts, 1)
	assert.Equal(t, "tjsp", courts[0].Code)
}

func TestDocumentNumber(t *testing.T) {
	number, ok := documentNumber(testProcessDocument())
	require.True(t, ok)
	assert.Equal(t, testProcessNumber, number)

	_, ok = documentNumber(datajud.Document(`{"tribunal": "TJSP"}`))
	assert.False(t, ok)

	_, ok = documentNumber(datajud.Document(`{"numeroProcesso": "123"}`))
	assert.False(t, ok, "short numbers are rejected")
}
