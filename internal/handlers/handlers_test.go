package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/SahilShaikh-7/careerspark-pplx/internal/models"
	"github.com/SahilShaikh-7/careerspark-pplx/internal/repositories"
	"github.com/SahilShaikh-7/careerspark-pplx/internal/services"
)

const testSecret = "0123456789abcdef0123456789abcdef"

var testAuth = services.NewAuthService(testSecret, time.Hour, "careerspark-test")

func bearer(t *testing.T, id services.Identity) string {
	t.Helper()
	token, err := testAuth.GenerateToken(id)
	require.NoError(t, err)
	return "Bearer " + token
}

func newTestApp() *fiber.App {
	return fiber.New(fiber.Config{ErrorHandler: CustomErrorHandler})
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(data)
}

type fakeResumeRepo struct {
	resumes   map[uuid.UUID]*models.Resume
	summaries []models.ResumeSummary
	deleted   []uuid.UUID
	err       error
}

func (f *fakeResumeRepo) Save(ctx context.Context, resume *models.Resume) (*models.Resume, error) {
	f.resumes[resume.ID] = resume
	return resume, nil
}

func (f *fakeResumeRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Resume, error) {
	if f.err != nil {
		return nil, f.err
	}
	r, ok := f.resumes[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return r, nil
}

func (f *fakeResumeRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.ResumeSummary, error) {
	return f.summaries, f.err
}

func (f *fakeResumeRepo) ListWithMatchedJobs(ctx context.Context, afterID uuid.UUID, limit int) ([]models.Resume, error) {
	return nil, nil
}

func (f *fakeResumeRepo) Delete(ctx context.Context, id uuid.UUID) error {
	f.deleted = append(f.deleted, id)
	delete(f.resumes, id)
	return nil
}

type fakeProfileRepo struct {
	profile *models.Profile
	err     error
	updated string
}

func (f *fakeProfileRepo) Get(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	return f.profile, f.err
}

func (f *fakeProfileRepo) UpdateFullName(ctx context.Context, id uuid.UUID, fullName string) (*models.Profile, error) {
	f.updated = fullName
	return &models.Profile{ID: id, FullName: fullName}, nil
}

type fakeJobIndex struct {
	results  []services.JobSearchResult
	err      error
	query    string
	limit    int
	owner    uuid.UUID
	removals []uuid.UUID
}

func (f *fakeJobIndex) InitCollection(ctx context.Context) error { return nil }

func (f *fakeJobIndex) IndexResume(ctx context.Context, resume *models.Resume) error { return nil }

func (f *fakeJobIndex) Search(ctx context.Context, ownerID uuid.UUID, query string, limit int) ([]services.JobSearchResult, error) {
	f.owner, f.query, f.limit = ownerID, query, limit
	return f.results, f.err
}

func (f *fakeJobIndex) DeleteResume(ctx context.Context, resumeID uuid.UUID) error {
	f.removals = append(f.removals, resumeID)
	return nil
}

// fakeWorker answers every submission with a scripted result and replays
// the given progress updates to the observer first. With hold set no result
// is ever sent.
type fakeWorker struct {
	result    services.SubmissionResult
	progress  []services.Progress
	enqueued  []services.Submission
	ctxs      []context.Context
	enqueuErr error
	hold      bool
}

func (f *fakeWorker) Start(ctx context.Context) {}

func (f *fakeWorker) Stop() {}

func (f *fakeWorker) Enqueue(ctx context.Context, sub services.Submission, observer services.ProgressObserver) (<-chan services.SubmissionResult, error) {
	if f.enqueuErr != nil {
		return nil, f.enqueuErr
	}
	f.enqueued = append(f.enqueued, sub)
	f.ctxs = append(f.ctxs, ctx)
	for _, p := range f.progress {
		if observer != nil {
			observer(p)
		}
	}
	done := make(chan services.SubmissionResult, 1)
	if !f.hold {
		done <- f.result
	}
	return done, nil
}
