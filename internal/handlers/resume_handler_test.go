package handlers

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SahilShaikh-7/careerspark-pplx/internal/models"
	"github.com/SahilShaikh-7/careerspark-pplx/internal/services"
)

type resumeFixture struct {
	shutdown context.CancelFunc
	worker   *fakeWorker
	repo     *fakeResumeRepo
	index    *fakeJobIndex
	app      *fiber.App
	user     services.Identity
}

func newResumeFixture() *resumeFixture {
	f := &resumeFixture{
		worker: &fakeWorker{},
		repo:   &fakeResumeRepo{resumes: map[uuid.UUID]*models.Resume{}},
		index:  &fakeJobIndex{},
		user:   services.Identity{UserID: uuid.New(), Email: "jane@example.com"},
	}

	ctx, cancel := context.WithCancel(context.Background())
	f.shutdown = cancel

	h := NewResumeHandler(ctx, f.worker, f.repo, f.index, nil, 1024)
	f.app = newTestApp()
	auth := RequireAuth(testAuth)
	f.app.Post("/resumes", auth, h.HandleSubmit)
	f.app.Get("/resumes", auth, h.HandleList)
	f.app.Get("/resumes/:id", auth, h.HandleGet)
	f.app.Get("/resumes/:id/report", auth, h.HandleReport)
	f.app.Delete("/resumes/:id", auth, h.HandleDelete)
	return f
}

func (f *resumeFixture) do(t *testing.T, req *http.Request) *http.Response {
	t.Helper()
	if req.Header.Get("Authorization") == "" {
		req.Header.Set("Authorization", bearer(t, f.user))
	}
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func (f *resumeFixture) storedResume() *models.Resume {
	r := models.NewResume(f.user.UserID, "jane.pdf", "https://files.example.com/jane.pdf", models.AnalysisResult{
		Score:           82,
		ExperienceLevel: "Mid-Level",
		Skills:          []models.Skill{{Name: "Python", Category: models.CategoryTechnical, Confidence: 0.9}},
	}, []models.JobMatch{{Title: "Data Analyst", Company: "Acme", MatchPercentage: 88}})
	r.CreatedAt = time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	f.repo.resumes[r.ID] = r
	return r
}

func uploadRequest(t *testing.T, filename string, content []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if filename != "" {
		part, err := w.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/resumes", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestResumeHandler_Submit(t *testing.T) {
	f := newResumeFixture()
	saved := f.storedResume()
	f.worker.result = services.SubmissionResult{Resume: saved}

	resp := f.do(t, uploadRequest(t, "jane.pdf", []byte("%PDF-1.4")))
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Equal(t, saved.ID.String(), decodeBody(t, resp)["id"])

	require.Len(t, f.worker.enqueued, 1)
	sub := f.worker.enqueued[0]
	assert.Equal(t, "jane.pdf", sub.File.Name)
	assert.Equal(t, []byte("%PDF-1.4"), sub.File.Data)
	assert.Equal(t, f.user.UserID, sub.Identity.UserID)
	assert.NotEqual(t, uuid.Nil, sub.ID)
}

func TestResumeHandler_SubmitMissingFile(t *testing.T) {
	f := newResumeFixture()
	f.worker.result = services.SubmissionResult{Err: &services.PipelineError{Kind: services.KindInvalidInput, Stage: services.StageIdle}}

	resp := f.do(t, uploadRequest(t, "", nil))
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, string(services.KindInvalidInput), decodeBody(t, resp)["kind"])

	require.Len(t, f.worker.enqueued, 1)
	assert.True(t, f.worker.enqueued[0].File.Empty())
}

func TestResumeHandler_SubmitRejectsUpload(t *testing.T) {
	f := newResumeFixture()

	resp := f.do(t, uploadRequest(t, "photo.png", []byte("png")))
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = f.do(t, uploadRequest(t, "huge.pdf", bytes.Repeat([]byte("a"), 2048)))
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, decodeBody(t, resp)["error"], "too large")

	assert.Empty(t, f.worker.enqueued)
}

func TestResumeHandler_SubmitAnalysisFailure(t *testing.T) {
	f := newResumeFixture()
	f.worker.result = services.SubmissionResult{Err: &services.PipelineError{
		Kind:  services.KindAnalysisFailed,
		Stage: services.StageAnalyzing,
		Cause: &services.ProviderError{Provider: "Perplexity", StatusCode: 401, Message: "Invalid API key"},
	}}

	resp := f.do(t, uploadRequest(t, "jane.pdf", []byte("%PDF")))
	assert.Equal(t, fiber.StatusBadGateway, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, string(services.KindAnalysisFailed), body["kind"])
	assert.Equal(t, string(services.StageAnalyzing), body["stage"])
	assert.Equal(t, string(services.KindProviderError), body["cause"])
	assert.Contains(t, body["error"], "Invalid API key")
}

func TestResumeHandler_SubmitQueueClosed(t *testing.T) {
	f := newResumeFixture()
	f.worker.enqueuErr = services.ErrWorkerStopped

	resp := f.do(t, uploadRequest(t, "jane.pdf", []byte("%PDF")))
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
}

func TestResumeHandler_SubmitWorkerStoppedBeforeRun(t *testing.T) {
	f := newResumeFixture()
	f.worker.result = services.SubmissionResult{Err: services.ErrWorkerStopped}

	resp := f.do(t, uploadRequest(t, "jane.pdf", []byte("%PDF")))
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, string(services.KindCancelled), decodeBody(t, resp)["kind"])
}

func TestResumeHandler_SubmitCancelledOnShutdown(t *testing.T) {
	f := newResumeFixture()
	f.worker.hold = true
	f.shutdown()

	resp := f.do(t, uploadRequest(t, "jane.pdf", []byte("%PDF")))
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, string(services.KindCancelled), decodeBody(t, resp)["kind"])

	require.Len(t, f.worker.ctxs, 1)
	assert.Error(t, f.worker.ctxs[0].Err())
}

func TestResumeHandler_SubmitCancelledWhileServing(t *testing.T) {
	f := newResumeFixture()
	f.worker.result = services.SubmissionResult{Err: &services.PipelineError{Kind: services.KindCancelled, Stage: services.StageAnalyzing, Cause: context.Canceled}}

	resp := f.do(t, uploadRequest(t, "jane.pdf", []byte("%PDF")))
	assert.Equal(t, StatusClientClosedRequest, resp.StatusCode)
}

func TestResumeHandler_SubmitStream(t *testing.T) {
	f := newResumeFixture()
	saved := f.storedResume()
	f.worker.result = services.SubmissionResult{Resume: saved}
	f.worker.progress = []services.Progress{
		{Stage: services.StageUploading, Percentage: 10, Message: "Uploading resume..."},
		{Stage: services.StageAnalyzing, Percentage: 25, Message: "Analyzing resume..."},
	}

	req := uploadRequest(t, "jane.pdf", []byte("%PDF"))
	req.Header.Set("Accept", "text/event-stream")
	resp := f.do(t, req)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	body := readBody(t, resp)
	assert.Equal(t, 2, strings.Count(body, "event: progress\n"))
	assert.Contains(t, body, `"percentage":25`)
	assert.Contains(t, body, "event: complete\n")
	assert.Less(t, strings.LastIndex(body, "event: progress"), strings.Index(body, "event: complete"))
}

func TestResumeHandler_SubmitStreamFailure(t *testing.T) {
	f := newResumeFixture()
	f.worker.result = services.SubmissionResult{Err: &services.PipelineError{Kind: services.KindUploadFailed, Stage: services.StageUploading, Cause: errors.New("disk full")}}

	req := uploadRequest(t, "jane.pdf", []byte("%PDF"))
	req.Header.Set("Accept", "text/event-stream")
	body := readBody(t, f.do(t, req))

	assert.Contains(t, body, "event: error\n")
	assert.Contains(t, body, `"kind":"upload_failed"`)
	assert.Contains(t, body, `"status":502`)
}

func TestResumeHandler_List(t *testing.T) {
	f := newResumeFixture()
	f.repo.summaries = []models.ResumeSummary{{ID: uuid.New(), Filename: "jane.pdf", Score: 82}}

	resp := f.do(t, httptest.NewRequest("GET", "/resumes", nil))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resumes, ok := decodeBody(t, resp)["resumes"].([]any)
	require.True(t, ok)
	assert.Len(t, resumes, 1)
}

func TestResumeHandler_Get(t *testing.T) {
	f := newResumeFixture()
	saved := f.storedResume()

	resp := f.do(t, httptest.NewRequest("GET", "/resumes/"+saved.ID.String(), nil))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, float64(82), body["score"])

	resp = f.do(t, httptest.NewRequest("GET", "/resumes/not-a-uuid", nil))
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = f.do(t, httptest.NewRequest("GET", "/resumes/"+uuid.NewString(), nil))
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestResumeHandler_GetOtherUsersResume(t *testing.T) {
	f := newResumeFixture()
	saved := f.storedResume()

	req := httptest.NewRequest("GET", "/resumes/"+saved.ID.String(), nil)
	req.Header.Set("Authorization", bearer(t, services.Identity{UserID: uuid.New()}))
	resp := f.do(t, req)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestResumeHandler_Report(t *testing.T) {
	f := newResumeFixture()
	saved := f.storedResume()

	resp := f.do(t, httptest.NewRequest("GET", "/resumes/"+saved.ID.String()+"/report", nil))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "CareerSpark_Report_jane.txt")
	assert.Contains(t, readBody(t, resp), "--- OVERALL SCORE: 82/100 ---")

	resp = f.do(t, httptest.NewRequest("GET", "/resumes/"+saved.ID.String()+"/report?format=xlsx", nil))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, services.ReportExcel.ContentType(), resp.Header.Get("Content-Type"))

	resp = f.do(t, httptest.NewRequest("GET", "/resumes/"+saved.ID.String()+"/report?format=pdf", nil))
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestResumeHandler_Delete(t *testing.T) {
	f := newResumeFixture()
	saved := f.storedResume()

	resp := f.do(t, httptest.NewRequest("DELETE", "/resumes/"+saved.ID.String(), nil))
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	assert.Equal(t, []uuid.UUID{saved.ID}, f.repo.deleted)
	assert.Equal(t, []uuid.UUID{saved.ID}, f.index.removals)

	resp = f.do(t, httptest.NewRequest("DELETE", "/resumes/"+saved.ID.String(), nil))
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
