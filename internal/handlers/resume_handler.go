package handlers

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/valyala/fasthttp"

	"github.com/SahilShaikh-7/careerspark-pplx/internal/models"
	"github.com/SahilShaikh-7/careerspark-pplx/internal/repositories"
	"github.com/SahilShaikh-7/careerspark-pplx/internal/services"
)

type ResumeHandler struct {
	shutdown    context.Context
	worker      services.Worker
	resumes     repositories.ResumeRepository
	jobIndex    services.JobIndex
	publisher   services.ProgressPublisher
	maxFileSize int64
}

// NewResumeHandler wires the resume endpoints. Running submissions are
// cancelled when shutdown is done. jobIndex and publisher may be nil when
// those integrations are not configured.
func NewResumeHandler(
	shutdown context.Context,
	worker services.Worker,
	resumes repositories.ResumeRepository,
	jobIndex services.JobIndex,
	publisher services.ProgressPublisher,
	maxFileSize int64,
) *ResumeHandler {
	if shutdown == nil {
		shutdown = context.Background()
	}
	return &ResumeHandler{
		shutdown:    shutdown,
		worker:      worker,
		resumes:     resumes,
		jobIndex:    jobIndex,
		publisher:   publisher,
		maxFileSize: maxFileSize,
	}
}

// HandleSubmit handles POST /resumes. Clients sending
// "Accept: text/event-stream" receive progress events while the analysis
// runs; everyone else gets the saved record once it is done.
func (h *ResumeHandler) HandleSubmit(c *fiber.Ctx) error {
	file, err := h.readUpload(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
			"kind":  services.KindInvalidInput,
		})
	}

	sub := services.Submission{
		ID:       uuid.New(),
		File:     file,
		Identity: identityFrom(c),
	}

	if strings.Contains(c.Get(fiber.HeaderAccept), "text/event-stream") {
		return h.streamSubmission(c, sub)
	}

	// fasthttp never cancels the request context, so the server lifetime
	// bounds the submission instead.
	ctx, cancel := h.submissionContext(c.UserContext())
	defer cancel()

	done, err := h.worker.Enqueue(ctx, sub, services.PublishingObserver(h.publisher))
	if err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "analysis queue is not accepting submissions",
		})
	}

	select {
	case res := <-done:
		if res.Err != nil {
			return h.respondSubmissionError(c, res.Err)
		}
		return c.Status(fiber.StatusCreated).JSON(res.Resume)
	case <-ctx.Done():
		return h.respondSubmissionError(c, &services.PipelineError{Kind: services.KindCancelled, Cause: ctx.Err()})
	}
}

// submissionContext derives a context from parent that is also cancelled
// when the server shuts down.
func (h *ResumeHandler) submissionContext(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	stop := context.AfterFunc(h.shutdown, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}

func (h *ResumeHandler) respondSubmissionError(c *fiber.Ctx, err error) error {
	if errors.Is(err, services.ErrWorkerStopped) ||
		(services.KindOf(err) == services.KindCancelled && h.shutdown.Err() != nil) {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "server is shutting down, please submit the resume again",
			"kind":  services.KindCancelled,
		})
	}
	return respondPipelineError(c, err)
}

func (h *ResumeHandler) streamSubmission(c *fiber.Ctx, sub services.Submission) error {
	// The body stream outlives the handler, so the submission gets its own
	// context. It is cancelled when the client stops reading or the server
	// shuts down.
	ctx, cancel := h.submissionContext(context.Background())

	progress := make(chan services.Progress, 16)
	observer := services.MultiObserver(
		func(p services.Progress) { progress <- p },
		services.PublishingObserver(h.publisher),
	)

	done, err := h.worker.Enqueue(ctx, sub, observer)
	if err != nil {
		cancel()
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "analysis queue is not accepting submissions",
		})
	}

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer cancel()
		sse := newSSEWriter(w)

		for {
			select {
			case p := <-progress:
				if err := sse.WriteEvent("progress", p); err != nil {
					log.Printf("⚠️ Client left during submission %s: %v", sub.ID, err)
					return
				}
			case res := <-done:
				for drained := false; !drained; {
					select {
					case p := <-progress:
						sse.WriteEvent("progress", p) //nolint:errcheck
					default:
						drained = true
					}
				}

				if res.Err != nil {
					body := pipelineErrorBody(res.Err)
					body["status"] = PipelineErrorStatus(services.KindOf(res.Err))
					if errors.Is(res.Err, services.ErrWorkerStopped) {
						body["status"] = fiber.StatusServiceUnavailable
					}
					sse.WriteEvent("error", body) //nolint:errcheck
					return
				}
				sse.WriteEvent("complete", res.Resume) //nolint:errcheck
				return
			}
		}
	}))

	return nil
}

// readUpload returns an empty UploadFile when no file was sent so that the
// pipeline reports the missing input.
func (h *ResumeHandler) readUpload(c *fiber.Ctx) (services.UploadFile, error) {
	fh, err := c.FormFile("file")
	if err != nil {
		return services.UploadFile{}, nil
	}

	if h.maxFileSize > 0 && fh.Size > h.maxFileSize {
		return services.UploadFile{}, fmt.Errorf("resume file too large. Max size: %d bytes", h.maxFileSize)
	}

	if !services.IsSupportedResumeFile(fh.Filename) {
		return services.UploadFile{}, fmt.Errorf("unsupported file type. Please upload one of: %s", strings.Join(services.SupportedResumeExtensions, ", "))
	}

	src, err := fh.Open()
	if err != nil {
		return services.UploadFile{}, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return services.UploadFile{}, fmt.Errorf("failed to read uploaded file: %w", err)
	}

	return services.UploadFile{
		Name:        fh.Filename,
		ContentType: fh.Header.Get(fiber.HeaderContentType),
		Size:        fh.Size,
		Data:        data,
	}, nil
}

// HandleList handles GET /resumes
func (h *ResumeHandler) HandleList(c *fiber.Ctx) error {
	summaries, err := h.resumes.ListByOwner(c.UserContext(), identityFrom(c).UserID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to fetch resume history",
		})
	}

	return c.JSON(models.ResumeListResponse{Resumes: summaries})
}

// HandleGet handles GET /resumes/:id
func (h *ResumeHandler) HandleGet(c *fiber.Ctx) error {
	resume, err := h.ownedResume(c)
	if err != nil {
		return err
	}
	return c.JSON(resume)
}

// HandleReport handles GET /resumes/:id/report
func (h *ResumeHandler) HandleReport(c *fiber.Ctx) error {
	format, err := services.ParseReportFormat(c.Query("format", "txt"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	resume, err := h.ownedResume(c)
	if err != nil {
		return err
	}

	body, err := services.RenderReport(resume, format)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to render report",
		})
	}

	c.Attachment(services.ReportFilename(resume.Filename, format))
	c.Set(fiber.HeaderContentType, format.ContentType())
	return c.Send(body)
}

// HandleDelete handles DELETE /resumes/:id
func (h *ResumeHandler) HandleDelete(c *fiber.Ctx) error {
	resume, err := h.ownedResume(c)
	if err != nil {
		return err
	}

	if err := h.resumes.Delete(c.UserContext(), resume.ID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to delete resume",
		})
	}

	if h.jobIndex != nil {
		if err := h.jobIndex.DeleteResume(c.UserContext(), resume.ID); err != nil {
			log.Printf("⚠️ Failed to remove indexed jobs of %s: %v", resume.ID, err)
		}
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// ownedResume loads the :id record. Records of other users are reported as
// missing.
func (h *ResumeHandler) ownedResume(c *fiber.Ctx) (*models.Resume, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Invalid resume ID format")
	}

	resume, err := h.resumes.FindByID(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Resume not found")
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, "failed to fetch resume")
	}

	if resume.UserID != identityFrom(c).UserID {
		return nil, fiber.NewError(fiber.StatusNotFound, "Resume not found")
	}

	return resume, nil
}
