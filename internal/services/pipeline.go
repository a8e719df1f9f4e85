package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/SahilShaikh-7/careerspark-pplx/internal/models"
)

// Stage is one step of a submission.
type Stage string

const (
	StageIdle      Stage = "idle"
	StageUploading Stage = "uploading"
	StageAnalyzing Stage = "analyzing"
	StageMatching  Stage = "matching"
	StageSaving    Stage = "saving"
	StageComplete  Stage = "complete"
	StageFailed    Stage = "failed"
)

var stagePercentages = map[Stage]int{
	StageIdle:      0,
	StageUploading: 10,
	StageAnalyzing: 25,
	StageMatching:  75,
	StageSaving:    90,
	StageComplete:  100,
	StageFailed:    0,
}

var stageMessages = map[Stage]string{
	StageUploading: "Uploading resume...",
	StageAnalyzing: "Analyzing resume...",
	StageMatching:  "Finding job matches...",
	StageSaving:    "Saving results...",
	StageComplete:  "Complete!",
}

var stageTransitions = map[Stage][]Stage{
	StageIdle:      {StageUploading, StageFailed},
	StageUploading: {StageAnalyzing, StageFailed},
	StageAnalyzing: {StageMatching, StageFailed},
	StageMatching:  {StageSaving, StageFailed},
	StageSaving:    {StageComplete, StageFailed},
}

// Percentage is the progress shown while the stage is current.
func (s Stage) Percentage() int {
	return stagePercentages[s]
}

func (s Stage) Terminal() bool {
	return s == StageComplete || s == StageFailed
}

// CanTransitionTo reports whether next may follow s.
func (s Stage) CanTransitionTo(next Stage) bool {
	for _, allowed := range stageTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// PipelineConfig bounds each blocking stage. A zero timeout means no limit
// beyond the caller's context.
type PipelineConfig struct {
	UploadTimeout   time.Duration
	AnalysisTimeout time.Duration
	MatchTimeout    time.Duration
	SaveTimeout     time.Duration
	// ExcerptChars caps the document text sent with the analysis request.
	// Zero disables extraction.
	ExcerptChars int
}

func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		UploadTimeout:   30 * time.Second,
		AnalysisTimeout: 3 * time.Minute,
		MatchTimeout:    3 * time.Minute,
		SaveTimeout:     30 * time.Second,
		ExcerptChars:    12000,
	}
}

// Analyzer performs the two provider calls of a submission.
type Analyzer interface {
	Analyze(ctx context.Context, req AnalysisRequest) (*models.AnalysisResult, error)
	MatchJobs(ctx context.Context, req MatchRequest) ([]models.JobMatch, error)
}

// ResumeStore persists a finished analysis with its children.
type ResumeStore interface {
	Save(ctx context.Context, resume *models.Resume) (*models.Resume, error)
}

// Submission is one request to analyze a resume. ID is generated when
// empty and becomes the id of the saved record.
type Submission struct {
	ID       uuid.UUID
	File     UploadFile
	Identity Identity
}

// Pipeline runs submissions through upload, analysis, job matching and
// persistence.
type Pipeline struct {
	files    FileStore
	analyzer Analyzer
	resumes  ResumeStore
	parser   DocumentParser
	cfg      PipelineConfig
}

// NewPipeline wires the collaborators. parser may be nil.
func NewPipeline(files FileStore, analyzer Analyzer, resumes ResumeStore, parser DocumentParser, cfg PipelineConfig) *Pipeline {
	return &Pipeline{
		files:    files,
		analyzer: analyzer,
		resumes:  resumes,
		parser:   parser,
		cfg:      cfg,
	}
}

// pipelineState belongs to the goroutine running one submission.
type pipelineState struct {
	id         uuid.UUID
	stage      Stage
	percentage int
	observer   ProgressObserver
}

func (s *pipelineState) advance(next Stage, message string) {
	if !s.stage.CanTransitionTo(next) {
		panic(fmt.Sprintf("illegal stage transition %s -> %s", s.stage, next))
	}

	s.stage = next
	s.percentage = next.Percentage()
	if message == "" {
		message = stageMessages[next]
	}

	if s.observer != nil {
		s.observer(Progress{
			SubmissionID: s.id,
			Stage:        s.stage,
			Percentage:   s.percentage,
			Message:      message,
		})
	}
}

func (s *pipelineState) fail(kind ErrorKind, cause error) *PipelineError {
	pe := &PipelineError{Kind: kind, Stage: s.stage, Cause: cause}
	log.Printf("❌ Submission %s failed during %s: %v", s.id, s.stage, pe)
	s.advance(StageFailed, pe.Error())
	return pe
}

// Submit runs one submission to completion. On failure the returned error
// is a *PipelineError and no record is returned.
func (p *Pipeline) Submit(ctx context.Context, sub Submission, observer ProgressObserver) (*models.Resume, error) {
	if sub.ID == uuid.Nil {
		sub.ID = uuid.New()
	}
	st := &pipelineState{id: sub.ID, stage: StageIdle, observer: observer}

	if !sub.Identity.Authenticated() {
		return nil, st.fail(KindUnauthenticated, nil)
	}
	if sub.File.Empty() {
		return nil, st.fail(KindInvalidInput, nil)
	}
	if err := ctx.Err(); err != nil {
		return nil, st.fail(KindCancelled, err)
	}

	log.Printf("🔄 Submission %s: processing %s", sub.ID, sub.File.Name)

	st.advance(StageUploading, "")
	fileURL, err := p.upload(ctx, sub)
	if err != nil {
		return nil, st.fail(stageKind(ctx, KindUploadFailed), err)
	}
	excerpt := p.excerpt(sub)

	st.advance(StageAnalyzing, "")
	analysis, err := p.analyze(ctx, AnalysisRequest{DocumentURL: fileURL, Excerpt: excerpt})
	if err != nil {
		return nil, st.fail(stageKind(ctx, KindAnalysisFailed), err)
	}
	log.Printf("✅ Submission %s: analysis complete (score %d, %d skills)", sub.ID, analysis.Score, len(analysis.Skills))

	if len(analysis.JobTitles) == 0 {
		st.advance(StageMatching, "No target job titles, skipping job search")
	} else {
		st.advance(StageMatching, "")
	}
	jobs := p.matchJobs(ctx, sub.ID, analysis)
	if err := ctx.Err(); err != nil {
		return nil, st.fail(KindCancelled, err)
	}

	st.advance(StageSaving, "")
	record := models.NewResume(sub.Identity.UserID, sub.File.Name, fileURL, *analysis, jobs)
	record.ID = sub.ID
	saved, err := p.save(ctx, record)
	if err != nil {
		return nil, st.fail(stageKind(ctx, KindSaveFailed), err)
	}

	st.advance(StageComplete, "")
	log.Printf("✅ Submission %s: saved with %d matched jobs", sub.ID, len(saved.MatchedJobs))
	return saved, nil
}

func (p *Pipeline) upload(ctx context.Context, sub Submission) (string, error) {
	stageCtx, cancel := withStageTimeout(ctx, p.cfg.UploadTimeout)
	defer cancel()

	fileURL, err := p.files.Store(stageCtx, sub.File, sub.Identity.UserID)
	if err != nil {
		return "", err
	}
	if fileURL == "" {
		return "", errors.New("file store returned an empty URL")
	}
	return fileURL, nil
}

// excerpt is best-effort; providers that can read the URL do not need it.
func (p *Pipeline) excerpt(sub Submission) string {
	if p.parser == nil || p.cfg.ExcerptChars <= 0 {
		return ""
	}

	text, err := p.parser.ExtractText(sub.File)
	if err != nil {
		log.Printf("⚠️ Submission %s: could not extract text from %s: %v", sub.ID, sub.File.Name, err)
		return ""
	}
	return Excerpt(text, p.cfg.ExcerptChars)
}

func (p *Pipeline) analyze(ctx context.Context, req AnalysisRequest) (*models.AnalysisResult, error) {
	stageCtx, cancel := withStageTimeout(ctx, p.cfg.AnalysisTimeout)
	defer cancel()

	analysis, err := p.analyzer.Analyze(stageCtx, req)
	if err != nil {
		return nil, err
	}
	if analysis == nil {
		return nil, errors.New("analyzer returned no result")
	}
	return analysis, nil
}

// matchJobs never fails the submission: any error yields an empty list.
func (p *Pipeline) matchJobs(ctx context.Context, id uuid.UUID, analysis *models.AnalysisResult) []models.JobMatch {
	if len(analysis.JobTitles) == 0 {
		return []models.JobMatch{}
	}

	stageCtx, cancel := withStageTimeout(ctx, p.cfg.MatchTimeout)
	defer cancel()

	jobs, err := p.analyzer.MatchJobs(stageCtx, MatchRequest{
		JobTitles:       analysis.JobTitles,
		Skills:          analysis.Skills,
		ExperienceLevel: analysis.ExperienceLevel,
	})
	if err != nil {
		log.Printf("⚠️ Submission %s: job matching failed, continuing without matches: %v", id, err)
		return []models.JobMatch{}
	}
	if jobs == nil {
		jobs = []models.JobMatch{}
	}
	return jobs
}

func (p *Pipeline) save(ctx context.Context, record *models.Resume) (*models.Resume, error) {
	stageCtx, cancel := withStageTimeout(ctx, p.cfg.SaveTimeout)
	defer cancel()

	saved, err := p.resumes.Save(stageCtx, record)
	if err != nil {
		return nil, err
	}
	if saved == nil {
		return record, nil
	}
	return saved, nil
}

// stageKind maps a stage failure to Cancelled when the caller's context is
// done. Per-stage timeouts keep the stage's own kind.
func stageKind(ctx context.Context, kind ErrorKind) ErrorKind {
	if ctx.Err() != nil {
		return KindCancelled
	}
	return kind
}

func withStageTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
