// Package pipeline orchestrates the voice memo flow: audio assembly,
// transcription, semantic extraction and task preview generation.
package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"

	"voice-task-service/internal/directory"
	"voice-task-service/internal/events"
	"voice-task-service/internal/models"
	"voice-task-service/internal/observability/logging"
	"voice-task-service/internal/observability/metrics"
	"voice-task-service/internal/service/extraction"
	"voice-task-service/internal/service/intake"
	"voice-task-service/internal/service/llm"
	"voice-task-service/internal/service/preview"
	"voice-task-service/internal/service/stt"
	"voice-task-service/internal/service/transcription"
)

// Review reasons attached to previews that need a closer human look.
const (
	ReviewLowTranscription = "low_transcription_confidence"
	ReviewLowExtraction    = "low_extraction_confidence"
)

const (
	defaultEstimatedMinutes = 30
	maxTranscribeAttempts   = 3
	transcribeBackoff       = 200 * time.Millisecond
	suggestedAssigneeCount  = 3

	// Previews whose weakest facet falls below this are flagged for review.
	extractionReviewThreshold = 0.4
)

// ErrUnknownPreview is returned for lifecycle operations on preview IDs
// that were never created.
var ErrUnknownPreview = eris.New("unknown preview")

// Config tunes the orchestrator.
type Config struct {
	Limits               intake.Limits
	Language             string
	Provider             string
	ReliabilityThreshold float64
	ReconcilePolicy      extraction.ReconcilePolicy
	PreviewTTL           time.Duration

	// Clock overrides time.Now, for tests.
	Clock func() time.Time
}

// Orchestrator owns the per-stage stores and runs memos through the
// pipeline. All store access happens under one mutex; the stores
// themselves are immutable values swapped on transition.
type Orchestrator struct {
	mu             sync.Mutex
	uploads        intake.Store
	transcriptions transcription.Store
	extractions    extraction.Store
	previews       preview.Store

	recognizer stt.Recognizer
	analyzer   llm.Analyzer
	publisher  *events.Publisher
	dir        *directory.Directory
	metrics    *metrics.Metrics

	cfg Config
	now func() time.Time
}

// New creates an orchestrator. A nil analyzer disables LLM refinement.
func New(cfg Config, recognizer stt.Recognizer, analyzer llm.Analyzer, publisher *events.Publisher, dir *directory.Directory) *Orchestrator {
	if analyzer == nil {
		analyzer = llm.Disabled{}
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Orchestrator{
		uploads:        intake.NewStore(),
		transcriptions: transcription.NewStore(),
		extractions:    extraction.NewStore(),
		previews:       preview.NewStore(),
		recognizer:     recognizer,
		analyzer:       analyzer,
		publisher:      publisher,
		dir:            dir,
		metrics:        metrics.DefaultMetrics,
		cfg:            cfg,
		now:            clock,
	}
}

// InitUpload validates the media type and declared size and duration, then
// opens a new upload session. Zero size or duration means undeclared; the
// size limit is still enforced per chunk as data arrives.
func (o *Orchestrator) InitUpload(mediaType string, sizeBytes int64, durationSeconds float64) (string, error) {
	if err := intake.Validate(o.cfg.Limits, mediaType, sizeBytes, durationSeconds); err != nil {
		return "", err
	}

	uploadID := uuid.NewString()

	o.mu.Lock()
	o.uploads = intake.InitializeUpload(o.uploads, uploadID, mediaType)
	o.mu.Unlock()

	o.metrics.RecordUploadStart()
	logger := logging.WithComponent("pipeline")
	logger.Info().
		Str("uploadId", uploadID).
		Str("mediaType", mediaType).
		Msg("Upload session initialized")
	return uploadID, nil
}

// AddChunk appends an audio chunk to an open upload session.
func (o *Orchestrator) AddChunk(uploadID string, sequenceIndex int, data []byte) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	session := o.uploads.Get(uploadID)
	if session == nil {
		return eris.Wrapf(intake.ErrUnknownUpload, "%s", uploadID)
	}
	if session.Status.IsTerminal() {
		return intake.ErrUploadClosed
	}
	if max := o.cfg.Limits.MaxSizeBytes; max > 0 && session.TotalBytes()+int64(len(data)) > max {
		return eris.Wrapf(intake.ErrAudioTooLarge, "upload %s: %d + %d > %d",
			uploadID, session.TotalBytes(), len(data), max)
	}

	o.uploads = intake.AddChunk(o.uploads, uploadID, data, sequenceIndex)
	o.metrics.RecordChunk(len(data))
	return nil
}

// Upload returns the current state of an upload session, or nil.
func (o *Orchestrator) Upload(uploadID string) *models.UploadSession {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.uploads.Get(uploadID)
}

// Outcome is the result of a pipeline run: the generated preview plus a
// review flag when transcription or extraction confidence fell below
// threshold. Low confidence degrades, it never fails the run.
type Outcome struct {
	Preview      models.TaskPreview `json:"preview"`
	Status       string             `json:"status"` // ok or needs_review
	ReviewReason string             `json:"reviewReason,omitempty"`
}

// ProcessVoiceMemo runs the full pipeline for an assembled upload and
// returns the resulting task preview. Cancellation before transcription
// completes leaves the transcription job pending so the memo can be
// reprocessed.
func (o *Orchestrator) ProcessVoiceMemo(ctx context.Context, uploadID, householdID string) (*Outcome, error) {
	start := o.now()
	logger := logging.WithUpload(uploadID, householdID)

	o.mu.Lock()
	uploads, audio, err := intake.AssembleChunks(o.uploads, uploadID)
	o.uploads = uploads
	o.mu.Unlock()
	if err != nil {
		return nil, eris.Wrap(err, "assembling audio")
	}

	language := transcription.NormalizeLanguage(o.cfg.Language)
	transcriptionID := uuid.NewString()

	o.mu.Lock()
	o.transcriptions = transcription.Start(o.transcriptions, transcriptionID, uploadID, language)
	o.mu.Unlock()

	result, err := o.transcribeWithRetry(ctx, audio, language)
	if err != nil {
		if ctx.Err() != nil {
			// Leave the job pending for a later retry.
			logger.Warn().Str("transcriptionId", transcriptionID).Msg("Transcription cancelled")
			return nil, ctx.Err()
		}
		o.mu.Lock()
		o.transcriptions = transcription.Fail(o.transcriptions, transcriptionID, err.Error())
		o.uploads = intake.MarkFailed(o.uploads, uploadID)
		o.mu.Unlock()
		o.metrics.RecordTranscription(o.cfg.Provider, err, o.now().Sub(start).Seconds())
		o.metrics.RecordUploadEnd(false)
		return nil, eris.Wrap(err, "transcribing audio")
	}

	result.Text = transcription.FormatText(result.Text, result.Language)

	o.mu.Lock()
	o.transcriptions = transcription.Complete(o.transcriptions, transcriptionID, result)
	o.mu.Unlock()
	o.metrics.RecordTranscription(o.cfg.Provider, nil, o.now().Sub(start).Seconds())
	o.metrics.RecordUploadEnd(true)

	reviewReason := ""
	if !transcription.IsReliable(result, o.cfg.ReliabilityThreshold) {
		reviewReason = ReviewLowTranscription
		logger.Warn().
			Str("transcriptionId", transcriptionID).
			Float64("confidence", result.Confidence).
			Msg("Transcription below reliability threshold, flagging for review")
	}

	extractionID := uuid.NewString()
	children := o.dir.Children(householdID)
	logger = logging.WithPipeline(uploadID, transcriptionID, extractionID)

	o.mu.Lock()
	o.extractions = extraction.Start(o.extractions, extractionID, transcriptionID)
	o.mu.Unlock()

	heuristic := extraction.Extract(result.Text, children, o.now())

	var refined *models.ExtractionResult
	if llmResult, llmErr := o.analyzer.Analyze(ctx, result.Text, children); llmErr != nil {
		o.metrics.RecordLLMError()
		logger.Warn().Err(llmErr).Msg("LLM analysis failed, keeping heuristic extraction")
	} else {
		refined = llmResult
	}

	final := extraction.Reconcile(&heuristic, refined, o.cfg.ReconcilePolicy)

	o.mu.Lock()
	o.extractions = extraction.Complete(o.extractions, extractionID, final)
	o.mu.Unlock()

	minConfidence := final.MinConfidence()
	o.metrics.RecordExtraction(minConfidence)
	if reviewReason == "" && minConfidence < extractionReviewThreshold {
		reviewReason = ReviewLowExtraction
	}

	p := o.buildPreview(extractionID, householdID, final)

	o.mu.Lock()
	o.previews = preview.Add(o.previews, p)
	o.mu.Unlock()
	o.metrics.RecordPreviewCreated()

	if reviewReason != "" {
		o.metrics.RecordNeedsReview(reviewReason)
	}
	o.publishPreviewEvent(ctx, p, reviewReason)
	o.metrics.RecordPipelineRun(o.now().Sub(start).Seconds())

	logger.Info().
		Str("previewId", p.PreviewID).
		Str("category", string(p.Category)).
		Float64("weight", p.Weight.Total).
		Str("reviewReason", reviewReason).
		Msg("Voice memo processed")

	outcome := &Outcome{Preview: p, Status: "ok", ReviewReason: reviewReason}
	if reviewReason != "" {
		outcome.Status = "needs_review"
	}
	return outcome, nil
}

func (o *Orchestrator) transcribeWithRetry(ctx context.Context, audio []byte, language string) (*models.TranscriptionResult, error) {
	var lastErr error
	for attempt := 0; attempt < maxTranscribeAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(transcribeBackoff << (attempt - 1)):
			}
		}

		result, err := o.recognizer.Transcribe(ctx, audio, language)
		if err == nil {
			return result, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		o.metrics.RecordSTTError(o.cfg.Provider, "transcribe")
	}
	return nil, lastErr
}

func (o *Orchestrator) buildPreview(extractionID, householdID string, result *models.ExtractionResult) models.TaskPreview {
	now := o.now()
	category := result.Category.Primary
	priority := result.Urgency.Level

	weight := preview.CalculateChargeWeight(category, priority, defaultEstimatedMinutes)
	suggested := preview.SuggestAssignee(o.dir.Members(householdID), category, suggestedAssigneeCount)

	return models.TaskPreview{
		PreviewID:        uuid.NewString(),
		HouseholdID:      householdID,
		ExtractionID:     extractionID,
		Title:            preview.GenerateTitle(result.Action, category),
		Description:      result.Action.Raw,
		Category:         category,
		Priority:         priority,
		DueDate:          result.Date.Date,
		EstimatedMinutes: defaultEstimatedMinutes,
		Weight:           weight,
		Suggested:        suggested,
		ChildID:          result.Child.ChildID,
		Status:           models.PreviewPending,
		Confidence:       result.MinConfidence(),
		CreatedAt:        now,
		ExpiresAt:        now.Add(o.cfg.PreviewTTL),
	}
}

// Previews returns pending, unexpired previews for a household.
func (o *Orchestrator) Previews(householdID string) []models.TaskPreview {
	o.mu.Lock()
	defer o.mu.Unlock()
	return preview.PendingForHousehold(o.previews, householdID, o.now())
}

// Preview returns one preview by ID, or nil.
func (o *Orchestrator) Preview(previewID string) *models.TaskPreview {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.previews.Get(previewID)
}

// Tasks returns confirmed tasks for a household.
func (o *Orchestrator) Tasks(householdID string) []models.GeneratedTask {
	o.mu.Lock()
	defer o.mu.Unlock()
	return preview.ConfirmedTasks(o.previews, householdID)
}

// ConfirmPreview confirms a pending preview into a generated task.
// Confirming an already confirmed preview returns the existing task.
func (o *Orchestrator) ConfirmPreview(ctx context.Context, previewID, assigneeID string) (*models.GeneratedTask, error) {
	o.mu.Lock()
	existing := o.previews.Get(previewID)
	if existing == nil {
		o.mu.Unlock()
		return nil, ErrUnknownPreview
	}
	alreadyConfirmed := existing.Status == models.PreviewConfirmed

	o.previews = preview.Confirm(o.previews, previewID, assigneeID, uuid.NewString(), o.now())
	task := o.previews.TaskFor(previewID)
	o.mu.Unlock()

	if task == nil {
		return nil, eris.Errorf("preview %s is not confirmable in state %s", previewID, existing.Status)
	}
	if alreadyConfirmed {
		return task, nil
	}

	o.metrics.RecordPreviewConfirmed()
	o.publishTaskEvent(ctx, *task)
	logger := logging.WithPreview(previewID, task.HouseholdID)
	logger.Info().
		Str("taskId", task.TaskID).
		Str("assigneeId", task.AssigneeID).
		Msg("Preview confirmed")
	return task, nil
}

// CancelPreview cancels a pending preview. Cancelling a preview that
// already reached a terminal state is a no-op.
func (o *Orchestrator) CancelPreview(previewID string) error {
	o.mu.Lock()
	existing := o.previews.Get(previewID)
	if existing == nil {
		o.mu.Unlock()
		return ErrUnknownPreview
	}
	wasPending := existing.Status == models.PreviewPending && !existing.ExpiredAt(o.now())
	o.previews = preview.Cancel(o.previews, previewID, o.now())
	o.mu.Unlock()

	if wasPending {
		o.metrics.RecordPreviewCancelled()
	}
	return nil
}

// UpdatePreviewFields applies user edits to a pending preview.
func (o *Orchestrator) UpdatePreviewFields(previewID string, u preview.Update) (*models.TaskPreview, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.previews.Get(previewID) == nil {
		return nil, ErrUnknownPreview
	}
	o.previews = preview.UpdatePreview(o.previews, previewID, u, o.now())
	return o.previews.Get(previewID), nil
}

// ExpirePreviews transitions overdue pending previews to expired and
// returns how many were expired. Intended to run on a timer.
func (o *Orchestrator) ExpirePreviews() int {
	now := o.now()

	o.mu.Lock()
	before := o.previews
	o.previews = preview.ExpireDue(o.previews, now)
	after := o.previews
	o.mu.Unlock()

	expired := 0
	for _, p := range before.All() {
		if p.Status == models.PreviewPending {
			if np := after.Get(p.PreviewID); np != nil && np.Status == models.PreviewExpired {
				expired++
				o.metrics.RecordPreviewExpired()
			}
		}
	}
	return expired
}

func (o *Orchestrator) publishPreviewEvent(ctx context.Context, p models.TaskPreview, reviewReason string) {
	event := events.PreviewCreated{
		EventID:      uuid.NewString(),
		OccurredAt:   o.now().UTC(),
		Preview:      p,
		NeedsReview:  reviewReason != "",
		ReviewReason: reviewReason,
	}
	if err := o.publisher.PublishPreview(ctx, p.HouseholdID, event); err != nil {
		logger := logging.WithPreview(p.PreviewID, p.HouseholdID)
		logger.Error().Err(err).Msg("Failed to publish preview event")
	}
}

func (o *Orchestrator) publishTaskEvent(ctx context.Context, task models.GeneratedTask) {
	event := events.TaskGenerated{
		EventID:    uuid.NewString(),
		OccurredAt: o.now().UTC(),
		Task:       task,
	}
	if err := o.publisher.PublishTask(ctx, task.HouseholdID, event); err != nil {
		logger := logging.WithPreview(task.PreviewID, task.HouseholdID)
		logger.Error().Err(err).Msg("Failed to publish task event")
	}
}
