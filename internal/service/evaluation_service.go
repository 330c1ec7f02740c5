package service

import (
	"context"
	"errors"
	"mime/multipart"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/baholash/baholash-api/internal/dto"
	"github.com/baholash/baholash-api/internal/extract"
	"github.com/baholash/baholash-api/internal/ingest"
	"github.com/baholash/baholash-api/internal/models"
	"github.com/baholash/baholash-api/internal/observability"
	"github.com/baholash/baholash-api/internal/prompt"
	"github.com/baholash/baholash-api/pkg/ai"
)

var (
	// ErrSessionNotFound indicates an unknown session identifier.
	ErrSessionNotFound = errors.New("session not found")
	// ErrEvaluationInFlight indicates an evaluation is already loading for the session.
	ErrEvaluationInFlight = errors.New("evaluation already in progress")
	// ErrIncompleteForm indicates required student fields or the document are missing.
	ErrIncompleteForm = errors.New("required evaluation inputs are missing")
	// ErrSubmissionFailed wraps any failure of the model round trip.
	ErrSubmissionFailed = errors.New("evaluation submission failed")
)

// User-facing messages, localized for the form's audience.
const (
	MsgIncompleteForm   = "Iltimos, barcha maydonlarni to'ldiring va faylni tanlang"
	MsgExtractionFailed = "Faylni o'qib bo'lmadi. Boshqa fayl tanlab ko'ring"
	MsgDocumentTooLarge = "Fayl hajmi juda katta"
	MsgSubmissionFailed = "Baholashda xatolik yuz berdi. Qayta urinib ko'ring"
)

// EvaluationService owns the per-session evaluation workflow: collecting form
// state, ingesting the document, and running the prompt -> model -> extraction
// pipeline under the idle/loading/success/error state machine.
type EvaluationService interface {
	CreateSession(ctx context.Context) dto.SessionResponse
	GetSession(ctx context.Context, id string) (dto.SessionResponse, error)
	UpdateStudent(ctx context.Context, id string, payload dto.StudentInfoRequest) (dto.SessionResponse, error)
	UpdateGrading(ctx context.Context, id string, payload dto.GradingConfigRequest) (dto.SessionResponse, error)
	AttachDocument(ctx context.Context, id string, file *multipart.FileHeader) (dto.SessionResponse, error)
	Evaluate(ctx context.Context, id string) (dto.SessionResponse, error)
	Reset(ctx context.Context, id string) (dto.SessionResponse, error)
}

type evaluationService struct {
	store     *sessionStore
	ingestor  *ingest.Ingestor
	completer ai.Completer
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewEvaluationService constructs the evaluation workflow service.
func NewEvaluationService(ingestor *ingest.Ingestor, completer ai.Completer, validate *validator.Validate, logger zerolog.Logger) EvaluationService {
	return &evaluationService{
		store:     newSessionStore(),
		ingestor:  ingestor,
		completer: completer,
		validator: validate,
		logger:    logger.With().Str("component", "evaluation_service").Logger(),
	}
}

func (s *evaluationService) CreateSession(_ context.Context) dto.SessionResponse {
	sess := s.store.create()
	s.logger.Info().Str("session_id", sess.id).Msg("session created")
	return snapshot(sess)
}

func (s *evaluationService) GetSession(_ context.Context, id string) (dto.SessionResponse, error) {
	sess, ok := s.store.get(id)
	if !ok {
		return dto.SessionResponse{}, ErrSessionNotFound
	}
	return snapshot(sess), nil
}

func (s *evaluationService) UpdateStudent(_ context.Context, id string, payload dto.StudentInfoRequest) (dto.SessionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.SessionResponse{}, err
	}

	sess, ok := s.store.get(id)
	if !ok {
		return dto.SessionResponse{}, ErrSessionNotFound
	}

	sess.mu.Lock()
	sess.student = models.StudentInfo{
		FirstName: payload.FirstName,
		LastName:  payload.LastName,
		Group:     payload.Group,
		Subject:   payload.Subject,
	}
	sess.mu.Unlock()

	return snapshot(sess), nil
}

func (s *evaluationService) UpdateGrading(_ context.Context, id string, payload dto.GradingConfigRequest) (dto.SessionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.SessionResponse{}, err
	}

	sess, ok := s.store.get(id)
	if !ok {
		return dto.SessionResponse{}, ErrSessionNotFound
	}

	sess.mu.Lock()
	sess.grading = models.GradingConfig{
		GradingSystem: payload.GradingSystem,
		Criteria:      payload.Criteria,
	}
	sess.mu.Unlock()

	return snapshot(sess), nil
}

// AttachDocument ingests the upload and fully replaces any previous document.
// Selecting a new file also resets the result slot to idle; an ingestion
// failure parks the session in the error state without touching submission.
func (s *evaluationService) AttachDocument(_ context.Context, id string, file *multipart.FileHeader) (dto.SessionResponse, error) {
	sess, ok := s.store.get(id)
	if !ok {
		return dto.SessionResponse{}, ErrSessionNotFound
	}

	doc, err := s.ingestor.Ingest(file)
	if err != nil {
		message := MsgExtractionFailed
		if errors.Is(err, ingest.ErrDocumentTooLarge) {
			message = MsgDocumentTooLarge
		}

		sess.mu.Lock()
		sess.generation++
		sess.document = nil
		sess.result = models.EvaluationResult{Status: models.StatusError, Error: message}
		sess.mu.Unlock()

		return snapshot(sess), err
	}

	// Swapping the document invalidates any evaluation still in flight for
	// the previous one; its settlement must not overwrite the fresh state.
	sess.mu.Lock()
	sess.generation++
	sess.document = doc
	sess.result = models.EvaluationResult{Status: models.StatusIdle}
	sess.mu.Unlock()

	s.logger.Info().Str("session_id", sess.id).Str("file", file.Filename).Msg("document ingested")
	return snapshot(sess), nil
}

// Evaluate runs the full pipeline for the session's current form state. The
// call blocks for the model round trip; the session transitions to loading at
// entry and settles to success or error. A settlement whose generation no
// longer matches (the user reset mid-flight) is discarded silently.
func (s *evaluationService) Evaluate(ctx context.Context, id string) (dto.SessionResponse, error) {
	sess, ok := s.store.get(id)
	if !ok {
		return dto.SessionResponse{}, ErrSessionNotFound
	}

	sess.mu.Lock()
	if sess.result.Status == models.StatusLoading {
		sess.mu.Unlock()
		return dto.SessionResponse{}, ErrEvaluationInFlight
	}

	if !sess.student.Complete() || sess.document == nil {
		sess.result = models.EvaluationResult{Status: models.StatusError, Error: MsgIncompleteForm}
		resp := snapshotLocked(sess)
		sess.mu.Unlock()
		return resp, ErrIncompleteForm
	}

	student := sess.student
	grading := sess.grading
	document := sess.document

	sess.generation++
	generation := sess.generation
	sess.result = models.EvaluationResult{Status: models.StatusLoading}
	sess.mu.Unlock()

	req, err := prompt.Compose(student, grading, document)
	if err != nil {
		return s.settleError(sess, generation, err)
	}

	raw, err := s.completer.Complete(ctx, req)
	if err != nil {
		return s.settleError(sess, generation, err)
	}

	fields := extract.Extract(raw)

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.generation != generation {
		s.logger.Debug().Str("session_id", sess.id).Msg("stale evaluation discarded")
		return snapshotLocked(sess), nil
	}

	sess.result = models.EvaluationResult{
		Status:  models.StatusSuccess,
		Score:   fields.Score,
		Summary: fields.Summary,
		Details: fields.Details,
	}
	observability.Evaluations().WithLabelValues(models.StatusSuccess).Inc()
	s.logger.Info().Str("session_id", sess.id).Str("score", fields.Score).Msg("evaluation completed")

	return snapshotLocked(sess), nil
}

// Reset returns the session to a pristine idle state. Bumping the generation
// invalidates any response still in flight; its settlement is dropped.
func (s *evaluationService) Reset(_ context.Context, id string) (dto.SessionResponse, error) {
	sess, ok := s.store.get(id)
	if !ok {
		return dto.SessionResponse{}, ErrSessionNotFound
	}

	sess.mu.Lock()
	sess.generation++
	sess.student = models.StudentInfo{}
	sess.grading = models.GradingConfig{}
	sess.document = nil
	sess.result = models.EvaluationResult{Status: models.StatusIdle}
	resp := snapshotLocked(sess)
	sess.mu.Unlock()

	return resp, nil
}

func (s *evaluationService) settleError(sess *session, generation uint64, cause error) (dto.SessionResponse, error) {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.generation != generation {
		s.logger.Debug().Str("session_id", sess.id).Msg("stale evaluation failure discarded")
		return snapshotLocked(sess), nil
	}

	// Network, auth and service faults collapse into one generic message;
	// the user retries manually from the error state.
	sess.result = models.EvaluationResult{Status: models.StatusError, Error: MsgSubmissionFailed}
	observability.Evaluations().WithLabelValues(models.StatusError).Inc()
	s.logger.Error().Err(cause).Str("session_id", sess.id).Msg("evaluation failed")

	return snapshotLocked(sess), ErrSubmissionFailed
}

func snapshot(sess *session) dto.SessionResponse {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return snapshotLocked(sess)
}

func snapshotLocked(sess *session) dto.SessionResponse {
	return dto.SessionResponse{
		ID: sess.id,
		Student: dto.StudentInfoRequest{
			FirstName: sess.student.FirstName,
			LastName:  sess.student.LastName,
			Group:     sess.student.Group,
			Subject:   sess.student.Subject,
		},
		Grading: dto.GradingConfigRequest{
			GradingSystem: sess.grading.GradingSystem,
			Criteria:      sess.grading.Criteria,
		},
		HasDocument: sess.document != nil,
		Result:      dto.NewEvaluationResultResponse(sess.result),
	}
}
