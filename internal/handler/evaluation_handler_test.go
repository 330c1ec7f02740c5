package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/baholash/baholash-api/internal/config"
	"github.com/baholash/baholash-api/internal/dto"
	"github.com/baholash/baholash-api/internal/handler"
	"github.com/baholash/baholash-api/internal/ingest"
	"github.com/baholash/baholash-api/internal/router"
	"github.com/baholash/baholash-api/internal/service"
	"github.com/baholash/baholash-api/pkg/ai"
)

type fixedCompleter struct {
	response string
	err      error
}

func (f *fixedCompleter) Complete(_ context.Context, _ ai.CompletionRequest) (string, error) {
	return f.response, f.err
}

func setupApp(t *testing.T, completer ai.Completer) *fiber.App {
	t.Helper()

	validate := validator.New(validator.WithRequiredStructEnabled())
	logger := zerolog.New(io.Discard)
	ingestor := ingest.NewIngestor(5, logger)
	evaluationService := service.NewEvaluationService(ingestor, completer, validate, logger)

	app := fiber.New()
	router.Register(app, config.Config{AppName: "Test"}, router.Dependencies{
		EvaluationHandler: handler.NewEvaluationHandler(evaluationService, logger),
	})

	return app
}

type sessionEnvelope struct {
	Success bool                `json:"success"`
	Data    dto.SessionResponse `json:"data"`
	Message string              `json:"message"`
}

func decodeSession(t *testing.T, body io.Reader) sessionEnvelope {
	t.Helper()
	var envelope sessionEnvelope
	require.NoError(t, json.NewDecoder(body).Decode(&envelope))
	return envelope
}

func createSession(t *testing.T, app *fiber.App) string {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest("POST", "/api/v1/sessions", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	envelope := decodeSession(t, resp.Body)
	require.True(t, envelope.Success)
	require.NotEmpty(t, envelope.Data.ID)
	return envelope.Data.ID
}

func putJSON(t *testing.T, app *fiber.App, url string, payload interface{}) *sessionEnvelope {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest("PUT", url, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	envelope := decodeSession(t, resp.Body)
	return &envelope
}

func uploadDocument(t *testing.T, app *fiber.App, id, filename, contentType string, content []byte) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreatePart(textproto.MIMEHeader{
		"Content-Disposition": {`form-data; name="file"; filename="` + filename + `"`},
		"Content-Type":        {contentType},
	})
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/api/v1/sessions/"+id+"/document", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestEvaluationFlow(t *testing.T) {
	completer := &fixedCompleter{
		response: "## Baholash natijasi\n**Umumiy ball:** 4\n**Xulosa:** Yaxshi ish\n\nBatafsil tahlil.",
	}
	app := setupApp(t, completer)

	id := createSession(t, app)

	putJSON(t, app, "/api/v1/sessions/"+id+"/student", dto.StudentInfoRequest{
		FirstName: "Aziz",
		LastName:  "Karimov",
		Group:     "201-guruh",
		Subject:   "Informatika",
	})
	putJSON(t, app, "/api/v1/sessions/"+id+"/grading", dto.GradingConfigRequest{
		GradingSystem: "5 ballik tizim",
		Criteria:      "Mavzuga mosligi",
	})
	uploadDocument(t, app, id, "essay.txt", "text/plain", []byte("talaba matni"))

	resp, err := app.Test(httptest.NewRequest("POST", "/api/v1/sessions/"+id+"/evaluate", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	envelope := decodeSession(t, resp.Body)
	require.True(t, envelope.Success)
	require.Equal(t, "success", envelope.Data.Result.Status)
	require.Equal(t, "4", envelope.Data.Result.Score)
	require.Equal(t, "Yaxshi ish", envelope.Data.Result.Summary)
	require.Contains(t, envelope.Data.Result.Details, "Batafsil tahlil")
}

func TestEvaluateIncompleteFormRejected(t *testing.T) {
	app := setupApp(t, &fixedCompleter{response: "ignored"})

	id := createSession(t, app)
	uploadDocument(t, app, id, "essay.txt", "text/plain", []byte("matn"))

	resp, err := app.Test(httptest.NewRequest("POST", "/api/v1/sessions/"+id+"/evaluate", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	envelope := decodeSession(t, resp.Body)
	require.False(t, envelope.Success)
	require.Equal(t, service.MsgIncompleteForm, envelope.Message)
}

func TestEvaluateModelFailureMapsToBadGateway(t *testing.T) {
	app := setupApp(t, &fixedCompleter{err: context.DeadlineExceeded})

	id := createSession(t, app)
	putJSON(t, app, "/api/v1/sessions/"+id+"/student", dto.StudentInfoRequest{
		FirstName: "Aziz", LastName: "Karimov", Group: "201", Subject: "Fizika",
	})
	putJSON(t, app, "/api/v1/sessions/"+id+"/grading", dto.GradingConfigRequest{
		GradingSystem: "5 ballik", Criteria: "mezon",
	})
	uploadDocument(t, app, id, "essay.txt", "text/plain", []byte("matn"))

	resp, err := app.Test(httptest.NewRequest("POST", "/api/v1/sessions/"+id+"/evaluate", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadGateway, resp.StatusCode)

	envelope := decodeSession(t, resp.Body)
	require.Equal(t, service.MsgSubmissionFailed, envelope.Message)
}

func TestUnknownSessionReturnsNotFound(t *testing.T) {
	app := setupApp(t, &fixedCompleter{})

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/sessions/missing", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestUpdateStudentValidationError(t *testing.T) {
	app := setupApp(t, &fixedCompleter{})

	id := createSession(t, app)
	body := strings.NewReader(`{"first_name":"Aziz"}`)
	req := httptest.NewRequest("PUT", "/api/v1/sessions/"+id+"/student", body)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestResetReturnsIdleSession(t *testing.T) {
	app := setupApp(t, &fixedCompleter{response: "**Umumiy ball:** 5"})

	id := createSession(t, app)
	putJSON(t, app, "/api/v1/sessions/"+id+"/student", dto.StudentInfoRequest{
		FirstName: "Aziz", LastName: "Karimov", Group: "201", Subject: "Fizika",
	})

	resp, err := app.Test(httptest.NewRequest("POST", "/api/v1/sessions/"+id+"/reset", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	envelope := decodeSession(t, resp.Body)
	require.Equal(t, "idle", envelope.Data.Result.Status)
	require.Empty(t, envelope.Data.Student.FirstName)
	require.False(t, envelope.Data.HasDocument)
}
