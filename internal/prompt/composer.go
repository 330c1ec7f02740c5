// Package prompt assembles the model instruction for an evaluation. It owns
// the output-format labels the response extractor matches against, so both
// sides of the contract change together.
package prompt

import (
	"fmt"
	"strings"

	"github.com/baholash/baholash-api/internal/models"
	"github.com/baholash/baholash-api/pkg/ai"
)

// Labels the model is instructed to emit verbatim. internal/extract builds its
// patterns from these same constants.
const (
	ScoreLabel   = "Umumiy ball"
	SummaryLabel = "Xulosa"
)

// Compose merges the student metadata, grading configuration and ingested
// document into a single completion request. Pure; callers must have checked
// that all student fields and the document are present.
func Compose(student models.StudentInfo, grading models.GradingConfig, doc models.Document) (ai.CompletionRequest, error) {
	b := strings.Builder{}
	b.WriteString("Siz tajribali o'qituvchisiz. Quyidagi talaba ishini baholashingiz kerak.\n\n")
	b.WriteString("Fan: ")
	b.WriteString(student.Subject)
	b.WriteString("\nTalaba: ")
	b.WriteString(student.FullName())
	b.WriteString("\nGuruh: ")
	b.WriteString(student.Group)
	b.WriteString("\n\nBaholash tizimi: ")
	b.WriteString(grading.GradingSystem)
	b.WriteString("\nBaholash mezonlari:\n")
	b.WriteString(grading.Criteria)
	b.WriteString("\n\nJavobingizni aynan quyidagi formatda yozing:\n")
	b.WriteString("## Baholash natijasi\n")
	b.WriteString("**" + ScoreLabel + ":** (faqat butun son)\n")
	b.WriteString("**" + SummaryLabel + ":** (bir jumlali qisqacha xulosa)\n")
	b.WriteString("So'ngra batafsil tahlil yozing.")

	req := ai.CompletionRequest{Instruction: b.String()}

	switch d := doc.(type) {
	case models.TextPayload:
		req.Document = ai.DocumentPart{Text: "Talaba ishi:\n\n" + d.Content}
	case models.BinaryPayload:
		req.Document = ai.DocumentPart{Data: d.Data, MimeType: d.MimeType}
	default:
		return ai.CompletionRequest{}, fmt.Errorf("unsupported document payload %T", doc)
	}

	return req, nil
}
