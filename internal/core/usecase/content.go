package usecase

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/banguela/school-admin/internal/core/domain"
	"github.com/banguela/school-admin/internal/core/ports"
)

const contentSystemPrompt = "Você é um professor especialista em educação."

// Instruction per target language; the model answers in the selected one.
var languageInstructions = map[string]string{
	"pt": "Crie um conteúdo didático em português com base no seguinte texto:",
	"zh": "请用中文撰写一个教学内容，内容如下：",
	"en": "Create an educational content in English based on the following text:",
	"es": "Cree un contenido educativo en español basado en el siguiente texto:",
}

// Models emit chain-of-thought between these markers; it is stripped before use.
var reasoningBlock = regexp.MustCompile(`(?s)<think>.*?</think>`)

// ContentService turns extracted document text into generated teaching
// material through the AI collaborator.
type ContentService struct {
	generator ports.ContentGenerator
}

func NewContentService(generator ports.ContentGenerator) *ContentService {
	return &ContentService{generator: generator}
}

func (s *ContentService) Produce(ctx context.Context, sourceText, language, model string) (string, error) {
	sourceText = strings.TrimSpace(sourceText)
	if sourceText == "" {
		return "", domain.WrapError(domain.ErrValidation, "produce content", fmt.Errorf("source text must not be empty"))
	}

	instruction, ok := languageInstructions[strings.ToLower(strings.TrimSpace(language))]
	if !ok {
		return "", domain.WrapError(domain.ErrValidation, "produce content", fmt.Errorf("unsupported language %q", language))
	}

	prompt := instruction + "\n\n" + sourceText
	raw, err := s.generator.Generate(ctx, contentSystemPrompt, prompt, model)
	if err != nil {
		return "", err
	}

	cleaned := strings.TrimSpace(reasoningBlock.ReplaceAllString(raw, ""))
	if cleaned == "" {
		return "", domain.WrapError(domain.ErrGeneration, "produce content", fmt.Errorf("model returned no content"))
	}
	return cleaned, nil
}
