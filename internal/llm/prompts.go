package llm

import (
	_ "embed"
	"strings"
)

var (
	//go:embed prompts/chat.txt
	chatTemplate string
	//go:embed prompts/summary.txt
	summaryTemplate string
	//go:embed prompts/quiz.txt
	quizTemplate string
)

const (
	chatSystem    = "Answer only using the provided document."
	summarySystem = "Return only bullet points. No intro."
	quizSystem    = "Return ONLY valid JSON. No comments."

	quizTemperature = 0.4
)

// ChatRequest builds the grounded question prompt. text should already be truncated.
func ChatRequest(text, question string) Request {
	replacer := strings.NewReplacer(
		"{{DOCUMENT}}", text,
		"{{QUESTION}}", question,
	)
	return Request{
		Operation: OperationChat,
		System:    chatSystem,
		Prompt:    replacer.Replace(chatTemplate),
	}
}

// SummaryRequest builds the bullet summary prompt.
func SummaryRequest(text string) Request {
	return Request{
		Operation: OperationSummary,
		System:    summarySystem,
		Prompt:    strings.Replace(summaryTemplate, "{{DOCUMENT}}", text, 1),
	}
}

// QuizRequest builds the five-question quiz prompt.
func QuizRequest(text string) Request {
	return Request{
		Operation:   OperationQuiz,
		System:      quizSystem,
		Prompt:      strings.Replace(quizTemplate, "{{DOCUMENT}}", text, 1),
		Temperature: Temperature(quizTemperature),
	}
}
