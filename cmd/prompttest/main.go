package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"study-backend/internal/chat"
	"study-backend/internal/extract"
	"study-backend/internal/llm"
	openai "study-backend/internal/llm/openai"
	"study-backend/internal/normalize"
	"study-backend/internal/shared/config"
	"study-backend/internal/shared/util"
	"study-backend/internal/study"
)

// prompttest runs one prompt against a local file without the API server.
func main() {
	cfg := config.Load()

	filePath := flag.String("file", "", "Path to a pdf, docx or pptx file")
	operation := flag.String("op", llm.OperationSummary, "Prompt to run: chat, summary or quiz")
	question := flag.String("question", "", "Question for -op chat")
	outPath := flag.String("out", "", "Path to write the raw model output (optional)")
	model := flag.String("model", cfg.LLMModel, "LLM model")
	baseURL := flag.String("base-url", cfg.LLMBaseURL, "OpenAI-compatible base URL")
	flag.Parse()

	if strings.TrimSpace(*filePath) == "" {
		exitErr("file path is required")
	}

	ctx := context.Background()
	text, err := extract.ExtractFile(ctx, *filePath)
	if err != nil {
		exitErr(fmt.Sprintf("extract text: %v", err))
	}

	req, err := buildRequest(*operation, text, *question)
	if err != nil {
		exitErr(err.Error())
	}

	client, err := openai.NewClient(openai.Options{
		BaseURL: *baseURL,
		APIKey:  cfg.LLMAPIKey,
		Model:   *model,
		Timeout: cfg.LLMTimeout,
	})
	if err != nil {
		exitErr(err.Error())
	}

	raw, err := client.Complete(ctx, req)
	if err != nil {
		exitErr(fmt.Sprintf("llm %s: %v", req.Operation, err))
	}

	if *outPath != "" {
		if err := os.WriteFile(*outPath, []byte(raw), 0o644); err != nil {
			exitErr(fmt.Sprintf("write output: %v", err))
		}
	}

	out := []byte(raw)
	if req.Operation == llm.OperationQuiz {
		out, err = prettyJSON(normalize.QuizText(raw))
		if err != nil {
			exitErr(fmt.Sprintf("format quiz: %v", err))
		}
	}
	if _, err := os.Stdout.Write(out); err != nil {
		exitErr(fmt.Sprintf("write stdout: %v", err))
	}
	if len(out) == 0 || out[len(out)-1] != '\n' {
		_, _ = os.Stdout.Write([]byte("\n"))
	}
}

func buildRequest(operation, text, question string) (llm.Request, error) {
	switch strings.ToLower(strings.TrimSpace(operation)) {
	case llm.OperationChat:
		if strings.TrimSpace(question) == "" {
			return llm.Request{}, fmt.Errorf("-question is required for chat")
		}
		return llm.ChatRequest(util.TruncateRunes(text, chat.ContextRunes), question), nil
	case llm.OperationSummary:
		return llm.SummaryRequest(util.TruncateRunes(text, study.ContextRunes)), nil
	case llm.OperationQuiz:
		return llm.QuizRequest(util.TruncateRunes(text, study.ContextRunes)), nil
	default:
		return llm.Request{}, fmt.Errorf("unsupported operation: %s", operation)
	}
}

func prettyJSON(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func exitErr(msg string) {
	_, _ = fmt.Fprintln(os.Stderr, msg)
	os.Exit(1)
}
