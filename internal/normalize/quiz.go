package normalize

import "strings"

const (
	TypeMCQ       = "mcq"
	TypeTrueFalse = "true_false"

	FallbackExplanation = "Fallback question: model returned an unexpected format."
)

var (
	defaultOptions  = []string{"True", "False", "Option C", "Option D"}
	fallbackOptions = []string{"A", "B", "C", "D"}
	quizWrappers    = []string{"quiz", "questions", "data", "items"}
)

// Question is one renderable quiz item.
type Question struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
	Explanation   string   `json:"explanation"`
	Type          string   `json:"type"`
}

// Quiz extracts quiz questions from raw, which may be a decoded array, an
// object wrapping one, a JSON string or prose containing a JSON array.
func Quiz(raw any) []Question {
	switch v := raw.(type) {
	case []any:
		return questions(v)
	case map[string]any:
		if arr, ok := firstArray(v, quizWrappers...); ok {
			return questions(arr)
		}
		return []Question{}
	case string:
		return QuizText(v)
	default:
		return []Question{}
	}
}

// QuizText is Quiz for raw model output.
func QuizText(s string) []Question {
	if parsed, ok := decodeJSON(s); ok {
		switch v := parsed.(type) {
		case []any:
			return questions(v)
		case map[string]any:
			if arr, ok := firstArray(v, quizWrappers...); ok {
				return questions(arr)
			}
		}
	} else if arr, ok := bracketed(s); ok {
		return questions(arr)
	}
	return fallbackQuiz(s)
}

// bracketed parses the span from the first '[' to the last ']'.
func bracketed(s string) ([]any, bool) {
	start := strings.Index(s, "[")
	end := strings.LastIndex(s, "]")
	if start < 0 || end <= start {
		return nil, false
	}
	parsed, ok := decodeJSON(s[start : end+1])
	if !ok {
		return nil, false
	}
	arr, ok := parsed.([]any)
	return arr, ok
}

func fallbackQuiz(s string) []Question {
	lines := nonEmptyLines(s)
	if len(lines) == 0 {
		return []Question{}
	}
	if len(lines) > 3 {
		lines = lines[:3]
	}
	return []Question{{
		Question:      strings.Join(lines, " "),
		Options:       append([]string(nil), fallbackOptions...),
		CorrectAnswer: 0,
		Explanation:   FallbackExplanation,
		Type:          TypeMCQ,
	}}
}

func questions(items []any) []Question {
	out := make([]Question, 0, len(items))
	for _, item := range items {
		if q, ok := question(item); ok {
			out = append(out, q)
		}
	}
	return out
}

func question(item any) (Question, bool) {
	obj, ok := item.(map[string]any)
	if !ok {
		return Question{}, false
	}
	text := ""
	for _, k := range []string{"question", "prompt", "q"} {
		if text = strings.TrimSpace(stringify(obj[k])); text != "" {
			break
		}
	}
	if text == "" {
		return Question{}, false
	}

	options := stringList(obj["options"])
	if len(options) == 0 {
		options = stringList(obj["choices"])
	}
	if len(options) == 0 {
		options = stringList(obj["answers"])
	}
	if len(options) == 0 {
		options = append([]string(nil), defaultOptions...)
	}

	correct, ok := number(obj["correctAnswer"])
	if !ok {
		correct, _ = number(obj["answerIndex"])
	}
	if correct > len(options)-1 {
		correct = len(options) - 1
	}
	if correct < 0 {
		correct = 0
	}

	explanation := ""
	for _, k := range []string{"explanation", "explain", "explanationText"} {
		if v, present := obj[k]; present && v != nil {
			explanation = stringify(v)
			break
		}
	}

	qType, _ := obj["type"].(string)
	if qType != TypeMCQ && qType != TypeTrueFalse {
		qType = TypeMCQ
		if len(options) == 2 {
			qType = TypeTrueFalse
		}
	}

	return Question{
		Question:      text,
		Options:       options,
		CorrectAnswer: correct,
		Explanation:   explanation,
		Type:          qType,
	}, true
}

func stringList(v any) []string {
	arr, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(arr))
	for _, item := range arr {
		out = append(out, stringify(item))
	}
	return out
}
