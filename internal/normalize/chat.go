package normalize

import "strings"

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one chat bubble.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatHistory flattens a chat-history payload into messages. It accepts the
// {messages: [...]} envelope, a bare array, or either encoded as a string.
func ChatHistory(raw any) []Message {
	switch v := raw.(type) {
	case []any:
		return messages(v)
	case map[string]any:
		if arr, ok := firstArray(v, "messages", "data"); ok {
			return messages(arr)
		}
	case string:
		if parsed, ok := decodeJSON(v); ok {
			if _, isString := parsed.(string); !isString {
				return ChatHistory(parsed)
			}
		}
	}
	return []Message{}
}

func messages(items []any) []Message {
	out := make([]Message, 0, len(items))
	for _, item := range items {
		out = append(out, message(item)...)
	}
	return out
}

func message(item any) []Message {
	switch v := item.(type) {
	case string:
		return []Message{{Role: RoleAssistant, Content: v}}
	case map[string]any:
		role := stringify(v["role"])
		content := stringify(v["content"])
		if role != "" && content != "" {
			if strings.EqualFold(role, RoleUser) {
				role = RoleUser
			} else {
				role = RoleAssistant
			}
			return []Message{{Role: role, Content: content}}
		}
		// Legacy {q, a} pairs render as the assistant's answer only.
		if a := stringify(v["a"]); a != "" && stringify(v["q"]) != "" {
			return []Message{{Role: RoleAssistant, Content: a}}
		}
	}
	return []Message{{Role: RoleAssistant, Content: stringify(item)}}
}
