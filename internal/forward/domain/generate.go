package domain

import (
	"bytes"
	"encoding/json"

	"google.golang.org/genai"
)

// RoleUser is the role assigned to contents given without one.
const RoleUser = "user"

// GenerateInput is a structured content generation call.
type GenerateInput struct {
	Model    string
	Contents []*genai.Content
	Config   *genai.GenerateContentConfig
}

// GenerateOutput carries the upstream response unchanged.
type GenerateOutput struct {
	Response *genai.GenerateContentResponse
}

// ParseContents accepts the shapes clients send for contents:
//   - "text"                           a single user turn
//   - {"role": ..., "parts": [...]}    a single content
//   - ["text", "text"]                 a single user turn with one part per string
//   - [{"role": ..., "parts": [...]}]  a conversation
func ParseContents(raw json.RawMessage) ([]*genai.Content, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, ErrInvalidContents
	}

	switch raw[0] {
	case '"':
		var text string
		if err := json.Unmarshal(raw, &text); err != nil || text == "" {
			return nil, ErrInvalidContents
		}
		return []*genai.Content{userText(text)}, nil
	case '{':
		content, err := parseContent(raw)
		if err != nil {
			return nil, err
		}
		return []*genai.Content{content}, nil
	case '[':
		return parseContentList(raw)
	default:
		return nil, ErrInvalidContents
	}
}

func parseContentList(raw json.RawMessage) ([]*genai.Content, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil || len(items) == 0 {
		return nil, ErrInvalidContents
	}

	var texts []*genai.Part
	var contents []*genai.Content

	for _, item := range items {
		item = bytes.TrimSpace(item)
		if len(item) == 0 {
			return nil, ErrInvalidContents
		}

		switch item[0] {
		case '"':
			var text string
			if err := json.Unmarshal(item, &text); err != nil {
				return nil, ErrInvalidContents
			}
			texts = append(texts, &genai.Part{Text: text})
		case '{':
			content, err := parseContent(item)
			if err != nil {
				return nil, err
			}
			contents = append(contents, content)
		default:
			return nil, ErrInvalidContents
		}
	}

	// Strings and content objects cannot be mixed.
	if len(texts) > 0 && len(contents) > 0 {
		return nil, ErrInvalidContents
	}
	if len(texts) > 0 {
		return []*genai.Content{{Role: RoleUser, Parts: texts}}, nil
	}
	return contents, nil
}

func parseContent(raw json.RawMessage) (*genai.Content, error) {
	var content genai.Content
	if err := json.Unmarshal(raw, &content); err != nil || len(content.Parts) == 0 {
		return nil, ErrInvalidContents
	}
	if content.Role == "" {
		content.Role = RoleUser
	}
	return &content, nil
}

func userText(text string) *genai.Content {
	return &genai.Content{Role: RoleUser, Parts: []*genai.Part{{Text: text}}}
}

// ParseConfig decodes a generation config. Empty and null configs yield nil.
// Per-request HTTP options are dropped so callers cannot redirect the upstream call.
func ParseConfig(raw json.RawMessage) (*genai.GenerateContentConfig, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, ErrInvalidConfig
	}
	delete(fields, "httpOptions")

	sanitized, err := json.Marshal(fields)
	if err != nil {
		return nil, ErrInvalidConfig
	}

	var config genai.GenerateContentConfig
	if err := json.Unmarshal(sanitized, &config); err != nil {
		return nil, ErrInvalidConfig
	}
	return &config, nil
}
