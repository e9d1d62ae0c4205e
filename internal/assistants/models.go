package assistants

import "time"

// Assistant is a tenant-owned voice assistant definition as returned by the API.
//
// FirstMessage is kept even when the first-message mode makes it inert.
// Temperature and MaxTokens are pointers so a missing value is distinguishable from zero.
type Assistant struct {
	ID       string `json:"id"`
	ClientID string `json:"client_id"`

	Name         string `json:"name"`
	SystemPrompt string `json:"system_prompt"`

	MinimaxVoiceID string `json:"minimax_voice_id"`
	TTSModel       string `json:"tts_model"`
	TTSIsManualID  bool   `json:"tts_is_manual_id"`

	LLMProvider string   `json:"llm_provider"`
	LLMModel    string   `json:"llm_model"`
	STTProvider string   `json:"stt_provider"`
	Temperature *float64 `json:"temperature"`
	MaxTokens   *int     `json:"max_tokens"`

	FirstMessageMode string  `json:"first_message_mode"`
	FirstMessage     *string `json:"first_message"`

	StructuredOutputSchema *string `json:"structured_output_schema"`
	WebhookURL             *string `json:"webhook_url"`
	RAGFileIDs             *string `json:"rag_file_ids"`

	ToolIDs []string `json:"tool_ids"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Create is the POST /api/v1/assistants body.
type Create struct {
	ClientID string `json:"client_id"`

	Name         string `json:"name"`
	SystemPrompt string `json:"system_prompt"`

	MinimaxVoiceID string `json:"minimax_voice_id"`
	TTSModel       string `json:"tts_model"`
	TTSIsManualID  bool   `json:"tts_is_manual_id"`

	LLMProvider string  `json:"llm_provider"`
	LLMModel    string  `json:"llm_model"`
	STTProvider string  `json:"stt_provider"`
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`

	FirstMessageMode string  `json:"first_message_mode"`
	FirstMessage     *string `json:"first_message"`

	StructuredOutputSchema *string `json:"structured_output_schema"`
	WebhookURL             *string `json:"webhook_url"`
	RAGFileIDs             *string `json:"rag_file_ids,omitempty"`

	ToolIDs []string `json:"tool_ids"`
}

// Update is the PATCH /api/v1/assistants/{id} body. Nil fields are left unchanged.
//
// ToolIDs is never omitted: an empty list clears the selection.
// Nullable text fields use a double pointer so "set to null" can be sent.
type Update struct {
	Name         *string `json:"name,omitempty"`
	SystemPrompt *string `json:"system_prompt,omitempty"`

	MinimaxVoiceID *string `json:"minimax_voice_id,omitempty"`
	TTSModel       *string `json:"tts_model,omitempty"`
	TTSIsManualID  *bool   `json:"tts_is_manual_id,omitempty"`

	LLMProvider *string  `json:"llm_provider,omitempty"`
	LLMModel    *string  `json:"llm_model,omitempty"`
	STTProvider *string  `json:"stt_provider,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
	MaxTokens   *int     `json:"max_tokens,omitempty"`

	FirstMessageMode *string  `json:"first_message_mode,omitempty"`
	FirstMessage     **string `json:"first_message,omitempty"`

	StructuredOutputSchema **string `json:"structured_output_schema,omitempty"`
	WebhookURL             **string `json:"webhook_url,omitempty"`

	ToolIDs []string `json:"tool_ids"`
}

// Apply returns a copy of a with u applied, the way the server would.
func (u Update) Apply(a Assistant) Assistant {
	out := a
	setString(&out.Name, u.Name)
	setString(&out.SystemPrompt, u.SystemPrompt)
	setString(&out.MinimaxVoiceID, u.MinimaxVoiceID)
	setString(&out.TTSModel, u.TTSModel)
	if u.TTSIsManualID != nil {
		out.TTSIsManualID = *u.TTSIsManualID
	}
	setString(&out.LLMProvider, u.LLMProvider)
	setString(&out.LLMModel, u.LLMModel)
	setString(&out.STTProvider, u.STTProvider)
	if u.Temperature != nil {
		t := *u.Temperature
		out.Temperature = &t
	}
	if u.MaxTokens != nil {
		n := *u.MaxTokens
		out.MaxTokens = &n
	}
	setString(&out.FirstMessageMode, u.FirstMessageMode)
	if u.FirstMessage != nil {
		out.FirstMessage = *u.FirstMessage
	}
	if u.StructuredOutputSchema != nil {
		out.StructuredOutputSchema = *u.StructuredOutputSchema
	}
	if u.WebhookURL != nil {
		out.WebhookURL = *u.WebhookURL
	}
	if u.ToolIDs != nil {
		out.ToolIDs = append([]string{}, u.ToolIDs...)
	}
	return out
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

type PhoneNumber struct {
	E164Number      string    `json:"e164_number"`
	AssistantID     string    `json:"assistant_id"`
	AsteriskContext string    `json:"asterisk_context"`
	CreatedAt       time.Time `json:"created_at"`
}

type PhoneNumberCreate struct {
	E164Number      string `json:"e164_number"`
	AssistantID     string `json:"assistant_id"`
	AsteriskContext string `json:"asterisk_context,omitempty"`
}
