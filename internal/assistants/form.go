package assistants

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"vox-console/internal/apiclient"
	"vox-console/internal/tools"
)

var (
	ErrUnknownProvider = errors.New("assistants: unknown llm provider")
	ErrUnknownModel    = errors.New("assistants: model not offered by provider")
	ErrUnknownMode     = errors.New("assistants: unknown first message mode")
)

// ValidationError blocks a submit. It is never sent to the server.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Fields is the full editable field set of an assistant.
type Fields struct {
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

	FirstMessageMode string `json:"first_message_mode"`
	FirstMessage     string `json:"first_message"`

	StructuredOutputSchema string `json:"structured_output_schema"`
	WebhookURL             string `json:"webhook_url"`

	ToolIDs []string `json:"tool_ids"`
}

// DefaultFields is the starting point of a new assistant.
func DefaultFields() Fields {
	return Fields{
		MinimaxVoiceID:   DefaultVoiceID,
		TTSModel:         DefaultTTSModel,
		LLMProvider:      DefaultProvider,
		LLMModel:         DefaultModelFor(DefaultProvider),
		STTProvider:      DefaultSTTProvider,
		Temperature:      DefaultTemperature,
		MaxTokens:        DefaultMaxTokens,
		FirstMessageMode: DefaultFirstMessageMode,
		ToolIDs:          []string{},
	}
}

// FieldsFrom populates the field set from an existing assistant, falling back per field.
func FieldsFrom(a Assistant) Fields {
	f := Fields{
		Name:           a.Name,
		SystemPrompt:   a.SystemPrompt,
		MinimaxVoiceID: orDefault(a.MinimaxVoiceID, DefaultVoiceID),
		TTSModel:       orDefault(a.TTSModel, DefaultTTSModel),
		TTSIsManualID:  a.TTSIsManualID,
		LLMProvider:    orDefault(a.LLMProvider, DefaultProvider),
		STTProvider:    orDefault(a.STTProvider, DefaultSTTProvider),
		Temperature:    DefaultTemperature,
		MaxTokens:      DefaultMaxTokens,

		FirstMessageMode:       orDefault(a.FirstMessageMode, DefaultFirstMessageMode),
		FirstMessage:           deref(a.FirstMessage),
		StructuredOutputSchema: deref(a.StructuredOutputSchema),
		WebhookURL:             deref(a.WebhookURL),
		ToolIDs:                append([]string{}, a.ToolIDs...),
	}
	f.LLMModel = orDefault(a.LLMModel, DefaultModelFor(f.LLMProvider))
	if a.Temperature != nil {
		f.Temperature = *a.Temperature
	}
	if a.MaxTokens != nil {
		f.MaxTokens = *a.MaxTokens
	}
	return f
}

// Section is a collapsible panel. Auto-expansion only ever opens it.
type Section struct {
	Expanded bool `json:"expanded"`
}

func (s *Section) Toggle() { s.Expanded = !s.Expanded }

func (s *Section) expandIf(cond bool) {
	if cond {
		s.Expanded = true
	}
}

// ToolsSection lists tools that can be attached. Options load lazily on first expansion.
type ToolsSection struct {
	Section
	Options   []tools.Brief `json:"options"`
	Loaded    bool          `json:"loaded"`
	LoadError string        `json:"load_error,omitempty"`
}

// BriefLister is satisfied by *tools.API.
type BriefLister interface {
	ListBrief(ctx context.Context, clientID string) ([]tools.Brief, error)
}

// Form is the create/edit state machine for one assistant.
type Form struct {
	clientID  string
	editingID string
	f         Fields
	err       string

	Voice    Section
	Model    Section
	Tools    ToolsSection
	Advanced Section
}

// NewForm opens the form. existing == nil means create.
func NewForm(clientID string, existing *Assistant) *Form {
	fm := &Form{clientID: clientID}
	if existing != nil {
		fm.editingID = existing.ID
		fm.f = FieldsFrom(*existing)
	} else {
		fm.f = DefaultFields()
	}
	fm.Advanced.expandIf(strings.TrimSpace(fm.f.StructuredOutputSchema) != "" || strings.TrimSpace(fm.f.WebhookURL) != "")
	fm.refresh()
	return fm
}

func (fm *Form) Editing() bool { return fm.editingID != "" }

func (fm *Form) EditingID() string { return fm.editingID }

// Fields returns a copy of the current values.
func (fm *Form) Fields() Fields {
	out := fm.f
	out.ToolIDs = append([]string{}, fm.f.ToolIDs...)
	return out
}

// Error is the single visible banner, or "".
func (fm *Form) Error() string { return fm.err }

func (fm *Form) SetError(msg string) { fm.err = msg }

// FirstMessageDisabled reports whether the first message input is inert. The value is kept.
func (fm *Form) FirstMessageDisabled() bool { return FirstMessageDisabled(fm.f.FirstMessageMode) }

func (fm *Form) SetName(v string) { fm.f.Name = v }

func (fm *Form) SetSystemPrompt(v string) {
	fm.f.SystemPrompt = v
	fm.refresh()
}

func (fm *Form) SetFirstMessage(v string) { fm.f.FirstMessage = v }

func (fm *Form) SetFirstMessageMode(mode string) error {
	if !slices.ContainsFunc(firstMessageModes, func(m FirstMessageMode) bool { return m.ID == mode }) {
		return fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}
	fm.f.FirstMessageMode = mode
	fm.refresh()
	return nil
}

// SetProvider switches provider and resets the model to the provider's first model.
func (fm *Form) SetProvider(provider string) error {
	if !isKnownProvider(provider) {
		return fmt.Errorf("%w: %q", ErrUnknownProvider, provider)
	}
	fm.f.LLMProvider = provider
	fm.f.LLMModel = DefaultModelFor(provider)
	fm.refresh()
	return nil
}

func (fm *Form) SetModel(model string) error {
	if !slices.ContainsFunc(ModelsFor(fm.f.LLMProvider), func(m Model) bool { return m.ID == model }) {
		return fmt.Errorf("%w: %q for %s", ErrUnknownModel, model, fm.f.LLMProvider)
	}
	fm.f.LLMModel = model
	return nil
}

func (fm *Form) SetVoiceID(id string) { fm.f.MinimaxVoiceID = id }

func (fm *Form) SetTTSModel(model string) { fm.f.TTSModel = model }

func (fm *Form) SetManualVoiceID(manual bool) {
	fm.f.TTSIsManualID = manual
	fm.refresh()
}

func (fm *Form) SetSTTProvider(v string) { fm.f.STTProvider = v }

func (fm *Form) SetStructuredOutputSchema(v string) { fm.f.StructuredOutputSchema = v }

func (fm *Form) SetWebhookURL(v string) { fm.f.WebhookURL = v }

// ToggleTool adds id to the selection, or removes it if already selected.
func (fm *Form) ToggleTool(id string) {
	if i := slices.Index(fm.f.ToolIDs, id); i >= 0 {
		fm.f.ToolIDs = slices.Delete(fm.f.ToolIDs, i, i+1)
	} else {
		fm.f.ToolIDs = append(fm.f.ToolIDs, id)
	}
	fm.refresh()
}

func (fm *Form) SetToolIDs(ids []string) {
	fm.f.ToolIDs = append([]string{}, ids...)
	fm.refresh()
}

// ChangeTemperature clamps parsable input into range; unparsable input is ignored.
func (fm *Form) ChangeTemperature(raw string) {
	if v, ok := parseFloat(raw); ok {
		fm.f.Temperature = clampFloat(v, TemperatureMin, TemperatureMax)
		fm.refresh()
	}
}

// BlurTemperature clamps, or resets unparsable input to the default.
func (fm *Form) BlurTemperature(raw string) {
	if v, ok := parseFloat(raw); ok {
		fm.f.Temperature = clampFloat(v, TemperatureMin, TemperatureMax)
	} else {
		fm.f.Temperature = DefaultTemperature
	}
	fm.refresh()
}

func (fm *Form) ChangeMaxTokens(raw string) {
	if v, ok := parseInt(raw); ok {
		fm.f.MaxTokens = clampInt(v, MaxTokensMin, MaxTokensMax)
		fm.refresh()
	}
}

func (fm *Form) BlurMaxTokens(raw string) {
	if v, ok := parseInt(raw); ok {
		fm.f.MaxTokens = clampInt(v, MaxTokensMin, MaxTokensMax)
	} else {
		fm.f.MaxTokens = DefaultMaxTokens
	}
	fm.refresh()
}

// LoadTools fetches tool options once the tools section is open.
func (fm *Form) LoadTools(ctx context.Context, lister BriefLister) {
	if !fm.Tools.Expanded || fm.Tools.Loaded || fm.clientID == "" {
		return
	}
	fm.Tools.LoadError = ""
	opts, err := lister.ListBrief(ctx, fm.clientID)
	if err != nil {
		fm.Tools.LoadError = apiclient.ErrorDetail(err, "Failed to load tools")
		return
	}
	fm.Tools.Options = opts
	fm.Tools.Loaded = true
}

// Validate checks, in order: name, system prompt, schema JSON, webhook URL.
func (fm *Form) Validate() error {
	f := fm.f
	if strings.TrimSpace(f.Name) == "" {
		return &ValidationError{Field: "name", Message: "Name is required"}
	}
	if strings.TrimSpace(f.SystemPrompt) == "" {
		return &ValidationError{Field: "system_prompt", Message: "System prompt is required"}
	}
	if strings.TrimSpace(f.StructuredOutputSchema) != "" && !json.Valid([]byte(f.StructuredOutputSchema)) {
		return &ValidationError{Field: "structured_output_schema", Message: "Structured output schema must be valid JSON"}
	}
	if strings.TrimSpace(f.WebhookURL) != "" && !isWellFormedURL(strings.TrimSpace(f.WebhookURL)) {
		return &ValidationError{Field: "webhook_url", Message: "Webhook URL must be a valid URL"}
	}
	return nil
}

// Submission is exactly one of a create or an update payload.
type Submission struct {
	Create *Create
	ID     string
	Update *Update
}

// Submit validates and shapes the payload. On failure the banner is set and nothing is returned.
func (fm *Form) Submit() (Submission, error) {
	fm.err = ""
	if err := fm.Validate(); err != nil {
		fm.err = err.Error()
		return Submission{}, err
	}
	if fm.Editing() {
		u := fm.updatePayload()
		return Submission{ID: fm.editingID, Update: &u}, nil
	}
	c := fm.createPayload()
	return Submission{Create: &c}, nil
}

// Save submits through the store. API failures land in the banner and are returned.
func (fm *Form) Save(ctx context.Context, s *Store) (Assistant, error) {
	sub, err := fm.Submit()
	if err != nil {
		return Assistant{}, err
	}
	var a Assistant
	if sub.Update != nil {
		a, err = s.Update(ctx, sub.ID, *sub.Update)
	} else {
		a, err = s.Create(ctx, *sub.Create)
	}
	if err != nil {
		fm.err = apiclient.ErrorDetail(err, "An error occurred")
		return Assistant{}, err
	}
	return a, nil
}

func (fm *Form) createPayload() Create {
	f := fm.f
	return Create{
		ClientID:               fm.clientID,
		Name:                   f.Name,
		SystemPrompt:           f.SystemPrompt,
		MinimaxVoiceID:         f.MinimaxVoiceID,
		TTSModel:               f.TTSModel,
		TTSIsManualID:          f.TTSIsManualID,
		LLMProvider:            f.LLMProvider,
		LLMModel:               f.LLMModel,
		STTProvider:            f.STTProvider,
		Temperature:            f.Temperature,
		MaxTokens:              f.MaxTokens,
		FirstMessageMode:       f.FirstMessageMode,
		FirstMessage:           nullable(f.FirstMessage),
		StructuredOutputSchema: nullable(f.StructuredOutputSchema),
		WebhookURL:             nullable(f.WebhookURL),
		ToolIDs:                append([]string{}, f.ToolIDs...),
	}
}

// updatePayload is the full field set, not a diff. ToolIDs is always present so it can clear.
func (fm *Form) updatePayload() Update {
	f := fm.f
	firstMessage := nullable(f.FirstMessage)
	schema := nullable(f.StructuredOutputSchema)
	webhook := nullable(f.WebhookURL)
	return Update{
		Name:                   ptr(f.Name),
		SystemPrompt:           ptr(f.SystemPrompt),
		MinimaxVoiceID:         ptr(f.MinimaxVoiceID),
		TTSModel:               ptr(f.TTSModel),
		TTSIsManualID:          ptr(f.TTSIsManualID),
		LLMProvider:            ptr(f.LLMProvider),
		LLMModel:               ptr(f.LLMModel),
		STTProvider:            ptr(f.STTProvider),
		Temperature:            ptr(f.Temperature),
		MaxTokens:              ptr(f.MaxTokens),
		FirstMessageMode:       ptr(f.FirstMessageMode),
		FirstMessage:           &firstMessage,
		StructuredOutputSchema: &schema,
		WebhookURL:             &webhook,
		ToolIDs:                append([]string{}, f.ToolIDs...),
	}
}

func (fm *Form) refresh() {
	f := fm.f
	fm.Voice.expandIf(f.TTSIsManualID)
	fm.Model.expandIf(f.LLMProvider != DefaultProvider ||
		f.FirstMessageMode != DefaultFirstMessageMode ||
		f.Temperature != DefaultTemperature ||
		f.MaxTokens != DefaultMaxTokens ||
		strings.TrimSpace(f.SystemPrompt) != "")
	fm.Tools.expandIf(len(f.ToolIDs) > 0)
}

func isWellFormedURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" {
		return false
	}
	return u.Host != "" || u.Opaque != ""
}

func parseFloat(raw string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func parseInt(raw string) (int, bool) {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, false
	}
	return v, true
}

func clampFloat(v, lo, hi float64) float64 { return math.Min(hi, math.Max(lo, v)) }

func clampInt(v, lo, hi int) int { return min(hi, max(lo, v)) }

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func ptr[T any](v T) *T { return &v }
