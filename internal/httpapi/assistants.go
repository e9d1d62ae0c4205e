package httpapi

import (
	"net/http"
	"strconv"

	"vox-console/internal/assistants"
	"vox-console/internal/audit"

	"github.com/gin-gonic/gin"
)

// assistantInput carries the editable fields. Absent fields keep the form's value.
type assistantInput struct {
	Name                   *string   `json:"name"`
	SystemPrompt           *string   `json:"system_prompt"`
	MinimaxVoiceID         *string   `json:"minimax_voice_id"`
	TTSModel               *string   `json:"tts_model"`
	TTSIsManualID          *bool     `json:"tts_is_manual_id"`
	LLMProvider            *string   `json:"llm_provider"`
	LLMModel               *string   `json:"llm_model"`
	STTProvider            *string   `json:"stt_provider"`
	Temperature            *float64  `json:"temperature"`
	MaxTokens              *float64  `json:"max_tokens"`
	FirstMessageMode       *string   `json:"first_message_mode"`
	FirstMessage           *string   `json:"first_message"`
	StructuredOutputSchema *string   `json:"structured_output_schema"`
	WebhookURL             *string   `json:"webhook_url"`
	ToolIDs                *[]string `json:"tool_ids"`
}

// applyTo drives the form the same way a user would. Provider goes before model
// because switching provider resets the model.
func (in assistantInput) applyTo(fm *assistants.Form) error {
	if in.Name != nil {
		fm.SetName(*in.Name)
	}
	if in.SystemPrompt != nil {
		fm.SetSystemPrompt(*in.SystemPrompt)
	}
	if in.MinimaxVoiceID != nil {
		fm.SetVoiceID(*in.MinimaxVoiceID)
	}
	if in.TTSModel != nil {
		fm.SetTTSModel(*in.TTSModel)
	}
	if in.TTSIsManualID != nil {
		fm.SetManualVoiceID(*in.TTSIsManualID)
	}
	if in.LLMProvider != nil && *in.LLMProvider != fm.Fields().LLMProvider {
		if err := fm.SetProvider(*in.LLMProvider); err != nil {
			return &assistants.ValidationError{Field: "llm_provider", Message: "Unknown LLM provider"}
		}
	}
	if in.LLMModel != nil {
		if err := fm.SetModel(*in.LLMModel); err != nil {
			return &assistants.ValidationError{Field: "llm_model", Message: "Model is not offered by the selected provider"}
		}
	}
	if in.STTProvider != nil {
		fm.SetSTTProvider(*in.STTProvider)
	}
	if in.Temperature != nil {
		fm.BlurTemperature(strconv.FormatFloat(*in.Temperature, 'f', -1, 64))
	}
	if in.MaxTokens != nil {
		fm.BlurMaxTokens(strconv.FormatFloat(*in.MaxTokens, 'f', -1, 64))
	}
	if in.FirstMessageMode != nil {
		if err := fm.SetFirstMessageMode(*in.FirstMessageMode); err != nil {
			return &assistants.ValidationError{Field: "first_message_mode", Message: "Unknown first message mode"}
		}
	}
	if in.FirstMessage != nil {
		fm.SetFirstMessage(*in.FirstMessage)
	}
	if in.StructuredOutputSchema != nil {
		fm.SetStructuredOutputSchema(*in.StructuredOutputSchema)
	}
	if in.WebhookURL != nil {
		fm.SetWebhookURL(*in.WebhookURL)
	}
	if in.ToolIDs != nil {
		fm.SetToolIDs(*in.ToolIDs)
	}
	return nil
}

// --- Assistants ---

// ListAssistants returns the tenant's merged view. ?refresh=1 forces a refetch.
func (h *Handlers) ListAssistants(c *gin.Context) {
	cid, ok := clientIDFrom(c)
	if !ok {
		return
	}
	store := h.stores.Get(c.Request.Context(), cid)
	if c.Query("refresh") == "1" {
		store.Refetch(c.Request.Context())
	}
	st := store.State()
	if st.Error != "" {
		c.JSON(http.StatusBadGateway, st)
		return
	}
	c.JSON(http.StatusOK, st)
}

func (h *Handlers) GetAssistant(c *gin.Context) {
	cid, ok := clientIDFrom(c)
	if !ok {
		return
	}
	a, err := h.ownedAssistant(c, cid, c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

// AssistantForm returns the initial form state: defaults for a new assistant, or
// the populated fields of ?id=.
func (h *Handlers) AssistantForm(c *gin.Context) {
	cid, ok := clientIDFrom(c)
	if !ok {
		return
	}
	var existing *assistants.Assistant
	if id := c.Query("id"); id != "" {
		a, err := h.ownedAssistant(c, cid, id)
		if err != nil {
			fail(c, err)
			return
		}
		existing = &a
	}
	fm := assistants.NewForm(cid, existing)
	if c.Query("tools") == "1" {
		fm.Tools.Expanded = true
	}
	fm.LoadTools(c.Request.Context(), h.Tools)
	c.JSON(http.StatusOK, formView(fm))
}

func (h *Handlers) CreateAssistant(c *gin.Context) {
	cid, ok := clientIDFrom(c)
	if !ok {
		return
	}
	var in assistantInput
	if !bindJSON(c, &in) {
		return
	}
	fm := assistants.NewForm(cid, nil)
	if err := in.applyTo(fm); err != nil {
		fail(c, err)
		return
	}
	store := h.stores.Get(c.Request.Context(), cid)
	a, err := fm.Save(c.Request.Context(), store)
	if err != nil {
		fail(c, err)
		return
	}
	h.record(c, cid, audit.EventAssistantCreated, a.ID, "assistant created", map[string]any{"name": a.Name})
	c.JSON(http.StatusCreated, a)
}

func (h *Handlers) UpdateAssistant(c *gin.Context) {
	cid, ok := clientIDFrom(c)
	if !ok {
		return
	}
	existing, err := h.ownedAssistant(c, cid, c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	var in assistantInput
	if !bindJSON(c, &in) {
		return
	}
	fm := assistants.NewForm(cid, &existing)
	if err := in.applyTo(fm); err != nil {
		fail(c, err)
		return
	}
	a, err := fm.Save(c.Request.Context(), h.stores.Get(c.Request.Context(), cid))
	if err != nil {
		fail(c, err)
		return
	}
	h.record(c, cid, audit.EventAssistantUpdated, a.ID, "assistant updated", nil)
	c.JSON(http.StatusOK, a)
}

func (h *Handlers) DeleteAssistant(c *gin.Context) {
	cid, ok := clientIDFrom(c)
	if !ok {
		return
	}
	a, err := h.ownedAssistant(c, cid, c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	if err := h.stores.Get(c.Request.Context(), cid).Delete(c.Request.Context(), a.ID); err != nil {
		fail(c, err)
		return
	}
	h.record(c, cid, audit.EventAssistantDeleted, a.ID, "assistant deleted", map[string]any{"name": a.Name})
	c.Status(http.StatusNoContent)
}

// ownedAssistant prefers the store's merged view and falls back to the API.
func (h *Handlers) ownedAssistant(c *gin.Context, clientID, id string) (assistants.Assistant, error) {
	if a, ok := h.stores.Get(c.Request.Context(), clientID).Find(id); ok {
		return a, nil
	}
	a, err := h.Assistants.Get(c.Request.Context(), id)
	if err != nil {
		return assistants.Assistant{}, err
	}
	if a.ClientID != clientID {
		return assistants.Assistant{}, errNotFound
	}
	return a, nil
}

type formState struct {
	Editing              bool                    `json:"editing"`
	ID                   string                  `json:"id,omitempty"`
	Fields               assistants.Fields       `json:"fields"`
	FirstMessageDisabled bool                    `json:"first_message_disabled"`
	Models               []assistants.Model      `json:"models"`
	Voice                assistants.Section      `json:"voice"`
	Model                assistants.Section      `json:"model"`
	Tools                assistants.ToolsSection `json:"tools"`
	Advanced             assistants.Section      `json:"advanced"`
}

func formView(fm *assistants.Form) formState {
	f := fm.Fields()
	return formState{
		Editing:              fm.Editing(),
		ID:                   fm.EditingID(),
		Fields:               f,
		FirstMessageDisabled: fm.FirstMessageDisabled(),
		Models:               assistants.ModelsFor(f.LLMProvider),
		Voice:                fm.Voice,
		Model:                fm.Model,
		Tools:                fm.Tools,
		Advanced:             fm.Advanced,
	}
}

// Catalog returns the static option lists for the assistant form.
func (h *Handlers) Catalog(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"providers":           assistants.Providers(),
		"first_message_modes": assistants.FirstMessageModes(),
		"voices":              assistants.Voices(),
		"tts_models":          assistants.TTSModels(),
		"defaults":            assistants.DefaultFields(),
	})
}

// --- Phone numbers ---

func (h *Handlers) ListPhoneNumbers(c *gin.Context) {
	cid, ok := clientIDFrom(c)
	if !ok {
		return
	}
	a, err := h.ownedAssistant(c, cid, c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	nums, err := h.Assistants.PhoneNumbers(c.Request.Context(), a.ID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": nums})
}

func (h *Handlers) AssignPhoneNumber(c *gin.Context) {
	cid, ok := clientIDFrom(c)
	if !ok {
		return
	}
	a, err := h.ownedAssistant(c, cid, c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	var in struct {
		E164Number      string `json:"e164_number"`
		AsteriskContext string `json:"asterisk_context"`
	}
	if !bindJSON(c, &in) {
		return
	}
	if !e164Pattern.MatchString(in.E164Number) {
		invalid(c, "e164_number", msgInvalidE164)
		return
	}
	n, err := h.Assistants.AssignPhoneNumber(c.Request.Context(), assistants.PhoneNumberCreate{
		E164Number:      in.E164Number,
		AssistantID:     a.ID,
		AsteriskContext: in.AsteriskContext,
	})
	if err != nil {
		fail(c, err)
		return
	}
	h.record(c, cid, audit.EventPhoneNumberAssigned, a.ID, "phone number assigned", map[string]any{"e164_number": n.E164Number})
	c.JSON(http.StatusCreated, n)
}

// UnassignPhoneNumber only releases numbers currently attached to one of the tenant's assistants.
func (h *Handlers) UnassignPhoneNumber(c *gin.Context) {
	cid, ok := clientIDFrom(c)
	if !ok {
		return
	}
	a, err := h.ownedAssistant(c, cid, c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	e164 := c.Param("e164")
	nums, err := h.Assistants.PhoneNumbers(c.Request.Context(), a.ID)
	if err != nil {
		fail(c, err)
		return
	}
	found := false
	for _, n := range nums {
		if n.E164Number == e164 {
			found = true
			break
		}
	}
	if !found {
		fail(c, errNotFound)
		return
	}
	if err := h.Assistants.UnassignPhoneNumber(c.Request.Context(), e164); err != nil {
		fail(c, err)
		return
	}
	h.record(c, cid, audit.EventPhoneNumberUnassigned, a.ID, "phone number unassigned", map[string]any{"e164_number": e164})
	c.Status(http.StatusNoContent)
}
