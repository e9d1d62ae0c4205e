package assistants

import (
	"context"
	"errors"
	"testing"

	"vox-console/internal/apiclient"
	"vox-console/internal/tools"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForm_CreateWithDefaults(t *testing.T) {
	fm := NewForm("t1", nil)
	fm.SetName("Support")
	fm.SetSystemPrompt("Help users")

	sub, err := fm.Submit()
	require.NoError(t, err)
	require.NotNil(t, sub.Create)
	assert.Nil(t, sub.Update)

	c := sub.Create
	assert.Equal(t, "t1", c.ClientID)
	assert.Equal(t, "openrouter", c.LLMProvider)
	assert.Equal(t, ModelsFor("openrouter")[0].ID, c.LLMModel)
	assert.Equal(t, 0.7, c.Temperature)
	assert.Equal(t, 256, c.MaxTokens)
	assert.Equal(t, "assistant-first", c.FirstMessageMode)
	assert.Equal(t, "mallory", c.MinimaxVoiceID)
	assert.Equal(t, "speech-02-turbo", c.TTSModel)
	assert.Equal(t, "deepgram", c.STTProvider)
	assert.Nil(t, c.FirstMessage)
	assert.Nil(t, c.WebhookURL)
	assert.Nil(t, c.StructuredOutputSchema)
	assert.Equal(t, []string{}, c.ToolIDs)
}

func TestForm_ProviderSwitchResetsModel(t *testing.T) {
	fm := NewForm("t1", nil)
	require.NoError(t, fm.SetModel("deepseek/deepseek-chat"))

	require.NoError(t, fm.SetProvider("anthropic"))
	assert.Equal(t, "claude-3-5-sonnet-20241022", fm.Fields().LLMModel)
	assert.True(t, fm.Model.Expanded)

	assert.ErrorIs(t, fm.SetModel("gpt-4o"), ErrUnknownModel)
	assert.ErrorIs(t, fm.SetProvider("mistral"), ErrUnknownProvider)
	assert.Equal(t, "anthropic", fm.Fields().LLMProvider)
}

func TestForm_MaxTokensClampAndBlur(t *testing.T) {
	fm := NewForm("t1", nil)

	fm.ChangeMaxTokens("99999")
	assert.Equal(t, 32000, fm.Fields().MaxTokens)

	fm.ChangeMaxTokens("abc")
	assert.Equal(t, 32000, fm.Fields().MaxTokens, "unparsable change is ignored")

	fm.BlurMaxTokens("abc")
	assert.Equal(t, 256, fm.Fields().MaxTokens)

	fm.ChangeMaxTokens("0")
	assert.Equal(t, 1, fm.Fields().MaxTokens)
}

func TestForm_TemperatureClampAndBlur(t *testing.T) {
	fm := NewForm("t1", nil)

	fm.ChangeTemperature("3.5")
	assert.Equal(t, 2.0, fm.Fields().Temperature)
	fm.ChangeTemperature("-1")
	assert.Equal(t, 0.0, fm.Fields().Temperature)
	fm.ChangeTemperature("NaN")
	assert.Equal(t, 0.0, fm.Fields().Temperature)
	fm.BlurTemperature("")
	assert.Equal(t, 0.7, fm.Fields().Temperature)
}

func TestForm_Validation(t *testing.T) {
	tests := []struct {
		name    string
		edit    func(fm *Form)
		field   string
		message string
	}{
		{name: "name required", edit: func(fm *Form) { fm.SetName("  ") }, field: "name", message: "Name is required"},
		{name: "prompt required", edit: func(fm *Form) { fm.SetSystemPrompt("") }, field: "system_prompt", message: "System prompt is required"},
		{name: "schema must be json", edit: func(fm *Form) { fm.SetStructuredOutputSchema("{invalid") }, field: "structured_output_schema", message: "Structured output schema must be valid JSON"},
		{name: "webhook must be url", edit: func(fm *Form) { fm.SetWebhookURL("not a url") }, field: "webhook_url", message: "Webhook URL must be a valid URL"},
		{name: "both optional empty", edit: func(fm *Form) {}},
		{name: "valid optionals", edit: func(fm *Form) {
			fm.SetStructuredOutputSchema(`{"type":"object"}`)
			fm.SetWebhookURL("https://hooks.example.com/x")
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fm := NewForm("t1", nil)
			fm.SetName("Support")
			fm.SetSystemPrompt("Help users")
			tt.edit(fm)

			sub, err := fm.Submit()
			if tt.field == "" {
				require.NoError(t, err)
				assert.NotNil(t, sub.Create)
				assert.Empty(t, fm.Error())
				return
			}
			var ve *ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tt.field, ve.Field)
			assert.Equal(t, tt.message, fm.Error())
			assert.Nil(t, sub.Create)
		})
	}
}

func TestForm_UnchangedUpdateMatchesOriginal(t *testing.T) {
	original := Assistant{
		ID:                     "a1",
		ClientID:               "t1",
		Name:                   "Support",
		SystemPrompt:           "Help users",
		MinimaxVoiceID:         "alex",
		TTSModel:               "speech-02-hd",
		TTSIsManualID:          false,
		LLMProvider:            "openai",
		LLMModel:               "gpt-4o-mini",
		STTProvider:            "deepgram",
		Temperature:            ptr(1.1),
		MaxTokens:              ptr(512),
		FirstMessageMode:       ModeUserFirst,
		FirstMessage:           ptr("Hello"),
		StructuredOutputSchema: ptr(`{"type":"object"}`),
		WebhookURL:             nil,
		ToolIDs:                []string{"T1", "T2"},
	}
	fm := NewForm("t1", &original)
	assert.True(t, fm.Editing())
	assert.True(t, fm.Advanced.Expanded)
	assert.True(t, fm.Tools.Expanded)
	assert.True(t, fm.FirstMessageDisabled())

	sub, err := fm.Submit()
	require.NoError(t, err)
	require.NotNil(t, sub.Update)
	assert.Equal(t, "a1", sub.ID)
	assert.Equal(t, original, sub.Update.Apply(original))
}

func TestForm_UpdateCanClearTools(t *testing.T) {
	original := Assistant{ID: "a1", Name: "n", SystemPrompt: "p", ToolIDs: []string{"T1"}}
	fm := NewForm("t1", &original)
	fm.ToggleTool("T1")
	assert.True(t, fm.Tools.Expanded, "auto-expansion never collapses")

	sub, err := fm.Submit()
	require.NoError(t, err)
	require.NotNil(t, sub.Update.ToolIDs)
	assert.Empty(t, sub.Update.ToolIDs)
	assert.Empty(t, sub.Update.Apply(original).ToolIDs)
}

func TestForm_FieldsFromFallbacks(t *testing.T) {
	f := FieldsFrom(Assistant{Name: "n", LLMProvider: "anthropic"})
	assert.Equal(t, "claude-3-5-sonnet-20241022", f.LLMModel)
	assert.Equal(t, DefaultVoiceID, f.MinimaxVoiceID)
	assert.Equal(t, DefaultTemperature, f.Temperature)
	assert.Equal(t, DefaultMaxTokens, f.MaxTokens)
	assert.Equal(t, DefaultFirstMessageMode, f.FirstMessageMode)
}

func TestForm_SectionsAutoExpand(t *testing.T) {
	fm := NewForm("t1", nil)
	assert.False(t, fm.Voice.Expanded)
	assert.False(t, fm.Model.Expanded)
	assert.False(t, fm.Tools.Expanded)
	assert.False(t, fm.Advanced.Expanded)

	fm.SetManualVoiceID(true)
	assert.True(t, fm.Voice.Expanded)
	fm.SetManualVoiceID(false)
	assert.True(t, fm.Voice.Expanded)

	fm.Voice.Toggle()
	assert.False(t, fm.Voice.Expanded)

	require.NoError(t, fm.SetFirstMessageMode(ModeWaitTrigger))
	assert.True(t, fm.Model.Expanded)
	assert.ErrorIs(t, fm.SetFirstMessageMode("never"), ErrUnknownMode)

	fm.SetFirstMessage("kept")
	assert.Equal(t, "kept", fm.Fields().FirstMessage)
}

type briefs struct {
	calls int
	err   error
}

func (b *briefs) ListBrief(_ context.Context, clientID string) ([]tools.Brief, error) {
	b.calls++
	if b.err != nil {
		return nil, b.err
	}
	return []tools.Brief{{ID: "T1", Name: "lookup_" + clientID}}, nil
}

func TestForm_LoadToolsLazily(t *testing.T) {
	fm := NewForm("t1", nil)
	lister := &briefs{}
	ctx := context.Background()

	fm.LoadTools(ctx, lister)
	assert.Zero(t, lister.calls, "collapsed section must not load")

	fm.Tools.Toggle()
	lister.err = errors.New("network")
	fm.LoadTools(ctx, lister)
	assert.Equal(t, "Failed to load tools", fm.Tools.LoadError)
	assert.False(t, fm.Tools.Loaded)

	lister.err = nil
	fm.LoadTools(ctx, lister)
	fm.LoadTools(ctx, lister)
	assert.Equal(t, 2, lister.calls)
	assert.Empty(t, fm.Tools.LoadError)
	assert.Equal(t, []tools.Brief{{ID: "T1", Name: "lookup_t1"}}, fm.Tools.Options)
}

func TestForm_SaveThroughStore(t *testing.T) {
	b := &memBackend{rows: []Assistant{{ID: "a1", ClientID: "t1", Name: "old", SystemPrompt: "p"}}}
	s := NewStore(b, "t1")
	ctx := context.Background()
	s.Load(ctx)

	existing, ok := s.Find("a1")
	require.True(t, ok)
	fm := NewForm("t1", &existing)
	fm.SetName("new")
	saved, err := fm.Save(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, "new", saved.Name)
	got, _ := s.Find("a1")
	assert.Equal(t, "new", got.Name)

	b.mutErr = &apiclient.Error{Status: 409, Detail: "Name already taken"}
	_, err = fm.Save(ctx, s)
	require.Error(t, err)
	assert.Equal(t, "Name already taken", fm.Error())
}

func TestCatalog(t *testing.T) {
	assert.Len(t, Providers(), 3)
	assert.Len(t, FirstMessageModes(), 3)
	assert.Len(t, Voices(), 11)
	assert.Len(t, TTSModels(), 2)
	assert.Equal(t, ModelsFor("openrouter"), ModelsFor("unknown"))
	assert.Equal(t, "gpt-4o", DefaultModelFor("openai"))
	assert.False(t, FirstMessageDisabled(ModeAssistantFirst))
	assert.True(t, FirstMessageDisabled(ModeUserFirst))
}
