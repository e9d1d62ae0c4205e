package assistants

// Model is one selectable LLM model id.
type Model struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Provider couples an LLM provider with the models it serves. Models[0] is its default.
type Provider struct {
	ID          string  `json:"id"`
	Label       string  `json:"label"`
	Description string  `json:"description"`
	Models      []Model `json:"models"`
}

var providers = []Provider{
	{
		ID:          "openrouter",
		Label:       "OpenRouter",
		Description: "Multi-provider gateway (Llama, DeepSeek, Claude)",
		Models: []Model{
			{ID: "meta-llama/llama-3.1-70b-instruct", Label: "Llama 3.1 70B"},
			{ID: "meta-llama/llama-3.1-8b-instruct", Label: "Llama 3.1 8B"},
			{ID: "groq/llama-3.1-70b-versatile", Label: "Llama 3.1 70B (Groq)"},
			{ID: "groq/llama-3.1-8b-instant", Label: "Llama 3.1 8B (Groq Fast)"},
			{ID: "deepseek/deepseek-chat", Label: "DeepSeek Chat"},
			{ID: "anthropic/claude-3-haiku", Label: "Claude 3 Haiku"},
		},
	},
	{
		ID:          "openai",
		Label:       "OpenAI",
		Description: "Direct GPT-4 API",
		Models: []Model{
			{ID: "gpt-4o", Label: "GPT-4o"},
			{ID: "gpt-4o-mini", Label: "GPT-4o Mini"},
			{ID: "gpt-4-turbo", Label: "GPT-4 Turbo"},
		},
	},
	{
		ID:          "anthropic",
		Label:       "Anthropic",
		Description: "Direct Claude API",
		Models: []Model{
			{ID: "claude-3-5-sonnet-20241022", Label: "Claude 3.5 Sonnet"},
			{ID: "claude-3-haiku-20240307", Label: "Claude 3 Haiku"},
		},
	},
}

// First-message modes.
const (
	ModeAssistantFirst = "assistant-first"
	ModeUserFirst      = "user-first"
	ModeWaitTrigger    = "wait-trigger"
)

type FirstMessageMode struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Description string `json:"description"`
}

var firstMessageModes = []FirstMessageMode{
	{ID: ModeAssistantFirst, Label: "Assistant First", Description: "Assistant speaks immediately when call connects"},
	{ID: ModeUserFirst, Label: "User First", Description: "Wait for user to speak before responding"},
	{ID: ModeWaitTrigger, Label: "Wait for Trigger", Description: "Wait for specific trigger event before speaking"},
}

type Voice struct {
	ID     string `json:"id"`
	Label  string `json:"label"`
	Gender string `json:"gender"`
}

var voices = []Voice{
	{ID: "mallory", Label: "Mallory", Gender: "female"},
	{ID: "wise_man", Label: "Wise Man", Gender: "male"},
	{ID: "friendly_girl", Label: "Friendly Girl", Gender: "female"},
	{ID: "seraphina", Label: "Seraphina", Gender: "female"},
	{ID: "alex", Label: "Alex", Gender: "male"},
	{ID: "male-qn-qingse", Label: "Qingse", Gender: "male"},
	{ID: "female-shaonv", Label: "Shaonv", Gender: "female"},
	{ID: "male-qn-jingying", Label: "Jingying", Gender: "male"},
	{ID: "female-yujie", Label: "Yujie", Gender: "female"},
	{ID: "male-qn-badao", Label: "Badao", Gender: "male"},
	{ID: "female-chengshu", Label: "Chengshu", Gender: "female"},
}

var ttsModels = []Model{
	{ID: "speech-02-turbo", Label: "Speech 02 Turbo (Fast)"},
	{ID: "speech-02-hd", Label: "Speech 02 HD (High Quality)"},
}

const (
	DefaultProvider         = "openrouter"
	DefaultFirstMessageMode = ModeAssistantFirst
	DefaultVoiceID          = "mallory"
	DefaultTTSModel         = "speech-02-turbo"
	DefaultSTTProvider      = "deepgram"

	DefaultTemperature = 0.7
	TemperatureMin     = 0.0
	TemperatureMax     = 2.0
	TemperatureStep    = 0.1

	DefaultMaxTokens = 256
	MaxTokensMin     = 1
	MaxTokensMax     = 32000
)

func Providers() []Provider { return providers }

func FirstMessageModes() []FirstMessageMode { return firstMessageModes }

func Voices() []Voice { return voices }

func TTSModels() []Model { return ttsModels }

// ModelsFor returns the provider's models; unknown providers get OpenRouter's list.
func ModelsFor(providerID string) []Model {
	for _, p := range providers {
		if p.ID == providerID {
			return p.Models
		}
	}
	return providers[0].Models
}

// DefaultModelFor is the first model of the provider.
func DefaultModelFor(providerID string) string {
	return ModelsFor(providerID)[0].ID
}

// FirstMessageDisabled reports whether the first message is inert under mode.
func FirstMessageDisabled(mode string) bool {
	return mode == ModeUserFirst || mode == ModeWaitTrigger
}

func isKnownProvider(id string) bool {
	for _, p := range providers {
		if p.ID == id {
			return true
		}
	}
	return false
}
