package config

const (
	DefaultProvider     = "gemini"
	DefaultInsightModel = "gemini-3-pro-preview"
	DefaultVisionModel  = "gemini-3-flash-preview"
	DefaultSearchModel  = "gemini-3-flash-preview"

	DefaultOpenAIBaseURL = "https://api.openai.com/v1"
	DefaultOpenAIModel   = "gpt-4o-mini"

	DefaultTimeoutMS          = 60000
	DefaultInsightTokenBudget = 4000

	DefaultBaseDir = "~/.bricktrack"
	DefaultBackend = "sqlite"
	DefaultView    = "tracker"
	DefaultTheme   = "dark"
)
