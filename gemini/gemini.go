// Package gemini implements [coursechat.Provider] for the Google Gemini
// API. It wraps the google.golang.org/genai SDK, translating between the
// domain types and the Gemini API types with single-shot GenerateContent
// calls.
package gemini

const (
	defaultModel     = "gemini-2.5-flash"
	defaultMaxTokens = 8192
)
