package generativeAI

import (
	"fmt"
	"regexp"
	"strings"
)

// maxPromptInputLen bounds any single user-supplied value embedded in a
// prompt.
const maxPromptInputLen = 200

// suspiciousPatterns flag prompt-injection attempts in user input and
// script-ish payloads in model output.
var suspiciousPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)ignore\s+(all\s+)?previous\s+instructions`),
	regexp.MustCompile(`(?i)disregard\s+(the\s+)?(system\s+)?prompt`),
	regexp.MustCompile(`(?i)you\s+are\s+now\s+a?\s*\w+`),
	regexp.MustCompile(`(?i)reveal\s+(your\s+)?(system\s+)?prompt`),
	regexp.MustCompile(`(?i)<\s*script`),
	regexp.MustCompile(`(?i)javascript\s*:`),
}

// SanitizePromptInput flattens a user-supplied value before it is embedded in
// a prompt: whitespace runs collapse to single spaces and the result is
// clipped to a sane length.
func SanitizePromptInput(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) > maxPromptInputLen {
		s = string(runes[:maxPromptInputLen])
	}
	return s
}

// CheckPrompt rejects prompts that carry injection patterns.
func CheckPrompt(prompt string) error {
	for _, pattern := range suspiciousPatterns {
		if pattern.MatchString(prompt) {
			return fmt.Errorf("prompt rejected by safety screen: matched %q", pattern.String())
		}
	}
	return nil
}

// CheckResponse rejects empty replies and replies carrying suspicious
// payloads. Harm-category blocking already happened on the API side.
func CheckResponse(text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("model returned an empty response")
	}
	for _, pattern := range suspiciousPatterns {
		if pattern.MatchString(text) {
			return fmt.Errorf("response rejected by safety screen: matched %q", pattern.String())
		}
	}
	return nil
}

// CleanJSONResponse strips markdown code fences and surrounding prose from a
// model reply, keeping the first top-level JSON object.
func CleanJSONResponse(response string) string {
	response = strings.TrimSpace(response)

	if strings.HasPrefix(response, "```json") {
		response = strings.TrimPrefix(response, "```json")
	} else if strings.HasPrefix(response, "```") {
		response = strings.TrimPrefix(response, "```")
	}
	if strings.HasSuffix(response, "```") {
		response = strings.TrimSuffix(response, "```")
	}
	response = strings.TrimSpace(response)

	firstBrace := strings.Index(response, "{")
	if firstBrace == -1 {
		return response
	}
	lastBrace := strings.LastIndex(response, "}")
	if lastBrace == -1 || lastBrace <= firstBrace {
		return response
	}
	return strings.TrimSpace(response[firstBrace : lastBrace+1])
}
