package gemini

import "google.golang.org/genai"

// promptData represents the data passed to the prompt template
type promptData struct {
	Sentence     string
	LanguageName string
}

// languageNames maps supported target language codes to prompt wording.
var languageNames = map[string]string{
	"ja": "Japanese",
	"zh": "Chinese",
	"ko": "Korean",
	"es": "Spanish",
	"fr": "French",
	"de": "German",
}

// languageName returns the display name for code, falling back to the code.
func languageName(code string) string {
	if name, ok := languageNames[code]; ok {
		return name
	}
	return code
}

// responseSchema constrains Gemini's JSON output to generation.StudySet.
func responseSchema() *genai.Schema {
	str := func(desc string) *genai.Schema {
		return &genai.Schema{Type: genai.TypeString, Description: desc}
	}

	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"translation":         str("English translation of the sentence"),
			"grammar_explanation": str("Explanation of the grammar points used"),
			"flashcards": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"front":   str("Word as written in the sentence"),
						"back":    str("English meaning"),
						"reading": str("Pronunciation"),
						"example": str("Example sentence"),
					},
					Required: []string{"front", "back"},
				},
			},
		},
		Required: []string{"translation", "grammar_explanation", "flashcards"},
	}
}
