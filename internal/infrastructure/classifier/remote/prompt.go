package remote

// The prompt asks for nothing but a short label, so reply parsing can stay
// a first-line trim.
const classificationPromptTemplate = `Analyze the following text and determine its main subject or theme.
Return only the main subject as a single word or short phrase (maximum 3 words), without any additional text or explanation.
Focus on the most relevant subject that best describes the document.
The subject can be in any language that best represents the content.

Text:
`

const maxPromptSnippet = 4000

func buildClassificationPrompt(text string) string {
	snippet := text
	if len(snippet) > maxPromptSnippet {
		snippet = snippet[:maxPromptSnippet]
	}
	return classificationPromptTemplate + snippet
}
