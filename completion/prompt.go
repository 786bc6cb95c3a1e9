package completion

import "fmt"

const promptTemplate = `Answer using ONLY this syllabus context:

%s

Question: %s`

// BuildPrompt assembles the grounded prompt for the completion model.
// An empty context still produces a well-formed prompt; the model simply
// has nothing to ground on.
func BuildPrompt(context, question string) string {
	return fmt.Sprintf(promptTemplate, context, question)
}
