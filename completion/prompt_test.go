package completion

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt("week 1: intro\nweek 2: graphs", "when is the final?")
	assert.Contains(t, prompt, "Answer using ONLY this syllabus context:")
	assert.Contains(t, prompt, "week 1: intro\nweek 2: graphs")
	assert.Contains(t, prompt, "Question: when is the final?")
	assert.True(t, strings.Index(prompt, "week 1") < strings.Index(prompt, "Question:"))
}

func TestBuildPromptEmptyContext(t *testing.T) {
	prompt := BuildPrompt("", "when is the final?")
	assert.Contains(t, prompt, "Answer using ONLY this syllabus context:")
	assert.Contains(t, prompt, "Question: when is the final?")
}
