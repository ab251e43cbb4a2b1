package service

import (
	"podbot-be/internal/constant"
	"podbot-be/pkg/llm"
	"podbot-be/pkg/memoryserver"
)

// composeModelInput builds the model input for one turn: system prompt, summary of
// evicted turns (when present), the working-memory window in stored order, then the
// new user message.
func composeModelInput(systemPrompt string, wm *memoryserver.WorkingMemory, userMessage string) []llm.Message {
	input := make([]llm.Message, 0, len(wm.Messages)+3)

	if systemPrompt != "" {
		input = append(input, llm.Message{Role: llm.RoleSystem, Content: systemPrompt})
	}
	if wm.Context != "" {
		input = append(input, llm.Message{Role: llm.RoleSystem, Content: constant.SummaryPromptPrefix + wm.Context})
	}
	for _, m := range wm.Messages {
		input = append(input, llm.Message{Role: m.Role, Content: m.Content})
	}

	return append(input, llm.Message{Role: llm.RoleUser, Content: userMessage})
}
