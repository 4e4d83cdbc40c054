package tutor

import (
	"fmt"
	"strings"
)

const systemPrompt = `You are a friendly tutor of the Crimean Tatar language (qırımtatar tili) for adult beginners. Explanations are in English; examples are in Crimean Tatar Latin script.`

func userMessage(lesson string, misses []Miss) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Lesson: %s\n\nThe learner answered these questions incorrectly:\n", lesson)
	for i, m := range misses {
		fmt.Fprintf(&b, "\n%d. %s\n", i+1, m.Question)
		fmt.Fprintf(&b, "   Chosen: %s\n", m.Chosen)
		fmt.Fprintf(&b, "   Correct: %s\n", m.Correct)
	}
	b.WriteString(`
For each question, in the same order:
- Copy the question text exactly.
- Explain in at most two sentences why the correct answer fits and the chosen one does not.
- Give one short tip: a mnemonic or a sample phrase with its English translation.
Finish with one sentence of encouragement. Plain text only, no markdown.`)
	return b.String()
}
