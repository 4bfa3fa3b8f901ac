package aiquiz

import (
	"fmt"
	"strings"

	"github.com/saulo-duarte/cars-prep/internal/question"
)

const passageSystemPrompt = `
You are an MCAT CARS editor. Break the passage you receive into paragraphs and annotate each one
with its rhetorical purpose and tone. Also estimate the overall topic, style and difficulty.

Rules:
1. Keep the author's wording. Do not summarize or rewrite paragraphs.
2. "rhetorical_purpose" is one of: thesis, support, counterpoint, shift, conclusion, example, elaboration.
3. "tone" is one of: neutral, critical, skeptical, analytical, optimistic, defensive.
4. "estimated_difficulty" is a number from 1 (easy) to 5 (very hard).

Expected JSON:

{
  "paragraphs": [
    {"text": "...", "rhetorical_purpose": "thesis", "tone": "analytical"}
  ],
  "topic": "...",
  "style": "...",
  "estimated_difficulty": 3
}

Return raw JSON only, without markdown or commentary.
`

const questionSystemPrompt = `
You are an expert MCAT CARS tutor and exam author.

Write multiple choice questions that test reasoning about the passage, never outside knowledge.

Every question must have:
- "question_text": the stem
- "choices": an object with exactly four options keyed "A", "B", "C" and "D"
- "correct_answer": the key of the single correct option
- "question_type": one of main idea, inference, function, strengthen, weaken, tone, application, detail
- "trap_types": for each wrong option, the kind of trap it sets (e.g. "out of scope", "extreme", "opposite", "distortion")
- "explanations": one short explanation per option, keyed like "choices"
- "linked_paragraph": the 1-based paragraph the question depends on most
- "difficulty_rating": an integer from 1 (easy) to 10 (very hard)

Quality guidelines:
- Do not make the correct answer obvious. Options should have similar length and structure.
- Use plausible distractors.
- Never reveal the answer in the stem.

Expected JSON:

{
  "questions": [
    {
      "question_text": "...",
      "choices": {"A": "...", "B": "...", "C": "...", "D": "..."},
      "correct_answer": "B",
      "question_type": "inference",
      "trap_types": {"A": "extreme", "C": "out of scope", "D": "opposite"},
      "explanations": {"A": "...", "B": "...", "C": "...", "D": "..."},
      "linked_paragraph": 2,
      "difficulty_rating": 6
    }
  ]
}

Return raw JSON only, without markdown or commentary.
`

func BuildPassagePrompt(title, text string) string {
	return fmt.Sprintf("Title: %s\n\nText:\n%s", title, text)
}

func BuildQuestionPrompt(p question.Passage, count int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Generate %d MCAT-style CARS questions for the passage below.\n\n", count)
	fmt.Fprintf(&b, "Title: %s\n\n", p.Title)
	for i, para := range p.Paragraphs {
		fmt.Fprintf(&b, "[%d] %s\n\n", i+1, para.Text)
	}
	return b.String()
}

// cleanJSON strips the markdown fences models like to wrap JSON in.
func cleanJSON(raw string) string {
	clean := strings.TrimSpace(raw)
	clean = strings.TrimPrefix(clean, "```json")
	clean = strings.TrimPrefix(clean, "```")
	clean = strings.TrimSuffix(clean, "```")
	return strings.TrimSpace(clean)
}
