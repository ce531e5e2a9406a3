package coach

import (
	"fmt"
	"strings"

	"github.com/pienaaranker/storypoints-sub000/internal/content"
)

const hintSystemPrompt = `You are an experienced agile coach helping a developer practise story point estimation on the Fibonacci scale (1, 2, 3, 5, 8, 13). Give hints that point at what matters for sizing, never the answer itself.`

func buildHintUserMessage(input HintInput) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Exercise: %s\n", input.Exercise.Title)
	if input.Exercise.Instructions != "" {
		fmt.Fprintf(&b, "Instructions: %s\n", input.Exercise.Instructions)
	}
	fmt.Fprintf(&b, "Skill being trained: %s\n", input.Name)
	fmt.Fprintf(&b, "Learner level: %s\n", input.Tier.Label())
	if input.Score.Attempts > 0 {
		fmt.Fprintf(&b, "Learner accuracy on this skill: %.0f%% over %d attempts\n",
			input.Score.AverageAccuracy*100, input.Score.Attempts)
	} else {
		b.WriteString("Learner accuracy on this skill: no attempts yet\n")
	}

	writeStories(&b, input.Stories, false)

	b.WriteString(`
Instructions:
Write one hint of one or two sentences. Name the factor the learner should weigh most (size, uncertainty, hidden work, splitting, team disagreement). Do not state any point values.`)

	return b.String()
}

const feedbackSystemPrompt = `You are an experienced agile coach reviewing a developer's story point estimation practice. Be specific and brief.`

func buildFeedbackUserMessage(input FeedbackInput) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Exercise: %s\n", input.Exercise.Title)
	fmt.Fprintf(&b, "Learner accuracy: %.0f%%\n", input.Accuracy*100)

	writeStories(&b, input.Stories, true)

	b.WriteString(`
Instructions:
1. Explain in 2-4 sentences what drove the reference estimates for these stories.
2. Give up to 3 concrete tips the learner can apply on the next exercise.`)

	return b.String()
}

func writeStories(b *strings.Builder, stories []content.Item, withPoints bool) {
	if len(stories) == 0 {
		return
	}
	b.WriteString("\nStories:\n")
	for _, s := range stories {
		fmt.Fprintf(b, "- %s", s.Title)
		if s.Description != "" {
			fmt.Fprintf(b, ": %s", s.Description)
		}
		c := s.Complexity
		fmt.Fprintf(b, " (technical %s, business %s, uncertainty %s",
			c.Technical.Normalize(), c.Business.Normalize(), c.Uncertainty.Normalize())
		if withPoints && s.Points > 0 {
			fmt.Fprintf(b, ", reference %d points", s.Points)
		}
		b.WriteString(")\n")
		if s.Ambiguous() {
			b.WriteString("  Team estimates: ")
			b.WriteString(s.TeamEstimates())
			b.WriteString("\n")
		}
	}
}

// summaryLine is the feedback shown without an LLM.
func summaryLine(input FeedbackInput) string {
	verdict := "Keep practising"
	if input.Success {
		verdict = "Good estimate"
	}
	line := fmt.Sprintf("%s: %.0f%% accuracy.", verdict, input.Accuracy*100)

	var mastered []string
	for _, o := range input.Outcomes {
		if o.NewlyMastered {
			mastered = append(mastered, string(o.Checkpoint))
		}
	}
	if len(mastered) > 0 {
		line += " Mastered " + strings.Join(mastered, ", ") + "!"
	}
	return line
}
