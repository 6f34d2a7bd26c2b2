package assessment

import (
	"fmt"
	"strings"

	"github.com/mindweave/mindweave/internal/core/model"
)

func questionsPrompt(nodeContent, nodeLabel string, parents, children []model.NodeContext) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are an educational assessment expert creating questions to test knowledge about: %q.\n\n", nodeLabel)
	fmt.Fprintf(&b, "Here is the content about this topic:\n%q\n\n", nodeContent)

	if len(parents) > 0 {
		b.WriteString("This topic is related to the following parent topics:\n")
		for _, p := range parents {
			fmt.Fprintf(&b, "- %s: %s\n", p.Label, p.Content)
		}
	}
	if len(children) > 0 {
		b.WriteString("This topic has the following subtopics:\n")
		for _, c := range children {
			fmt.Fprintf(&b, "- %s: %s\n", c.Label, c.Content)
		}
	}

	fmt.Fprintf(&b, `
Based on this content, create 1-3 open-ended questions that test understanding of %q.

Guidelines:
- Questions should test deep understanding, not just recall
- Questions should be answerable from the provided content
- Questions should encourage critical thinking
- Include a variety of difficulty levels

Format your response as a JSON array of questions with this structure:
[
  {"text": "Your first question here?"},
  {"text": "Your second question here?"}
]

Only return the valid JSON array, nothing else.
`, nodeLabel)

	return b.String()
}

func evaluationPrompt(question, answer, nodeContent string) string {
	return fmt.Sprintf(`You are an expert educational evaluator. Your task is to evaluate a student's answer to a question about a specific topic.

Topic content: %q

Question: %q

Student's answer: %q

First, evaluate the student's answer. Consider:
- Is the answer factually correct?
- Does it demonstrate understanding of the topic?
- Is it complete?
- Does it show critical thinking?

Then, assign a grade from 0 to 100 where:
- 0-60: Poor understanding
- 61-79: Partial understanding
- 80-89: Good understanding
- 90-100: Excellent understanding

Provide your feedback as a JSON object with this structure:
{
  "feedback": "Your detailed feedback here, explaining strengths and weaknesses of the answer, and how it could be improved.",
  "grade": 85,
  "passed": true
}

The "passed" field should be true if the grade is 80 or above, false otherwise.
Only return the valid JSON object, nothing else.`, nodeContent, question, answer)
}
