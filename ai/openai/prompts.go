package openai

import (
	"fmt"

	"github.com/poiesic/psenrich/ai"
)

const analysisPromptTemplate = `You review hackathon problem statements and describe what building a solution involves. Return JSON only.

Output ONLY valid JSON which complies with the schema given below. Do not include any preamble, explanation,
greeting, or acknowledgment. Start your response directly with the opening brace { and end with the closing
brace }. Your output must exactly follow this schema:

%s

Rules:
- tags: 3-8 short lowercase topic labels (domain, users, problem area).
- techStack: technologies a team would plausibly use, most important first.
- summary: two or three plain sentences restating the problem and the expected solution.
- approach: ordered high-level steps to build the solution.
- difficultyLevel: exactly one of easy, medium or hard, judged for a student team with 36 hours.
- Use only what the problem statement states or clearly implies. Do not invent organizations, datasets or links.
- The JSON must parse without errors; no trailing commas and no extraneous text outside the object.

Example:
Input:
Title: Flood early warning
Description: Villages along the river get no warning before floods.
Organization: Ministry of Jal Shakti
Category: Software
Theme: Disaster Management

Output:
{
  "tags": ["disaster management", "flood", "early warning", "rural"],
  "techStack": ["Python", "MQTT", "PostgreSQL", "SMS gateway"],
  "summary": "Villages near rivers are not warned before floods. Build a system that reads river level sensors and alerts residents ahead of time.",
  "approach": ["collect river level data from sensors", "define alert thresholds", "send SMS and app alerts", "build a dashboard for officials"],
  "difficultyLevel": "medium"
}`

// buildSystemPrompt creates the system prompt with the response schema embedded.
func buildSystemPrompt() string {
	return fmt.Sprintf(analysisPromptTemplate, ai.AnalysisSchema)
}
