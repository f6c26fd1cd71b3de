package llm

import "fmt"

// systemPrompt frames the model as a project analyst that must answer
// with nothing but a JSON object.
const systemPrompt = `You are an expert technical analyst who reviews software repositories and distills them into presentation-ready facts. You always respond with a single valid JSON object and nothing else: no prose, no markdown fences, no commentary before or after the JSON.`

const analysisPromptTemplate = `Analyze the following repository digest and extract the key facts needed to build a pitch-style slide deck about the project.

Respond with a single JSON object containing exactly these keys:

{
  "project_name": "short name of the project",
  "tagline": "one memorable sentence describing the project",
  "problem": "the problem this project solves, 2-3 sentences",
  "solution": "how the project solves it, 2-3 sentences",
  "tech_stack": ["list", "of", "technologies", "used"],
  "key_features": ["list of the most important features"],
  "innovation": "what is novel or clever about the approach",
  "architecture": "brief description of how the system is structured",
  "demo_highlights": ["list of things worth showing in a live demo"],
  "future_scope": ["list of plausible future improvements"]
}

Every key is required and must be non-empty. Arrays must contain at least one entry. Base every fact on the digest below; do not invent capabilities the code does not show.

Repository digest:

%s`

func analysisPrompt(digest string) string {
	return fmt.Sprintf(analysisPromptTemplate, digest)
}
