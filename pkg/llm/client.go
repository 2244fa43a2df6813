package llm

// Provider is one text-generation backend. Complete takes a fully built
// prompt and returns prose; Probe is a cheap connectivity check used by
// the health endpoint.
type Provider interface {
	Complete(prompt string) (string, error)
	Probe() error
	Name() string
}

const analystSystemPrompt = "You are a senior business analyst providing concise market insights. " +
	"Focus on practical implications and actionable recommendations."
