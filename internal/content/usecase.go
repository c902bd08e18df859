package content

import "github.com/abhisek/skillpilot/internal/skillgraph"

// UseCase is a hands-on pilot that verifies a set of skills when completed.
type UseCase struct {
	ID             string                `yaml:"id" json:"id"`
	Title          string                `yaml:"title" json:"title"`
	Domain         skillgraph.Domain     `yaml:"domain" json:"domain"`
	Context        string                `yaml:"context" json:"context"`
	Difficulty     skillgraph.Difficulty `yaml:"difficulty" json:"difficulty"`
	EstimatedHours int                   `yaml:"estimatedHours" json:"estimatedHours"`
	RequiredSkills []string              `yaml:"requiredSkills" json:"requiredSkills"`
	PreviewURL     string                `yaml:"previewUrl" json:"previewUrl,omitempty"`
	Cookbook       []string              `yaml:"cookbook" json:"cookbook,omitempty"`
}
