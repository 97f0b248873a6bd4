package prompts

import (
	"embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// embeds all .yaml files in the templates folder into the binary at compile time
//
//go:embed templates/*.yaml
var templateFS embed.FS

// PromptProvider builds prompts from named templates.
type PromptProvider interface {
	BuildPrompt(name, section string, data map[string]string) (string, error)
	Templates() []string
}

type Manager struct {
	prompts map[string]map[string]string // template name -> section -> complete prompt
}

// loaded prompt template
type promptTemplate struct {
	BasePrompt string            `yaml:"base_prompt"`
	Sections   map[string]string `yaml:"sections"`
}

// creates a new prompt manager and loads templates
func NewManager() (*Manager, error) {
	m := &Manager{
		prompts: make(map[string]map[string]string),
	}

	if err := m.loadPrompts(); err != nil {
		return nil, fmt.Errorf("failed to load prompt templates: %w", err)
	}

	return m, nil
}

// BuildPrompt assembles the prompt for the given template and section.
// Placeholders use the {{.Name}} form and are filled by plain string
// replacement; unknown placeholders are left as-is.
func (m *Manager) BuildPrompt(name, section string, data map[string]string) (string, error) {
	sections, exists := m.prompts[name]
	if !exists {
		return "", fmt.Errorf("template not found: %s", name)
	}

	prompt, exists := sections[section]
	if !exists {
		return "", fmt.Errorf("section '%s' not found for template '%s'", section, name)
	}

	for key, value := range data {
		prompt = strings.ReplaceAll(prompt, "{{."+key+"}}", value)
	}

	return prompt, nil
}

// Templates returns the names of the loaded templates.
func (m *Manager) Templates() []string {
	names := make([]string, 0, len(m.prompts))
	for name := range m.prompts {
		names = append(names, name)
	}
	return names
}

// loadPrompts loads all YAML prompt files from the embedded filesystem
func (m *Manager) loadPrompts() error {
	entries, err := templateFS.ReadDir("templates")
	if err != nil {
		return fmt.Errorf("failed to read templates directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}

		data, err := templateFS.ReadFile("templates/" + entry.Name())
		if err != nil {
			return fmt.Errorf("failed to read template file %s: %w", entry.Name(), err)
		}

		var tpl promptTemplate
		if err := yaml.Unmarshal(data, &tpl); err != nil {
			return fmt.Errorf("failed to parse template file %s: %w", entry.Name(), err)
		}

		name := strings.TrimSuffix(entry.Name(), ".yaml")
		m.prompts[name] = make(map[string]string)

		for section, text := range tpl.Sections {
			var full strings.Builder
			if tpl.BasePrompt != "" {
				full.WriteString(strings.TrimSpace(tpl.BasePrompt))
				full.WriteString("\n\n")
			}
			full.WriteString(strings.TrimSpace(text))

			m.prompts[name][section] = full.String()
		}
	}

	return nil
}
