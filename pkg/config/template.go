package config

// TemplateHeader is the comment block written above a generated config file.
const TemplateHeader = `# rst2gem configuration.
# Raw blocks in the listed formats are reproduced verbatim; all others are
# discarded. Set detect_language to label unmarked literal blocks with a
# detected language. admonition_labels overrides the default callout titles.`

// Template returns a commented default configuration file.
func Template() ([]byte, error) {
	body, err := Default().ToYAML()
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, len(TemplateHeader)+1+len(body))
	out = append(out, TemplateHeader...)
	out = append(out, '\n')
	out = append(out, body...)
	return out, nil
}
