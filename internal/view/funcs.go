package view

import "html/template"

// FuncMap returns the helpers available to every page template.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"gravatar": Gravatar,
		"richText": RichText,
		"add": func(a, b int) int {
			return a + b
		},
	}
}
