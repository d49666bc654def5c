package grafana

import "regexp"

var templateToken = regexp.MustCompile(`\$\w+`)

// Resolver substitutes $name tokens in panel titles with the dashboard's
// current template-variable values. Unknown tokens pass through unchanged.
type Resolver struct {
	values map[string]string
}

func NewResolver(vars []TemplateVariable) *Resolver {
	values := make(map[string]string, len(vars))
	for _, v := range vars {
		values["$"+v.Name] = v.Current
	}
	return &Resolver{values: values}
}

func (r *Resolver) Resolve(title string) string {
	return templateToken.ReplaceAllStringFunc(title, func(tok string) string {
		if v, ok := r.values[tok]; ok {
			return v
		}
		return tok
	})
}
