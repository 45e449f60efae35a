package app

import (
	"bytes"
	// blank import for embeds
	_ "embed"
	"text/template"

	"github.com/alessio/shellescape"

	"github.com/dockerapp/dockerapp/pkg/variables"
)

//go:embed embed/apply_variables.sh.tmpl
var applyVariablesScript string

var applyVariablesTemplate = template.Must(template.New("apply_variables").
	Funcs(template.FuncMap{"quote": shellescape.Quote}).
	Parse(applyVariablesScript))

type helperVariable struct {
	Name  string
	Value string
}

// renderApplyVariablesScript fills the helper script with the explicitly set variables,
// in the order they were set, and the path of the file to rewrite inside the image.
func renderApplyVariablesScript(vars *variables.Store, filePath string) ([]byte, error) {
	data := struct {
		Variables []helperVariable
		FilePath  string
	}{FilePath: filePath}

	for _, name := range vars.Names() {
		value, _ := vars.Get(name)
		data.Variables = append(data.Variables, helperVariable{Name: name, Value: value.String()})
	}

	var buf bytes.Buffer
	if err := applyVariablesTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
