package engine

import (
	_ "embed"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

//go:embed aliases.yaml
var aliasesYAML []byte

type aliasTable struct {
	Aliases map[string]string `yaml:"aliases"`
}

var businessAliases = loadAliases()

func loadAliases() map[string]string {
	var table aliasTable
	if err := yaml.Unmarshal(aliasesYAML, &table); err != nil {
		panic("engine: parse embedded alias table: " + err.Error())
	}
	return table.Aliases
}

var titleCaser = cases.Title(language.AmericanEnglish)

// NormalizeBusinessType expands shorthand business types through the alias
// table and tames all-caps input. Unrecognized types pass through with
// whitespace trimmed.
func NormalizeBusinessType(businessType string) string {
	trimmed := strings.TrimSpace(businessType)
	if expanded, ok := businessAliases[strings.ToLower(trimmed)]; ok {
		return expanded
	}
	if trimmed != "" && trimmed == strings.ToUpper(trimmed) && trimmed != strings.ToLower(trimmed) {
		return titleCaser.String(strings.ToLower(trimmed))
	}
	return trimmed
}
