package setup

import (
	"bytes"
	"strings"
	"text/template"
)

var wrapperTemplate = template.Must(template.New("wrapper").Funcs(template.FuncMap{
	"quote": shellQuote,
	"ref":   func(name string) string { return "${" + name + ":-}" },
}).Parse(`#!/bin/sh
# Generated by shipit setup. Rerun it to rotate the token.
set -e

cd "$(dirname "$0")"

if [ ! -f {{quote .EnvFile}} ]; then
	echo "{{.EnvFile}} not found, run: shipit setup <token>" >&2
	exit 1
fi

set -a
. {{quote (printf "./%s" .EnvFile)}}
set +a

if [ -z "{{ref .TokenEnv}}" ]; then
	echo "{{.TokenEnv}} is empty in {{.EnvFile}}" >&2
	exit 1
fi
export {{.TokenEnv}}

exec {{quote .Binary}} deploy "$@"
`))

type wrapperData struct {
	EnvFile  string
	TokenEnv string
	Binary   string
}

func renderWrapper(data wrapperData) ([]byte, error) {
	var buf bytes.Buffer
	if err := wrapperTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// shellQuote wraps s in single quotes for POSIX sh.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
