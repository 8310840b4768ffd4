// Command genresponses writes response/statuses.go, the catalogue of one
// constructor per standard HTTP status.
//
//	go run ./internal/cmd/genresponses -o response/statuses.go
package main

import (
	"bytes"
	"flag"
	"go/format"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"text/template"
	"unicode"
)

// nameOverrides covers status texts that don't camel-case into a readable
// identifier.
var nameOverrides = map[int]string{
	http.StatusTeapot: "Teapot",
}

var ranges = [][2]int{{100, 451}, {500, 505}}

type status struct {
	Code int
	Name string
	Text string
}

const tmpl = `// Code generated by genresponses; DO NOT EDIT.

package response
{{range .}}
// {{.Name}} builds a {{.Code}} {{.Text}} response.
func {{.Name}}(body any, headers ...Headers) Response {
	return New({{.Code}}, body, headers...)
}
{{end}}`

func main() {
	out := flag.String("o", "response/statuses.go", "output file")
	flag.Parse()

	var statuses []status
	for _, r := range ranges {
		for code := r[0]; code <= r[1]; code++ {
			text := http.StatusText(code)
			if text == "" {
				continue
			}
			statuses = append(statuses, status{Code: code, Name: identifier(code, text), Text: text})
		}
	}

	var buf bytes.Buffer
	if err := template.Must(template.New("statuses").Parse(tmpl)).Execute(&buf, statuses); err != nil {
		slog.Error("render catalogue", "error", err)
		os.Exit(1)
	}
	src, err := format.Source(buf.Bytes())
	if err != nil {
		slog.Error("format catalogue", "error", err)
		os.Exit(1)
	}
	if err := os.WriteFile(*out, src, 0o644); err != nil {
		slog.Error("write catalogue", "file", *out, "error", err)
		os.Exit(1)
	}
	slog.Info("catalogue written", "file", *out, "statuses", len(statuses))
}

func identifier(code int, text string) string {
	if name, ok := nameOverrides[code]; ok {
		return name
	}
	words := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	var b strings.Builder
	for _, w := range words {
		b.WriteString(strings.ToUpper(w[:1]) + w[1:])
	}
	return b.String()
}
