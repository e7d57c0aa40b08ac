package server

import (
	_ "embed"
	"html/template"
	"log"
)

var (
	//go:embed index.html
	indexSource string
	//go:embed notfound.html
	notFoundSource string
	//go:embed error.html
	errorSource string
)

var (
	Index    *template.Template
	NotFound *template.Template
	Error    *template.Template
)

func init() {
	Index = parse("index", indexSource)
	NotFound = parse("notfound", notFoundSource)
	Error = parse("error", errorSource)
}

func parse(name, text string) *template.Template {
	tmpl, err := template.New(name).Parse(text)

	if err != nil {
		log.Fatal(err)
	}

	return tmpl
}
