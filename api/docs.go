package api

import (
	"html/template"
	"net/http"
)

// DocsUI selects the documentation renderer.
type DocsUI int

// Supported documentation renderers.
const (
	SwaggerUI DocsUI = iota
	ReDoc
)

// DocsOption configures the docs UI.
type DocsOption func(*docsConfig)

type docsConfig struct {
	title   string
	specURL string
	ui      DocsUI
}

// WithDocsTitle sets the page title for the docs UI.
func WithDocsTitle(title string) DocsOption {
	return func(c *docsConfig) {
		c.title = title
	}
}

// WithDocsSpecURL points the docs UI at a spec served somewhere other than
// /openapi.json.
func WithDocsSpecURL(url string) DocsOption {
	return func(c *docsConfig) {
		c.specURL = url
	}
}

// WithDocsUI selects the renderer. Swagger UI is the default.
func WithDocsUI(ui DocsUI) DocsOption {
	return func(c *docsConfig) {
		c.ui = ui
	}
}

var docsTemplates = map[DocsUI]*template.Template{
	SwaggerUI: template.Must(template.New("swagger").Parse(swaggerHTML)),
	ReDoc:     template.Must(template.New("redoc").Parse(redocHTML)),
}

// ServeDocs serves an interactive API documentation page at the given path,
// rendered from the router's OpenAPI spec.
func (r *Router) ServeDocs(path string, opts ...DocsOption) {
	cfg := &docsConfig{
		title:   r.title,
		specURL: "/openapi.json",
	}
	for _, opt := range opts {
		opt(cfg)
	}

	tmpl, ok := docsTemplates[cfg.ui]
	if !ok {
		tmpl = docsTemplates[SwaggerUI]
	}

	r.handle("GET "+path, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		//nolint:errcheck,gosec // best-effort template render
		tmpl.Execute(w, cfg)
	}))
}

const swaggerHTML = `<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{.Title}}</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css">
</head>
<body>
  <div id="swagger-ui" data-spec-url="{{.SpecURL}}"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    const el = document.getElementById("swagger-ui");
    window.ui = SwaggerUIBundle({url: el.dataset.specUrl, dom_id: "#swagger-ui"});
  </script>
</body>
</html>`

const redocHTML = `<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{.Title}}</title>
</head>
<body>
  <redoc spec-url="{{.SpecURL}}"></redoc>
  <script src="https://cdn.redoc.ly/redoc/latest/bundles/redoc.standalone.js"></script>
</body>
</html>`

// Title returns the docs config title (used in the template).
func (c *docsConfig) Title() string { return c.title }

// SpecURL returns the docs config spec URL (used in the template).
func (c *docsConfig) SpecURL() string { return c.specURL }
