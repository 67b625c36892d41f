package report

import (
	"html/template"
	"io"

	"github.com/gremlins-go/gremlins/internal/aggregate"
)

var htmlTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>gremlins mutation report</title>
<style>
body { font-family: -apple-system, sans-serif; margin: 2rem; color: #1a1a1a; }
table { border-collapse: collapse; width: 100%; margin-bottom: 2rem; }
th, td { border: 1px solid #ddd; padding: 0.4rem 0.6rem; text-align: left; }
th { background: #f4f4f4; }
.score { font-size: 2rem; font-weight: bold; }
.zapped { color: #2e7d32; }
.survived { color: #c62828; }
</style>
</head>
<body>
<h1>Mutation Report</h1>
<p class="score">{{printf "%.1f" .Percentage}}%</p>
<table>
<tr><th>Total</th><th>Zapped</th><th>Survived</th><th>Timeout</th><th>Error</th></tr>
<tr><td>{{.Total}}</td><td class="zapped">{{.Zapped}}</td><td class="survived">{{.Survived}}</td><td>{{.Timeout}}</td><td>{{.Error}}</td></tr>
</table>
<h2>By file</h2>
<table>
<tr><th>Path</th><th>Total</th><th>Zapped</th><th>Survived</th><th>Score</th></tr>
{{range .ByFile}}<tr><td>{{.Path}}</td><td>{{.Total}}</td><td class="zapped">{{.Zapped}}</td><td class="survived">{{.Survived}}</td><td>{{printf "%.1f" .Percentage}}%</td></tr>
{{end}}
</table>
<h2>Top survivors</h2>
<table>
<tr><th>id</th><th>operator</th><th>file</th><th>line</th><th>description</th></tr>
{{range .Survivors}}<tr><td>{{.ID}}</td><td>{{.Operator}}</td><td>{{.Path}}</td><td>{{.Line}}</td><td>{{.Description}}</td></tr>
{{end}}
</table>
</body>
</html>
`))

// RenderHTML writes a static HTML mutation report to w, the --gremlin-
// report=html format spec.md §6 names.
func RenderHTML(w io.Writer, score *aggregate.MutationScore) error {
	return htmlTemplate.Execute(w, score)
}
