// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package web

// dashboardHTML is the single-page dashboard. Kept inline so the binary
// is self-contained.
const dashboardHTML = `<!DOCTYPE html>
<html>
<head>
<title>Grad Admissions Dashboard</title>
<style>
body { font-family: sans-serif; max-width: 880px; margin: 2rem auto; }
table { border-collapse: collapse; margin: 1rem 0; }
td, th { border: 1px solid #ccc; padding: 0.3rem 0.8rem; text-align: left; }
.message { color: #444; font-style: italic; }
.busy { color: #a60; }
button { margin-right: 0.5rem; }
</style>
</head>
<body>
<h1>Grad Admissions Dashboard</h1>

<form method="post" action="/pull-data" style="display:inline">
  <button type="submit" {{if .Busy}}disabled{{end}}>Pull Data</button>
</form>
<form method="post" action="/update-analysis" style="display:inline">
  <button type="submit" {{if .Busy}}disabled{{end}}>Update Analysis</button>
</form>

{{if .Busy}}<p class="busy">Working: {{.State}}&hellip;</p>{{end}}
{{if .Message}}<p class="message">{{.Message}}</p>{{end}}

{{if .Metrics}}
<h2>Overview</h2>
<table>
<tr><th>Total applicants</th><td>{{.Metrics.Total}}</td></tr>
<tr><th>{{.Metrics.CycleTerm}} entries</th><td>{{.Metrics.CycleTermCount}}</td></tr>
{{with .Metrics.PctInternational}}<tr><th>International</th><td>{{.}}%</td></tr>{{end}}
{{with .Metrics.AvgGPA}}<tr><th>Average GPA</th><td>{{.}}</td></tr>{{end}}
{{with .Metrics.AvgGRE}}<tr><th>Average GRE</th><td>{{.}}</td></tr>{{end}}
{{with .Metrics.AvgGREV}}<tr><th>Average GRE V</th><td>{{.}}</td></tr>{{end}}
{{with .Metrics.AvgGREAW}}<tr><th>Average GRE AW</th><td>{{.}}</td></tr>{{end}}
{{with .Metrics.AvgGPAAmericanCycle}}<tr><th>Avg GPA, American ({{$.Metrics.CycleTerm}})</th><td>{{.}}</td></tr>{{end}}
{{with .Metrics.AcceptancePct}}<tr><th>Acceptance rate ({{$.Metrics.CycleTerm}})</th><td>{{.}}%</td></tr>{{end}}
{{with .Metrics.AvgGPAAccepted}}<tr><th>Avg GPA, accepted</th><td>{{.}}</td></tr>{{end}}
<tr><th>JHU masters CS entries</th><td>{{.Metrics.JHUMastersCS}}</td></tr>
<tr><th>PhD CS acceptances (raw)</th><td>{{.Metrics.PhDCSAcceptRaw}}</td></tr>
<tr><th>PhD CS acceptances (LLM)</th><td>{{.Metrics.PhDCSAcceptLLM}}</td></tr>
</table>

<h2>Terms</h2>
<table>
{{range .Metrics.TermDist}}<tr><td>{{.Label}}</td><td>{{.Count}}</td></tr>{{end}}
</table>

<h2>Decisions</h2>
<table>
{{range .Metrics.DecisionDist}}<tr><td>{{.Label}}</td><td>{{.Count}}</td></tr>{{end}}
</table>

<h2>Top universities ({{.Metrics.CycleTerm}})</h2>
<table>
{{range .Metrics.TopUniversities}}<tr><td>{{.Label}}</td><td>{{.Count}}</td></tr>{{end}}
</table>
{{else}}
<p>No analysis yet. Pull data to get started.</p>
{{end}}

</body>
</html>
`
