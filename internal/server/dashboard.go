package server

import (
	"html/template"
	"io"

	"github.com/SmitUplenchwar2687/schedboard/internal/dashboard"
)

var dashboardTemplate = template.Must(template.New("dashboard").Parse(dashboardHTML))

func renderDashboard(w io.Writer, p dashboard.Page) error {
	return dashboardTemplate.Execute(w, p)
}

// dashboardHTML renders a Page server side; the script re-renders it from
// hub broadcasts and posts panel selections.
const dashboardHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>Interview Scheduler Dashboard</title>
<style>
  * { margin: 0; padding: 0; box-sizing: border-box; }
  body {
    font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
    background: #0d1117; color: #c9d1d9; padding: 20px;
  }
  h1 { color: #58a6ff; margin-bottom: 4px; font-size: 1.5em; }
  .subtitle { color: #8b949e; margin-bottom: 20px; font-size: 0.9em; }
  .status-value.connected { color: #3fb950; }
  .status-value.disconnected { color: #f85149; }
  .dashboard {
    display: grid; grid-template-columns: repeat(auto-fit, minmax(200px, 1fr));
    gap: 12px;
  }
  .dashboard--focused { grid-template-columns: 1fr; }
  .dashboard__card {
    background: #161b22; border: 1px solid #30363d; border-radius: 6px;
    padding: 24px 16px; text-align: center; cursor: pointer;
  }
  .dashboard__card:hover { border-color: #58a6ff; }
  .dashboard__card--focused { border-color: #d2a8ff; }
  .dashboard__card-data { font-size: 2em; font-weight: 700; color: #d2a8ff; }
  .dashboard__card-header { font-size: 0.85em; color: #8b949e; margin-bottom: 8px; text-transform: uppercase; }
  .loading { text-align: center; padding: 60px 20px; color: #8b949e; }
</style>
</head>
<body>
<h1>Interview Scheduler</h1>
<div class="subtitle">Live: <span class="status-value disconnected" id="conn-status">Disconnected</span></div>

<main id="root" data-version="{{.Version}}">
{{- if .Loading}}
  <div class="loading">Loading...</div>
{{- else}}
  <section class="dashboard{{if .Focused}} dashboard--focused{{end}}">
  {{- range .Panels}}
    <article class="dashboard__card{{if $.Focused}} dashboard__card--focused{{end}}" data-panel="{{.ID}}">
      <h2 class="dashboard__card-header">{{.Label}}</h2>
      <p class="dashboard__card-data">{{.Value}}</p>
    </article>
  {{- end}}
  </section>
{{- end}}
</main>

<script>
const root = document.getElementById('root');
let version = Number(root.dataset.version) || 0;

function escHtml(s) {
  const d = document.createElement('div');
  d.textContent = s;
  return d.innerHTML;
}

function render(page) {
  if (page.version < version) return;
  version = page.version;
  if (page.loading) {
    root.innerHTML = '<div class="loading">Loading...</div>';
    return;
  }
  const cards = page.panels.map(p =>
    '<article class="dashboard__card' + (page.focused ? ' dashboard__card--focused' : '') +
    '" data-panel="' + p.id + '">' +
    '<h2 class="dashboard__card-header">' + escHtml(p.label) + '</h2>' +
    '<p class="dashboard__card-data">' + escHtml(p.value) + '</p></article>').join('');
  root.innerHTML = '<section class="dashboard' + (page.focused ? ' dashboard--focused' : '') + '">' + cards + '</section>';
}

root.addEventListener('click', (e) => {
  const card = e.target.closest('[data-panel]');
  if (!card) return;
  fetch('/api/panels/' + card.dataset.panel + '/select', { method: 'POST' })
    .then(r => r.json())
    .then(page => { if (page && page.panels) render(page); });
});

function connect() {
  const proto = location.protocol === 'https:' ? 'wss:' : 'ws:';
  const ws = new WebSocket(proto + '//' + location.host + '/ws');
  const status = document.getElementById('conn-status');

  ws.onopen = () => {
    status.textContent = 'Connected';
    status.className = 'status-value connected';
  };

  ws.onclose = () => {
    status.textContent = 'Disconnected';
    status.className = 'status-value disconnected';
    setTimeout(connect, 2000);
  };

  ws.onmessage = (e) => render(JSON.parse(e.data));
}

connect();
</script>
</body>
</html>`
