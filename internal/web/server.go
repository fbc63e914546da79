// Package web serves a read-only status page over the known environments,
// showing the protect and envlock state side by side.
package web

import (
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"

	"github.com/rs/zerolog/log"

	"envguard/internal/host"
	"envguard/internal/model"
	"envguard/internal/registry"
	"envguard/internal/state"
)

// EnvironmentStatus is one row of the status page.
type EnvironmentStatus struct {
	Name      string `json:"Name"`
	Prefix    string `json:"Prefix"`
	Protected bool   `json:"Protected"`
	Locked    bool   `json:"Locked"`
}

// Server exposes the environment registry plus both flag stores.
type Server struct {
	ctx        host.Context
	guardStore state.Store
	lockStore  state.Store
}

// NewServer wires the status page to the host context and the two stores.
func NewServer(ctx host.Context, guardStore, lockStore state.Store) *Server {
	return &Server{ctx: ctx, guardStore: guardStore, lockStore: lockStore}
}

// Start serves on the given port until the listener fails.
func (s *Server) Start(port string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/api/environments", s.handleEnvironments)

	fmt.Printf("Starting envguard status page at http://localhost:%s\n", port)
	return http.ListenAndServe(":"+port, mux)
}

func (s *Server) collect() ([]EnvironmentStatus, error) {
	reg, err := registry.New(s.ctx)
	if err != nil {
		return nil, err
	}
	guarded, err := reg.Environments(s.guardStore)
	if err != nil {
		return nil, err
	}
	locked, err := reg.Environments(s.lockStore)
	if err != nil {
		return nil, err
	}

	lockedByPrefix := make(map[string]bool, len(locked))
	for _, env := range locked {
		lockedByPrefix[env.Prefix] = env.Guarded
	}

	var rows []EnvironmentStatus
	seen := make(map[string]bool)
	for _, env := range guarded {
		seen[env.Prefix] = true
		rows = append(rows, EnvironmentStatus{
			Name:      env.Name,
			Prefix:    env.Prefix,
			Protected: env.Guarded,
			Locked:    lockedByPrefix[env.Prefix],
		})
	}
	// Ledger entries for environments the registry no longer knows
	for _, env := range locked {
		if !seen[env.Prefix] {
			rows = append(rows, EnvironmentStatus{
				Name:   env.Name,
				Prefix: env.Prefix,
				Locked: env.Guarded,
			})
		}
	}
	return rows, nil
}

func (s *Server) handleEnvironments(w http.ResponseWriter, r *http.Request) {
	rows, err := s.collect()
	if err != nil {
		log.Error().Err(err).Msg("environment listing failed")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	response := struct {
		Environments []EnvironmentStatus
		Version      string
	}{rows, model.Version}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

var indexTemplate = template.Must(template.New("index").Parse(`<!doctype html>
<html>
<head><title>envguard</title>
<style>
body { font-family: sans-serif; margin: 2em; }
table { border-collapse: collapse; }
th, td { border: 1px solid #ccc; padding: 0.4em 0.8em; text-align: left; }
th { background: #7d56f4; color: #fafafa; }
.empty { color: #999; }
</style>
</head>
<body>
<h1>envguard {{.Version}}</h1>
<table>
<tr><th>Name</th><th>Prefix</th><th>Protected</th><th>Locked</th></tr>
{{range .Environments}}
<tr>
<td>{{if .Name}}{{.Name}}{{else}}<span class="empty">-</span>{{end}}</td>
<td>{{.Prefix}}</td>
<td>{{if .Protected}}&#128272; protected{{end}}</td>
<td>{{if .Locked}}&#128274; locked{{end}}</td>
</tr>
{{end}}
</table>
</body>
</html>
`))

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	rows, err := s.collect()
	if err != nil {
		log.Error().Err(err).Msg("environment listing failed")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	data := struct {
		Environments []EnvironmentStatus
		Version      string
	}{rows, model.Version}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, data); err != nil {
		log.Error().Err(err).Msg("template render failed")
	}
}
