package ui

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"sigpesq/internal/api"
)

// runLoad executes a page load command and returns every message it yields,
// flattening tea.Batch so the data message can be picked out next to the
// spinner tick.
func runLoad(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	switch m := cmd().(type) {
	case tea.BatchMsg:
		var out []tea.Msg
		for _, c := range m {
			out = append(out, c())
		}
		return out
	default:
		return []tea.Msg{m}
	}
}

// lookupRecorder records which list endpoints a page load hit, with the tipo
// query param when present.
func lookupRecorder(responses map[string]string) (http.Handler, func(path string) (string, bool)) {
	var mu sync.Mutex
	hits := map[string]string{}
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		hits[r.URL.Path] = r.URL.Query().Get("tipo")
		mu.Unlock()
		body, ok := responses[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, body)
	})
	return handler, func(path string) (string, bool) {
		mu.Lock()
		defer mu.Unlock()
		tipo, ok := hits[path]
		return tipo, ok
	}
}

func TestSelectorSentinelMeansNoConstraint(t *testing.T) {
	s := NewSelector("Tipo", "Todos", []string{"DOCENTE", "DISCENTE"})

	if s.Selection() != "" {
		t.Errorf("Sentinel must select nothing, got %q", s.Selection())
	}
	s = s.Next()
	if s.Selection() != "DOCENTE" {
		t.Errorf("Expected DOCENTE, got %q", s.Selection())
	}
	s = s.Next()
	s = s.Next()
	if s.Selection() != "" {
		t.Errorf("Cycling past the end must wrap to the sentinel, got %q", s.Selection())
	}
}

func TestSelectorSetOptionsResetsToSentinel(t *testing.T) {
	s := NewSelector("Agência", "Todas", nil)
	s = s.SetOptions([]string{"CNPQ", "FAPESP"})

	if s.Selection() != "" {
		t.Errorf("SetOptions must reset to the sentinel, got %q", s.Selection())
	}
	s = s.Next()
	if s.Selection() != "CNPQ" {
		t.Errorf("Expected CNPQ, got %q", s.Selection())
	}
}

func testParticipantes() []api.Participante {
	return []api.Participante{
		{CPF: "11111111111", Nome: "Ana Silva", Email: "ana@uni.br", Tipo: api.TipoDocente},
		{CPF: "22222222222", Nome: "Bruno Costa", Email: "bruno@uni.br", Tipo: api.TipoDiscente},
		{CPF: "33333333333", Nome: "Carla Dias", Email: "carla@uni.br", Tipo: api.TipoDocente},
	}
}

func TestParticipantsPageFiltersClientSide(t *testing.T) {
	p := NewParticipantsPage(nil, DefaultStyles(), 50*time.Millisecond)
	p, _ = p.Update(participantesMsg{items: testParticipantes()})

	if len(p.filtered) != 3 {
		t.Fatalf("Expected all rows before filtering, got %d", len(p.filtered))
	}

	// Categorical filter: t cycles Todos -> DISCENTE.
	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'t'}})
	if len(p.filtered) != 1 || p.filtered[0].Nome != "Bruno Costa" {
		t.Fatalf("Expected only the DISCENTE row, got %d rows", len(p.filtered))
	}

	// Free-text query combines with the categorical filter.
	p.search.query = "ana"
	p = p.refilter()
	if len(p.filtered) != 0 {
		t.Errorf("Query and type filter must both apply, got %d rows", len(p.filtered))
	}

	p.tipo = p.tipo.SetOptions([]string{"DISCENTE", "DOCENTE", "TECNICO"})
	p = p.refilter()
	if len(p.filtered) != 1 || p.filtered[0].Nome != "Ana Silva" {
		t.Errorf("Expected the ana match after clearing the type filter, got %d rows", len(p.filtered))
	}
}

func TestParticipantsPageCommittedQueryDrivesFilter(t *testing.T) {
	p := NewParticipantsPage(nil, DefaultStyles(), 50*time.Millisecond)
	p, _ = p.Update(participantesMsg{items: testParticipantes()})

	p.search, _ = p.search.Focus()
	for _, r := range "carla" {
		p, _ = p.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}

	// Nothing committed yet, the list is unchanged.
	if len(p.filtered) != 3 {
		t.Fatalf("Keystrokes alone must not filter, got %d rows", len(p.filtered))
	}

	p, cmd := p.Update(DebounceFiredMsg{ID: p.search.debounce.id, Gen: p.search.debounce.gen})
	if cmd == nil {
		t.Fatal("Commit must emit QueryChangedMsg")
	}
	p, _ = p.Update(cmd())

	if len(p.filtered) != 1 || p.filtered[0].Nome != "Carla Dias" {
		t.Errorf("Expected the carla row after commit, got %d rows", len(p.filtered))
	}
}

func TestProductionsPageYearAndTypeFilters(t *testing.T) {
	p := NewProductionsPage(nil, DefaultStyles(), 50*time.Millisecond)
	p, _ = p.Update(producoesMsg{items: []api.Producao{
		{IDRegistro: "r1", Titulo: "Artigo A", Tipo: "ARTIGO", AnoPublicacao: 2024},
		{IDRegistro: "r2", Titulo: "Livro B", Tipo: "LIVRO", AnoPublicacao: 2024},
		{IDRegistro: "r3", Titulo: "Artigo C", Tipo: "ARTIGO", AnoPublicacao: 2023},
	}})

	// t cycles Todos -> ARTIGO (distinct types sorted).
	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'t'}})
	if len(p.filtered) != 2 {
		t.Fatalf("Expected 2 ARTIGO rows, got %d", len(p.filtered))
	}

	// a cycles Todos -> 2024 (years sorted descending).
	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}})
	if len(p.filtered) != 1 || p.filtered[0].IDRegistro != "r1" {
		t.Errorf("Expected the 2024 ARTIGO row, got %d rows", len(p.filtered))
	}
}

func TestProjectsPageLoadFetchesCoordinatorCandidates(t *testing.T) {
	handler, hit := lookupRecorder(map[string]string{
		"/projetos/":      `[]`,
		"/participantes/": `[{"cpf":"11111111111","nome":"Ana Silva","email":"ana@uni.br","tipo":"DOCENTE"}]`,
	})
	srv := httptest.NewServer(handler)
	defer srv.Close()
	client := api.New(srv.URL, 5*time.Second, api.TokenFunc(func() string { return "tok" }))

	p := NewProjectsPage(client, DefaultStyles(), 50*time.Millisecond)
	p, cmd := p.Reload()

	var loaded bool
	for _, msg := range runLoad(cmd) {
		if m, ok := msg.(projetosMsg); ok {
			loaded = true
			p, _ = p.Update(m)
		}
	}
	if !loaded {
		t.Fatal("Load must yield the page data message")
	}
	if _, ok := hit("/projetos/"); !ok {
		t.Error("Load must fetch the project list")
	}
	if tipo, ok := hit("/participantes/"); !ok || tipo != "DOCENTE" {
		t.Errorf("Load must fetch DOCENTE coordinator candidates, got hit=%v tipo=%q", ok, tipo)
	}

	// n opens the form with the coordinator as a selector over the
	// candidates, not a free-text CPF.
	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}})
	if p.mode != modeForm {
		t.Fatal("n must open the project form")
	}
	if got := p.form.Value(6); got != "11111111111 · Ana Silva" {
		t.Errorf("Coordinator field must offer the fetched candidates, got %q", got)
	}
}

func TestProjectFormCoordinatorFallsBackToTextWhenNoCandidates(t *testing.T) {
	f := newProjectForm("Novo projeto", nil, nil)
	if f.fields[6].isSelect() {
		t.Error("Without candidates the coordinator field must stay free text")
	}

	existing := &api.Projeto{Codigo: "PROJ1", Titulo: "Projeto Um", Situacao: api.SituacaoEmAndamento, CoordenadorCPF: "22222222222"}
	f = newProjectForm("Editar projeto", existing, testParticipantes())
	if got := f.Value(6); got != "22222222222 · Bruno Costa" {
		t.Errorf("Editing must preselect the current coordinator, got %q", got)
	}
}

func TestProductionsPageLoadFetchesProjectCandidates(t *testing.T) {
	handler, hit := lookupRecorder(map[string]string{
		"/producoes/": `[]`,
		"/projetos/":  `[{"codigo":"PROJ1","titulo":"Projeto Um","data_inicio":"2024-01-01","situacao":"EM_ANDAMENTO","coordenador_cpf":"11111111111"}]`,
	})
	srv := httptest.NewServer(handler)
	defer srv.Close()
	client := api.New(srv.URL, 5*time.Second, api.TokenFunc(func() string { return "tok" }))

	p := NewProductionsPage(client, DefaultStyles(), 50*time.Millisecond)
	p, cmd := p.Reload()

	var loaded bool
	for _, msg := range runLoad(cmd) {
		if m, ok := msg.(producoesMsg); ok {
			loaded = true
			p, _ = p.Update(m)
		}
	}
	if !loaded {
		t.Fatal("Load must yield the page data message")
	}
	if _, ok := hit("/producoes/"); !ok {
		t.Error("Load must fetch the production list")
	}
	if _, ok := hit("/projetos/"); !ok {
		t.Error("Load must fetch the project candidates")
	}

	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}})
	if p.mode != modeForm {
		t.Fatal("n must open the production form")
	}
	fld := p.form.fields[3]
	if !fld.isSelect() {
		t.Fatal("Project field must be a selector over the fetched candidates")
	}
	if len(fld.Options) != 2 || fld.Options[0] != semVinculo || fld.Options[1] != "PROJ1" {
		t.Errorf("Selector must lead with the no-project option, got %v", fld.Options)
	}
}

func TestFundingPageSubtotalFollowsFilter(t *testing.T) {
	p := NewFundingPage(nil, DefaultStyles(), 50*time.Millisecond)
	p, _ = p.Update(financiamentosMsg{
		items: []api.Financiamento{
			{CodigoProcesso: "P1", AgenciaSigla: "CNPQ", TipoFomento: "AUXILIO", ValorTotal: 1000},
			{CodigoProcesso: "P2", AgenciaSigla: "FAPESP", TipoFomento: "BOLSA", ValorTotal: 500},
		},
		agencias: []api.Agencia{{Sigla: "CNPQ", Nome: "CNPq"}, {Sigla: "FAPESP", Nome: "Fapesp"}},
		total:    1500,
	})

	if len(p.filtered) != 2 {
		t.Fatalf("Expected both rows, got %d", len(p.filtered))
	}

	// a cycles Todas -> CNPQ.
	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}})
	if len(p.filtered) != 1 || p.filtered[0].CodigoProcesso != "P1" {
		t.Errorf("Expected only the CNPQ row, got %d rows", len(p.filtered))
	}
}
