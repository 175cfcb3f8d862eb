package ui

import (
	"strings"
	"testing"
)

func TestSimpleTable(t *testing.T) {
	table := NewSimpleTable("Projetos", []string{"Código", "Título"})
	table.AddRow("PROJ-001", "Redes Neurais")

	styles := DefaultStyles()
	view := table.View(styles)

	t.Logf("View:\n%q", view)

	if !strings.Contains(view, "Projetos") {
		t.Error("View missing title")
	}
	if !strings.Contains(view, "PROJ-001") {
		t.Error("View missing cell content")
	}
	if !strings.Contains(view, "Redes Neurais") {
		t.Error("View missing cell content")
	}
}

func TestSimpleTableEmptyWithoutMessage(t *testing.T) {
	table := NewSimpleTable("Vazia", []string{"A"})
	if view := table.View(DefaultStyles()); view != "" {
		t.Errorf("Expected empty view for empty table, got %q", view)
	}
}

func TestSimpleTableEmptyMessage(t *testing.T) {
	table := NewSimpleTable("Participantes", []string{"CPF"})
	table.Empty = "Nenhum participante cadastrado."

	view := table.View(DefaultStyles())
	if !strings.Contains(view, "Nenhum participante cadastrado.") {
		t.Errorf("Expected empty-state message, got %q", view)
	}
}
