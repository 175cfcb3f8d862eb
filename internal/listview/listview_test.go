package listview

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type entry struct {
	Name string
	Kind string
}

func entryFields(e entry) []string { return []string{e.Name} }

func TestFilterCaseInsensitiveSubstring(t *testing.T) {
	items := []entry{{Name: "Alpha"}, {Name: "Beta"}}

	got := Filter(items, "alp", entryFields)

	assert.Len(t, got, 1)
	assert.Equal(t, "Alpha", got[0].Name)
}

func TestFilterEmptyQueryReturnsAllInOrder(t *testing.T) {
	items := []entry{{Name: "c"}, {Name: "a"}, {Name: "b"}}

	got := Filter(items, "", entryFields)

	assert.Equal(t, items, got)
}

func TestFilterIdempotent(t *testing.T) {
	items := []entry{
		{Name: "Análise de Redes", Kind: "ARTIGO"},
		{Name: "Redes Neurais", Kind: "LIVRO"},
		{Name: "Banco de Dados", Kind: "ARTIGO"},
	}
	kind := Equals("ARTIGO", func(e entry) string { return e.Kind })

	once := Filter(items, "redes", entryFields, kind)
	twice := Filter(once, "redes", entryFields, kind)

	assert.Equal(t, once, twice)
	assert.Len(t, once, 1)
	assert.Equal(t, "Análise de Redes", once[0].Name)

	// The source is untouched.
	assert.Len(t, items, 3)
}

func TestFilterCategoricalExactMatch(t *testing.T) {
	items := []entry{{Kind: "DOCENTE"}, {Kind: "DISCENTE"}, {Kind: "DOCENTE"}}

	got := Filter(items, "", entryFields, Equals("DOCENTE", func(e entry) string { return e.Kind }))
	assert.Len(t, got, 2)

	// "DOC" is not an exact category, so nothing matches.
	got = Filter(items, "", entryFields, Equals("DOC", func(e entry) string { return e.Kind }))
	assert.Empty(t, got)
}

func TestFilterEmptySelectionMeansNoConstraint(t *testing.T) {
	items := []entry{{Kind: "DOCENTE"}, {Kind: "DISCENTE"}}

	assert.Nil(t, Equals("", func(e entry) string { return e.Kind }))
	got := Filter(items, "", entryFields, Equals("", func(e entry) string { return e.Kind }))
	assert.Equal(t, items, got)
}

func TestFilterQueryAndPredicateCombined(t *testing.T) {
	items := []entry{
		{Name: "Maria Silva", Kind: "DOCENTE"},
		{Name: "Maria Souza", Kind: "DISCENTE"},
		{Name: "João Lima", Kind: "DOCENTE"},
	}

	got := Filter(items, "maria", entryFields, Equals("DOCENTE", func(e entry) string { return e.Kind }))

	assert.Len(t, got, 1)
	assert.Equal(t, "Maria Silva", got[0].Name)
}

func TestSumByAndCountBy(t *testing.T) {
	type grant struct{ Value float64 }
	grants := []grant{{100.5}, {200}, {0}}

	assert.InDelta(t, 300.5, SumBy(grants, func(g grant) float64 { return g.Value }), 1e-9)
	assert.Equal(t, 2, CountBy(grants, func(g grant) bool { return g.Value > 0 }))
	assert.Equal(t, 3, CountBy(grants, nil))
}

func TestEmptiness(t *testing.T) {
	assert.Equal(t, NotEmpty, Emptiness(3, 2))
	assert.Equal(t, NothingLoaded, Emptiness(0, 0))
	assert.Equal(t, FilteredOut, Emptiness(3, 0))
}
