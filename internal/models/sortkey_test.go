package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSortKey(t *testing.T) {
	cases := []struct {
		name     string
		expected string
	}{
		{"F. Scott Fitzgerald", "Fitzgerald, F. Scott"},
		{"Plato", "Plato"},
		{"Ursula K. Le Guin", "Guin, Ursula K. Le"},
		{"  Jane Austen  ", "Austen, Jane"},
		{"", ""},
	}

	for _, c := range cases {
		assert.Equal(t, c.expected, SortKey(c.name), "input %q", c.name)
	}
}

func TestSetNameRecomputesSortKey(t *testing.T) {
	a := Author{Name: "Old Name", SortKey: "Name, Old"}
	a.SetName("Mary Shelley")

	assert.Equal(t, "Mary Shelley", a.Name)
	assert.Equal(t, "Shelley, Mary", a.SortKey)
}
