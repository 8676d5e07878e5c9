package ner

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilter(t *testing.T) {
	in := []Entity{
		{Text: "Apple", Label: "ORG"},
		{Text: "Tim Cook", Label: "PERSON"},
		{Text: "NASA", Label: "org"},
		{Text: " ", Label: "ORG"},
	}
	got := Filter(in, LabelOrganization)
	assert.Equal(t, []Entity{{Text: "Apple", Label: "ORG"}, {Text: "NASA", Label: "org"}}, got)
	assert.Empty(t, Filter(nil, LabelOrganization))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "héll", Truncate("héllo", 4))
	assert.Equal(t, "hello", Truncate("hello", 10))
	assert.Equal(t, "hello", Truncate("hello", 0))
}
