package state

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bitfsorg/libreferral-go/catalog"
)

func mustCatalog(t *testing.T, doc *Document) *catalog.Catalog {
	t.Helper()
	c, err := catalog.New(doc.Products)
	require.NoError(t, err)
	return c
}
