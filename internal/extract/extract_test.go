package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListings(t *testing.T) {
	t.Run("Basic Page", func(t *testing.T) {
		page := `<html><body>
			<a href="/vi/1001" title="Sofa">Sofa listing</a>
			<a href="/vi/1002">Chair</a>
		</body></html>`

		listings := Listings(page, "https://example.test/search")
		require.Len(t, listings, 2)

		assert.Equal(t, Listing{ID: "1001", Title: "Sofa", Link: "https://example.test/vi/1001"}, listings[0])
		assert.Equal(t, Listing{ID: "1002", Title: "Chair", Link: "https://example.test/vi/1002"}, listings[1])
	})

	t.Run("Deterministic", func(t *testing.T) {
		page := `<a href="/vi/5" title="A">A</a><a href="/vi/6" title="B">B</a>`
		first := Listings(page, "https://example.test/search")
		second := Listings(page, "https://example.test/search")
		assert.Equal(t, first, second)
	})

	t.Run("Duplicate Ids Keep First Occurrence", func(t *testing.T) {
		page := `<html><body>
			<a href="/vi/42" title="First title">x</a>
			<a href="/vi/42?ref=promo" title="Second title">y</a>
		</body></html>`

		listings := Listings(page, "https://example.test/search")
		require.Len(t, listings, 1)
		assert.Equal(t, "42", listings[0].ID)
		assert.Equal(t, "First title", listings[0].Title)
	})

	t.Run("Absolute And Relative Links Resolve", func(t *testing.T) {
		page := `<html><body>
			<a href="https://other.example/vi/7" title="Absolute">x</a>
			<a href="./vi/8" title="Relative">y</a>
		</body></html>`

		listings := Listings(page, "https://example.test/l/minsk/")
		require.Len(t, listings, 2)
		assert.Equal(t, "https://other.example/vi/7", listings[0].Link)
		assert.Equal(t, "https://example.test/l/minsk/vi/8", listings[1].Link)
	})

	t.Run("Title Falls Back To Collapsed Anchor Text", func(t *testing.T) {
		page := `<a href="/vi/77"><span> Nice   sofa </span>
			<b>cheap</b></a>`

		listings := Listings(page, "https://example.test/search")
		require.Len(t, listings, 1)
		assert.Equal(t, "Nice sofa cheap", listings[0].Title)
	})

	t.Run("Non-Matching And Malformed Links Skipped", func(t *testing.T) {
		page := `<html><body>
			<a href="/vi/abc" title="No digits">x</a>
			<a href="http://%zz/vi/9" title="Unparseable href">y</a>
			<a href="/about" title="Unrelated">z</a>
			<a href="/vi/500" title="Kept">kept</a>
		</body></html>`

		listings := Listings(page, "https://example.test/search")
		require.Len(t, listings, 1)
		assert.Equal(t, "500", listings[0].ID)
	})

	t.Run("Malformed Markup Does Not Panic", func(t *testing.T) {
		page := `<html><body><a href="/vi/1" title="Ok">ok<div></span></a><table><a href="/vi/2" title="Also">`

		listings := Listings(page, "https://example.test/search")
		assert.NotEmpty(t, listings)
		assert.Equal(t, "1", listings[0].ID)
	})

	t.Run("Empty Page", func(t *testing.T) {
		assert.Empty(t, Listings("", "https://example.test/search"))
		assert.Empty(t, Listings("<html><body>nothing here</body></html>", "https://example.test/search"))
	})

	t.Run("Invalid Base URL", func(t *testing.T) {
		page := `<a href="/vi/1" title="A">A</a>`
		assert.Empty(t, Listings(page, "http://%zz"))
	})
}
