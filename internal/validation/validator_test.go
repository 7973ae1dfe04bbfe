package validation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"uploader/internal/logger"
	"uploader/internal/models"
)

func TestValidateRows_CollectsAllFieldErrors(t *testing.T) {
	v := New(logger.NewNop())

	results := v.ValidateRows([]models.ProductRow{
		{Line: 2, Name: "Mug", Price: "9.99", StockQuantity: "10"},
		{Line: 3, Name: "", Price: "abc"},
	})

	require.Len(t, results, 2)

	require.True(t, results[0].Valid())
	assert.Equal(t, "Mug", results[0].Record.Name)
	assert.Equal(t, 9.99, results[0].Record.Price)
	assert.Equal(t, 10, results[0].Record.StockQuantity)

	require.False(t, results[1].Valid())
	assert.Nil(t, results[1].Record)
	fields := make([]string, 0, len(results[1].Errors))
	for _, fe := range results[1].Errors {
		fields = append(fields, fe.Field)
	}
	assert.Contains(t, fields, "name")
	assert.Contains(t, fields, "price")
}

func TestValidateRows_OneBadRowNeverStopsTheRest(t *testing.T) {
	v := New(logger.NewNop())

	results := v.ValidateRows([]models.ProductRow{
		{Line: 2, Name: "A", Price: "1"},
		{Line: 3, Name: "B", Price: "-5"},
		{Line: 4, Name: "C", Price: "3"},
	})

	require.Len(t, results, 3)
	assert.True(t, results[0].Valid())
	assert.False(t, results[1].Valid())
	assert.True(t, results[2].Valid())
	assert.Equal(t, []int{2, 3, 4}, []int{results[0].Line, results[1].Line, results[2].Line})
}

func TestValidateRows_PriceMustBeFinite(t *testing.T) {
	v := New(logger.NewNop())

	results := v.ValidateRows([]models.ProductRow{
		{Line: 2, Name: "A", Price: "NaN"},
		{Line: 3, Name: "B", Price: "Inf"},
		{Line: 4, Name: "C", Price: "-Inf"},
		{Line: 5, Name: "D", Price: "9.99"},
	})

	for i := 0; i < 3; i++ {
		require.False(t, results[i].Valid(), "row %d", results[i].Line)
		assert.Equal(t, "price", results[i].Errors[0].Field)
	}
	assert.True(t, results[3].Valid())
}

func TestValidateRows_StockQuantity(t *testing.T) {
	v := New(logger.NewNop())

	results := v.ValidateRows([]models.ProductRow{
		{Line: 2, Name: "A", Price: "1"},                        // absent defaults to 0
		{Line: 3, Name: "B", Price: "1", StockQuantity: "7"},    // valid
		{Line: 4, Name: "C", Price: "1", StockQuantity: "-1"},   // negative
		{Line: 5, Name: "D", Price: "1", StockQuantity: "many"}, // not an integer
	})

	assert.True(t, results[0].Valid())
	assert.Equal(t, 0, results[0].Record.StockQuantity)
	assert.True(t, results[1].Valid())
	assert.Equal(t, 7, results[1].Record.StockQuantity)
	assert.False(t, results[2].Valid())
	assert.False(t, results[3].Valid())
}

func TestValidateRows_ImagePaths(t *testing.T) {
	dir := t.TempDir()
	img1 := filepath.Join(dir, "a.jpg")
	img2 := filepath.Join(dir, "b.png")
	notes := filepath.Join(dir, "notes.txt")
	for _, path := range []string{img1, img2, notes} {
		require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	}

	v := New(logger.NewNop())

	t.Run("separated list of files", func(t *testing.T) {
		results := v.ValidateRows([]models.ProductRow{
			{Line: 2, Name: "A", Price: "1", ImagesPath: img1 + ";" + img2},
		})
		require.True(t, results[0].Valid())
		assert.Equal(t, []string{img1, img2}, results[0].Record.Images)
	})

	t.Run("directory is expanded sorted", func(t *testing.T) {
		results := v.ValidateRows([]models.ProductRow{
			{Line: 2, Name: "A", Price: "1", ImagesPath: dir},
		})
		require.True(t, results[0].Valid())
		assert.Equal(t, []string{img1, img2}, results[0].Record.Images)
	})

	t.Run("missing file is a field error, not an abort", func(t *testing.T) {
		results := v.ValidateRows([]models.ProductRow{
			{Line: 2, Name: "A", Price: "1", ImagesPath: filepath.Join(dir, "nope.jpg")},
			{Line: 3, Name: "B", Price: "2"},
		})
		require.False(t, results[0].Valid())
		assert.Equal(t, "images_path", results[0].Errors[0].Field)
		assert.True(t, results[1].Valid())
	})

	t.Run("non-image file is rejected", func(t *testing.T) {
		results := v.ValidateRows([]models.ProductRow{
			{Line: 2, Name: "A", Price: "1", ImagesPath: notes},
		})
		require.False(t, results[0].Valid())
	})
}

func TestValidateRows_CategoriesAndTrimming(t *testing.T) {
	v := New(logger.NewNop())

	results := v.ValidateRows([]models.ProductRow{
		{Line: 2, Name: "  Mug  ", Price: "1", Categories: "Kitchen; Gifts ,"},
	})

	require.True(t, results[0].Valid())
	assert.Equal(t, "Mug", results[0].Record.Name)
	assert.Equal(t, []string{"Kitchen", "Gifts"}, results[0].Record.Categories)
}
