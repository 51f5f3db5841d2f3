package session

import (
	"testing"

	"github.com/grovetools/sessionsync/errors"
	"github.com/grovetools/sessionsync/pkg/models"
	"github.com/grovetools/sessionsync/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCatalogFile(t *testing.T) {
	want := []models.Product{
		{ID: "a", Name: "Mug", Price: 12.5, Description: "Ceramic"},
		{ID: "b", Name: "Pen", Price: 2, Description: "Blue ink", Image: "/pen.png"},
	}

	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"yaml list", "catalog.yml", `
- id: a
  name: Mug
  price: 12.5
  description: Ceramic
- id: b
  name: Pen
  price: 2
  description: Blue ink
  image: /pen.png
`},
		{"yaml document", "catalog.yaml", `
products:
  - {id: a, name: Mug, price: 12.5, description: Ceramic}
  - {id: b, name: Pen, price: 2, description: Blue ink, image: /pen.png}
`},
		{"toml", "catalog.toml", `
[[products]]
id = "a"
name = "Mug"
price = 12.5
description = "Ceramic"

[[products]]
id = "b"
name = "Pen"
price = 2.0
description = "Blue ink"
image = "/pen.png"
`},
		{"json list", "catalog.json", `[
  {"id":"a","name":"Mug","price":12.5,"description":"Ceramic"},
  {"id":"b","name":"Pen","price":2,"description":"Blue ink","image":"/pen.png"}
]`},
		{"json document", "catalog.JSON", `{"products":[
  {"id":"a","name":"Mug","price":12.5,"description":"Ceramic"},
  {"id":"b","name":"Pen","price":2,"description":"Blue ink","image":"/pen.png"}
]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := testutil.WriteFile(t, t.TempDir(), tt.file, tt.content)

			got, err := LoadCatalogFile(path)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestLoadCatalogFileEmpty(t *testing.T) {
	path := testutil.WriteFile(t, t.TempDir(), "empty.yml", "products: []\n")

	got, err := LoadCatalogFile(path)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestLoadCatalogFileErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadCatalogFile(testutil.WriteFile(t, dir, "catalog.csv", "id,name\n"))
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))

	_, err = LoadCatalogFile(testutil.WriteFile(t, dir, "broken.json", "{"))
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))

	_, err = LoadCatalogFile(dir + "/missing.yml")
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))
}
