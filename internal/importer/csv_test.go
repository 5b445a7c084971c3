package importer

import (
	"strings"
	"testing"

	"go-pos-register/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCSV(t *testing.T) {
	input := "category,name,price,sku,stock\n" +
		"Drinks,Coffee,2.00,DR-001,5\n" +
		"Drinks,Tea,1.5,,\n" +
		"Food,Bagel.Plain,3.25,FD-001,0\n"

	rows, err := ParseCSV(strings.NewReader(input))

	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "Drinks", rows[0].Category)
	assert.Equal(t, "Coffee", rows[0].Name)
	assert.Equal(t, "2", rows[0].Price.String())
	require.NotNil(t, rows[0].SKU)
	assert.Equal(t, "DR-001", *rows[0].SKU)
	assert.Equal(t, 5, rows[0].Stock)

	assert.Nil(t, rows[1].SKU)
	assert.Equal(t, 0, rows[1].Stock)
	assert.Equal(t, 3, rows[1].Line)

	assert.Equal(t, "Bagel.Plain", rows[2].Name)
}

func TestParseCSVColumnsByHeader(t *testing.T) {
	input := "name,price,category\nScone,2.10,Bakery\n"

	rows, err := ParseCSV(strings.NewReader(input))

	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Bakery", rows[0].Category)
	assert.Equal(t, 0, rows[0].Stock)
}

func TestParseCSVRejectsBadRows(t *testing.T) {
	cases := map[string]string{
		"missing column": "category,name\nDrinks,Coffee\n",
		"bad price":      "category,name,price\nDrinks,Coffee,abc\n",
		"negative price": "category,name,price\nDrinks,Coffee,-1\n",
		"bad stock":      "category,name,price,stock\nDrinks,Coffee,1,lots\n",
		"missing name":   "category,name,price\nDrinks,,1\n",
		"home category":  "category,name,price\nHome,Coffee,1\n",
		"empty file":     "",
	}

	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseCSV(strings.NewReader(input))
			assert.ErrorIs(t, err, apperror.ErrInvalidInput)
		})
	}
}
