package spreadsheet

import (
	"strings"
	"testing"

	domainerrors "intake/internal/domain/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRead_SkipsPreambleAndFindsHeader(t *testing.T) {
	data := strings.Join([]string{
		"Sales Details by Receipt",
		"From: 01/01/2025 To: 31/01/2025",
		"",
		"Receipt no,Customer mobile,Item name,Item amount",
		"2101,01712345678,Chicken Biryani,450",
		"2102,01898765432,Lassi,\"1,200\"",
	}, "\n")

	table, err := Read(strings.NewReader(data), []string{"Receipt no", "Customer mobile"})
	require.NoError(t, err)

	assert.Equal(t, 2, table.Len())
	assert.Equal(t, "2101", table.Row(0).Get("Receipt no"))
	assert.Equal(t, "1,200", table.Row(1).Get("Item amount"))
}

func TestRead_NoHeaderRow(t *testing.T) {
	data := "just,some,cells\nwithout,a,header\n"

	_, err := Read(strings.NewReader(data), []string{"Receipt no", "Customer mobile"})
	require.Error(t, err)
}

func TestRow_Get_MissingColumnOrShortRow(t *testing.T) {
	data := "Contact Number,Remarks\n01712345678\n"

	table, err := Read(strings.NewReader(data), []string{"Contact Number", "Remarks"})
	require.NoError(t, err)

	row := table.Row(0)
	assert.Equal(t, "01712345678", row.Get("Contact Number"))
	assert.Equal(t, "", row.Get("Remarks"), "short row yields empty cell")
	assert.Equal(t, "", row.Get("No Such Column"))
}

func TestRequireColumns(t *testing.T) {
	data := "Contact Number,Email\nx,y\n"

	table, err := Read(strings.NewReader(data), []string{"Contact Number", "Email"})
	require.NoError(t, err)

	require.NoError(t, table.RequireColumns("customer", "Contact Number", "Email"))

	err = table.RequireColumns("customer", "Contact Number", "First Name", "Last Name")
	require.Error(t, err)

	var schemaErr *domainerrors.SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, []string{"First Name", "Last Name"}, schemaErr.Missing)
	assert.Contains(t, schemaErr.Error(), "First Name")
}
