package exporter

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"vinstats/pkg/contracts/domain"
)

func TestWriteWorkbook(t *testing.T) {
	rows := []domain.ExportRow{
		{UserID: "u1", OrganizationID: "42", OrganizationName: "Acme d.d.", QueryVIN: "V1", TimeStamp: "2024-03-05T10:00:00+0100"},
		{UserID: "u2", OrganizationID: "42", OrganizationName: "Acme d.d.", QueryVIN: "V2", TimeStamp: "2024-03-06T10:00:00+0000"},
	}

	data, err := WriteWorkbook(rows)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	got, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, domain.ExportColumns(), got[0])
	assert.Equal(t, []string{"u1", "42", "Acme d.d.", "V1", "2024-03-05T10:00:00+0100"}, got[1])
	assert.Equal(t, []string{"u2", "42", "Acme d.d.", "V2", "2024-03-06T10:00:00+0000"}, got[2])
}

func TestWriteWorkbookEmpty(t *testing.T) {
	data, err := WriteWorkbook(nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	got, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, got, 1, "header only")
	assert.Equal(t, domain.ExportColumns(), got[0])
}

func TestSuggestedFilename(t *testing.T) {
	tests := []struct {
		name string
		org  string
		want string
	}{
		{"empty filter", "", "AH_SVE_ORGANIZACIJE.xlsx"},
		{"plain name", "Acme", "AH_Acme.xlsx"},
		{"spaces become underscores", "Acme Motors", "AH_Acme_Motors.xlsx"},
		{"dd suffix with dot stripped", "Acme d.d.", "AH_Acme.xlsx"},
		{"dd suffix without trailing dot stripped", "Acme d.d", "AH_Acme.xlsx"},
		{"remaining dots removed", "A.B. Co", "AH_AB_Co.xlsx"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SuggestedFilename(tt.org))
		})
	}
}
