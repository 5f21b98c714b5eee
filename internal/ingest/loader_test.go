package ingest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func TestLoaderJSON(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "events.json", []byte(`[
		{"user_id":"u1","organization_id":"42","organization_name":"Acme d.d.","query_vin":"WVWZZZ1JZ3W386752","time_stamp":"2024-03-05T14:30:00+0100","response_type":{"ok":true}},
		{"user_id":"u2","organization_id":"42","organization_name":"Renamed Later","query_vin":"WVWZZZ1JZ3W386752","time_stamp":"2024-03-06T09:00:00"},
		{"user_id":"u3","query_vin":"SKIPPED","time_stamp":""},
		{"user_id":"u4","query_vin":"SKIPPED","time_stamp":"garbage"}
	]`))

	catalog, err := NewLoader(nil).Load(context.Background(), []string{path})
	require.NoError(t, err)

	require.Len(t, catalog.Records, 2)
	assert.Empty(t, catalog.Warnings)

	// Records keep their raw timestamp strings.
	assert.Equal(t, "2024-03-05T14:30:00+0100", catalog.Records[0].TimeStamp)
	assert.Equal(t, "Acme d.d.", catalog.Records[0].OrganizationName)
	assert.NotNil(t, catalog.Records[0].ResponseType)

	// Date span covers both retained records.
	assert.Equal(t, "2024-03-05", catalog.MinDate.Format("2006-01-02"))
	assert.Equal(t, "2024-03-06", catalog.MaxDate.Format("2006-01-02"))

	// Organization names are sorted and distinct.
	assert.Equal(t, []string{"Acme d.d.", "Renamed Later"}, catalog.OrganizationNames)
}

func TestLoaderJSONWarnings(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "bad.json", []byte(`{"not":"a list"}`))
	writeFile(t, dir, "good.json", []byte(`[{"query_vin":"V1","time_stamp":"2024-01-01T00:00:00"}]`))

	catalog, err := NewLoader(nil).Load(context.Background(), []string{
		filepath.Join(dir, "bad.json"),
		filepath.Join(dir, "good.json"),
		filepath.Join(dir, "missing.json"),
	})
	require.NoError(t, err)

	// Bad files warn but never fail the load.
	require.Len(t, catalog.Records, 1)
	assert.Len(t, catalog.Warnings, 2)
}

func TestLoaderCSVWindows1250(t *testing.T) {
	dir := t.TempDir()

	// Byte 0x8A decodes to the letter S-caron in Windows-1250.
	header := "vin;order_date;organisation;order_client\n"
	row := append([]byte("V123;2024-02-10 08:15:00;"), 0x8A)
	row = append(row, []byte("KODA;client7\n")...)
	writeFile(t, dir, "orders.csv", append([]byte(header), row...))

	catalog, err := NewLoader(nil).Load(context.Background(), []string{filepath.Join(dir, "orders.csv")})
	require.NoError(t, err)

	require.Len(t, catalog.Records, 1)
	rec := catalog.Records[0]
	assert.Equal(t, "V123", rec.QueryVIN)
	assert.Equal(t, "client7", rec.UserID)
	assert.Equal(t, "ŠKODA", rec.OrganizationID)
	// No JSON file taught this id, so the name falls back to the raw value.
	assert.Equal(t, "ŠKODA", rec.OrganizationName)
	assert.Equal(t, "2024-02-10T08:15:00+0000", rec.TimeStamp)
	assert.Nil(t, rec.ResponseType)
}

func TestLoaderCSVSkipsBadRows(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "orders.csv", []byte(
		"vin;order_date;organisation;order_client\n"+
			";2024-02-10 08:15:00;org;c1\n"+ // missing vin
			"V1;;org;c2\n"+ // missing date
			"V2;10.02.2024;org;c3\n"+ // wrong date layout
			"V3;2024-02-10 08:15:00;org;c4\n"))

	catalog, err := NewLoader(nil).Load(context.Background(), []string{filepath.Join(dir, "orders.csv")})
	require.NoError(t, err)

	require.Len(t, catalog.Records, 1)
	assert.Equal(t, "V3", catalog.Records[0].QueryVIN)
	assert.Empty(t, catalog.Warnings)
}

func TestLoaderOrgResolutionDependsOnFileOrder(t *testing.T) {
	dir := t.TempDir()

	// The CSV sorts before the JSON by name, so its rows resolve before the
	// id-to-name pair is learned. No back-fill happens.
	writeFile(t, dir, "a_orders.csv", []byte(
		"vin;order_date;organisation;order_client\n"+
			"V1;2024-02-10 08:15:00;42;c1\n"))
	writeFile(t, dir, "b_events.json", []byte(
		`[{"organization_id":"42","organization_name":"Acme","query_vin":"V2","time_stamp":"2024-02-11T00:00:00"}]`))
	writeFile(t, dir, "c_orders.csv", []byte(
		"vin;order_date;organisation;order_client\n"+
			"V3;2024-02-12 08:15:00;42;c2\n"))

	paths := []string{
		// Deliberately unsorted; Load sorts by base name.
		filepath.Join(dir, "c_orders.csv"),
		filepath.Join(dir, "a_orders.csv"),
		filepath.Join(dir, "b_events.json"),
	}
	catalog, err := NewLoader(nil).Load(context.Background(), paths)
	require.NoError(t, err)
	require.Len(t, catalog.Records, 3)

	byVIN := make(map[string]string)
	for _, rec := range catalog.Records {
		byVIN[rec.QueryVIN] = rec.OrganizationName
	}
	assert.Equal(t, "42", byVIN["V1"], "row loaded before the JSON keeps the raw id")
	assert.Equal(t, "Acme", byVIN["V2"])
	assert.Equal(t, "Acme", byVIN["V3"], "row loaded after the JSON resolves the name")
}

func TestLoaderEmptySelection(t *testing.T) {
	catalog, err := NewLoader(nil).Load(context.Background(), nil)
	require.NoError(t, err)
	assert.True(t, catalog.Empty())
	assert.True(t, catalog.MinDate.IsZero())
	assert.True(t, catalog.MaxDate.IsZero())
}
