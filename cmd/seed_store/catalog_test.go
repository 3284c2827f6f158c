package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/campus-store/internal/application/store"
	"github.com/jhoicas/campus-store/internal/domain"
	"github.com/jhoicas/campus-store/internal/domain/entity"
)

// ── parseCatalog ──────────────────────────────────────────────────────────────

func TestParseCatalog_FilasValidasEInvalidas(t *testing.T) {
	csv := "Name,Category,Unit,minimum_stock,maximum_stock,reorder_level,unit_price,opening_stock\n" +
		"Resma carta,Papelería,resma,5,100,10,\"18,50\",40\n" +
		"\n" +
		"Marcador,Papelería,unidad,x,10,2,1.2,0\n" +
		"Tiza blanca,Aula,caja,,,,,\n"

	rows, rowErrs, err := parseCatalog(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Len(t, rowErrs, 1)
	assert.Contains(t, rowErrs[0].Error(), "línea 4")

	first := rows[0].Input
	assert.Equal(t, 2, rows[0].Line)
	assert.Equal(t, "Resma carta", first.Name)
	assert.Equal(t, int64(5), first.MinimumStock)
	assert.Equal(t, int64(100), first.MaximumStock)
	assert.Equal(t, int64(10), first.ReorderLevel)
	assert.Equal(t, int64(40), first.OpeningStock)
	assert.Equal(t, "18.5", first.UnitPrice.String())

	assert.Equal(t, "Tiza blanca", rows[1].Input.Name)
	assert.True(t, rows[1].Input.UnitPrice.IsZero())
}

func TestParseCatalog_SinColumnaName(t *testing.T) {
	_, _, err := parseCatalog(strings.NewReader("category,unit\nA,b\n"))
	assert.Error(t, err)

	_, _, err = parseCatalog(strings.NewReader(""))
	assert.Error(t, err)
}

func TestDecodeCharset_Latin1(t *testing.T) {
	// "Papelería" en ISO-8859-1: í = 0xED
	raw := []byte("name\nPapeler\xeda\n")
	r, err := decodeCharset(bytes.NewReader(raw), "latin1")
	require.NoError(t, err)
	out, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "name\nPapelería\n", string(out))

	_, err = decodeCharset(bytes.NewReader(raw), "ebcdic")
	assert.Error(t, err)
}

// ── importRows ───────────────────────────────────────────────────────────────

type fakeCreator struct {
	got []store.CreateItemInput
}

func (f *fakeCreator) CreateItem(_ context.Context, in store.CreateItemInput) (*store.CreateItemResult, error) {
	f.got = append(f.got, in)
	if in.Name == "" {
		return nil, errors.Join(domain.ErrInvalidArgument, errors.New("name vacío"))
	}
	return &store.CreateItemResult{Item: &entity.Item{Code: "STR-ITM-00001", Name: in.Name}}, nil
}

func TestImportRows_CuentaCreadosYFallidos(t *testing.T) {
	fc := &fakeCreator{}
	rows := []catalogRow{
		{Line: 2, Input: store.CreateItemInput{Name: "Resma"}},
		{Line: 3, Input: store.CreateItemInput{}},
	}
	created, failed := importRows(context.Background(), fc, rows, "seed")
	assert.Equal(t, 1, created)
	assert.Equal(t, 1, failed)
	require.Len(t, fc.got, 2)
	assert.Equal(t, "seed", fc.got[0].CreatedBy)
}
