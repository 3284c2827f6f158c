package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/campus-store/internal/application/store"
)

// Columnas reconocidas en la cabecera del CSV (sin distinguir mayúsculas).
const (
	colName         = "name"
	colDescription  = "description"
	colCategory     = "category"
	colUnit         = "unit"
	colMinimumStock = "minimum_stock"
	colMaximumStock = "maximum_stock"
	colReorderLevel = "reorder_level"
	colUnitPrice    = "unit_price"
	colLocation     = "location"
	colOpeningStock = "opening_stock"
)

// catalogRow fila del catálogo ya convertida; Line es la línea del CSV (1 = cabecera).
type catalogRow struct {
	Line  int
	Input store.CreateItemInput
}

// decodeCharset envuelve r según -charset (utf8 | latin1).
func decodeCharset(r io.Reader, charset string) (io.Reader, error) {
	switch strings.ToLower(charset) {
	case "", "utf8", "utf-8":
		return r, nil
	case "latin1", "iso-8859-1", "iso8859-1":
		return transform.NewReader(r, charmap.ISO8859_1.NewDecoder()), nil
	}
	return nil, fmt.Errorf("charset no soportado %q", charset)
}

// parseCatalog lee el CSV completo. Devuelve las filas válidas y un error por cada fila inválida.
func parseCatalog(r io.Reader) ([]catalogRow, []error, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil, errors.New("CSV vacío")
		}
		return nil, nil, fmt.Errorf("leer cabecera: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	if _, ok := cols[colName]; !ok {
		return nil, nil, fmt.Errorf("la cabecera debe incluir la columna %q", colName)
	}

	var (
		rows    []catalogRow
		rowErrs []error
	)
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				rowErrs = append(rowErrs, err)
				continue
			}
			return rows, rowErrs, fmt.Errorf("leer CSV: %w", err)
		}
		line, _ := cr.FieldPos(0)
		get := func(col string) string {
			i, ok := cols[col]
			if !ok || i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}
		if isBlank(rec) {
			continue
		}
		in, err := rowInput(get)
		if err != nil {
			rowErrs = append(rowErrs, fmt.Errorf("línea %d: %w", line, err))
			continue
		}
		rows = append(rows, catalogRow{Line: line, Input: in})
	}
	return rows, rowErrs, nil
}

func rowInput(get func(string) string) (store.CreateItemInput, error) {
	in := store.CreateItemInput{
		Name:        get(colName),
		Description: get(colDescription),
		Category:    get(colCategory),
		Unit:        get(colUnit),
		Location:    get(colLocation),
	}
	ints := []struct {
		col string
		dst *int64
	}{
		{colMinimumStock, &in.MinimumStock},
		{colMaximumStock, &in.MaximumStock},
		{colReorderLevel, &in.ReorderLevel},
		{colOpeningStock, &in.OpeningStock},
	}
	for _, f := range ints {
		v := get(f.col)
		if v == "" {
			continue
		}
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return in, fmt.Errorf("%s inválido %q", f.col, v)
		}
		*f.dst = n
	}
	if v := get(colUnitPrice); v != "" {
		// admite coma decimal (exportaciones de hojas de cálculo en español)
		price, err := decimal.NewFromString(strings.ReplaceAll(v, ",", "."))
		if err != nil {
			return in, fmt.Errorf("%s inválido %q", colUnitPrice, v)
		}
		in.UnitPrice = price
	}
	return in, nil
}

func isBlank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
