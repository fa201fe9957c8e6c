// Package fixture reads the bundled movie catalog CSV. The offline CLI
// mode and the DB seeder both start from this file.
package fixture

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"moviehub/pkg/models"
)

const DefaultPath = "data/movies.csv"

// Load reads the CSV at path into raw movie records. List-valued cells
// (genre, cast) are comma separated inside the cell.
func Load(path string) ([]models.RawMovie, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open fixture: %w", err)
	}
	defer f.Close()

	return Read(f)
}

func Read(r io.Reader) ([]models.RawMovie, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i := range header {
		header[i] = strings.ToLower(strings.TrimSpace(header[i]))
	}

	var out []models.RawMovie
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		if len(row) == 0 {
			continue
		}

		raw := models.RawMovie{
			ID:          models.FlexID(valueAt(header, row, "id")),
			Title:       valueAt(header, row, "title"),
			Year:        models.FlexInt(parseIntCell(valueAt(header, row, "year"))),
			Director:    valueAt(header, row, "director"),
			Genre:       models.StringList(models.SplitList(valueAt(header, row, "genre"))),
			Rating:      parseFloatCell(valueAt(header, row, "rating")),
			Description: valueAt(header, row, "description"),
			Cast:        models.StringList(models.SplitList(valueAt(header, row, "cast"))),
			Duration:    valueAt(header, row, "duration"),
			Country:     valueAt(header, row, "country"),
			Language:    valueAt(header, row, "language"),
			Poster:      valueAt(header, row, "poster"),
		}
		out = append(out, raw)
	}
	return out, nil
}

func valueAt(header, row []string, name string) string {
	for i, h := range header {
		if h == name && i < len(row) {
			return strings.TrimSpace(row[i])
		}
	}
	return ""
}

func parseIntCell(s string) int {
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

func parseFloatCell(s string) float64 {
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}
