// Package uhmc parses daily air-quality exports of the Ukrainian
// Hydrometeorological Center: semicolon-separated files with one row per
// (city, station, pollutant) and one column per day.
package uhmc

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/text/encoding/charmap"

	"github.com/monai/airquality-dashboard/services/importer/internal/models"
	"github.com/monai/airquality-dashboard/services/importer/internal/utils"
)

const (
	colCity      = "city"
	colStation   = "coordinatenumber"
	colPollutant = "nameimpurity"
	colYearMonth = "yearmonth"
)

// Encodings understood by Parse.
const (
	UTF8   = "utf-8"
	CP1251 = "cp1251"
)

// ErrMissingColumn is returned when a required column is absent from the header.
var ErrMissingColumn = errors.New("missing required column")

// Options tune Parse. Zero values parse UTF-8 and resolve missing months
// against the current time.
type Options struct {
	Encoding string
	Now      func() time.Time
}

// Result holds the readings of one file and the lines that could not be used.
type Result struct {
	Readings []models.Reading
	Lines    int
	Failed   int
	Errors   []string
}

// Parse reads a UHMC export. The month of bare day columns comes from the
// row's yearMonth cell, else from the file name, else from the current month.
func Parse(r io.Reader, filename string, opts Options) (*Result, error) {
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}
	switch strings.ToLower(opts.Encoding) {
	case "", UTF8:
	case CP1251:
		r = charmap.Windows1251.NewDecoder().Reader(r)
	default:
		return nil, fmt.Errorf("unsupported encoding %q", opts.Encoding)
	}

	reader := csv.NewReader(r)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	result := &Result{}

	headers, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return result, nil
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(headers) > 0 {
		headers[0] = strings.TrimPrefix(headers[0], "\ufeff")
	}

	headerMap := make(map[string]int, len(headers))
	var dayCols []int
	for i, h := range headers {
		h = strings.TrimSpace(h)
		headers[i] = h
		headerMap[strings.ToLower(h)] = i
		if isDayColumn(h) {
			dayCols = append(dayCols, i)
		}
	}
	for _, req := range []string{colCity, colStation, colPollutant} {
		if _, ok := headerMap[req]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, req)
		}
	}

	fileYear, fileMonth := MonthFromFilename(filepath.Base(filename), now())

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if !errors.As(err, &parseErr) {
				return nil, fmt.Errorf("read line %d: %w", result.Lines+2, err)
			}
			result.Lines++
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("csv read error at line %d: %v", result.Lines+1, err))
			continue
		}
		result.Lines++
		line := result.Lines + 1

		get := func(col string) string {
			if idx, ok := headerMap[col]; ok && idx < len(record) {
				return strings.TrimSpace(record[idx])
			}
			return ""
		}

		city, station, pollutant := get(colCity), get(colStation), get(colPollutant)
		if city == "" || station == "" || pollutant == "" {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("line %d: city, coordinateNumber and nameImpurity are required", line))
			continue
		}

		year, month := fileYear, fileMonth
		if ym := get(colYearMonth); ym != "" {
			y, m, err := parseYearMonth(ym)
			if err != nil {
				result.Failed++
				result.Errors = append(result.Errors, fmt.Sprintf("line %d: invalid yearMonth %q", line, ym))
				continue
			}
			year, month = y, m
		}

		for _, idx := range dayCols {
			if idx >= len(record) {
				continue
			}
			value, ok := utils.ParseValue(record[idx])
			if !ok {
				continue
			}
			date, ok := HeaderDate(headers[idx], year, month)
			if !ok {
				continue
			}
			result.Readings = append(result.Readings, models.Reading{
				City:      city,
				Station:   station,
				Pollutant: pollutant,
				Date:      date,
				Value:     value,
			})
		}
	}

	return result, nil
}
