package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/bryanwahyu/ai-readiness/internal/domain/assessment"
)

// ReadCSV reads rows from a CSV with a Section,Question,Answer header.
func ReadCSV(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: empty file", assessment.ErrIngestion)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read header: %v", assessment.ErrIngestion, err)
	}
	cols, err := columnIndex(headers)
	if err != nil {
		return nil, err
	}

	var rows []Row
	line := 1
	for {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", assessment.ErrIngestion, line, err)
		}
		if row, ok := cols.row(line, rec); ok {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

type columns struct {
	section, question, answer int
}

// columnIndex locates the three required columns by case-insensitive name.
func columnIndex(headers []string) (columns, error) {
	c := columns{-1, -1, -1}
	for i, h := range headers {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		switch h {
		case "section":
			c.section = i
		case "question":
			c.question = i
		case "answer":
			c.answer = i
		}
	}
	var missing []string
	if c.section < 0 {
		missing = append(missing, "Section")
	}
	if c.question < 0 {
		missing = append(missing, "Question")
	}
	if c.answer < 0 {
		missing = append(missing, "Answer")
	}
	if len(missing) > 0 {
		return c, fmt.Errorf("%w: missing column(s) %s", assessment.ErrIngestion, strings.Join(missing, ", "))
	}
	return c, nil
}

// row returns false for records with no content at all.
func (c columns) row(line int, rec []string) (Row, bool) {
	cell := func(i int) string {
		if i < len(rec) {
			return strings.TrimSpace(rec[i])
		}
		return ""
	}
	r := Row{Line: line, Section: cell(c.section), Question: cell(c.question), Answer: cell(c.answer)}
	if r.Section == "" && r.Question == "" && r.Answer == "" {
		return r, false
	}
	return r, true
}
