package chart

import (
	"bytes"
	"encoding/csv"

	log "github.com/sirupsen/logrus"
)

// CsvRenderer exports what a chart displays: one row per label, one column per series.
type CsvRenderer struct {
}

func NewCsvRenderer() *CsvRenderer {
	return &CsvRenderer{}
}

func (r *CsvRenderer) Render(handle *Handle) (string, error) {
	if handle.Destroyed() {
		return "", ErrDestroyed
	}
	labels := handle.Labels()
	series := handle.Series()

	header := make([]string, 0, len(series)+1)
	header = append(header, "")
	for i, s := range series {
		name := s.Name
		if name == "" && len(series) == 1 {
			name = "Value"
		} else if name == "" {
			name = "Series " + string(rune('A'+i))
		}
		header = append(header, name)
	}

	data := make([][]string, 0, len(labels)+1)
	data = append(data, header)
	for j, label := range labels {
		row := make([]string, 0, len(series)+1)
		row = append(row, label)
		for _, s := range series {
			if j < len(s.Values) {
				row = append(row, s.Values[j].StringFixed(2))
			} else {
				row = append(row, "")
			}
		}
		data = append(data, row)
	}

	var b bytes.Buffer
	writer := csv.NewWriter(&b)
	for _, row := range data {
		if err := writer.Write(row); err != nil {
			log.Errorf("Error writing chart %s to csv: %v", handle.ID(), err)
			return "", err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		log.Errorf("Error writing chart %s to csv: %v", handle.ID(), err)
		return "", err
	}
	return b.String(), nil
}
