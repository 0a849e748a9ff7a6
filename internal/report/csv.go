package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/yt-insights/ytreport/internal/models"
)

// CSVHeader is the header row of the tabular export
var CSVHeader = []string{"Video_Title", "Views", "Likes", "Comments"}

// WriteCSV writes the statistics table as UTF-8 CSV, one row per record.
func WriteCSV(w io.Writer, table *models.StatisticsTable) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	if table != nil {
		for _, row := range table.Rows {
			record := []string{
				row.Title,
				strconv.FormatUint(row.Views, 10),
				strconv.FormatUint(row.Likes, 10),
				strconv.FormatUint(row.Comments, 10),
			}
			if err := cw.Write(record); err != nil {
				return fmt.Errorf("failed to write csv row: %w", err)
			}
		}
	}

	cw.Flush()
	return cw.Error()
}

// CSVBytes returns the buffered CSV export
func CSVBytes(table *models.StatisticsTable) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, table); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
