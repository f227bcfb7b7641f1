package extract

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
)

const csvSampleRows = 10

// extractCSV serializes a table into a deterministic text summary: schema,
// a bounded row sample and min/max/mean for numeric columns. Enough signal
// for semantic retrieval without embedding the whole table verbatim.
func extractCSV(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return "", fmt.Errorf("failed to parse csv: %w", err)
	}
	if len(rows) == 0 {
		return "", nil
	}

	header := rows[0]
	data := rows[1:]

	var sb strings.Builder
	sb.WriteString("CSV Data Summary:\n")
	sb.WriteString(fmt.Sprintf("Columns: %s\n", strings.Join(header, ", ")))
	sb.WriteString(fmt.Sprintf("Total Rows: %d\n\n", len(data)))

	sb.WriteString("Column Information:\n")
	for col, name := range header {
		values := columnValues(data, col)
		if isNumericColumn(values) {
			sb.WriteString(fmt.Sprintf("- %s: numeric\n", name))
		} else {
			sb.WriteString(fmt.Sprintf("- %s: text (%d unique values)\n", name, uniqueCount(values)))
		}
	}

	sb.WriteString(fmt.Sprintf("\nSample Data (first %d rows):\n", csvSampleRows))
	sb.WriteString(strings.Join(header, " | "))
	sb.WriteString("\n")
	for i, row := range data {
		if i >= csvSampleRows {
			break
		}
		sb.WriteString(strings.Join(row, " | "))
		sb.WriteString("\n")
	}

	numericSummary := summarizeNumericColumns(header, data)
	if numericSummary != "" {
		sb.WriteString("\nNumeric Summary:\n")
		sb.WriteString(numericSummary)
	}

	return sb.String(), nil
}

func columnValues(data [][]string, col int) []string {
	var values []string
	for _, row := range data {
		if col < len(row) && strings.TrimSpace(row[col]) != "" {
			values = append(values, strings.TrimSpace(row[col]))
		}
	}
	return values
}

func isNumericColumn(values []string) bool {
	if len(values) == 0 {
		return false
	}
	for _, v := range values {
		if _, err := strconv.ParseFloat(v, 64); err != nil {
			return false
		}
	}
	return true
}

func uniqueCount(values []string) int {
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		seen[v] = struct{}{}
	}
	return len(seen)
}

func summarizeNumericColumns(header []string, data [][]string) string {
	var sb strings.Builder
	for col, name := range header {
		values := columnValues(data, col)
		if !isNumericColumn(values) {
			continue
		}

		min, max, sum := 0.0, 0.0, 0.0
		for i, v := range values {
			n, _ := strconv.ParseFloat(v, 64)
			if i == 0 {
				min, max = n, n
			}
			if n < min {
				min = n
			}
			if n > max {
				max = n
			}
			sum += n
		}
		mean := sum / float64(len(values))
		sb.WriteString(fmt.Sprintf("- %s: min=%.2f max=%.2f mean=%.2f count=%d\n", name, min, max, mean, len(values)))
	}
	return sb.String()
}
