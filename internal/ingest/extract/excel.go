package extract

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

const excelSampleRows = 5

// extractExcel serializes a workbook sheet by sheet: sheet list, per-sheet
// schema, row count and a bounded row sample. A sheet that cannot be read
// is skipped, the rest of the workbook still goes through.
func extractExcel(path string) (string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()

	var sb strings.Builder
	sb.WriteString("Excel File Content:\n")
	sb.WriteString(fmt.Sprintf("Sheets: %s\n\n", strings.Join(sheets, ", ")))

	for _, sheet := range sheets {
		rows, err := f.GetRows(sheet)
		if err != nil || len(rows) == 0 {
			continue
		}

		header := rows[0]
		data := rows[1:]

		sb.WriteString(fmt.Sprintf("--- Sheet: %s ---\n", sheet))
		sb.WriteString(fmt.Sprintf("Columns: %s\n", strings.Join(header, ", ")))
		sb.WriteString(fmt.Sprintf("Rows: %d\n\n", len(data)))

		if len(data) > 0 {
			sb.WriteString("Sample Data:\n")
			sb.WriteString(strings.Join(header, " | "))
			sb.WriteString("\n")
			for i, row := range data {
				if i >= excelSampleRows {
					break
				}
				sb.WriteString(strings.Join(row, " | "))
				sb.WriteString("\n")
			}
			sb.WriteString("\n")
		}
	}

	return sb.String(), nil
}
