package crew

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// manifestColumns is the fixed manifest column order. Changing it
// breaks downstream paperwork, so it is not configurable.
var manifestColumns = []string{
	"No.", "Name", "Birth Date", "Position", "Citizenship",
	"Passport No.", "Issue Date", "Expiry Date",
}

func manifestRow(index int, m Member) []string {
	return []string{
		strconv.Itoa(index + 1),
		m.DisplayName(),
		m.Birthdate,
		m.Position,
		m.Citizenship,
		m.PassportNumber,
		m.PassportIssue,
		m.PassportExpiry,
	}
}

// ManifestCSV renders the crew manifest as CSV with 1-indexed rows.
func ManifestCSV(members []Member) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(manifestColumns); err != nil {
		return nil, fmt.Errorf("writing manifest header: %w", err)
	}
	for i, m := range members {
		if err := w.Write(manifestRow(i, m)); err != nil {
			return nil, fmt.Errorf("writing manifest row %d: %w", i+1, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flushing manifest: %w", err)
	}
	return buf.Bytes(), nil
}

// ManifestXLSX renders the crew manifest as a spreadsheet with the same
// columns as the CSV variant.
func ManifestXLSX(members []Member) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Crew Manifest"
	idx, err := f.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("creating sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#D9E1F2"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("creating header style: %w", err)
	}

	for col, title := range manifestColumns {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, title); err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(sheet, cell, cell, headerStyle); err != nil {
			return nil, err
		}
	}

	for row, m := range members {
		for col, value := range manifestRow(row, m) {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, err
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("writing workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// MemberText renders a plain-text dump of one crew member, matching the
// per-crew file export.
func MemberText(m Member) string {
	var b strings.Builder
	write := func(label, value string) {
		if value == "" {
			return
		}
		fmt.Fprintf(&b, "%s: %s\n", label, value)
	}

	fmt.Fprintf(&b, "Crew Member: %s\n", m.DisplayName())
	fmt.Fprintf(&b, "%s\n\n", strings.Repeat("=", len("Crew Member: ")+len(m.DisplayName())))

	write("Sex", m.Sex)
	write("Birth Date", m.Birthdate)
	write("Position", m.Position)
	write("Citizenship", m.Citizenship)
	write("Passport No.", m.PassportNumber)
	write("Passport Issued", m.PassportIssue)
	write("Passport Expires", m.PassportExpiry)

	if m.Emergency.Name != "" || m.Emergency.Phone != "" {
		b.WriteString("\nEmergency Contact\n")
		write("  Name", m.Emergency.Name)
		write("  Phone", m.Emergency.Phone)
		write("  Relation", m.Emergency.Relation)
	}

	if m.History != "" {
		b.WriteString("\nMedical Notes\n")
		b.WriteString(m.History)
		b.WriteString("\n")
	}

	return b.String()
}
