package utils

import (
	"fmt"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/leeozaka/achados/internal/models"
)

const objectsSheet = "Objetos"

// ExportFileName is the default name of an export written on now.
func ExportFileName(format string, now time.Time) string {
	return fmt.Sprintf("achados_relatorio_%s.%s", now.Format("2006-01-02"), format)
}

// Summary counts objects per kind and status for the summary sheet.
func Summary(objects []models.ObjectSummary) map[string]int {
	out := map[string]int{
		models.KindLost.Label():  0,
		models.KindFound.Label(): 0,
	}
	for _, s := range models.AllStatuses {
		out[s.Label()] = 0
	}
	for _, o := range objects {
		out[o.Kind.Label()]++
		out[o.Status.Label()]++
	}
	return out
}

func ExportObjectsToExcel(objects []models.ObjectSummary, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(objectsSheet)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{"Protocolo", "Tipo", "Objeto", "Categoria", "Local", "Data", "Status", "Responsável"}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold:  true,
			Size:  12,
			Color: "#FFFFFF",
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#1E3A8A"},
			Pattern: 1,
		},
		Border: []excelize.Border{
			{Type: "left", Color: "#000000", Style: 1},
			{Type: "top", Color: "#000000", Style: 1},
			{Type: "bottom", Color: "#000000", Style: 1},
			{Type: "right", Color: "#000000", Style: 1},
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	dataStyle, err := f.NewStyle(&excelize.Style{
		Border: []excelize.Border{
			{Type: "left", Color: "#000000", Style: 1},
			{Type: "top", Color: "#000000", Style: 1},
			{Type: "bottom", Color: "#000000", Style: 1},
			{Type: "right", Color: "#000000", Style: 1},
		},
		Alignment: &excelize.Alignment{
			Vertical: "top",
			WrapText: true,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create data style: %w", err)
	}

	for i, header := range headers {
		cell := string(rune('A'+i)) + "1"
		f.SetCellValue(objectsSheet, cell, header)
		f.SetCellStyle(objectsSheet, cell, cell, headerStyle)
	}

	columnWidths := map[string]float64{
		"A": 12, // protocol
		"B": 12, // kind
		"C": 32, // name
		"D": 22, // category
		"E": 30, // location
		"F": 12, // date
		"G": 16, // status
		"H": 16, // owner
	}
	for col, width := range columnWidths {
		f.SetColWidth(objectsSheet, col, col, width)
	}

	row := 2
	for _, o := range objects {
		for i, v := range objectRow(o) {
			cell := string(rune('A'+i)) + strconv.Itoa(row)
			f.SetCellValue(objectsSheet, cell, v)
			f.SetCellStyle(objectsSheet, cell, cell, dataStyle)
		}
		row++
	}

	if len(objects) > 0 {
		err = f.AddTable(objectsSheet, &excelize.Table{
			Range:          fmt.Sprintf("A1:H%d", len(objects)+1),
			Name:           "ObjetosTable",
			StyleName:      "TableStyleMedium2",
			ShowRowStripes: &[]bool{true}[0],
		})
		if err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	summarySheet := "Resumo"
	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("failed to create summary sheet: %w", err)
	}
	f.SetCellValue(summarySheet, "A1", "Relatório de objetos")
	f.SetCellValue(summarySheet, "A2", "Total de objetos:")
	f.SetCellValue(summarySheet, "B2", len(objects))

	counts := Summary(objects)
	labels := []string{models.KindLost.Label(), models.KindFound.Label()}
	for _, s := range models.AllStatuses {
		labels = append(labels, s.Label())
	}
	for i, label := range labels {
		r := strconv.Itoa(i + 3)
		f.SetCellValue(summarySheet, "A"+r, label+":")
		f.SetCellValue(summarySheet, "B"+r, counts[label])
	}

	titleStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}})
	f.SetCellStyle(summarySheet, "A1", "A1", titleStyle)
	labelStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	f.SetCellStyle(summarySheet, "A2", "A"+strconv.Itoa(len(labels)+2), labelStyle)
	f.SetColWidth(summarySheet, "A", "A", 22)
	f.SetColWidth(summarySheet, "B", "B", 12)

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save Excel file: %w", err)
	}
	return nil
}
