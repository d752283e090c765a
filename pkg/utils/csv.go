package utils

import (
	"encoding/csv"
	"os"

	"github.com/leeozaka/achados/internal/models"
)

var objectHeader = []string{"protocol", "kind", "name", "category", "location", "date", "status", "owner_id"}

func objectRow(o models.ObjectSummary) []string {
	return []string{string(o.Protocol), o.Kind.Label(), o.Name, o.Category, o.Location, o.Date, o.Status.Label(), o.OwnerID}
}

func ExportObjectsToCSV(objects []models.ObjectSummary, csvPath string) error {
	file, err := os.Create(csvPath)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write(objectHeader); err != nil {
		return err
	}

	for _, o := range objects {
		if err := writer.Write(objectRow(o)); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
