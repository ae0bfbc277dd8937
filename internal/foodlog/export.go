package foodlog

// ExportHeader is the first line of a JSONL export file.
type ExportHeader struct {
	WinterarcExport bool   `json:"_winterarc_export"`
	SchemaVersion   string `json:"schema_version"`
	ExportedAt      int64  `json:"exported_at"`
	Goal            int    `json:"goal"`
	TotalCalories   int    `json:"total_calories"`
}

// ExportRecord is one entry line in a JSONL export file.
type ExportRecord struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Calories  int    `json:"calories"`
	CreatedAt int64  `json:"created_at"`
	Timestamp string `json:"timestamp"`
}

// EntryToExportRecord converts an Entry to its export form.
func EntryToExportRecord(e Entry) ExportRecord {
	return ExportRecord{
		ID:        e.ID,
		Name:      e.Name,
		Calories:  e.Calories,
		CreatedAt: e.CreatedAt.Unix(),
		Timestamp: e.CreatedAt.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
	}
}
