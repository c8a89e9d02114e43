package dto

// ImportSummary totals the outcome of a bulk spreadsheet import.
type ImportSummary struct {
	TotalRows  int `json:"totalRows"`
	Successful int `json:"successful"`
	Failed     int `json:"failed"`
}

// ImportRowSuccess reports one accepted spreadsheet row.
type ImportRowSuccess struct {
	Row      int               `json:"row"`
	RecordID string            `json:"recordId"`
	Fields   map[string]string `json:"fields,omitempty"`
}

// ImportRowFailure reports one rejected spreadsheet row. Row numbers are
// 1-based spreadsheet positions (the header row is row 1) so users can find
// the offending line in their sheet.
type ImportRowFailure struct {
	Row    int               `json:"row"`
	Reason string            `json:"reason"`
	Fields map[string]string `json:"fields,omitempty"`
}

// ImportResult is the response of the upload endpoints. Import is not
// transactional: partial success is expected and reported per row.
type ImportResult struct {
	Summary        ImportSummary      `json:"summary"`
	SuccessRecords []ImportRowSuccess `json:"successRecords"`
	FailedRecords  []ImportRowFailure `json:"failedRecords"`
}
