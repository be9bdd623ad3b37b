package models

// CheckinResult is a finalized item's spreadsheet coordinates plus its
// positional results string. Never mutated after construction.
type CheckinResult struct {
	SpreadsheetID string `json:"spreadsheetId"`
	Date          string `json:"date"`
	Month         string `json:"month"`
	CellReference string `json:"cellReference"`
	ResultsString string `json:"resultsString"`
}

// NewCheckinResult flattens the item's fields alongside its results string.
func NewCheckinResult(fields CheckinFields, resultsString string) CheckinResult {
	return CheckinResult{
		SpreadsheetID: fields.SpreadsheetID,
		Date:          fields.Date,
		Month:         fields.Month,
		CellReference: fields.CellReference,
		ResultsString: resultsString,
	}
}

// CheckinRequest is a caller-submitted batch of check-in items.
type CheckinRequest struct {
	Queue []CheckinItem `json:"queue"`
}

// CheckinResponse is the best-effort outcome of a pipeline run: finalized
// results plus the items excluded by the skip policy or a per-item failure.
type CheckinResponse struct {
	Results        []CheckinResult `json:"results"`
	Unprocessed    []CheckinItem   `json:"unprocessed"`
	ProcessedCount int             `json:"processedCount"`
}

// NewCheckinResponse normalizes nil slices so responses always marshal with
// arrays present.
func NewCheckinResponse(results []CheckinResult, unprocessed []CheckinItem) *CheckinResponse {
	if results == nil {
		results = []CheckinResult{}
	}
	if unprocessed == nil {
		unprocessed = []CheckinItem{}
	}
	return &CheckinResponse{
		Results:        results,
		Unprocessed:    unprocessed,
		ProcessedCount: len(results),
	}
}
