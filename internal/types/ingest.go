package types

// IngestOutcome is what happened to one ingested record or file
type IngestOutcome string

const (
	IngestCreated IngestOutcome = "created"
	IngestUpdated IngestOutcome = "updated"
	IngestSkipped IngestOutcome = "skipped"
	IngestFailed  IngestOutcome = "failed"
)

// IngestResult describes one record or file handled by an ingestion run
type IngestResult struct {
	Source  string        `json:"source"`
	Title   string        `json:"title,omitempty"`
	Outcome IngestOutcome `json:"outcome"`
	Error   string        `json:"error,omitempty"`
}

// IngestReport collects the results of an ingestion run in processing order
type IngestReport struct {
	Results []IngestResult `json:"results"`
}

// Add appends results to the report
func (r *IngestReport) Add(results ...IngestResult) {
	r.Results = append(r.Results, results...)
}

// Count returns the number of results with the given outcome
func (r IngestReport) Count(outcome IngestOutcome) int {
	n := 0
	for _, res := range r.Results {
		if res.Outcome == outcome {
			n++
		}
	}
	return n
}
