package amqp

import (
	"encoding/json"
	"time"
)

// QueryAuditMessage records one served dashboard query. The worker persists
// these into the query_audit table.
type QueryAuditMessage struct {
	View       string    `json:"view"`
	Params     string    `json:"params"`
	RowCount   int       `json:"row_count"`
	DurationMS int64     `json:"duration_ms"`
	Timestamp  time.Time `json:"timestamp"`
}

// NewQueryAuditMessage creates an audit message for a served query.
func NewQueryAuditMessage(view, params string, rowCount int, duration time.Duration) *QueryAuditMessage {
	return &QueryAuditMessage{
		View:       view,
		Params:     params,
		RowCount:   rowCount,
		DurationMS: duration.Milliseconds(),
		Timestamp:  time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *QueryAuditMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// QueryAuditMessageFromJSON creates a message from JSON bytes
func QueryAuditMessageFromJSON(data []byte) (*QueryAuditMessage, error) {
	var msg QueryAuditMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// DatasetLoadedMessage announces that a portfolio snapshot was loaded.
type DatasetLoadedMessage struct {
	Backend   string    `json:"backend"`
	LoanCount int       `json:"loan_count"`
	Timestamp time.Time `json:"timestamp"`
}

// NewDatasetLoadedMessage creates a dataset-loaded announcement.
func NewDatasetLoadedMessage(backend string, loanCount int) *DatasetLoadedMessage {
	return &DatasetLoadedMessage{
		Backend:   backend,
		LoanCount: loanCount,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *DatasetLoadedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}
