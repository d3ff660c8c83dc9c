package audit

// Entry is one line in the hash-chained JSONL audit log: a single
// compliance decision. All fields are scalars or structs so that
// json.Marshal field order is deterministic for reproducible hashing.
type Entry struct {
	Timestamp  string  `json:"ts"`
	RequestID  string  `json:"request_id"`
	EmployeeID string  `json:"employee_id"`
	Ticker     string  `json:"ticker"`
	Action     string  `json:"action"`
	Decision   string  `json:"decision"`
	Confidence float64 `json:"confidence"`
	Reason     string  `json:"reason"`
	Advisor    string  `json:"advisor"`
	PrevHash   string  `json:"prev_hash"`
}
