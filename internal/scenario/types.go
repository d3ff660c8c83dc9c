package scenario

// Trade defines the trade under test.
type Trade struct {
	EmployeeID string  `yaml:"employee_id"`
	Ticker     string  `yaml:"ticker"`
	Action     string  `yaml:"action,omitempty"`
	Quantity   float64 `yaml:"quantity,omitempty"`
}

// Case is one test case within a scenario.
type Case struct {
	Trade   Trade  `yaml:"trade"`
	Expect  string `yaml:"expect"`
	Purpose string `yaml:"purpose,omitempty"`
}

// Scenario is a named collection of compliance test cases.
type Scenario struct {
	Name  string `yaml:"name"`
	Firm  string `yaml:"firm,omitempty"`
	Cases []Case `yaml:"cases"`
}

// CaseResult is the outcome of evaluating one test case.
type CaseResult struct {
	Index      int    `json:"index"`
	Passed     bool   `json:"passed"`
	EmployeeID string `json:"employee_id"`
	Ticker     string `json:"ticker"`
	Expected   string `json:"expected"`
	Actual     string `json:"actual"`
	Reason     string `json:"reason"`
}

// RunResult is the outcome of running all cases in one scenario file.
type RunResult struct {
	File   string       `json:"file"`
	Name   string       `json:"name"`
	Total  int          `json:"total"`
	Passed int          `json:"passed"`
	Failed int          `json:"failed"`
	Cases  []CaseResult `json:"cases"`
}
