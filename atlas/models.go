package atlas

import "time"

// The wrapped tool reports timestamps as RFC 3339 and omits them when
// unknown. An absent timestamp decodes to the zero time.Time
// (0001-01-01T00:00:00), which callers should read as "unknown".

// File is one migration file as reported by atlas.
type File struct {
	Name        string `json:"Name,omitempty"`
	Version     string `json:"Version,omitempty"`
	Description string `json:"Description,omitempty"`
}

// SQLError is a failed statement and its database error.
type SQLError struct {
	SQL   string `json:"SQL"`
	Error string `json:"Error"`
}

// AppliedFile is a migration file that atlas attempted to apply.
type AppliedFile struct {
	File
	Start   time.Time `json:"Start,omitzero"`
	End     time.Time `json:"End,omitzero"`
	Skipped int       `json:"Skipped"`
	Applied []string  `json:"Applied"`
	Error   *SQLError `json:"Error,omitempty"`
}

// RevertedFile is a migration file that atlas attempted to revert.
type RevertedFile struct {
	File
	Start   time.Time `json:"Start,omitzero"`
	End     time.Time `json:"End,omitzero"`
	Skipped int       `json:"Skipped"`
	Applied []string  `json:"Applied"`
	Scope   string    `json:"Scope"`
	Error   *SQLError `json:"Error,omitempty"`
}

// MigrateApply is the result of one `migrate apply` run.
type MigrateApply struct {
	Pending []File        `json:"Pending,omitempty"`
	Applied []AppliedFile `json:"Applied,omitempty"`
	Current string        `json:"Current,omitempty"`
	Target  string        `json:"Target,omitempty"`
	Start   time.Time     `json:"Start,omitzero"`
	End     time.Time     `json:"End,omitzero"`
	Error   string        `json:"Error,omitempty"`
}

// MigrateDown is the result of one `migrate down` run.
type MigrateDown struct {
	Planned  []File         `json:"Planned,omitempty"`
	Reverted []RevertedFile `json:"Reverted,omitempty"`
	Current  string         `json:"Current,omitempty"`
	Target   string         `json:"Target,omitempty"`
	Total    int            `json:"Total,omitempty"`
	Start    time.Time      `json:"Start,omitzero"`
	End      time.Time      `json:"End,omitzero"`
	URL      string         `json:"URL,omitempty"`
	Status   string         `json:"Status,omitempty"`
	Error    string         `json:"Error,omitempty"`
}

// Revision is the bookkeeping row of one applied migration.
type Revision struct {
	Version         string        `json:"Version"`
	Description     string        `json:"Description"`
	Type            string        `json:"Type"`
	Applied         int           `json:"Applied"`
	Total           int           `json:"Total"`
	ExecutedAt      time.Time     `json:"ExecutedAt,omitzero"`
	ExecutionTime   time.Duration `json:"ExecutionTime"`
	Error           string        `json:"Error,omitempty"`
	ErrorStmt       string        `json:"ErrorStmt,omitempty"`
	OperatorVersion string        `json:"OperatorVersion"`
}

// MigrateStatus is the result of `migrate status`.
type MigrateStatus struct {
	Available []File     `json:"Available,omitempty"`
	Pending   []File     `json:"Pending,omitempty"`
	Applied   []Revision `json:"Applied,omitempty"`
	Current   string     `json:"Current,omitempty"`
	Next      string     `json:"Next,omitempty"`
	Count     int        `json:"Count,omitempty"`
	Total     int        `json:"Total,omitempty"`
	Status    string     `json:"Status,omitempty"`
	Error     string     `json:"Error,omitempty"`
	SQL       string     `json:"SQL,omitempty"`
}

// Env describes the environment a schema change ran against.
type Env struct {
	Driver string `json:"Driver,omitempty"`
	URL    string `json:"URL,omitempty"`
	Dir    string `json:"Dir,omitempty"`
}

// StmtError is a failed schema-change statement.
type StmtError struct {
	Stmt string `json:"Stmt,omitempty"`
	Text string `json:"Text,omitempty"`
}

// Changes lists the applied and pending change statements of a schema
// apply, with the statement that stopped execution, if any.
type Changes struct {
	Applied []string   `json:"Applied,omitempty"`
	Pending []string   `json:"Pending,omitempty"`
	Error   *StmtError `json:"Error,omitempty"`
}

// IsZero reports whether no change information is present.
func (c Changes) IsZero() bool {
	return len(c.Applied) == 0 && len(c.Pending) == 0 && c.Error == nil
}

// SchemaApply is the result of one `schema apply` run. On the wire the
// Env fields are flattened into the top-level object.
type SchemaApply struct {
	Env
	Changes Changes `json:"Changes,omitzero"`
	Error   string  `json:"Error,omitempty"`
}

// SummaryReport is the lint report tree of `migrate lint`.
type SummaryReport struct {
	URL    string              `json:"URL,omitempty"`
	Env    Env                 `json:"Env"`
	Schema SummaryReportSchema `json:"Schema"`
	Steps  []StepReport        `json:"Steps,omitempty"`
	Files  []FileReport        `json:"Files,omitempty"`
}

// DiagnosticsCount sums the diagnostics of every report of every file.
func (s *SummaryReport) DiagnosticsCount() int {
	n := 0
	for _, f := range s.Files {
		for _, r := range f.Reports {
			n += len(r.Diagnostics)
		}
	}
	return n
}

// SummaryReportSchema holds the current and desired schema snapshots.
type SummaryReportSchema struct {
	Current string `json:"Current,omitempty"`
	Desired string `json:"Desired,omitempty"`
}

// StepReport is one analysis step of a lint run.
type StepReport struct {
	Name   string      `json:"Name,omitempty"`
	Text   string      `json:"Text,omitempty"`
	Error  string      `json:"Error,omitempty"`
	Result *FileReport `json:"Result,omitempty"`
}

// FileReport groups the analysis reports of one migration file.
type FileReport struct {
	Name    string   `json:"Name,omitempty"`
	Text    string   `json:"Text,omitempty"`
	Reports []Report `json:"Reports,omitempty"`
	Error   string   `json:"Error,omitempty"`
}

// Report is one analyzer's findings.
type Report struct {
	Text           string         `json:"Text"`
	Diagnostics    []Diagnostic   `json:"Diagnostics,omitempty"`
	SuggestedFixes []SuggestedFix `json:"SuggestedFixes,omitempty"`
}

// Diagnostic is a single finding at a position in a file.
type Diagnostic struct {
	Pos            int            `json:"Pos"`
	Text           string         `json:"Text"`
	Code           string         `json:"Code"`
	SuggestedFixes []SuggestedFix `json:"SuggestedFixes,omitempty"`
}

// SuggestedFix is a proposed remediation for a diagnostic.
type SuggestedFix struct {
	Message  string    `json:"Message"`
	TextEdit *TextEdit `json:"TextEdit,omitempty"`
}

// TextEdit is a line-range replacement.
type TextEdit struct {
	Line    int    `json:"Line"`
	End     int    `json:"End"`
	NewText string `json:"NewText"`
}

// Version is the output of `atlas version`.
type Version struct {
	Version string `json:"Version"`
	SHA     string `json:"SHA,omitempty"`
	Canary  bool   `json:"Canary,omitempty"`
}

// MigrateApplyError carries apply results whose Error field is set; its
// message is the error of the last result.
type MigrateApplyError struct {
	Result []MigrateApply
}

func (e *MigrateApplyError) Error() string {
	if len(e.Result) == 0 {
		return ""
	}
	return e.Result[len(e.Result)-1].Error
}

// SchemaApplyError carries schema-apply results whose Error field is
// set; its message is the error of the last result.
type SchemaApplyError struct {
	Result []SchemaApply
}

func (e *SchemaApplyError) Error() string {
	if len(e.Result) == 0 {
		return ""
	}
	return e.Result[len(e.Result)-1].Error
}
