package output

// SortOutput is the JSON form of a sort run.
type SortOutput struct {
	Files   []FileInfo  `json:"files"`
	Errors  []FileIssue `json:"errors,omitempty"`
	Summary SortSummary `json:"summary"`
}

// FileInfo describes one processed file.
type FileInfo struct {
	Path       string `json:"path"`
	Language   string `json:"language"`
	Stylesheet string `json:"stylesheet,omitempty"`
	Changed    bool   `json:"changed"`
	Written    bool   `json:"written"`
	Edits      int    `json:"edits"`
	Diff       string `json:"diff,omitempty"`
}

// FileIssue is a file that could not be sorted.
type FileIssue struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

// SortSummary totals a sort run.
type SortSummary struct {
	Checked    int   `json:"checked"`
	Changed    int   `json:"changed"`
	Failed     int   `json:"failed"`
	DurationMS int64 `json:"duration_ms"`
}

// OrderOutput is the JSON form of the order command.
type OrderOutput struct {
	Stylesheet string      `json:"stylesheet,omitempty"`
	Sorted     []string    `json:"sorted"`
	Classes    []ClassRank `json:"classes"`
}

// ClassRank is one class and its order. Order is a decimal string since
// orders exceed the range of JSON numbers; it is null for unknown classes.
type ClassRank struct {
	Class string  `json:"class"`
	Order *string `json:"order"`
	Layer string  `json:"layer,omitempty"`
}

// LanguageInfo is one row of the languages command.
type LanguageInfo struct {
	Language   string   `json:"language"`
	Extensions []string `json:"extensions"`
	Patterns   int      `json:"patterns"`
}
