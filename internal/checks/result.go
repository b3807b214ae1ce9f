package checks

type Status string

const (
	StatusPass    Status = "PASS"
	StatusFail    Status = "FAIL"
	StatusSkipped Status = "SKIPPED"
)

// Result is the reported outcome of one check.
type Result struct {
	Target      string `json:"target,omitempty"`
	Family      string `json:"family"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Status      Status `json:"status"`
	// Message explains a failure. It may contain Markdown.
	Message    string `json:"message,omitempty"`
	URL        string `json:"url,omitempty"`
	SkipReason string `json:"skip_reason,omitempty"`
}

// ResultDict is the name-keyed projection of a Result. Result is nil for a
// skipped check.
type ResultDict struct {
	Family      string `json:"family"`
	Description string `json:"description"`
	Result      *bool  `json:"result"`
	ErrMsg      string `json:"err_msg"`
	URL         string `json:"url"`
	SkipReason  string `json:"skip_reason"`
}

func (r Result) Dict() ResultDict {
	d := ResultDict{
		Family:      r.Family,
		Description: r.Description,
		ErrMsg:      r.Message,
		URL:         r.URL,
		SkipReason:  r.SkipReason,
	}
	switch r.Status {
	case StatusPass:
		ok := true
		d.Result = &ok
	case StatusFail:
		ok := false
		d.Result = &ok
	}
	return d
}

// AsSimpleDict keys results by check name.
func AsSimpleDict(results []Result) map[string]ResultDict {
	out := make(map[string]ResultDict, len(results))
	for _, r := range results {
		out[r.Name] = r.Dict()
	}
	return out
}
