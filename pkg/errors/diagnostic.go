package errors

// Diagnostic is a structured record of a fallback or failure. Diagnostics
// travel in render metadata so that no fallback goes unreported.
type Diagnostic struct {
	Code    Code   `json:"code"`
	Stage   string `json:"stage"`
	Element string `json:"element,omitempty"`
	Message string `json:"message"`
}

// NewDiagnostic builds a diagnostic from an error raised at stage. Errors
// without a code are recorded as internal.
func NewDiagnostic(stage string, err error) Diagnostic {
	code := GetCode(err)
	if code == "" {
		code = ErrCodeInternal
	}
	return Diagnostic{Code: code, Stage: stage, Message: UserMessage(err)}
}

func (d Diagnostic) String() string {
	s := string(d.Code) + " at " + d.Stage
	if d.Element != "" {
		s += " (" + d.Element + ")"
	}
	return s + ": " + d.Message
}
