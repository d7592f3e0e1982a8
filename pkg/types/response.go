package types

type SuccessEnvelope struct {
	Data any `json:"data"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// Redirect tells the browser where to navigate next and, optionally, where to
// return once the destination flow completes.
type Redirect struct {
	To      string `json:"redirect_to"`
	From    string `json:"redirect_from,omitempty"`
	AfterMS int64  `json:"redirect_after_ms,omitempty"`
}
