package solve

// Kind tags a Result.
type Kind string

const (
	KindPending      Kind = "pending"
	KindSuccess      Kind = "success"
	KindServerError  Kind = "server_error"
	KindNetworkError Kind = "network_error"
)

// Fallback and fixed texts shown in the results region.
const (
	FallbackServerMessage     = "Unknown error occurred on the server."
	FallbackServerExplanation = "Please check your input or refer to the instructions."
	FallbackFailedExplanation = "Could not solve this expression/equation."
	NetworkResultText         = "Connection Error!"
	NetworkExplanationText    = "Could not connect to the math solver server. Please ensure the solver backend is running or check the configured solver URL."
	PendingResultText         = "Solving..."
	EmptyExpressionPrompt     = "Please enter a math expression or equation!"
)

// Result is the outcome of one solve request.
//
// Success sets Result and Explanation; ServerError sets Message and
// Explanation; NetworkError sets Detail, which is for diagnostics only.
type Result struct {
	Kind        Kind   `json:"kind"`
	Result      string `json:"result,omitempty"`
	Explanation string `json:"explanation,omitempty"`
	Message     string `json:"message,omitempty"`
	Detail      string `json:"detail,omitempty"`
}

// Display is the text shown in the results region.
type Display struct {
	ResultText      string `json:"result_text"`
	ExplanationText string `json:"explanation_text"`
}

// Display projects the result to user-facing text.
func (r Result) Display() Display {
	switch r.Kind {
	case KindSuccess:
		return Display{ResultText: r.Result, ExplanationText: r.Explanation}
	case KindServerError:
		return Display{ResultText: "Error: " + r.Message, ExplanationText: r.Explanation}
	case KindNetworkError:
		return Display{ResultText: NetworkResultText, ExplanationText: NetworkExplanationText}
	case KindPending:
		return Display{ResultText: PendingResultText}
	default:
		return Display{}
	}
}
