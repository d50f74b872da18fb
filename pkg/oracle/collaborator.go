package oracle

import (
	"context"
)

// Request is the payload sent to the AI collaborator: the user's free
// text plus a bounded context summary of graph or viewport state.
type Request struct {
	Query   string `json:"query"`
	Context string `json:"context"`
}

// Action is a structured follow-up suggested by the collaborator. Actions
// are only ever applied through the scene capability API, never by
// mutating the renderer directly.
type Action struct {
	Label  string            `json:"label"`
	Type   string            `json:"actionType"`
	Params map[string]string `json:"params,omitempty"`
}

// Supported action types.
const (
	ActionFocusNode     = "focus_node"
	ActionFilterCluster = "filter_cluster"
	ActionResetView     = "reset_view"
)

// Response is the collaborator's structured answer.
type Response struct {
	Explanation      string   `json:"explanation"`
	SuggestedActions []Action `json:"suggested_actions,omitempty"`
}

// Collaborator is the opaque AI boundary. Failures surface as a returned
// error, never a panic; the panel catches them and turns them into
// transcript entries.
type Collaborator interface {
	Explain(ctx context.Context, req Request) (Response, error)
}

// Capabilities is the subset of the scene capability API a panel may
// drive when applying suggested actions.
type Capabilities interface {
	FocusNode(id string)
	FilterCluster(id string)
	ResetView()
}
