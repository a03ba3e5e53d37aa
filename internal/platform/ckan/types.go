package ckan

import "strings"

// Params is the parameter mapping sent with an action.
type Params map[string]any

// ActionCall names a backend action and the parameters to send with it.
type ActionCall struct {
	Action string
	Params Params
}

// NewActionCall copies params so the returned call cannot be changed through
// the caller's map.
func NewActionCall(action string, params Params) ActionCall {
	cp := make(Params, len(params))
	for k, v := range params {
		cp[k] = v
	}
	return ActionCall{Action: action, Params: cp}
}

// ReadOnly reports whether the action is a read that CKAN serves over GET.
func (c ActionCall) ReadOnly() bool {
	return strings.HasSuffix(c.Action, "_list") || strings.HasSuffix(c.Action, "_show")
}
