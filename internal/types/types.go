package types

// ChatTurn is a single conversation turn as sent by the widget.
type ChatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatRequest struct {
	SessionID string     `json:"sessionId,omitempty"`
	Role      string     `json:"role,omitempty"`
	Messages  []ChatTurn `json:"messages"`
}

// DeviceAnalysis is the nested verdict of a device-status lookup.
type DeviceAnalysis struct {
	OverallStatus string `json:"overallStatus"`
}

// IMEIMeta is attached to a response whenever a device-status lookup
// was attempted, whether or not it succeeded.
type IMEIMeta struct {
	Checked  bool            `json:"checked"`
	Status   string          `json:"status"`
	Summary  string          `json:"summary,omitempty"`
	Analysis *DeviceAnalysis `json:"analysis,omitempty"`
}

type Meta struct {
	SuggestedActions []string  `json:"suggestedActions"`
	IMEI             *IMEIMeta `json:"imei,omitempty"`
}

type ChatResponse struct {
	Success bool   `json:"success"`
	Intent  string `json:"intent"`
	Reply   string `json:"reply"`
	Meta    Meta   `json:"meta"`
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Debug   string `json:"debug,omitempty"`
}
