package policy

import (
	"repairhub-backend/internal/devicecheck"
	"repairhub-backend/internal/intent"
)

type tableKey struct {
	intent intent.Intent
	status string
}

var defaultActions = []string{
	"Tell me more about your device issue",
	"Run an IMEI blacklist check",
	"See our pricing plans",
}

var actionTable = map[tableKey][]string{
	{intent.IMEICheck, "clean"}:   {"Proceed with the trade-in quote", "Run a full diagnostic"},
	{intent.IMEICheck, "warning"}: {"Review the flagged records with the seller", "Run the check again in a few days"},
	{intent.IMEICheck, "flagged"}: {"Contact seller about device status", "Request proof of purchase"},
	{intent.IMEICheck, "error"}:   {"Double-check the IMEI digits", "Send the 15-digit IMEI again"},
	{intent.Pricing, ""}:          {"Compare plans side by side", "Start a free trial"},
	{intent.Diagnosis, ""}:        {"Book a repair appointment", "Get a repair cost estimate"},
}

// Suggest derives the suggested next actions from the intent and the
// device-status outcome. Pure table lookup; combinations not in the
// table fall back to the 3-entry default list.
func Suggest(it intent.Intent, device *devicecheck.Result) []string {
	key := tableKey{intent: it}
	if it == intent.IMEICheck && device != nil {
		if device.Success && device.Analysis != nil {
			key.status = device.Analysis.OverallStatus
		} else {
			key.status = "error"
		}
	}
	actions, ok := actionTable[key]
	if !ok {
		actions = defaultActions
	}
	return append([]string(nil), actions...)
}
