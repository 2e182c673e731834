package prompt

import (
	"encoding/json"
	"sort"
	"strings"

	_ "embed"

	"repairhub-backend/internal/intent"
)

//go:embed system_prompt.txt
var systemPromptTemplate string

const (
	shopRoleLine     = "You are talking to a repair-shop operator. Be precise, use trade terminology, and assume familiarity with diagnostics and parts."
	customerRoleLine = "You are talking to a customer. Avoid jargon, explain steps simply, and reassure them about next steps."
)

var guidelinesByIntent = map[intent.Intent]string{
	intent.IMEICheck: strings.Join([]string{
		"- If an IMEI check result is present in the context, report the overall status plainly and explain what it means for the user.",
		"- If no IMEI result is present, ask the user to send the 15-digit IMEI (dial *#06# to find it).",
		"- Never speculate about blacklist or lock status beyond the provided result.",
	}, "\n"),
	intent.Diagnosis: strings.Join([]string{
		"- Ask at most one clarifying question before suggesting likely causes.",
		"- Match the described symptoms against the symptom categories in the context.",
		"- Suggest whether the issue looks like a home fix or needs a repair appointment.",
	}, "\n"),
	intent.Pricing: strings.Join([]string{
		"- Quote only the plans and credit packs present in the context, with exact prices.",
		"- Recommend the smallest plan that covers the user's stated need.",
		"- Mention the free trial only when the user has not subscribed yet.",
	}, "\n"),
}

var defaultGuidelines = strings.Join([]string{
	"- Answer the question directly if it is about devices, repairs or the platform.",
	"- If the request is unrelated to RepairHub, say so briefly and point the user back to what you can help with.",
}, "\n")

// Build renders the system prompt: fixed preamble, role-conditioned
// sentence, a context section for whichever fragments are present, and
// the guideline block selected by intent.
func Build(it intent.Intent, contextPayload map[string]any, role string) string {
	roleLine := customerRoleLine
	if role == "shop" {
		roleLine = shopRoleLine
	}

	guidelines, ok := guidelinesByIntent[it]
	if !ok {
		guidelines = defaultGuidelines
	}

	out := systemPromptTemplate
	out = strings.ReplaceAll(out, "{role_line}", roleLine)
	out = strings.ReplaceAll(out, "{context_section}", contextSection(contextPayload))
	out = strings.ReplaceAll(out, "{guidelines}", guidelines)
	return strings.TrimSpace(out)
}

func contextSection(payload map[string]any) string {
	if len(payload) == 0 {
		return "No additional context is available for this request."
	}

	keys := make([]string, 0, len(payload))
	for k := range payload {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString("Context:\n")
	for _, k := range keys {
		blob, err := json.MarshalIndent(payload[k], "", "  ")
		if err != nil {
			continue
		}
		b.WriteString("### ")
		b.WriteString(k)
		b.WriteString("\n")
		b.Write(blob)
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
