package prompt

import (
	"sort"

	"repairhub-backend/internal/devicecheck"
	"repairhub-backend/internal/intent"
	"repairhub-backend/internal/refdata"
)

const maxSymptomExamples = 5

// AssembleContext combines classifier output, cached reference data
// and the device-status result into a bounded payload. It is a pure
// function of its inputs; omitted fragments are absent keys, not
// nulls, to keep the eventual prompt small.
func AssembleContext(it intent.Intent, snap refdata.Snapshot, device *devicecheck.Result) map[string]any {
	payload := make(map[string]any)

	if snap.Devices != nil {
		payload["deviceCatalog"] = deviceCatalogSummary(snap.Devices)
	}
	if it == intent.Diagnosis && snap.Symptoms != nil {
		payload["symptomCategories"] = symptomSummary(snap.Symptoms)
	}
	if it == intent.Pricing && snap.Pricing != nil {
		payload["pricing"] = map[string]any{
			"plans":       snap.Pricing.Plans,
			"creditPacks": snap.Pricing.CreditPacks,
		}
	}
	if snap.Rewards != nil {
		payload["rewards"] = snap.Rewards.Tiers
	}
	if it == intent.IMEICheck && device != nil && device.Success {
		payload["imeiCheck"] = device
	}
	return payload
}

func deviceCatalogSummary(catalog *refdata.DeviceCatalog) map[string]any {
	seen := make(map[string]struct{})
	categories := make([]string, 0)
	for _, m := range catalog.Models {
		if _, ok := seen[m.Category]; ok {
			continue
		}
		seen[m.Category] = struct{}{}
		categories = append(categories, m.Category)
	}
	sort.Strings(categories)
	return map[string]any{
		"modelCount": len(catalog.Models),
		"categories": categories,
	}
}

func symptomSummary(tax *refdata.SymptomTaxonomy) []map[string]any {
	out := make([]map[string]any, 0, len(tax.Categories))
	for _, c := range tax.Categories {
		examples := c.Symptoms
		if len(examples) > maxSymptomExamples {
			examples = examples[:maxSymptomExamples]
		}
		out = append(out, map[string]any{
			"category": c.Name,
			"examples": examples,
		})
	}
	return out
}
