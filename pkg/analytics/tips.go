package analytics

// Static coaching tips keyed by insight id prefix. Content is fixed at
// build time so categorization stays deterministic and testable without
// the narration collaborator.

const (
	insightRegularCheckIns = "regular-check-ins"
	insightTeamRituals     = "team-rituals"
	insightDeliveryFocus   = "delivery-focus"
	insightDecisionMaking  = "decision-making"
	insightCrossTeamCoord  = "cross-team-coordination"
)

var coachingTips = map[string][]string{
	insightRegularCheckIns: {
		"Keep a running shared agenda so neither side arrives empty-handed.",
		"Close every one-on-one by agreeing on one concrete follow-up.",
		"Track mood over time; a two-point drop is worth a direct conversation.",
	},
	insightTeamRituals: {
		"Rotate who runs recurring team sessions to build shared ownership.",
		"Retire rituals that no longer earn their calendar slot.",
		"End recurring meetings with a one-minute usefulness check.",
	},
	insightDeliveryFocus: {
		"Cap concurrent work per area; finishing beats starting.",
		"Escalate blockers the day they appear, not at the weekly review.",
		"Review stale in-progress actions weekly and close or re-scope them.",
	},
	insightDecisionMaking: {
		"Record the alternatives you rejected, not just the choice you made.",
		"Set a revisit date on reversible decisions instead of relitigating ad hoc.",
		"Name a single owner for every decision's follow-through.",
	},
	insightCrossTeamCoord: {
		"Establish a shared definition of done across teams you coordinate.",
		"Batch cross-team requests into a predictable weekly sync.",
		"Make inter-team dependencies visible on one board.",
	},
}

// tipsFor returns the static tip list for an insight id prefix. Unknown ids
// get an empty list rather than nil so the JSON shape stays stable.
func tipsFor(id string) []string {
	if tips, ok := coachingTips[id]; ok {
		out := make([]string, len(tips))
		copy(out, tips)
		return out
	}
	return []string{}
}
