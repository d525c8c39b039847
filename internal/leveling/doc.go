// Package leveling scores habit completions and keeps habit difficulty in
// line with the user's level.
//
// Everything here is a pure function over values: completion rates and XP
// multiplier tiers, the two habit level estimators, level mismatch
// detection, baby-step plans, workload consistency, and the mismatch state
// transition used by the periodic scan. Callers own persistence and apply
// the advisory outputs (Recommendation, Action) themselves.
package leveling
