// Package importer turns Google Places records into business listing drafts.
//
// # Flow
//
//	user input → ParseLocator ─┬─ identifier → Details ──────────────┐
//	                           └─ name + address → TextSearch → Details ┴→ Transform → Draft
//
// A draft is never persisted here. Callers show it for confirmation and hand
// the chosen one to the businesses repository. Quota gating also lives with
// the caller (see package quota), so the pipeline stays free of policy.
//
// # Rule tables
//
// Category suggestions and social-link detection are ordered rule lists where
// the first match wins:
//
//   - categories.yaml maps Google place types to directory category slugs.
//     CATEGORY_RULES_PATH can point at a replacement file.
//   - socialRules holds one pattern per network.
//
// Both can be tested rule by rule without touching the orchestrator.
package importer
