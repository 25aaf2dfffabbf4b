// Package srri reconciles a fund's internally tracked SRRI history against
// the values published in its regulatory documents, and reports the share
// classes whose current indicator disagrees with the official one.
//
// The core functionalities include:
//   - Header Normalization: turning the monitoring spreadsheet's two-row
//     header into a canonical column map before any data row is read.
//   - Stability Analysis: rolling 16-week equality over each share class's
//     ordered series of risk scores.
//   - Document Extraction: ordered fallback text patterns pulling the SRRI,
//     the ongoing-charges fee and the share-class inception date out of
//     KIID and fact-sheet text.
//   - Reconciliation: joining both canonical record sets on a synthesized
//     share-class identifier and emitting mismatches only where the
//     internal series has proven stable.
//
// This package serves as the foundational logic for the `suc` command-line
// tool. All record sets are value objects, read-only after construction,
// so a full run is deterministic for a fixed pair of inputs.
package srri
