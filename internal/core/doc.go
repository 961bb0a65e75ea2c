// Package core implements the entity engines over the tabular store:
// client search and upsert, pet batch upsert, and supply orders with
// line items. Engines hold no state between calls; every operation
// re-reads its table, so external edits to the workbook are picked up
// immediately.
package core
