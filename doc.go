// Package runways is the composition root of the local persistence layer of
// a pilot airfield reference app.
//
// It wires the stores in pkg/ to their storage adapters:
//
//   - **Reference catalog** (pkg/catalog): immutable airfields and runways,
//     validated at load time, with search, region grouping and list modes.
//   - **Favourites** (pkg/favourites): the starred airfield set, kept under a
//     single preference key.
//   - **Private notes** (pkg/notes): per-airfield notes, upgraded on read from
//     the older content-only layout.
//   - **Public board** (pkg/board): public notes plus this device's vote ledger.
//
// Every mutator is best-effort: it updates memory, writes the whole document
// through an atomic temp-file rename, and never returns an error. Failures
// are logged and passed to the handler set with WithErrorHandler.
//
// Usage:
//
//	app, err := runways.Open("", runways.WithLogger(logger))
//	if err != nil {
//		return err
//	}
//	defer app.Close()
//
//	app.Favourites.Toggle("EGLL")
//	app.Notes.Add("EGLL", "Taxi", "Use K", core.CategoryTaxi)
package runways
