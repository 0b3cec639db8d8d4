// Package simulation runs batches of randomly parameterized communities and
// records their estimated collective accuracy.
//
// Every community gets its own random stream derived from the batch seed and
// its community number, so a batch is reproducible from (seed, scenario)
// alone and a single community can be regenerated without replaying the ones
// before it. Communities are persisted to a store.CommunityStore so their
// accuracy can later be re-estimated with Replay.
//
// Usage:
//
//	r := simulation.NewRunner(st, simulation.WithLogger(logger))
//	w, _ := simulation.NewCSVResultWriter(f)
//	summary, err := r.Run(ctx, scenario, w)
package simulation
