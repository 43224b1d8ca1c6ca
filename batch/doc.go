// Package batch decodes many programs concurrently.
//
// A Runner takes Jobs, usually built from a manifest, and decodes them on a
// bounded pool of workers. Each job reads its own bytecode and symbol table,
// so a missing file or a bad program only fails that job. Results come back
// in job order together with a single error combining every failure:
//
//	results, err := batch.RunManifest(ctx, m, batch.Options{Verify: true})
//	for _, e := range multierr.Errors(err) {
//		log.Println(e)
//	}
//
// With Verify set, output is compared line by line with the job's stored
// reference copy and the first differing line is reported.
package batch
