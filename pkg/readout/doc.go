// Package readout simulates a multi-channel detector readout: rows of pixel
// samples are encoded into per-channel bounded queues on a write clock, one
// arbiter drains the queues on a read clock, and the drained words are
// framed into a self-delimiting 16-bit stream.
//
// # Basic Usage
//
//	r, err := readout.New(readout.Config{Channels: 4, Policy: "carr"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	out, err := r.Run(ctx, rows)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(out.Report.Counters.Pops, len(out.Frames))
//
// Each row must carry Channels×5 samples in [0,7]; channel i takes samples
// [5i, 5i+5).
//
// # Comparing policies
//
// [Compare] runs the same rows through several policies concurrently and
// returns one [Output] per policy.
//
// # Events and reports
//
// Pass [WithEventSink] to observe degraded encoding, pops, skips and idle
// read slots as they happen, and [WithReportRepository] to persist each run's
// [Report].
package readout
