// Package crystalrun orchestrates local parallel execution of a scientific
// binary: it resolves a serial or hybrid MPI+OpenMP plan from requested and
// detected core counts, allocates a collision-free scratch workspace with
// guaranteed release, stages fixed-name input and auxiliary files, launches
// the external process with a child-scoped environment overlay, captures its
// exit status reliably and diagnoses failures from known output signatures.
//
// The package is designed to be embedded in host applications. End-users
// typically interact via the high-level Service façade:
//
//	srv := crystalrun.New()
//	rt := srv.Runtime()
//	outcome, err := rt.RunJob(ctx, "mgo.d12", 4)
//	os.Exit(outcome.ExitCode())
//
// For more details see the README and individual sub-packages.
package crystalrun
