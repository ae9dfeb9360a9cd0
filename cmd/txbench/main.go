// Command txbench benchmarks the reference memstore.Store through create,
// update, delete, and conflicting-commit paths.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/ufoscout/ic-tx"
	"github.com/ufoscout/ic-tx/memstore"
)

func main() {
	count := pflag.IntP("count", "c", 10000, "number of records to create/update/delete")
	conflicts := pflag.IntP("conflicts", "x", 1000, "number of deliberately conflicting commits to attempt against a shared id")
	pflag.Parse()

	ctx := context.Background()
	backend := memstore.New[int, string]()
	db := ictx.New[int, string](backend)

	fmt.Printf("txbench: %d records, %d conflict attempts\n", *count, *conflicts)

	runCreate(ctx, db, *count)
	runUpdate(ctx, db, *count)
	runConflicts(ctx, db, *conflicts)
	runDelete(ctx, db, *count)

	if n := backend.Len(); n != 0 {
		fmt.Printf("warning: %d records remain after delete pass\n", n)
		os.Exit(1)
	}
}

func runCreate(ctx context.Context, db ictx.Database[int, string], count int) {
	start := time.Now()
	for i := 0; i < count; i++ {
		tx := db.Tx()
		if err := tx.Save(ictx.NewNewRecord(i, fmt.Sprintf("value-%d", i))); err != nil {
			fail("stage create", i, err)
		}
		if err := tx.Commit(ctx); err != nil {
			fail("commit create", i, err)
		}
	}
	report("create", count, time.Since(start))
}

func runUpdate(ctx context.Context, db ictx.Database[int, string], count int) {
	start := time.Now()
	for i := 0; i < count; i++ {
		rec, err := db.FetchOne(ctx, i)
		if err != nil {
			fail("fetch before update", i, err)
		}
		tx := db.Tx()
		if err := tx.Update(ictx.RecordOf(rec.ID, rec.Version(), fmt.Sprintf("updated-%d", i))); err != nil {
			fail("stage update", i, err)
		}
		if err := tx.Commit(ctx); err != nil {
			fail("commit update", i, err)
		}
	}
	report("update", count, time.Since(start))
}

// runConflicts stages two transactions reading the same id before either
// commits, to exercise the UpdateOptimisticLock path deterministically.
func runConflicts(ctx context.Context, db ictx.Database[int, string], attempts int) {
	if attempts == 0 {
		return
	}
	id := 0
	start := time.Now()
	lost := 0
	for i := 0; i < attempts; i++ {
		rec, err := db.FetchOne(ctx, id)
		if err != nil {
			fail("fetch before conflict", id, err)
		}

		txA := db.Tx()
		if err := txA.Update(ictx.RecordOf(rec.ID, rec.Version(), "from-a")); err != nil {
			fail("stage conflict a", id, err)
		}
		txB := db.Tx()
		if err := txB.Update(ictx.RecordOf(rec.ID, rec.Version(), "from-b")); err != nil {
			fail("stage conflict b", id, err)
		}

		if err := txA.Commit(ctx); err != nil {
			fail("commit conflict a", id, err)
		}
		if err := txB.Commit(ctx); err != nil {
			lost++
		}
	}
	report(fmt.Sprintf("conflict (%d losers)", lost), attempts, time.Since(start))
}

func runDelete(ctx context.Context, db ictx.Database[int, string], count int) {
	start := time.Now()
	for i := 0; i < count; i++ {
		tx := db.Tx()
		if err := tx.Delete(ctx, i); err != nil {
			fail("stage delete", i, err)
		}
		if err := tx.Commit(ctx); err != nil {
			fail("commit delete", i, err)
		}
	}
	report("delete", count, time.Since(start))
}

func report(label string, count int, elapsed time.Duration) {
	fmt.Printf("%s: %d ops in %v (%.0f ops/sec)\n", label, count, elapsed, float64(count)/elapsed.Seconds())
}

func fail(step string, id int, err error) {
	fmt.Fprintf(os.Stderr, "txbench: %s id=%d: %v\n", step, id, err)
	os.Exit(1)
}
