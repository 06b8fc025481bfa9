/*
Package thumbcache parses Windows thumbnail cache databases
(thumbcache_*.db, iconcache_*.db) and recovers the original file names of
their entries.

# Quick Start

Parse one database and list its entries:

	eng := thumbcache.New(thumbcache.Options{})
	defer eng.Close()

	db, err := eng.ParseDatabase(ctx, "thumbcache_256.db")
	if err != nil {
	    log.Fatal(err)
	}
	for _, e := range db.Entries {
	    fmt.Printf("%016x %s %d bytes\n", e.Hash, e.Filename, e.Size)
	}

# Recovering names

Entry names are often empty or hash-like. Three sources can fill them in:

  - CrossReferenceAll attaches the Windows Search properties of every
    entry from an index database opened with OpenIndex.
  - MapFromIndex renames entries with the System_ItemPathDisplay of the
    index row carrying the same thumbnail cache id.
  - ScanFilesystem and ScanIndexPaths recompute the hash of live files and
    rename every entry that matches.

# Concurrency

An Engine runs one task at a time. Parsing, export, index and scan
operations wait for the running task; Remove refuses with types.ErrBusy
instead of waiting. Entries may be read at any time, but a running scan
may rename them.
*/
package thumbcache
