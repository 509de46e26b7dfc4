// Package watcher reports changes to tracked input files.
//
// fsnotify is the primary mechanism; when it cannot be initialised the
// watcher falls back to polling. Raw events are debounced so an editor's
// save burst becomes one batch, and filtered with the same scanner.Options
// that directory scans use.
//
//	w, err := watcher.New(watcher.Options{Filter: scanOpts})
//	if err != nil {
//	    return err
//	}
//	go func() { _ = w.Start(ctx, []string{"docs", "notes.txt"}) }()
//	for batch := range w.Events() {
//	    changed, removed := watcher.Split(batch)
//	    _, _ = tr.Sync(ctx, changed, removed)
//	}
package watcher
