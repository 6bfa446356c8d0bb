// Package calllog implements the traversal and deletion workflows over
// the provider's paginated call log.
//
// Architecture:
//
// The Walker streams records page by page, issuing every request
// through the shared throttled executor. Cursor traversal (Walk)
// follows navigation links until a page carries none; offset traversal
// (WalkByOffset) requests numbered pages until one comes back empty,
// which is how purge runs cope with pages renumbering as records are
// deleted.
//
// An Action decides the fate of each record. The interactive policy
// confirms every deletion through a Confirmer; the unattended policy
// deletes exactly the records that carry a recording. Confirmed
// deletions are written to an append-only audit log.
//
// The Runner ties these together and keeps per-record failures local:
// a failed deletion is counted and the run continues, while a fetch
// failure or a rejected token aborts the run.
//
// Usage:
//
//	walker := calllog.NewWalker(client, exec, log)
//	action := calllog.NewUnattendedAction(client, exec)
//	audit, err := calllog.NewFileAuditLog(calllog.DefaultAuditPath)
//	if err != nil {
//	    return err
//	}
//	defer audit.Close()
//
//	runner := calllog.NewRunner(walker, action, audit, log)
//	stats, err := runner.RunByOffset(ctx, ringcentral.ListParams{
//	    View:    ringcentral.ViewSimple,
//	    DateTo:  time.Now().AddDate(0, 0, -30),
//	    PerPage: 250,
//	})
package calllog
