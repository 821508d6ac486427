// Package jobs provides scheduled background tasks for the fulfillment service.
//
// Jobs are cron-based (github.com/robfig/cron/v3) and call application
// command handlers the same way HTTP handlers do, acting as the system user.
//
// # Available Jobs
//
// RiderAssignmentJob sweeps confirmed orders that have no rider and runs
// auto-assignment for each. Orders whose rider rejected the delivery return
// to confirmed and are picked up by the next sweep. The default interval is
// 30 seconds; a sweep that outlasts the interval delays the next one.
//
// # Usage
//
//	assignment := jobs.NewRiderAssignmentJob(handler, 30*time.Second, 50, logger)
//	manager := jobs.NewJobManager(assignment)
//	if err := manager.StartAll(); err != nil {
//		return err
//	}
//	defer manager.StopAll()
//
// # Error Handling
//
// Orders without an eligible rider are counted, not logged as failures.
// Other per-order errors are logged with the order id; a failed order does
// not stop the sweep.
package jobs
