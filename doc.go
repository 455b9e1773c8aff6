// Package jobdesk is the admin review client for the Bigsources job portal.
//
// It fetches the flat list of pending admin tasks, groups them per job,
// filters and pages them, and dispatches approve, reject and premium
// decisions to the portal's API Gateway functions. The backend decides
// every state transition; after each successful mutation the task list is
// refetched in full.
//
//	srv, _ := jobdesk.New(ctx, jobdesk.WithConfig(cfg), jobdesk.WithSession(sess))
//	page, _ := srv.List(ctx, aggregator.Criteria{Status: task.StatusPending}, 1, 0)
//	_, err := srv.Dispatch(ctx, page.Groups[0].Tasks[0].ID, approval.ActionApprove)
package jobdesk
