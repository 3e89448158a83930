// Package api is the Currently REST server.
//
// It serves the appliance catalogue and each signed-in user's rooms and
// appliances under /api/users/me, plus registration, login, a health
// check and Prometheus metrics. Appliance responses carry dailyKWh and
// estimatedDailyCost, computed with the same calculator the client uses.
//
// Rejections are written as text/plain so clients can show the message
// as-is; the X-Error-Code header carries a stable machine code.
//
// Every change and sign-in is appended to the user's activity log,
// readable at /api/users/me/activity. MQTT change events, InfluxDB
// estimate history and the activity log are optional. Without them the
// API behaves the same and simply records nothing.
//
//	srv, err := api.New(deps)
//	srv.Start(ctx)
//	defer srv.Close()
package api
