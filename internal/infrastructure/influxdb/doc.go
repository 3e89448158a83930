// Package influxdb records appliance energy estimates in InfluxDB.
//
// Each appliance create or update on the server writes one
// appliance_estimate point, giving a history of how a household's
// estimated consumption changes as appliances are added, retuned and
// moved. Writes are non-blocking and batched; failures arrive through the
// SetOnError callback.
//
// The integration is optional. Connect returns ErrDisabled when
// influxdb.enabled is false and callers carry on without it.
//
//	client, err := influxdb.Connect(cfg.InfluxDB)
//	if errors.Is(err, influxdb.ErrDisabled) {
//	    // run without history
//	}
package influxdb
