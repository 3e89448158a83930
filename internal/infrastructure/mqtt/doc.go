// Package mqtt publishes household change events to an MQTT broker.
//
// Every successful room or appliance write on the server becomes a JSON
// event on currently/users/{userID}/{rooms|appliances}/{action}, so other
// services can follow a household without polling the REST API. The
// client also keeps a retained online/offline status on
// currently/system/status, with a Last Will so a crash shows up as
// offline.
//
// Connections auto-reconnect with backoff. Use TLS (cfg.Broker.TLS) for
// anything beyond a local broker.
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	err = client.PublishChange(userID, mqtt.ResourceRooms, mqtt.ActionCreated, room)
package mqtt
