// Package mqtt provides the MQTT transport for the thermal controller.
//
// It wraps paho.mqtt.golang with connection management, automatic
// reconnection, subscription restoration, and a topic scheme binding the
// controller to a Home Assistant statestream on one side and its own
// command tree on the other.
//
// # Topic Layout
//
// Inbound entity states follow the statestream layout:
//
//	{state_prefix}/{domain}/{object_id}/state
//	homeassistant/statestream/sensor/living_room_temperature/state
//
// Outbound actuation and status topics live under the controller prefix:
//
//	{command_prefix}/command/ac/{room}              AC mode + setpoint
//	{command_prefix}/command/floor_heating/{room}   circuit on/off
//	{command_prefix}/command/water_heater/setpoint  central water setpoint
//	{command_prefix}/core/room/{room}/decision      retained room decision
//	{command_prefix}/system/status                  online/offline (LWT)
//
// # Connection Lifecycle
//
//	Connect(cfg)
//	    |
//	    v
//	[connected] --publishes--> {command_prefix}/system/status (online, retained)
//	    |
//	    |-- network failure --> broker publishes LWT (offline, retained)
//	    |                       auto-reconnect with exponential backoff,
//	    |                       subscriptions restored on reconnect
//	    |
//	    v
//	Close() --publishes--> graceful offline status, then disconnects
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	err = client.Subscribe(client.Topics().AllEntityStates(), 1, store.HandleState)
//
// Message handlers run in paho-managed goroutines with panic recovery.
// Handler errors are logged and do not affect message acknowledgment.
package mqtt
