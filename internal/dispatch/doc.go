// Package dispatch translates actuation plans into MQTT commands.
//
// The decision engine never calls actuators directly; each cycle produces
// an ActuationPlan and the Dispatcher turns it into retained command
// messages:
//
//	thermal/command/ac/{room}              {"mode":"heat","setpoint":21.5,...}
//	thermal/command/floor_heating/{room}   {"state":"on",...}
//	thermal/command/water_heater/setpoint  {"setpoint":45.0,...}
//
// Commands carry a uuid for traceability. The dispatcher remembers the
// last commanded state per actuator and skips writes that would repeat it,
// so an idle room produces exactly one off command per transition instead
// of one per cycle.
//
// A failed publish is logged and does not stop the rest of the plan from
// dispatching; the next cycle retries naturally.
package dispatch
