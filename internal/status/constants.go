// internal/status/constants.go
package status

// Link Status Block layout constants.
// These values define the register protocol and MUST NOT be configurable.

// ---- BLOCK GEOMETRY ----

// SlotsPerBlock is the fixed number of holding registers per relay.
const SlotsPerBlock = 20

// ---- SLOT INDICES ----

// SlotHealthCode holds the link health state.
const SlotHealthCode = 0

// SlotLastErrorCode holds the code of the last link failure.
const SlotLastErrorCode = 1

// SlotSecondsInError holds the duration (in seconds) the link has been down.
const SlotSecondsInError = 2

// SlotLossEpisodes counts disconnection episodes since start.
const SlotLossEpisodes = 3

// ---- RESERVED RANGE ----

// Slots 4–10 are reserved for future use.
const SlotReservedStart = 4
const SlotReservedEnd = 10

// ---- DEVICE NAME ----

// SlotDeviceNameStart is the first slot used for the device name.
// Device name is always placed at the END of the status block.
const SlotDeviceNameStart = 11

// SlotDeviceNameSlots is the number of slots reserved for the device name.
const SlotDeviceNameSlots = 8

// SlotDeviceNameEnd is the last slot used for the device name (inclusive).
const SlotDeviceNameEnd = SlotDeviceNameStart + SlotDeviceNameSlots - 1

// ---- LIMITS ----

// DeviceNameMaxChars is the maximum number of ASCII characters stored for device name.
const DeviceNameMaxChars = 16

// CounterMax is where every counter slot saturates.
const CounterMax = 65535

// ---- HEALTH CODES ----

// HealthUnknown represents the boot state, before the first connect attempt completes.
const HealthUnknown uint16 = 0

// HealthOK represents an established source connection.
const HealthOK uint16 = 1

// HealthError represents a lost or failing source connection.
const HealthError uint16 = 2
