//go:build lite

package tracking

// DriverAvailable indicates whether the SQLite driver is compiled in.
// Lite builds exclude SQLite and run without cycle history.
const DriverAvailable = false
