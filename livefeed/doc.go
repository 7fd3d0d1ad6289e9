// Package livefeed reads GTFS-Realtime vehicle positions. The game uses them
// to drop pursuers where real trains currently are.
package livefeed
