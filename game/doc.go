// Package game is the turn-based pursuit engine. An Engine owns the player,
// pursuer and collectible state over a built transit graph and advances it
// only when a command is applied with Tick. Renderers read Snapshot values
// and never touch engine state.
package game
