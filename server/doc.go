// Package server exposes a running game over HTTP and WebSocket for an
// external renderer. Requests that change the game are serialized through
// one lock; every change is pushed to connected sockets as a fresh scene.
package server
