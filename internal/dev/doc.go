// Package dev contains development-mode helpers for the web server,
// currently the live-reload WebSocket endpoint browsers connect to
// for reload notifications.
package dev
