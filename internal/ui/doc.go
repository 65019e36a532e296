// Package ui provides the terminal showroom browser built on Bubble Tea.
//
// # Layout
//
//	header        connection state, base URL, list size, spinner
//	command bar   key hints, or the search / deep-link input
//	content       showroom list or detail view
//	log pane      tail of the log file (toggle with l)
//	footer        status message or the last load
//
// # Data Flow
//
// The browser never talks to the list endpoint itself. A poller in package
// app refreshes state.Store and the UI reads a snapshot on every tick.
//
// Opening a showroom from the list and opening a deep link end the same
// way: the load is recorded in the store and the next snapshot with a newer
// LoadedAt switches to the detail view. Failed loads keep the previous
// showroom and show the error in the footer.
//
// Search results replace the list until the search is cleared with esc or
// an empty query.
//
// # Files
//
//   - app.go: Model, Update and key handling
//   - commands.go: tea.Cmd wrappers around the client, dispatcher and log tail
//   - render.go: header, list, detail, log pane and footer
//   - theme.go, style_helpers.go: palettes and lipgloss helpers
//   - keys.go, help.go: bindings and the help overlay
package ui
