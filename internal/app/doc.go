// Package app wires configuration, the showroom client, the deep-link
// dispatcher, state and the UI together. It is the composition root used by
// cmd/rvshowroom.
//
// # Components
//
//   - env.go: NewEnv loads config, builds the logger, metrics registry,
//     showroom client and dispatcher
//   - app.go: Run starts the terminal browser
//   - poller.go: background refresh of the showroom list with backoff
//   - commands.go: the list, get, open and scheme subcommands
//   - render.go: lipgloss rendering for command output
//
// # Browser Startup
//
//	Run()
//	  ├─ NewEnv()                    config, log file, metrics, client, dispatcher
//	  ├─ OnShowroomLoaded(store)     deep-link loads land in the store
//	  ├─ ServeMetrics()              only when metrics_addr is set
//	  ├─ StartPoller()               list refresh loop
//	  ├─ dispatchStartupLink()       launch argument, if any
//	  └─ ui.Run()                    blocks until quit
//
// # Polling
//
// The poller refreshes the list every interval (15s by default). After
// consecutive failures the wait doubles per failure up to 30s. This only
// paces the refresh loop; individual requests are never retried.
//
// # Commands
//
// The CLI commands log to stderr and print to stdout. get fetches several
// ids with an errgroup limited to four lookups at a time and prints the
// results in argument order. open dispatches a deep link and waits for the
// matching load event, so a link that is accepted but then fails to load
// still reports an error.
package app
