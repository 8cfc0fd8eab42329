// Opsboard - Role-Aware Business Metrics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/opsboard

/*
Package services adapts Opsboard components to suture.Service.

Each wrapper turns a component lifecycle into Serve(ctx) and names itself
through fmt.Stringer for supervisor logs:

  - HTTPServerService: ListenAndServe with graceful Shutdown on cancel.
  - WebSocketHubService: delegates to websocket.Hub.RunWithContext.
  - CacheWarmService: loads today's snapshot once, then retires.
  - BadgerGCService: periodic value-log GC for the Badger cache backend.

Components are consumed through small interfaces so this package imports
neither the websocket nor the datasource package.
*/
package services
