// Opsboard - Role-Aware Business Metrics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/opsboard

/*
Package main is the Opsboard server.

Opsboard serves a role-aware business metrics dashboard: KPI cards, revenue
and profit charts, system health and a filterable detail table over a daily
dataset snapshot. What a caller sees depends on the role and team in their
JWT.

# Application Architecture

	RootSupervisor ("opsboard")
	├── DataSupervisor ("data-layer")
	│   ├── CacheWarmService (CACHE_WARM_ON_START=true)
	│   └── BadgerGCService (CACHE_TYPE=badger)
	├── MessagingSupervisor ("messaging-layer")
	│   └── WebSocketHubService
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

Component initialization order:

 1. Configuration: Koanf v2 (defaults, config.yaml, .env, environment)
 2. Logging: zerolog, JSON or console
 3. Cache backend: memory, Redis, Badger or none
 4. Data provider and repository: SYNTHETIC, REST or SQL
 5. RBAC gate: Casbin with the embedded or configured policy
 6. Dashboard bindings
 7. WebSocket hub and Chi router
 8. Supervisor tree

# Configuration

	PORT=8050                    # HTTP_PORT overrides PORT
	LOG_LEVEL=info               # trace, debug, info, warn, error
	LOG_FORMAT=json              # json or console
	DEBUG=false                  # forces debug console logging

	DATA_SOURCE=SYNTHETIC        # SYNTHETIC, REST or SQL
	API_BASE_URL=                # REST provider base URL
	DB_URL=                      # SQL provider DSN (postgres:// or duckdb path)
	MAX_ROWS=7000

	JWT_SECRET=dev-secret        # HS256 signing secret
	DISABLE_AUTH=false           # serve every caller as Developer/Platform

	CACHE_TYPE=SimpleCache       # SimpleCache, RedisCache, badger or none
	CACHE_TIMEOUT_SECONDS=86400
	REDIS_URL=redis://localhost:6379/0

	CORS_ORIGINS=*               # also the WebSocket origin allow-list

# Signal Handling

SIGINT and SIGTERM cancel the root context. The HTTP server drains for up
to HTTP_TIMEOUT, the hub closes every client, and the cache backend is
closed last.
*/
package main
