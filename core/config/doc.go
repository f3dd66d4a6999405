// Package config assembles the service configuration from a .env file, the
// process environment and `default` struct tags.
//
// Sections and the variables that drive them:
//
//	server     SERVER_PORT, SERVER_API_KEY, SERVER_SHUTDOWN_TIMEOUT_SECONDS
//	database   DATABASE_DRIVER (mysql|sqlite), DATABASE_HOST, DATABASE_NAME, ...
//	storage    STORAGE_ENDPOINT, STORAGE_BUCKET, ...
//	log        LOG_LEVEL, LOG_FORMAT
//	reconcile  RECONCILE_MAX_DIFF_OPS, RECONCILE_CACHE_TTL_SECONDS,
//	           RECONCILE_VISIBLE_ROWS, RECONCILE_LIST_FETCH_LIMIT
//	dispatch   DISPATCH_QUEUE_SIZE
//
// Values in .env override the environment.
package config
