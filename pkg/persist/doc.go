// Package persist provides key/value storage backends for persisted store
// entries.
//
// A persisted entry is shared by every instance of a component and survives
// restarts. The store package encodes values as JSON and hands them to a
// Storage keyed "component:key".
//
// Available backends:
//
//   - MemoryStorage: in-process map, the default
//   - SQLStorage: any database/sql driver (PostgreSQL, MySQL, SQLite)
//   - RedisStorage: any client compatible with go-redis
//   - S3Storage: one object per key in an S3 bucket
//
// Backends are selected in ucom.json:
//
//	{
//	    "persist": {
//	        "backend": "sqlite",
//	        "dsn": "file:ucom.db",
//	        "table": "ucom_persist"
//	    }
//	}
package persist
