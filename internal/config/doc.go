// Package config provides configuration parsing for ucom projects.
//
// The configuration is stored in ucom.json at the project root. Every field
// is optional. A .env file next to it is loaded into the environment, and
// UCOM_* variables (UCOM_PREFIX, UCOM_PERSIST_DSN, UCOM_DEV_PORT, ...)
// override the file.
//
// # Configuration File Structure
//
//	{
//	  "prefix": "u",
//	  "components": {
//	    "dir": "components",
//	    "ext": ".html"
//	  },
//	  "html": {
//	    "sanitize": "ugc"
//	  },
//	  "persist": {
//	    "backend": "sqlite",
//	    "dsn": "file:ucom.db",
//	    "table": "ucom_storage"
//	  },
//	  "dev": {
//	    "port": 3000,
//	    "host": "localhost"
//	  },
//	  "log": {
//	    "level": "info",
//	    "format": "text"
//	  }
//	}
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Components:", cfg.ComponentsPath())
package config
