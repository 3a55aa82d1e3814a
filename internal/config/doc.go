// Package config loads vtree.json or vtree.yaml.
//
// # Configuration File Structure
//
//	{
//	  "engine": {
//	    "debug": false,
//	    "keyIndexThreshold": 32,
//	    "keyIndexMinNew": 4
//	  },
//	  "live": {
//	    "address": ":8080",
//	    "title": "vtree",
//	    "readTimeout": "60s",
//	    "writeTimeout": "10s",
//	    "heartbeatInterval": "30s",
//	    "pendingTimeout": "1m",
//	    "maxMessageSize": 65536
//	  },
//	  "log": {
//	    "level": "info",
//	    "format": "text"
//	  }
//	}
//
// The same keys work in YAML. Missing values take their defaults.
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	logger, _ := cfg.Logger(os.Stderr)
//	srv := live.New(app, cfg.LiveConfig(logger))
package config
