// Package config provides configuration loading for the loom command.
//
// The configuration is stored in loom.yaml at the project root. Every key
// can be overridden by a LOOM_* environment variable (dots become
// underscores, so serve.addr is LOOM_SERVE_ADDR) and by command-line flags
// bound through Loader.Viper.
//
// # Configuration File Structure
//
//	render:
//	  preset: pretty        # default, pretty, email, optimized
//	  mode: progressive     # sync, async, batch, progressive, backpressure
//	  chunk_size: 4096
//	serve:
//	  addr: localhost:8080
//	  pages: pages
//	  watch: true
//	  metrics: true
//	publish:
//	  bucket: my-site
//	  prefix: pages/
//	  region: eu-west-1
//	  cache_control: max-age=300
//	log:
//	  level: info           # debug, info, warn, error
//	  format: text          # text, json
//
// # Usage
//
//	cfg, err := config.NewLoader().Load("")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Addr:", cfg.Serve.Addr)
package config
