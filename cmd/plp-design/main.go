// cmd/plp-design/main.go
package main

import (
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/Moldia/PLP-directRNA-design/internal/cli"
)

func main() {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	log.SetOutput(os.Stderr)

	if err := cli.NewCommand().Execute(); err != nil {
		log.Error(err)
		if cli.IsUsageError(err) {
			os.Exit(2)
		}
		os.Exit(3)
	}
}
