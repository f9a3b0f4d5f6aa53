package cmd

import (
	"fmt"

	"github.com/glothriel/castlink/pkg/kex"
	"github.com/urfave/cli/v2"
)

var relayCommand *cli.Command = &cli.Command{
	Name:  "relay",
	Usage: "Runs the key-exchange relay server",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "host",
			Value: "0.0.0.0",
			Usage: "Host the relay server will be listening on",
		},
		&cli.IntFlag{
			Name:  "port",
			Value: 8080,
			Usage: "Port the relay server will be listening on",
		},
		storeDBFlag,
		storeDirFlag,
	},
	Action: func(c *cli.Context) error {
		startPrometheusServer(c)
		return kex.Serve(
			fmt.Sprintf("%s:%d", c.String("host"), c.Int("port")),
			getStore(c),
		)
	},
}
