package cmd

import (
	"fmt"
	"time"

	"github.com/glothriel/castlink/pkg/cast"
	"github.com/glothriel/castlink/pkg/kex"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var relayURLFlag *cli.StringFlag = &cli.StringFlag{
	Name:  "relay-url",
	Value: "http://localhost:8080",
	Usage: "URL of the key-exchange relay server",
}

var castCommand *cli.Command = &cli.Command{
	Name:  "cast",
	Usage: "Pairs with a TV and hands it the session export for a collection",
	Flags: []cli.Flag{
		relayURLFlag,
		&cli.StringFlag{
			Name:  "pin",
			Usage: "The PIN shown on the TV screen. Leave empty to use auto-discovery via --bridge-url",
		},
		&cli.StringFlag{
			Name:  "bridge-url",
			Value: "ws://localhost:8008/channel",
			Usage: "Websocket URL of the receiver's pairing bridge, used when no --pin is given",
		},
		&cli.Int64Flag{
			Name:     "collection-id",
			Required: true,
			Usage:    "Identifier of the collection the TV should show",
		},
		&cli.StringFlag{
			Name:     "session-key",
			Required: true,
			Usage:    "Session encryption key the TV adopts after pairing",
		},
		&cli.StringSliceFlag{
			Name:  "state",
			Usage: "Extra state entries to export, comma-separated key=value pairs",
		},
	},
	Action: func(c *cli.Context) error {
		state, stateErr := parseState(c.StringSlice("state"))
		if stateErr != nil {
			return stateErr
		}
		caster := cast.NewCaster(
			kex.NewHTTPClient(c.String(relayURLFlag.Name)),
			cast.NewJSONEncoder(),
			cast.NewStaticExportSource(cast.SessionExport{
				SessionKey: c.String("session-key"),
				State:      state,
			}),
		)

		if pin := c.String("pin"); pin != "" {
			if submitErr := caster.SubmitPin(pin, c.Int64("collection-id")); submitErr != nil {
				logrus.Errorf("Pairing failed: %s", cast.UserFacingCode(submitErr))
				return submitErr
			}
			logrus.Info("Pairing succeeded, the TV will pick the collection up shortly")
			return nil
		}

		paired := make(chan struct{})
		session := cast.NewSession(caster, cast.OnSuccess(func() {
			close(paired)
		}))
		defer func() {
			if closeErr := session.Close(); closeErr != nil {
				logrus.Errorf("Failed to close pairing session: %v", closeErr)
			}
		}()
		session.BeginAutoDiscovery(cast.NewWebsocketDialer(c.String("bridge-url")), c.Int64("collection-id"))

		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-paired:
				logrus.Info("Pairing succeeded, the TV will pick the collection up shortly")
				return nil
			case <-ticker.C:
				if session.State() == cast.StateAutoFailure {
					return fmt.Errorf("auto pairing failed: %s", session.FieldError())
				}
			}
		}
	},
}
