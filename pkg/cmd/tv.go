package cmd

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"net/http"
	"time"

	"github.com/glothriel/castlink/pkg/cast"
	"github.com/glothriel/castlink/pkg/kex"
	"github.com/glothriel/castlink/pkg/sealbox"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var tvCommand *cli.Command = &cli.Command{
	Name:  "tv",
	Usage: "Runs a receiver emulator: advertises a PIN and waits for a sealed payload",
	Flags: []cli.Flag{
		relayURLFlag,
		&cli.StringFlag{
			Name:  "bridge-host",
			Value: "0.0.0.0",
			Usage: "Host the pairing bridge will be listening on",
		},
		&cli.IntFlag{
			Name:  "bridge-port",
			Value: 8008,
			Usage: "Port the pairing bridge will be listening on",
		},
		&cli.DurationFlag{
			Name:  "poll-interval",
			Value: time.Second * 2,
			Usage: "How often to check the relay for the sealed payload",
		},
		&cli.UintFlag{
			Name:  "poll-attempts",
			Value: 150,
			Usage: "How many times to check the relay before giving up",
		},
	},
	Action: func(c *cli.Context) error {
		keyPair, keyErr := sealbox.NewKeyPair()
		if keyErr != nil {
			return keyErr
		}
		pin, pinErr := generatePin()
		if pinErr != nil {
			return pinErr
		}

		client := kex.NewHTTPClient(c.String(relayURLFlag.Name))
		if setErr := client.Set(cast.PubkeyKey(pin), keyPair.PublicKey); setErr != nil {
			return fmt.Errorf("failed to advertise public key: %w", setErr)
		}
		logrus.Infof("Pair your device with PIN %s", pin)

		bridgeAddr := fmt.Sprintf("%s:%d", c.String("bridge-host"), c.Int("bridge-port"))
		go func() {
			logrus.Infof("Starting pairing bridge on %s", bridgeAddr)
			server := &http.Server{
				Addr:              bridgeAddr,
				ReadHeaderTimeout: 3 * time.Second,
				Handler:           cast.NewBridgeHandler(pin),
			}
			if listenErr := server.ListenAndServe(); listenErr != nil {
				logrus.Fatalf("Failed to start pairing bridge: %v", listenErr)
			}
		}()

		polling := kex.NewPollingClient(client, c.Uint("poll-attempts"), c.Duration("poll-interval"))
		sealed, getErr := polling.Get(cast.PayloadKey(pin))
		if getErr != nil {
			return fmt.Errorf("no payload arrived: %w", getErr)
		}

		opened, openErr := sealbox.Open(sealed, keyPair)
		if openErr != nil {
			return openErr
		}
		export, decodeErr := cast.NewJSONEncoder().Decode(opened)
		if decodeErr != nil {
			return decodeErr
		}
		logrus.Infof("Paired, showing collection %d", export.TargetCollectionID)
		return nil
	},
}

// generatePin draws a random 6-digit pairing code. The code namespaces the
// handshake on the relay and is a bearer credential for this single pairing,
// anyone seeing it on the screen can publish a payload for it.
func generatePin() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
