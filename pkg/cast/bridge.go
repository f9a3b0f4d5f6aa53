package cast

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// NewBridgeHandler exposes the receiver end of the device channel on
// /channel. Every inbound pair-request is answered with a pair-request
// carrying the receiver's pairing code, which makes the sender run the same
// handshake as with a manually typed PIN.
func NewBridgeHandler(code string) http.Handler {
	router := mux.NewRouter()
	router.HandleFunc("/channel", func(w http.ResponseWriter, r *http.Request) {
		conn, upgradeErr := upgrader.Upgrade(w, r, nil)
		if upgradeErr != nil {
			logrus.Errorf("Failed to upgrade bridge connection: %v", upgradeErr)
			return
		}
		defer conn.Close()
		logrus.Infof("Sender connected to the pairing bridge from %s", r.RemoteAddr)
		for {
			var message Message
			if readErr := conn.ReadJSON(&message); readErr != nil {
				logrus.Debugf("Bridge connection closed: %v", readErr)
				return
			}
			if message.Namespace != PairRequestNamespace {
				continue
			}
			body, encodeErr := json.Marshal(pairRequestBody{Code: code})
			if encodeErr != nil {
				logrus.Errorf("Failed to encode pair request: %v", encodeErr)
				continue
			}
			writeErr := conn.WriteJSON(Message{
				Namespace: PairRequestNamespace,
				Data:      body,
			})
			if writeErr != nil {
				logrus.Errorf("Failed to answer pair request: %v", writeErr)
				return
			}
		}
	})
	return router
}
