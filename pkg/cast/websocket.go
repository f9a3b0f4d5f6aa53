package cast

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"go.uber.org/multierr"
)

type websocketChannel struct {
	conn     *websocket.Conn
	messages chan Message

	writeMu   sync.Mutex
	closeOnce sync.Once
	closeErr  error
}

func (c *websocketChannel) Send(namespace string, payload []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteJSON(Message{Namespace: namespace, Data: json.RawMessage(payload)})
}

func (c *websocketChannel) Messages() <-chan Message {
	return c.messages
}

func (c *websocketChannel) Close() error {
	c.closeOnce.Do(func() {
		c.writeMu.Lock()
		writeErr := c.conn.WriteMessage(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		)
		c.writeMu.Unlock()
		c.closeErr = multierr.Combine(writeErr, c.conn.Close())
	})
	return c.closeErr
}

func (c *websocketChannel) readWorker() {
	defer close(c.messages)
	for {
		var message Message
		if readErr := c.conn.ReadJSON(&message); readErr != nil {
			logrus.Debugf("Device channel closed: %v", readErr)
			return
		}
		c.messages <- message
	}
}

func newWebsocketChannel(conn *websocket.Conn) DeviceChannel {
	channel := &websocketChannel{
		conn:     conn,
		messages: make(chan Message),
	}
	go channel.readWorker()
	return channel
}

type websocketDialer struct {
	url string
}

func (d *websocketDialer) Dial() (DeviceChannel, error) {
	conn, _, dialErr := websocket.DefaultDialer.Dial(d.url, nil)
	if dialErr != nil {
		return nil, dialErr
	}
	return newWebsocketChannel(conn), nil
}

// NewWebsocketDialer creates a ChannelDialer that connects to a receiver's
// websocket pairing bridge
func NewWebsocketDialer(url string) ChannelDialer {
	return &websocketDialer{url: url}
}
