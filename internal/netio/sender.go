package netio

import "github.com/sirupsen/logrus"

// StartSender launches the goroutine that drains one connection's
// outbound queue in order, so packets reach the wire in the order the
// sender dequeues them. Each connection gets its own sender goroutine
// rather than one global sender thread serving every connection:
// net.Conn.Write already blocks only the goroutine calling it, so
// per-connection senders preserve per-connection ordering without
// forcing one slow peer's write to stall delivery to every other peer.
func StartSender(c *Connection, log *logrus.Entry) {
	go func() {
		for frame := range c.outbound {
			if _, err := c.Conn.Write(frame); err != nil {
				log.WithField("conn", c.ID).WithError(err).Info("netio: write failed, closing")
				c.Close()
				return
			}
		}
	}()
}
