package singleinstance

import (
	"bufio"
	"log"
	"net"
	"time"
)

const (
	pingRequest  = "PING\n"
	pongResponse = "PONG\n"
	showRequest  = "SHOW\n"
	okResponse   = "OK\n"
	errResponse  = "ERROR\n"
)

func (i *Instance) acceptLoop() {
	defer close(i.done)
	for {
		c, err := i.lis.Accept()
		if err != nil {
			return
		}
		i.handle(c)
	}
}

// handle answers one line-oriented request. Requests are tiny, so they are
// served inline on the accept goroutine.
func (i *Instance) handle(c net.Conn) {
	defer c.Close()
	remote := c.RemoteAddr().String()
	_ = c.SetDeadline(time.Now().Add(3 * time.Second))

	line, err := bufio.NewReader(c).ReadString('\n')
	if err != nil {
		log.Printf("singleinstance: read from %s: %v", remote, err)
		return
	}
	bw := bufio.NewWriter(c)
	switch line {
	case pingRequest:
		log.Printf("singleinstance: PING from %s -> PONG", remote)
		_, _ = bw.WriteString(pongResponse)
	case showRequest:
		log.Printf("singleinstance: SHOW from %s", remote)
		if fn := i.showCallback(); fn != nil {
			fn()
		}
		_, _ = bw.WriteString(okResponse)
	default:
		log.Printf("singleinstance: unknown request %q from %s", line, remote)
		_, _ = bw.WriteString(errResponse)
	}
	_ = bw.Flush()
}
