package singleinstance

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"strconv"
	"time"
)

// Ping reports whether a resident answers on port.
func Ping(ctx context.Context, port int) bool {
	resp, err := request(ctx, port, pingRequest)
	return err == nil && resp == pongResponse
}

// NotifyResident asks the resident on port to show its overlay.
func NotifyResident(ctx context.Context, port int) error {
	resp, err := request(ctx, port, showRequest)
	if err != nil {
		return err
	}
	if resp != okResponse {
		return fmt.Errorf("resident on port %d answered %q", port, resp)
	}
	return nil
}

func request(ctx context.Context, port int, line string) (string, error) {
	deadline := 2 * time.Second
	if dl, ok := ctx.Deadline(); ok {
		if d := time.Until(dl); d > 0 {
			deadline = d
		}
	}
	addr := net.JoinHostPort(residentHost, strconv.Itoa(port))
	d := net.Dialer{Timeout: deadline}
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return "", err
	}
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(deadline))

	w := bufio.NewWriter(conn)
	if _, err := w.WriteString(line); err != nil {
		return "", err
	}
	if err := w.Flush(); err != nil {
		return "", err
	}
	return bufio.NewReader(conn).ReadString('\n')
}
