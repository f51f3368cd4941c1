// Package marketfeed owns the transport lifecycle for an account-update
// collaborator: dialing, reconnecting and keeping alive a grpc stream
// of chain account changes. Decoding the stream payload into an
// order.Order is explicitly out of scope (spec.md §1) — that is the
// caller's job, via whatever generated client matches the chain
// program in use.
package marketfeed

import (
	"crypto/x509"
	"errors"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/keepalive"
)

var KeepaliveParams = keepalive.ClientParameters{
	Time:                10 * time.Second,
	Timeout:             time.Second,
	PermitWithoutStream: true,
}

type ConnectionConfig struct {
	Endpoint string
	Token    string
	Insecure bool
}

// Connection is a reconnectable grpc dial, the way the teacher's
// lib/geyser.Connection separates "stay connected" from "decode the
// stream" — here the latter is left to the caller entirely, since this
// module has no generated account-update client to decode with.
type Connection struct {
	Conn   *grpc.ClientConn
	Config *ConnectionConfig
}

func NewConnection() *Connection {
	return &Connection{}
}

func (c *Connection) Connect(config ConnectionConfig) error {
	var opts []grpc.DialOption

	if config.Insecure {
		opts = append(opts, grpc.WithTransportCredentials(insecure.NewCredentials()))
	} else {
		pool, _ := x509.SystemCertPool()
		tlsCredentials := credentials.NewClientTLSFromCert(pool, "")
		opts = append(opts, grpc.WithTransportCredentials(tlsCredentials), grpc.WithKeepaliveParams(KeepaliveParams))
	}

	conn, err := grpc.Dial(config.Endpoint, opts...)
	if err != nil {
		return err
	}
	c.Config = &config
	c.Conn = conn
	return nil
}

func (c *Connection) Reconnect() error {
	if c.Config == nil {
		return errors.New("marketfeed: no connection configured")
	}
	c.Close()
	return c.Connect(*c.Config)
}

func (c *Connection) GetState() string {
	if c.Conn == nil {
		return "INVALID_STATE"
	}
	return c.Conn.GetState().String()
}

func (c *Connection) IsConnected() bool {
	state := c.GetState()
	return state == "READY" || state == "CONNECTING"
}

// Raw exposes the underlying connection for a caller that has the
// chain-specific generated client this package does not carry.
func (c *Connection) Raw() *grpc.ClientConn {
	return c.Conn
}

func (c *Connection) Close() {
	if c.Conn != nil {
		_ = c.Conn.Close()
		c.Conn = nil
	}
}
