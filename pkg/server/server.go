package server

import (
	"net"
	"strconv"

	"github.com/ChickenIQ/vanillago/pkg/proto"
	"github.com/ChickenIQ/vanillago/pkg/session"
)

// Listener accepts connections and bootstraps each one through the session
// phase sequence (spec.md §4.9), grounded on the teacher's
// Server.Start/handleConnection accept loop (server/server.go) generalized
// to hand off to session.Connection instead of an inline packet switch.
type Listener struct {
	World *WorldContext

	listener net.Listener
}

// Listen opens the TCP listener at world.Config.Server.Address:Port.
func (wc *WorldContext) Listen() (*Listener, error) {
	addr := net.JoinHostPort(wc.Config.Server.Address, strconv.Itoa(wc.Config.Server.Port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	return &Listener{World: wc, listener: ln}, nil
}

// Serve accepts connections until the listener is closed.
func (l *Listener) Serve() error {
	for {
		conn, err := l.listener.Accept()
		if err != nil {
			return err
		}
		go l.handle(conn)
	}
}

// Close stops accepting new connections.
func (l *Listener) Close() error {
	return l.listener.Close()
}

func (l *Listener) handle(netConn net.Conn) {
	defer netConn.Close()

	remote := netConn.RemoteAddr().String()
	log := l.World.Log.WithField("remote", remote)

	wire := proto.NewConn(netConn)
	sessConn := session.NewConnection(wire, l.World.Login, remote, l.World.Config.Network.CompressionThreshold)

	err := sessConn.Bootstrap(l.World, l.World.configurationHooks(), l.World.statusResponse)
	if err != nil {
		log.WithError(err).Debug("connection closed")
	}
}

func (wc *WorldContext) statusResponse() session.StatusResponse {
	return session.StatusResponse{
		Version:     session.StatusVersion{Name: "1.21.3", Protocol: 768},
		Players:     session.StatusPlayers{Max: wc.Config.Server.MaxPlayers, Online: 0},
		Description: wc.Config.Server.MOTD,
	}
}

func (wc *WorldContext) configurationHooks() session.ConfigurationHooks {
	return session.ConfigurationHooks{
		Brand:            "vanillago",
		SendRegistryData: wc.sendRegistryData,
	}
}
