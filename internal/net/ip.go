package net

import (
	"fmt"
	"log"
	"net"
	"strconv"
)

// OutgoingIP finds the LAN address other devices should use to reach us.
func OutgoingIP() string {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		// No route out, so look at the interfaces instead.
		return localIPFallback()
	}
	defer conn.Close()
	return conn.LocalAddr().(*net.UDPAddr).IP.String()
}

func localIPFallback() string {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		log.Printf("[NET] listing interfaces: %v", err)
		return "127.0.0.1"
	}
	for _, address := range addrs {
		if ipnet, ok := address.(*net.IPNet); ok && !ipnet.IP.IsLoopback() && ipnet.IP.To4() != nil {
			return ipnet.IP.String()
		}
	}
	log.Println("[NET] no LAN address found, share URL will use loopback")
	return "127.0.0.1"
}

// ListenPort extracts the port from a listen address such as ":8888".
func ListenPort(addr string) (int, error) {
	_, p, err := net.SplitHostPort(addr)
	if err != nil {
		return 0, fmt.Errorf("listen address %q: %w", addr, err)
	}
	port, err := strconv.Atoi(p)
	if err != nil {
		return 0, fmt.Errorf("listen port %q: %w", p, err)
	}
	return port, nil
}

// ShareURL is the websocket URL a client on the LAN dials.
func ShareURL(port int) string {
	return fmt.Sprintf("ws://%s%s", net.JoinHostPort(OutgoingIP(), strconv.Itoa(port)), wsPath)
}
