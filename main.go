package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/melikestuff/CMPM121-D2/internal/config"
	"github.com/melikestuff/CMPM121-D2/internal/engine"
	sknet "github.com/melikestuff/CMPM121-D2/internal/net"
	"github.com/melikestuff/CMPM121-D2/internal/raster"
	"github.com/melikestuff/CMPM121-D2/internal/ui"
)

func main() {
	configPath := flag.String("config", "sketchpad.toml", "TOML settings file (missing file uses defaults)")
	headless := flag.Bool("headless", false, "serve the sketchpad over websocket instead of opening a window")
	addr := flag.String("addr", "", "listen address for -headless (overrides [server] addr)")
	mdns := flag.Bool("mdns", false, "advertise the headless host on the LAN")
	discover := flag.Bool("discover", false, "list sketchpad hosts on the LAN and exit")
	flag.Parse()

	if *discover {
		runDiscover()
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if *mdns {
		cfg.Server.MDNS = true
	}

	glyphs, err := raster.LoadGlyphSet(cfg.Font.Path)
	if err != nil {
		log.Fatalf("Failed to load sticker font: %v", err)
	}
	e, err := engine.New(cfg.Canvas.Width, cfg.Canvas.Height, glyphs)
	if err != nil {
		log.Fatalf("Failed to create sketchpad: %v", err)
	}

	if *headless {
		runHost(e, cfg)
		return
	}
	log.Println("Starting desktop sketchpad")
	ui.RunApp(e, cfg, *configPath)
}

func runHost(e *engine.Engine, cfg config.Config) {
	log.Println("Starting as HEADLESS HOST")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tool := engine.DefaultTool()
	tool.Color = cfg.DefaultInk()
	if len(cfg.Tools.Thicknesses) > 0 {
		tool.Thickness = cfg.Tools.Thicknesses[0]
	}
	if len(cfg.Tools.Stickers) > 0 {
		tool.Glyph = cfg.Tools.Stickers[0]
	}
	host := sknet.NewHost(e, sknet.Options{ExportScale: cfg.Export.Scale, Tool: tool})

	port, err := sknet.ListenPort(cfg.Server.Addr)
	if err != nil {
		log.Fatalf("Bad listen address: %v", err)
	}
	if cfg.Server.MDNS {
		server, err := sknet.Advertise(port)
		if err != nil {
			log.Printf("[MDNS] not advertising: %v", err)
		} else {
			defer server.Shutdown()
			log.Printf("[MDNS] advertising on port %d", port)
		}
	}
	log.Printf("Share this link: %s", sknet.ShareURL(port))

	if err := host.ListenAndServe(ctx, cfg.Server.Addr); err != nil {
		log.Fatalf("Host stopped: %v", err)
	}
	log.Println("Host shut down")
}

func runDiscover() {
	log.Println("Looking for sketchpad hosts...")
	count := 0
	err := sknet.Browse(3*time.Second, func(addr string) {
		count++
		fmt.Printf("ws://%s/ws\n", addr)
	})
	if err != nil {
		log.Fatalf("Discovery failed: %v", err)
	}
	if count == 0 {
		log.Println("No hosts found")
	}
}
