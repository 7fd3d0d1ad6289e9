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

	"github.com/theoremus-urban-solutions/metro-pacman/config"
	"github.com/theoremus-urban-solutions/metro-pacman/game"
	"github.com/theoremus-urban-solutions/metro-pacman/geocode"
	"github.com/theoremus-urban-solutions/metro-pacman/ingest"
	"github.com/theoremus-urban-solutions/metro-pacman/internal"
	"github.com/theoremus-urban-solutions/metro-pacman/livefeed"
	"github.com/theoremus-urban-solutions/metro-pacman/render"
	"github.com/theoremus-urban-solutions/metro-pacman/server"
	"github.com/theoremus-urban-solutions/metro-pacman/transit"
)

// live vehicles further than this from the city center are ignored
const liveFeedRadiusMeters = 25000.0

type options struct {
	mode          string
	configPath    string
	cityName      string
	linesPath     string
	stationsPath  string
	home          string
	schematic     bool
	out           string
	width, height int
}

func main() {
	var o options
	flag.StringVar(&o.mode, "mode", "play", "serve|play|render")
	flag.StringVar(&o.configPath, "config", "", "config file (default: config.yml or ./configs/config.yml)")
	flag.StringVar(&o.cityName, "city", "", "city name from config.cities[] or the built-in list")
	flag.StringVar(&o.linesPath, "lines", "", "saved Overpass route response (offline mode)")
	flag.StringVar(&o.stationsPath, "stations", "", "saved Overpass node response (offline mode)")
	flag.StringVar(&o.home, "home", "", "home coordinate as lat,lon (default: city center)")
	flag.BoolVar(&o.schematic, "schematic", false, "start in pursuit mode on the schematic map")
	flag.StringVar(&o.out, "out", "map.png", "output file for -mode=render")
	flag.IntVar(&o.width, "width", 1600, "render width in pixels")
	flag.IntVar(&o.height, "height", 1200, "render height in pixels")
	flag.Parse()

	internal.InitLogging()

	if err := run(o); err != nil {
		log.Fatal(err)
	}
}

// run owns every resource it opens, so deferred cleanup runs before main exits
func run(o options) error {
	switch o.mode {
	case "serve", "play", "render":
	default:
		return fmt.Errorf("unknown mode %q", o.mode)
	}

	cfg, err := loadConfig(o.configPath)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	city := cfg.SelectCity(o.cityName)
	log.Printf("playing in %s", city.Name)

	src, closeSrc, err := newSource(cfg, city, o.linesPath, o.stationsPath)
	if err != nil {
		return fmt.Errorf("source: %w", err)
	}
	defer closeSrc()

	timeout := 2 * time.Duration(cfg.Overpass.TimeoutMS) * time.Millisecond
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	g, _, err := ingest.Load(ctx, src)
	cancel()
	if err != nil {
		return fmt.Errorf("load %s: %w", city.Name, err)
	}

	opts, err := gameOptions(cfg, city, o.home, o.schematic)
	if err != nil {
		return fmt.Errorf("game: %w", err)
	}
	opts.GhostSpawns = liveSpawns(cfg.LiveFeed.VehiclePositions, city)

	var geocoder *geocode.Client
	if cfg.Geocoder.APIKey != "" {
		geocoder = geocode.NewClient(cfg.Geocoder.Endpoint, cfg.Geocoder.APIKey, city.Name, cfg.Geocoder.CacheSize)
	}

	switch o.mode {
	case "serve":
		return serve(cfg, g, opts, geocoder)
	case "play":
		var resolver addressResolver
		if geocoder != nil {
			resolver = geocoder
		}
		s, err := newSession(g, opts, resolver, os.Stdout)
		if err != nil {
			return fmt.Errorf("game: %w", err)
		}
		if err := s.run(os.Stdin); err != nil {
			return fmt.Errorf("play: %w", err)
		}
		return nil
	default:
		if err := renderMap(g, opts, o.out, o.width, o.height); err != nil {
			return fmt.Errorf("render: %w", err)
		}
		log.Printf("map written to %s", o.out)
		return nil
	}
}

func loadConfig(path string) (*config.AppConfig, error) {
	if path != "" {
		return config.Load(path)
	}
	if err := config.LoadAppConfig(); err != nil {
		return nil, err
	}
	return &config.Config, nil
}

func gameOptions(cfg *config.AppConfig, city config.City, homeFlag string, schematic bool) (game.Options, error) {
	mode, err := game.ParseMode(cfg.Game.StartMode)
	if err != nil {
		return game.Options{}, err
	}
	if schematic {
		mode = game.ModePursuit
	}
	home := transit.Coordinate{Lat: city.Lat, Lon: city.Lon}
	if homeFlag != "" {
		if home, err = parseCoordinate(homeFlag); err != nil {
			return game.Options{}, err
		}
	}
	seed := cfg.Game.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return game.Options{
		Home:             home,
		Mode:             mode,
		Lives:            cfg.Game.Lives,
		FruitBonus:       cfg.Game.FruitBonus,
		StationsPerGhost: cfg.Game.StationsPerGhost,
		StationsPerFruit: cfg.Game.StationsPerFruit,
		Seed:             seed,
	}, nil
}

func liveSpawns(urlOrPath string, city config.City) []transit.Coordinate {
	if urlOrPath == "" {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	vehicles, err := livefeed.NewClient().Vehicles(ctx, urlOrPath)
	if err != nil {
		log.Printf("Warning: live vehicle positions unavailable: %v", err)
		return nil
	}
	near := livefeed.Within(vehicles, transit.Coordinate{Lat: city.Lat, Lon: city.Lon}, liveFeedRadiusMeters)
	log.Printf("%d of %d live vehicles near %s", len(near), len(vehicles), city.Name)
	return livefeed.Positions(near)
}

func serve(cfg *config.AppConfig, g *transit.Graph, opts game.Options, geocoder *geocode.Client) error {
	var options []server.Option
	if geocoder != nil {
		options = append(options, server.WithGeocoder(geocoder))
	}
	if len(cfg.Server.AllowedOrigins) > 0 {
		options = append(options, server.WithAllowedOrigins(cfg.Server.AllowedOrigins...))
	}
	s, err := server.New(g, opts, options...)
	if err != nil {
		return fmt.Errorf("server: %w", err)
	}
	s.Start(cfg.Server.Port)

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	log.Printf("shutdown signal received")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	log.Printf("server shut down successfully")
	return nil
}

func renderMap(g *transit.Graph, opts game.Options, path string, w, h int) error {
	e, err := game.New(g, opts)
	if err != nil {
		return err
	}
	scene, err := render.BuildScene(g, e.Snapshot())
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := render.DrawPNG(scene, w, h, f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
