package config

// ServerConfig contains server configuration
type ServerConfig struct {
	Port           int      `yaml:"port" validate:"gt=0,lte=65535"`
	AllowedOrigins []string `yaml:"allowedOrigins"`
}

// OverpassConfig contains line and station source configuration
type OverpassConfig struct {
	Endpoint      string `yaml:"endpoint" validate:"omitempty,url"`
	TimeoutMS     int    `yaml:"timeoutMS" validate:"gte=0"`
	CacheTTLHours int    `yaml:"cacheTTLHours" validate:"gte=0"`
}

// GeocoderConfig contains OpenCage configuration
type GeocoderConfig struct {
	Endpoint  string `yaml:"endpoint" validate:"omitempty,url"`
	APIKey    string `yaml:"apiKey"`
	CacheSize int    `yaml:"cacheSize" validate:"gte=0"`
}

// CacheConfig locates the payload cache database. An empty path disables it.
type CacheConfig struct {
	Path string `yaml:"path"`
}

// GameConfig contains game rule tuning
type GameConfig struct {
	Lives            int    `yaml:"lives" validate:"gte=0"`
	FruitBonus       int    `yaml:"fruitBonus" validate:"gte=0"`
	StationsPerGhost int    `yaml:"stationsPerGhost" validate:"gte=0"`
	StationsPerFruit int    `yaml:"stationsPerFruit" validate:"gte=0"`
	Seed             int64  `yaml:"seed"` // 0 seeds from the clock
	StartMode        string `yaml:"startMode" validate:"omitempty,oneof=free-roam pursuit"`
}

// LiveFeedConfig points at an optional GTFS-Realtime VehiclePositions feed,
// given as an http(s) URL or a local file path
type LiveFeedConfig struct {
	VehiclePositions string `yaml:"vehiclePositions"`
}

// City is a playable area
type City struct {
	Name        string  `yaml:"name" validate:"required"`
	Lat         float64 `yaml:"lat" validate:"gte=-90,lte=90"`
	Lon         float64 `yaml:"lon" validate:"gte=-180,lte=180"`
	BoundingBox string  `yaml:"boundingBox" validate:"required"` // "(south,west,north,east)"
}

// AppConfig is the root configuration structure
type AppConfig struct {
	Server   ServerConfig   `yaml:"server" validate:"required"`
	Overpass OverpassConfig `yaml:"overpass"`
	Geocoder GeocoderConfig `yaml:"geocoder"`
	Cache    CacheConfig    `yaml:"cache"`
	Game     GameConfig     `yaml:"game"`
	LiveFeed LiveFeedConfig `yaml:"liveFeed"`
	City     string         `yaml:"city"`
	Cities   []City         `yaml:"cities" validate:"dive"`
}
