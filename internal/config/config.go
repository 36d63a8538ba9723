package config

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// DefaultPath is used when --config is not given.
const DefaultPath = "./xsearch.yaml"

// Config is the application's configuration model.
type Config struct {
	Credentials CredentialsConfig   `yaml:"credentials"`
	API         APIConfig           `yaml:"api"`
	Output      OutputConfig        `yaml:"output"`
	Metrics     MetricsConfig       `yaml:"metrics"`
	Presets     map[string][]string `yaml:"presets"`
}

type CredentialsConfig struct {
	// X API app-only bearer token. If empty, read from env X_BEARER_TOKEN, then TWITTER_BEARER_TOKEN
	BearerToken string `yaml:"bearerToken"`
}

type APIConfig struct {
	BaseURL        string `yaml:"baseURL"`
	TimeoutSeconds int    `yaml:"timeoutSeconds"`
	// Attempts per request for network errors and 5xx responses
	MaxAttempts   int `yaml:"maxAttempts"`
	BaseBackoffMs int `yaml:"baseBackoffMs"`
	// Client-side request pacing
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

type OutputConfig struct {
	Dir    string `yaml:"dir"`
	Prefix string `yaml:"prefix"`
	// csv, xlsx, json or sqlite
	Format string `yaml:"format"`
}

type MetricsConfig struct {
	// Node-exporter textfile written after each run; empty disables it
	Textfile string `yaml:"textfile"`
}

// Default returns a sensible default configuration.
func Default() Config {
	return Config{
		API: APIConfig{
			BaseURL:        "https://api.twitter.com/2",
			TimeoutSeconds: 15,
			MaxAttempts:    5,
			BaseBackoffMs:  500,
			RPS:            2,
			Burst:          10,
		},
		Output: OutputConfig{Dir: "data", Prefix: "tweets", Format: "csv"},
		Presets: map[string][]string{
			"fabry": {
				"#Fabry", "#FabryDisease", "#FabryAwareness", "#FabryHeroes", "#LivingWithFabry",
				"#FabryTreatment", "#FabryCommunity", "#EnfermedadDeFabry", "#FabryEspañol", "#FabryLatAm",
				"#DiagnósticoPrecozFabry", "#TratamientoFabry", "#VisibilidadFabry", "#VidaConFabry",
				"#HéroesFabry", "#MesDeConcienciaciónFabry", "#GenéticaFabry",
			},
			"glp1": {
				"#GLP1", "#GLP-1", "#Semaglutide", "#Ozempic", "#Wegovy", "#Mounjaro", "#Obesity",
				"#WeightLossJourney", "#ObesityTreatment", "#WeightManagement", "#GLP1Drugs",
				"#GLP1Medications", "#Obesidad", "#SaludMetabólica", "#EfectosSecundariosGLP1",
				"#MedicamentosObesidad",
			},
		},
	}
}

// ResolveEnv fills in config fields from environment variables if not set.
// Tuning variables override the file when they parse.
func (c *Config) ResolveEnv() {
	if c.Credentials.BearerToken == "" {
		c.Credentials.BearerToken = os.Getenv("X_BEARER_TOKEN")
	}
	if c.Credentials.BearerToken == "" {
		c.Credentials.BearerToken = os.Getenv("TWITTER_BEARER_TOKEN")
	}
	if v, err := strconv.Atoi(os.Getenv("X_API_MAX_ATTEMPTS")); err == nil && v > 0 {
		c.API.MaxAttempts = v
	}
	if v, err := strconv.Atoi(os.Getenv("X_API_BASE_BACKOFF_MS")); err == nil && v > 0 {
		c.API.BaseBackoffMs = v
	}
	if v, err := strconv.ParseFloat(os.Getenv("X_API_RPS"), 64); err == nil && v > 0 {
		c.API.RPS = v
	}
	if v, err := strconv.Atoi(os.Getenv("X_API_BURST")); err == nil && v > 0 {
		c.API.Burst = v
	}
}

// Load reads YAML config from path on top of Default.
// A missing file is not an error: defaults plus environment are returned.
func Load(path string) (Config, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return cfg, err
	}
	if err == nil {
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	}
	cfg.ResolveEnv()
	return cfg, nil
}

// Save writes YAML config to path, creating directories as needed.
func Save(path string, cfg Config) error {
	if path == "" {
		return errors.New("empty path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	b, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}
