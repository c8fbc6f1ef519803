package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/danielhkuo/runoff/ballotfile"
)

// Output formats
const (
	OutputText = "text"
	OutputJSON = "json"
)

type Config struct {
	Port         int
	DatabaseURL  string
	DatabaseType string
	AdminKeySalt string
	EnvFile      string

	InputPath    string
	InputFormat  string
	OutputFormat string
	Seed         int64
	HasSeed      bool
	PollID       string

	Serve    bool
	LogLevel slog.Level
}

// ParseFlags validates flags, loads the dotenv file and fills the rest
// from the environment
func ParseFlags(args []string) (Config, error) {
	var cfg Config
	var verbose bool

	flags := flag.NewFlagSet("runoff", flag.ContinueOnError)

	// Counting
	flags.StringVar(&cfg.InputPath, "i", "", "Ballot file (- for stdin)")
	flags.StringVar(&cfg.InputFormat, "input-format", "", "Ballot file format (text or yaml, default from extension)")
	flags.StringVar(&cfg.OutputFormat, "o", "", "Output format (text or json)")
	flags.Int64Var(&cfg.Seed, "seed", 0, "Tie-break seed (default: time based)")
	flags.StringVar(&cfg.PollID, "poll", "", "Count a stored poll instead of a file")

	// Service
	flags.BoolVar(&cfg.Serve, "serve", false, "Run the HTTP API")
	flags.IntVar(&cfg.Port, "p", 0, "Server port")
	flags.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	flags.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")
	flags.StringVar(&cfg.AdminKeySalt, "admin-salt", "", "Admin key salt (prefer env)")

	flags.StringVar(&cfg.EnvFile, "env", ".env", "Dotenv file to load")
	flags.BoolVar(&verbose, "v", false, "Debug logging")

	if err := flags.Parse(args); err != nil {
		return Config{}, err
	}
	flags.Visit(func(f *flag.Flag) {
		if f.Name == "seed" {
			cfg.HasSeed = true
		}
	})

	// Existing environment variables win over the file
	if cfg.EnvFile != "" {
		if err := godotenv.Load(cfg.EnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("failed to load %s: %w", cfg.EnvFile, err)
		}
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 3318 // default
		}
	}

	if !cfg.HasSeed {
		if seedStr := os.Getenv("TALLY_SEED"); seedStr != "" {
			seed, err := strconv.ParseInt(seedStr, 10, 64)
			if err != nil {
				return Config{}, errors.New("invalid TALLY_SEED env variable")
			}
			cfg.Seed = seed
			cfg.HasSeed = true
		}
	}

	if cfg.InputPath == "" {
		cfg.InputPath = os.Getenv("BALLOT_FILE")
	}
	if cfg.InputPath == "" {
		cfg.InputPath = "-"
	}
	if cfg.InputFormat != "" {
		if _, err := ballotfile.ParseFormat(cfg.InputFormat); err != nil {
			return Config{}, err
		}
	}

	if cfg.OutputFormat == "" {
		cfg.OutputFormat = os.Getenv("OUTPUT_FORMAT")
	}
	switch cfg.OutputFormat {
	case "":
		cfg.OutputFormat = OutputText
	case OutputText, OutputJSON:
	default:
		return Config{}, fmt.Errorf("unknown output format %q", cfg.OutputFormat)
	}

	if verbose {
		cfg.LogLevel = slog.LevelDebug
	} else if lvl := os.Getenv("LOG_LEVEL"); lvl != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(lvl)); err != nil {
			return Config{}, fmt.Errorf("invalid LOG_LEVEL env variable: %w", err)
		}
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = "sqlite"
		}
	}
	if cfg.DatabaseType != "sqlite" && cfg.DatabaseType != "postgres" {
		return Config{}, fmt.Errorf("unknown database type %q", cfg.DatabaseType)
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}

	if cfg.AdminKeySalt == "" {
		cfg.AdminKeySalt = os.Getenv("ADMIN_KEY_SALT")
	}

	if cfg.Serve && cfg.PollID != "" {
		return Config{}, errors.New("-serve and -poll cannot be combined")
	}
	if cfg.Serve || cfg.PollID != "" {
		if cfg.DatabaseURL == "" {
			return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
		}
	}
	// Secrets - MUST be provided to serve
	if cfg.Serve && cfg.AdminKeySalt == "" {
		return Config{}, errors.New("ADMIN_KEY_SALT required")
	}

	return cfg, nil
}
