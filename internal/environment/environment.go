package environment

// ID identifies a single build-variant environment.
type ID string

// Built-in environment identifiers. The build system produces one artifact
// per identifier; additional identifiers can be declared at registry
// construction time.
const (
	Dev  ID = "dev"
	UAT  ID = "uat"
	Prod ID = "prod"
)

// Config is the immutable configuration bundle associated with one
// environment. Settings carries arbitrary per-environment key/value pairs
// beyond the two fields every environment must define.
type Config struct {
	DisplayName string
	BaseURL     string
	Settings    map[string]string
}

var builtinConfigs = map[ID]Config{
	Dev: {
		DisplayName: "Development",
		BaseURL:     "https://dev.example.com",
	},
	UAT: {
		DisplayName: "Staging",
		BaseURL:     "https://staging.example.com",
	},
	Prod: {
		DisplayName: "Production",
		BaseURL:     "https://prod.example.com",
	},
}

// BuiltinIDs returns the identifiers every registry knows out of the box.
func BuiltinIDs() []ID {
	return []ID{Dev, UAT, Prod}
}

func cloneConfig(cfg Config) Config {
	out := Config{
		DisplayName: cfg.DisplayName,
		BaseURL:     cfg.BaseURL,
	}
	if len(cfg.Settings) > 0 {
		out.Settings = make(map[string]string, len(cfg.Settings))
		for k, v := range cfg.Settings {
			out.Settings[k] = v
		}
	}
	return out
}
