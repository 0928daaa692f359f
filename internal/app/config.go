package app

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/postforge-backend/internal/pkg/logger"
	"github.com/yungbote/postforge-backend/internal/services"
	"github.com/yungbote/postforge-backend/internal/utils"
)

type Config struct {
	Port        string
	CORSOrigins []string
	FontPath    string
	SettingsTTL time.Duration

	// PromptSettings overrides the built-in prompt fragments; loaded from the
	// YAML file named by SETTINGS_FILE when present.
	PromptSettings map[string]string
}

func LoadConfig(log *logger.Logger) Config {
	cfg := Config{
		Port:        utils.GetEnv("PORT", "8080", log),
		FontPath:    utils.GetEnv("SLIDE_FONT_PATH", "assets/fonts/Inter-Regular.ttf", log),
		SettingsTTL: time.Duration(utils.GetEnvAsInt("SETTINGS_TTL_SECONDS", 300, log)) * time.Second,
	}

	if origins := utils.GetEnv("CORS_ORIGINS", "", log); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.CORSOrigins = append(cfg.CORSOrigins, o)
			}
		}
	}

	if path := utils.GetEnv("SETTINGS_FILE", "", log); path != "" {
		settings, err := loadSettingsFile(path)
		if err != nil {
			log.Warn("Could not load settings file, using built-in prompts", "path", path, "error", err)
		} else {
			cfg.PromptSettings = settings
			log.Info("Prompt settings loaded", "path", path, "keys", len(settings))
		}
	}

	return cfg
}

func loadSettingsFile(path string) (map[string]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var settings map[string]string
	if err := yaml.Unmarshal(raw, &settings); err != nil {
		return nil, fmt.Errorf("parse settings yaml: %w", err)
	}
	return settings, nil
}

// SettingsLoader builds the settings-cache loader: file-provided values win,
// built-in defaults back them.
func (c Config) SettingsLoader() services.SettingsLoader {
	return func(ctx context.Context, key string) (string, error) {
		if v, ok := c.PromptSettings[key]; ok {
			return v, nil
		}
		return services.StaticSettingsLoader(ctx, key)
	}
}
