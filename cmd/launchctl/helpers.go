package main

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	service "github.com/okian/launchdash/internal/app"
	"github.com/okian/launchdash/internal/config"
	"github.com/okian/launchdash/pkg/logger"
)

// openService loads the configuration and starts a service over the
// configured dataset. Callers must Stop it.
func openService(ctx context.Context, g *globalFlags) (*service.Service, *config.Config, error) {
	cfg, err := config.LoadFrom(ctx, g.configPath)
	if err != nil {
		return nil, nil, err
	}
	if g.dataPath != "" {
		cfg.DataPath = g.dataPath
	}
	svc := service.New(
		service.WithLogger(logger.Get().Named("service")),
		service.WithDataPath(cfg.DataPath),
		service.WithSliderStep(cfg.SliderStep),
		service.WithTitle(cfg.Title),
	)
	if err := svc.Start(ctx); err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", cfg.DataPath, err)
	}
	return svc, cfg, nil
}

// slug turns a site name into a file name fragment: "CCAFS LC-40" -> "ccafs-lc-40".
func slug(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimRight(b.String(), "-")
}
