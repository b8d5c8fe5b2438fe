package runtimemodule

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// I18nFactory exports the translation table read from the configured i18n
// source file. A missing file yields an empty table.
func I18nFactory(_ context.Context, fc *FactoryContext) (SourceMap, error) {
	table := map[string]map[string]string{}
	if fc.Config != nil && fc.Config.I18nSourcePath != "" {
		p := fc.Config.ResolvePath(fc.Config.I18nSourcePath)
		data, err := os.ReadFile(filepath.Clean(p))
		switch {
		case os.IsNotExist(err):
		case err != nil:
			return nil, fmt.Errorf("read i18n source %s: %w", p, err)
		default:
			if err := json.Unmarshal(data, &table); err != nil {
				return nil, fmt.Errorf("parse i18n source %s: %w", p, err)
			}
		}
	}

	src, err := exportDefault(table)
	if err != nil {
		return nil, err
	}
	return SourceMap{I18nText.String(): src}, nil
}
